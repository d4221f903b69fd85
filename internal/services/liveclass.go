package services

import (
	"context"
	"time"

	"github.com/yungbote/facilitator-console/internal/apiclient"
	"github.com/yungbote/facilitator-console/internal/domain"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/query"
)

// LiveClassService writes through multipart so a material file can ride along.
type LiveClassService interface {
	List(ctx context.Context, filters Filters) (*domain.Page[domain.LiveClass], error)
	Get(ctx context.Context, id string) (*domain.LiveClass, error)
	Create(ctx context.Context, in domain.LiveClassInput) (*domain.LiveClass, error)
	Update(ctx context.Context, id string, in domain.LiveClassInput) (*domain.LiveClass, error)
	Delete(ctx context.Context, id string) error
}

type liveClassService struct {
	log   *logger.Logger
	api   API
	cache *query.Cache
}

func NewLiveClassService(log *logger.Logger, api API, cache *query.Cache) LiveClassService {
	return &liveClassService{log: log.With("service", "LiveClassService"), api: api, cache: cache}
}

func liveClassMultipart(in domain.LiveClassInput) *apiclient.Multipart {
	m := apiclient.NewMultipart().
		FieldIf("title", in.Title).
		Field("course", in.Course).
		Field("start_time", in.StartTime.UTC().Format(time.RFC3339)).
		Field("end_time", in.EndTime.UTC().Format(time.RFC3339)).
		Field("meeting_link", in.MeetingLink).
		FieldIf("provider", string(in.Provider))
	if in.Material != nil {
		m.File("material", in.Material.Filename, in.Material.ContentType, in.Material.Content)
	}
	return m
}

func (s *liveClassService) List(ctx context.Context, filters Filters) (*domain.Page[domain.LiveClass], error) {
	page, _, err := query.Fetch(ctx, s.cache, query.Read{Resource: ResourceLiveClasses, Filters: filters},
		func(ctx context.Context) (domain.Page[domain.LiveClass], error) {
			var out domain.Page[domain.LiveClass]
			err := s.api.Get(ctx, apiclient.WithQuery(collection(ResourceLiveClasses), filters), &out)
			return out, err
		})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *liveClassService) Get(ctx context.Context, id string) (*domain.LiveClass, error) {
	lc, ok, err := query.Fetch(ctx, s.cache, query.Read{Resource: ResourceLiveClasses, ID: id, RequireID: true},
		func(ctx context.Context) (domain.LiveClass, error) {
			var out domain.LiveClass
			err := s.api.Get(ctx, member(ResourceLiveClasses, id), &out)
			return out, err
		})
	if err != nil || !ok {
		return nil, err
	}
	return &lc, nil
}

func (s *liveClassService) Create(ctx context.Context, in domain.LiveClassInput) (*domain.LiveClass, error) {
	m := liveClassMultipart(in)
	lc, err := query.Mutate(ctx, s.cache, query.Write{Resource: ResourceLiveClasses, Related: []string{ResourceDashboard}},
		func(ctx context.Context) (domain.LiveClass, error) {
			var out domain.LiveClass
			err := s.api.PostMultipart(ctx, collection(ResourceLiveClasses), m, &out)
			return out, err
		})
	if err != nil {
		return nil, err
	}
	s.log.Info("live class scheduled", "live_class_id", lc.ID.String(), "provider", string(in.Provider))
	return &lc, nil
}

func (s *liveClassService) Update(ctx context.Context, id string, in domain.LiveClassInput) (*domain.LiveClass, error) {
	m := liveClassMultipart(in)
	lc, err := query.Mutate(ctx, s.cache, query.Write{Resource: ResourceLiveClasses, ID: id, Related: []string{ResourceDashboard}},
		func(ctx context.Context) (domain.LiveClass, error) {
			var out domain.LiveClass
			err := s.api.PatchMultipart(ctx, member(ResourceLiveClasses, id), m, &out)
			return out, err
		})
	if err != nil {
		return nil, err
	}
	return &lc, nil
}

func (s *liveClassService) Delete(ctx context.Context, id string) error {
	_, err := query.Mutate(ctx, s.cache, query.Write{Resource: ResourceLiveClasses, ID: id, Related: []string{ResourceDashboard}},
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.api.Delete(ctx, member(ResourceLiveClasses, id), nil)
		})
	return err
}
