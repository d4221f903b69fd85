package services

import (
	"context"

	"github.com/yungbote/facilitator-console/internal/apiclient"
	"github.com/yungbote/facilitator-console/internal/domain"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/query"
)

type LibraryService interface {
	List(ctx context.Context, filters Filters) (*domain.Page[domain.CourseLibraryItem], error)
	Get(ctx context.Context, id string) (*domain.CourseLibraryItem, error)
	Create(ctx context.Context, in domain.LibraryItemInput) (*domain.CourseLibraryItem, error)
	Delete(ctx context.Context, id string) error
}

type libraryService struct {
	log   *logger.Logger
	api   API
	cache *query.Cache
}

func NewLibraryService(log *logger.Logger, api API, cache *query.Cache) LibraryService {
	return &libraryService{log: log.With("service", "LibraryService"), api: api, cache: cache}
}

func (s *libraryService) List(ctx context.Context, filters Filters) (*domain.Page[domain.CourseLibraryItem], error) {
	page, _, err := query.Fetch(ctx, s.cache, query.Read{Resource: ResourceLibrary, Filters: filters},
		func(ctx context.Context) (domain.Page[domain.CourseLibraryItem], error) {
			var out domain.Page[domain.CourseLibraryItem]
			err := s.api.Get(ctx, apiclient.WithQuery(collection(ResourceLibrary), filters), &out)
			return out, err
		})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *libraryService) Get(ctx context.Context, id string) (*domain.CourseLibraryItem, error) {
	it, ok, err := query.Fetch(ctx, s.cache, query.Read{Resource: ResourceLibrary, ID: id, RequireID: true},
		func(ctx context.Context) (domain.CourseLibraryItem, error) {
			var out domain.CourseLibraryItem
			err := s.api.Get(ctx, member(ResourceLibrary, id), &out)
			return out, err
		})
	if err != nil || !ok {
		return nil, err
	}
	return &it, nil
}

func (s *libraryService) Create(ctx context.Context, in domain.LibraryItemInput) (*domain.CourseLibraryItem, error) {
	m := apiclient.NewMultipart().
		Field("title", in.Title).
		Field("course", in.Course).
		FieldIf("url", in.URL)
	if in.File != nil {
		m.File("file", in.File.Filename, in.File.ContentType, in.File.Content)
	}
	it, err := query.Mutate(ctx, s.cache, query.Write{Resource: ResourceLibrary},
		func(ctx context.Context) (domain.CourseLibraryItem, error) {
			var out domain.CourseLibraryItem
			err := s.api.PostMultipart(ctx, collection(ResourceLibrary), m, &out)
			return out, err
		})
	if err != nil {
		return nil, err
	}
	s.log.Info("library item created", "item_id", it.ID.String(), "course", in.Course)
	return &it, nil
}

func (s *libraryService) Delete(ctx context.Context, id string) error {
	_, err := query.Mutate(ctx, s.cache, query.Write{Resource: ResourceLibrary, ID: id},
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.api.Delete(ctx, member(ResourceLibrary, id), nil)
		})
	return err
}
