package services

import (
	"context"

	"github.com/yungbote/facilitator-console/internal/apiclient"
	"github.com/yungbote/facilitator-console/internal/domain"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/query"
)

type CourseService interface {
	List(ctx context.Context, filters Filters) (*domain.Page[domain.Course], error)
	// Get returns nil without a request when id is blank.
	Get(ctx context.Context, id string) (*domain.Course, error)
	Create(ctx context.Context, p domain.CoursePayload) (*domain.Course, error)
	Update(ctx context.Context, id string, p domain.CoursePayload) (*domain.Course, error)
	Delete(ctx context.Context, id string) error
}

type courseService struct {
	log   *logger.Logger
	api   API
	cache *query.Cache
}

func NewCourseService(log *logger.Logger, api API, cache *query.Cache) CourseService {
	return &courseService{log: log.With("service", "CourseService"), api: api, cache: cache}
}

func (s *courseService) List(ctx context.Context, filters Filters) (*domain.Page[domain.Course], error) {
	page, _, err := query.Fetch(ctx, s.cache, query.Read{Resource: ResourceCourses, Filters: filters},
		func(ctx context.Context) (domain.Page[domain.Course], error) {
			var out domain.Page[domain.Course]
			err := s.api.Get(ctx, apiclient.WithQuery(collection(ResourceCourses), filters), &out)
			return out, err
		})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *courseService) Get(ctx context.Context, id string) (*domain.Course, error) {
	course, ok, err := query.Fetch(ctx, s.cache, query.Read{Resource: ResourceCourses, ID: id, RequireID: true},
		func(ctx context.Context) (domain.Course, error) {
			var out domain.Course
			err := s.api.Get(ctx, member(ResourceCourses, id), &out)
			return out, err
		})
	if err != nil || !ok {
		return nil, err
	}
	return &course, nil
}

func (s *courseService) Create(ctx context.Context, p domain.CoursePayload) (*domain.Course, error) {
	course, err := query.Mutate(ctx, s.cache, query.Write{Resource: ResourceCourses, Related: []string{ResourceDashboard}},
		func(ctx context.Context) (domain.Course, error) {
			var out domain.Course
			err := s.api.Post(ctx, collection(ResourceCourses), p, &out)
			return out, err
		})
	if err != nil {
		return nil, err
	}
	s.log.Info("course created", "course_id", course.ID.String())
	return &course, nil
}

func (s *courseService) Update(ctx context.Context, id string, p domain.CoursePayload) (*domain.Course, error) {
	course, err := query.Mutate(ctx, s.cache, query.Write{Resource: ResourceCourses, ID: id},
		func(ctx context.Context) (domain.Course, error) {
			var out domain.Course
			err := s.api.Put(ctx, member(ResourceCourses, id), p, &out)
			return out, err
		})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *courseService) Delete(ctx context.Context, id string) error {
	_, err := query.Mutate(ctx, s.cache, query.Write{Resource: ResourceCourses, ID: id, Related: []string{ResourceDashboard}},
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.api.Delete(ctx, member(ResourceCourses, id), nil)
		})
	return err
}
