package services

import (
	"context"

	"github.com/yungbote/facilitator-console/internal/apiclient"
	"github.com/yungbote/facilitator-console/internal/domain"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/query"
)

type StudentService interface {
	List(ctx context.Context, filters Filters) (*domain.Page[domain.Student], error)
	Get(ctx context.Context, id string) (*domain.Student, error)
	Update(ctx context.Context, id string, p domain.StudentPatch) (*domain.Student, error)
}

type studentService struct {
	log   *logger.Logger
	api   API
	cache *query.Cache
}

func NewStudentService(log *logger.Logger, api API, cache *query.Cache) StudentService {
	return &studentService{log: log.With("service", "StudentService"), api: api, cache: cache}
}

func (s *studentService) List(ctx context.Context, filters Filters) (*domain.Page[domain.Student], error) {
	page, _, err := query.Fetch(ctx, s.cache, query.Read{Resource: ResourceStudents, Filters: filters},
		func(ctx context.Context) (domain.Page[domain.Student], error) {
			var out domain.Page[domain.Student]
			err := s.api.Get(ctx, apiclient.WithQuery(collection(ResourceStudents), filters), &out)
			return out, err
		})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *studentService) Get(ctx context.Context, id string) (*domain.Student, error) {
	st, ok, err := query.Fetch(ctx, s.cache, query.Read{Resource: ResourceStudents, ID: id, RequireID: true},
		func(ctx context.Context) (domain.Student, error) {
			var out domain.Student
			err := s.api.Get(ctx, member(ResourceStudents, id), &out)
			return out, err
		})
	if err != nil || !ok {
		return nil, err
	}
	return &st, nil
}

func (s *studentService) Update(ctx context.Context, id string, p domain.StudentPatch) (*domain.Student, error) {
	st, err := query.Mutate(ctx, s.cache, query.Write{Resource: ResourceStudents, ID: id},
		func(ctx context.Context) (domain.Student, error) {
			var out domain.Student
			err := s.api.Patch(ctx, member(ResourceStudents, id), p, &out)
			return out, err
		})
	if err != nil {
		return nil, err
	}
	s.log.Info("student updated", "student_id", id)
	return &st, nil
}
