package services

import (
	"context"

	"github.com/yungbote/facilitator-console/internal/domain"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/query"
)

type CategoryService interface {
	List(ctx context.Context) ([]domain.CourseCategory, error)
}

type categoryService struct {
	log   *logger.Logger
	api   API
	cache *query.Cache
}

func NewCategoryService(log *logger.Logger, api API, cache *query.Cache) CategoryService {
	return &categoryService{log: log.With("service", "CategoryService"), api: api, cache: cache}
}

func (s *categoryService) List(ctx context.Context) ([]domain.CourseCategory, error) {
	page, _, err := query.Fetch(ctx, s.cache, query.Read{Resource: ResourceCategories},
		func(ctx context.Context) (domain.Page[domain.CourseCategory], error) {
			var out domain.Page[domain.CourseCategory]
			err := s.api.Get(ctx, collection(ResourceCategories), &out)
			return out, err
		})
	if err != nil {
		s.log.Warn("category list failed", "error", err)
		return nil, err
	}
	return page.Results, nil
}
