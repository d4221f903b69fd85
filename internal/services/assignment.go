package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/yungbote/facilitator-console/internal/apiclient"
	"github.com/yungbote/facilitator-console/internal/domain"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/query"
)

type AssignmentService interface {
	List(ctx context.Context, filters Filters) (*domain.Page[domain.Assignment], error)
	Get(ctx context.Context, id string) (*domain.Assignment, error)
	Create(ctx context.Context, p domain.AssignmentPayload) (*domain.Assignment, error)
	Update(ctx context.Context, id string, p domain.AssignmentPayload) (*domain.Assignment, error)
	Delete(ctx context.Context, id string) error
	ListSubmissions(ctx context.Context, assignmentID string) ([]domain.AssignmentSubmission, error)
	GradeSubmission(ctx context.Context, assignmentID, submissionID string, g domain.GradePayload) (*domain.AssignmentSubmission, error)
}

type assignmentService struct {
	log   *logger.Logger
	api   API
	cache *query.Cache
}

func NewAssignmentService(log *logger.Logger, api API, cache *query.Cache) AssignmentService {
	return &assignmentService{log: log.With("service", "AssignmentService"), api: api, cache: cache}
}

func (s *assignmentService) List(ctx context.Context, filters Filters) (*domain.Page[domain.Assignment], error) {
	page, _, err := query.Fetch(ctx, s.cache, query.Read{Resource: ResourceAssignments, Filters: filters},
		func(ctx context.Context) (domain.Page[domain.Assignment], error) {
			var out domain.Page[domain.Assignment]
			err := s.api.Get(ctx, apiclient.WithQuery(collection(ResourceAssignments), filters), &out)
			return out, err
		})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *assignmentService) Get(ctx context.Context, id string) (*domain.Assignment, error) {
	a, ok, err := query.Fetch(ctx, s.cache, query.Read{Resource: ResourceAssignments, ID: id, RequireID: true},
		func(ctx context.Context) (domain.Assignment, error) {
			var out domain.Assignment
			err := s.api.Get(ctx, member(ResourceAssignments, id), &out)
			return out, err
		})
	if err != nil || !ok {
		return nil, err
	}
	return &a, nil
}

func (s *assignmentService) Create(ctx context.Context, p domain.AssignmentPayload) (*domain.Assignment, error) {
	a, err := query.Mutate(ctx, s.cache, query.Write{Resource: ResourceAssignments, Related: []string{ResourceDashboard}},
		func(ctx context.Context) (domain.Assignment, error) {
			var out domain.Assignment
			err := s.api.Post(ctx, collection(ResourceAssignments), p, &out)
			return out, err
		})
	if err != nil {
		return nil, err
	}
	s.log.Info("assignment created", "assignment_id", a.ID.String(), "course", p.Course)
	return &a, nil
}

func (s *assignmentService) Update(ctx context.Context, id string, p domain.AssignmentPayload) (*domain.Assignment, error) {
	a, err := query.Mutate(ctx, s.cache, query.Write{Resource: ResourceAssignments, ID: id},
		func(ctx context.Context) (domain.Assignment, error) {
			var out domain.Assignment
			err := s.api.Patch(ctx, member(ResourceAssignments, id), p, &out)
			return out, err
		})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *assignmentService) Delete(ctx context.Context, id string) error {
	_, err := query.Mutate(ctx, s.cache, query.Write{Resource: ResourceAssignments, ID: id, Related: []string{ResourceDashboard, ResourceSubmissions}},
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.api.Delete(ctx, member(ResourceAssignments, id), nil)
		})
	return err
}

func submissionsPath(assignmentID string) string {
	return member(ResourceAssignments, assignmentID) + "submissions/"
}

// ListSubmissions returns nil without a request when assignmentID is blank.
func (s *assignmentService) ListSubmissions(ctx context.Context, assignmentID string) ([]domain.AssignmentSubmission, error) {
	page, ok, err := query.Fetch(ctx, s.cache, query.Read{Resource: ResourceSubmissions, ID: assignmentID, RequireID: true},
		func(ctx context.Context) (domain.Page[domain.AssignmentSubmission], error) {
			var out domain.Page[domain.AssignmentSubmission]
			err := s.api.Get(ctx, submissionsPath(assignmentID), &out)
			return out, err
		})
	if err != nil || !ok {
		return nil, err
	}
	return page.Results, nil
}

func (s *assignmentService) GradeSubmission(ctx context.Context, assignmentID, submissionID string, g domain.GradePayload) (*domain.AssignmentSubmission, error) {
	if assignmentID == "" || submissionID == "" {
		return nil, fmt.Errorf("grade submission: assignment and submission ids required")
	}
	sub, err := query.Mutate(ctx, s.cache, query.Write{Resource: ResourceSubmissions, ID: assignmentID, Related: []string{ResourceDashboard}},
		func(ctx context.Context) (domain.AssignmentSubmission, error) {
			var out domain.AssignmentSubmission
			err := s.api.Patch(ctx, submissionsPath(assignmentID)+url.PathEscape(submissionID)+"/", g, &out)
			return out, err
		})
	if err != nil {
		return nil, err
	}
	s.log.Info("submission graded", "assignment_id", assignmentID, "submission_id", submissionID)
	return &sub, nil
}
