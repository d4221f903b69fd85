package services

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/facilitator-console/internal/domain"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/query"
)

const overviewListSize = 5

type Overview struct {
	Stats               domain.DashboardStats `json:"stats"`
	UpcomingLiveClasses []domain.LiveClass    `json:"upcoming_live_classes"`
	RecentAssignments   []domain.Assignment   `json:"recent_assignments"`
}

type DashboardService interface {
	Stats(ctx context.Context) (*domain.DashboardStats, error)
	Overview(ctx context.Context) (*Overview, error)
}

type dashboardService struct {
	log         *logger.Logger
	api         API
	cache       *query.Cache
	liveClasses LiveClassService
	assignments AssignmentService
	now         func() time.Time
}

func NewDashboardService(log *logger.Logger, api API, cache *query.Cache, liveClasses LiveClassService, assignments AssignmentService) DashboardService {
	return &dashboardService{
		log:         log.With("service", "DashboardService"),
		api:         api,
		cache:       cache,
		liveClasses: liveClasses,
		assignments: assignments,
		now:         time.Now,
	}
}

func (s *dashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	stats, _, err := query.Fetch(ctx, s.cache, query.Read{Resource: ResourceDashboard},
		func(ctx context.Context) (domain.DashboardStats, error) {
			var out domain.DashboardStats
			err := s.api.Get(ctx, "/dashboard/stats/", &out)
			return out, err
		})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Overview loads the stats, upcoming live classes and recent assignments concurrently.
func (s *dashboardService) Overview(ctx context.Context) (*Overview, error) {
	var (
		out         Overview
		liveClasses []domain.LiveClass
		assignments []domain.Assignment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.Stats(gctx)
		if err != nil {
			return err
		}
		out.Stats = *stats
		return nil
	})
	g.Go(func() error {
		page, err := s.liveClasses.List(gctx, Filters{"ordering": "start_time"})
		if err != nil {
			return err
		}
		liveClasses = page.Results
		return nil
	})
	g.Go(func() error {
		page, err := s.assignments.List(gctx, Filters{"ordering": "-created_at"})
		if err != nil {
			return err
		}
		assignments = page.Results
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("dashboard overview failed", "error", err)
		return nil, err
	}

	now := s.now()
	upcoming := make([]domain.LiveClass, 0, overviewListSize)
	for _, lc := range liveClasses {
		if lc.Upcoming(now) {
			upcoming = append(upcoming, lc)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].StartTime.Before(upcoming[j].StartTime) })
	if len(upcoming) > overviewListSize {
		upcoming = upcoming[:overviewListSize]
	}

	recent := append([]domain.Assignment(nil), assignments...)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })
	if len(recent) > overviewListSize {
		recent = recent[:overviewListSize]
	}

	out.UpcomingLiveClasses = upcoming
	out.RecentAssignments = recent
	return &out, nil
}
