package app

import (
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/query"
	"github.com/yungbote/facilitator-console/internal/services"
	"github.com/yungbote/facilitator-console/internal/upload"
	"github.com/yungbote/facilitator-console/internal/wizard"
)

type Services struct {
	Cache *query.Cache

	Auth        services.AuthService
	Courses     services.CourseService
	Categories  services.CategoryService
	Assignments services.AssignmentService
	Students    services.StudentService
	LiveClasses services.LiveClassService
	Library     services.LibraryService
	Dashboard   services.DashboardService

	Uploads *upload.Pool
	Drafts  *wizard.Store
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, uploadObserver func(upload.SessionEvent)) Services {
	log.Info("Wiring services...")

	cache := query.NewCache(log, query.WithStaleTime(cfg.StaleTime))

	liveClasses := services.NewLiveClassService(log, clients.API, cache)
	assignments := services.NewAssignmentService(log, clients.API, cache)

	return Services{
		Cache: cache,

		Auth:        services.NewAuthService(log, clients.API, cache),
		Courses:     services.NewCourseService(log, clients.API, cache),
		Categories:  services.NewCategoryService(log, clients.API, cache),
		Assignments: assignments,
		Students:    services.NewStudentService(log, clients.API, cache),
		LiveClasses: liveClasses,
		Library:     services.NewLibraryService(log, clients.API, cache),
		Dashboard:   services.NewDashboardService(log, clients.API, cache, liveClasses, assignments),

		Uploads: upload.NewPool(log, clients.Storage, upload.Config{ResetDelay: cfg.Upload.ResetDelay}, uploadObserver),
		Drafts:  wizard.NewStore(),
	}
}

// forget drops the cached reads, uploads and draft of a session.
func (s Services) forget(sessionID string) {
	if sessionID == "" {
		return
	}
	s.Cache.Purge(sessionID)
	s.Uploads.Drop(sessionID)
	s.Drafts.Discard(sessionID)
}
