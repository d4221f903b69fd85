package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/facilitator-console/internal/http"
	httpH "github.com/yungbote/facilitator-console/internal/http/handlers"
	httpMW "github.com/yungbote/facilitator-console/internal/http/middleware"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/realtime"
	"github.com/yungbote/facilitator-console/internal/session"
)

type Middleware struct {
	Session  *httpMW.SessionMiddleware
	Verifier httpMW.SessionVerifier
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	Dashboard  *httpH.DashboardHandler
	Course     *httpH.CourseHandler
	Wizard     *httpH.WizardHandler
	Assignment *httpH.AssignmentHandler
	Student    *httpH.StudentHandler
	LiveClass  *httpH.LiveClassHandler
	Library    *httpH.LibraryHandler
	Upload     *httpH.UploadHandler
	Realtime   *httpH.RealtimeHandler
}

func wireMiddleware(log *logger.Logger, store session.Store, verifier httpMW.SessionVerifier) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Session:  httpMW.NewSessionMiddleware(log, store),
		Verifier: verifier,
	}
}

func wireHandlers(log *logger.Logger, cfg Config, services Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Auth:       httpH.NewAuthHandler(log, services.Auth, services.Uploads, services.Drafts),
		Dashboard:  httpH.NewDashboardHandler(log, services.Dashboard),
		Course:     httpH.NewCourseHandler(log, services.Courses, services.Categories),
		Wizard:     httpH.NewWizardHandler(log, services.Drafts, services.Courses),
		Assignment: httpH.NewAssignmentHandler(log, services.Assignments),
		Student:    httpH.NewStudentHandler(services.Students),
		LiveClass:  httpH.NewLiveClassHandler(log, services.LiveClasses),
		Library:    httpH.NewLibraryHandler(log, services.Library),
		Upload: httpH.NewUploadHandler(log, services.Uploads, httpH.UploadConfig{
			MaxBytes: cfg.Upload.MaxBytes,
			SpoolDir: cfg.Upload.SpoolDir,
		}),
		Realtime: httpH.NewRealtimeHandler(log, hub),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:               log,
		ServiceName:       serviceName,
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		SessionMiddleware: middleware.Session,
		SessionVerifier:   middleware.Verifier,
		HealthHandler:     handlers.Health,
		AuthHandler:       handlers.Auth,
		DashboardHandler:  handlers.Dashboard,
		CourseHandler:     handlers.Course,
		WizardHandler:     handlers.Wizard,
		AssignmentHandler: handlers.Assignment,
		StudentHandler:    handlers.Student,
		LiveClassHandler:  handlers.LiveClass,
		LibraryHandler:    handlers.Library,
		UploadHandler:     handlers.Upload,
		RealtimeHandler:   handlers.Realtime,
	})
}
