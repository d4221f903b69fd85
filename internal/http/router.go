package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/facilitator-console/internal/http/handlers"
	httpMW "github.com/yungbote/facilitator-console/internal/http/middleware"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string

	SessionMiddleware *httpMW.SessionMiddleware
	SessionVerifier   httpMW.SessionVerifier

	HealthHandler     *httpH.HealthHandler
	AuthHandler       *httpH.AuthHandler
	DashboardHandler  *httpH.DashboardHandler
	CourseHandler     *httpH.CourseHandler
	WizardHandler     *httpH.WizardHandler
	AssignmentHandler *httpH.AssignmentHandler
	StudentHandler    *httpH.StudentHandler
	LiveClassHandler  *httpH.LiveClassHandler
	LibraryHandler    *httpH.LibraryHandler
	UploadHandler     *httpH.UploadHandler
	RealtimeHandler   *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	if cfg.SessionMiddleware != nil {
		r.Use(cfg.SessionMiddleware.Attach())
	}
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	// Auth (public)
	if cfg.AuthHandler != nil {
		r.POST("/login", cfg.AuthHandler.Login)
		r.POST("/otp/verify", cfg.AuthHandler.VerifyOTP)
		r.POST("/otp/resend", cfg.AuthHandler.ResendOTP)
	}

	protected := r.Group("/")
	{
		if cfg.SessionMiddleware != nil {
			protected.Use(cfg.SessionMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
			protected.GET("/me", cfg.AuthHandler.Me)
		}

		// Dashboard
		if cfg.DashboardHandler != nil {
			protected.GET("/", cfg.DashboardHandler.Overview)
		}

		// Course authoring wizard
		if w := cfg.WizardHandler; w != nil {
			protected.GET("/courses/new", w.State)
			protected.DELETE("/courses/new", w.Discard)
			protected.PUT("/courses/new/basic-info", w.SetBasicInfo)
			protected.PUT("/courses/new/details", w.SetDetails)
			protected.POST("/courses/new/next", w.Next)
			protected.POST("/courses/new/back", w.Back)
			protected.POST("/courses/new/submit", w.Submit)
			protected.POST("/courses/new/banner/dismiss", w.DismissBanner)
			protected.POST("/courses/new/modules", w.AddModule)
			protected.PATCH("/courses/new/modules/:module", w.RenameModule)
			protected.DELETE("/courses/new/modules/:module", w.RemoveModule)
			protected.POST("/courses/new/modules/:module/move", w.MoveModule)
			protected.PUT("/courses/new/modules/:module/note", w.SetNote)
			protected.POST("/courses/new/modules/:module/videos", w.AddVideo)
			protected.PATCH("/courses/new/modules/:module/videos/:video", w.UpdateVideo)
			protected.DELETE("/courses/new/modules/:module/videos/:video", w.RemoveVideo)
			protected.GET("/courses/:id/edit", w.Edit)
		}

		// Courses
		if cfg.CourseHandler != nil {
			protected.GET("/courses", cfg.CourseHandler.List)
			protected.GET("/courses/:id", cfg.CourseHandler.Get)
			protected.DELETE("/courses/:id", cfg.CourseHandler.Delete)
			protected.GET("/categories", cfg.CourseHandler.Categories)
		}

		// Assignments
		if a := cfg.AssignmentHandler; a != nil {
			protected.GET("/assignments", a.List)
			protected.POST("/assignments", a.Create)
			protected.GET("/assignments/:id", a.Get)
			protected.PATCH("/assignments/:id", a.Update)
			protected.DELETE("/assignments/:id", a.Delete)
			protected.GET("/assignments/:id/submissions", a.Submissions)
			protected.PATCH("/assignments/:id/submissions/:sid", a.Grade)
		}

		// Students
		if s := cfg.StudentHandler; s != nil {
			protected.GET("/students", s.List)
			protected.GET("/students/:id", s.Get)
			protected.PATCH("/students/:id", s.Update)
		}

		// Live classes
		if l := cfg.LiveClassHandler; l != nil {
			protected.GET("/live-classes", l.List)
			protected.POST("/live-classes", l.Create)
			protected.POST("/live-classes/generate-link", l.GenerateLink)
			protected.GET("/live-classes/:id", l.Get)
			protected.PATCH("/live-classes/:id", l.Update)
			protected.DELETE("/live-classes/:id", l.Delete)
		}

		// Library
		if l := cfg.LibraryHandler; l != nil {
			protected.GET("/library", l.List)
			protected.POST("/library", l.Create)
			protected.GET("/library/:id", l.Get)
			protected.DELETE("/library/:id", l.Delete)
		}

		// Uploads
		if u := cfg.UploadHandler; u != nil {
			uploads := protected.Group("/uploads")
			if cfg.SessionMiddleware != nil && cfg.SessionVerifier != nil {
				uploads.Use(cfg.SessionMiddleware.RequireVerified(cfg.SessionVerifier))
			}
			uploads.GET("", u.List)
			uploads.POST("/:field", u.Start)
			uploads.GET("/:field", u.State)
			uploads.PUT("/:field", u.Assign)
			uploads.POST("/:field/cancel", u.Cancel)
			uploads.DELETE("/:field", u.Remove)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/events", cfg.RealtimeHandler.SSEStream)
		}
	}

	return r
}
