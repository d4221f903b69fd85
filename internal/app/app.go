package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/facilitator-console/internal/http"
	"github.com/yungbote/facilitator-console/internal/platform/ctxutil"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/platform/observability"
	"github.com/yungbote/facilitator-console/internal/realtime"
	"github.com/yungbote/facilitator-console/internal/session"
	"github.com/yungbote/facilitator-console/internal/upload"
)

const sweepInterval = 10 * time.Minute

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Router   *gin.Engine
	Server   *http.Server
	Clients  Clients
	Services Services
	SSEHub   *realtime.SSEHub

	sessions     session.Store
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	sessions, err := session.New(ctx, log, cfg.Session)
	if err != nil {
		clients.Close()
		log.Sync()
		return nil, fmt.Errorf("init session store: %w", err)
	}

	ssehub := realtime.NewSSEHub(log)

	// Upload progress goes through the bus so any replica holding the
	// browser's event stream can deliver it.
	sseBus := clients.SSEBus
	uploadObserver := func(ev upload.SessionEvent) {
		if err := sseBus.Publish(context.Background(), realtime.UploadMessage(ev)); err != nil {
			log.Warn("publish upload event failed", "field", ev.Field, "error", err)
		}
	}

	serviceset := wireServices(log, cfg, clients, uploadObserver)
	handlerset := wireHandlers(log, cfg, serviceset, ssehub)
	handlerset.Auth.OnLogout(func(ctx context.Context, sessionID string) {
		msg := realtime.SSEMessage{Channel: sessionID, Event: realtime.SSEEventSessionEnded}
		if err := sseBus.Publish(ctx, msg); err != nil {
			log.Warn("publish session end failed", "error", err)
		}
	})
	// A failed refresh ends the session as far as the API is concerned; drop
	// what was built under it.
	clients.API.OnCredentialsCleared(func(ctx context.Context) {
		serviceset.forget(ctxutil.SessionID(ctx))
	})
	middleware := wireMiddleware(log, sessions, serviceset.Auth)
	router := wireRouter(log, cfg, handlerset, middleware)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Router:       router,
		Server:       http.NewServer(cfg.Server.Addr, router),
		Clients:      clients,
		Services:     serviceset,
		SSEHub:       ssehub,
		sessions:     sessions,
		otelShutdown: otelShutdown,
	}, nil
}

// Start runs the background loops: the bus forwarder feeding the hub and the
// idle upload sweep.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if err := a.Clients.SSEBus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
		cancel()
		a.cancel = nil
		return fmt.Errorf("start SSE forwarder: %w", err)
	}

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := a.Services.Uploads.Sweep(a.Cfg.Upload.IdleTTL); n > 0 {
					a.Log.Info("Dropped idle upload sessions", "count", n)
				}
			}
		}
	}()
	return nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "addr", a.Cfg.Server.Addr)
	return a.Server.Run()
}

// Shutdown drains in-flight requests, then releases everything New acquired.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var err error
	if a.Server != nil {
		err = a.Server.Shutdown(ctx)
	}
	a.Close()
	if a.otelShutdown != nil {
		if oerr := a.otelShutdown(ctx); oerr != nil && err == nil {
			err = oerr
		}
	}
	return err
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if c, ok := a.sessions.(interface{ Close() error }); ok {
		_ = c.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
