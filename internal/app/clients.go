package app

import (
	"context"
	"fmt"

	"github.com/yungbote/facilitator-console/internal/apiclient"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/platform/objectstore"
	"github.com/yungbote/facilitator-console/internal/realtime/bus"
)

type Clients struct {
	API     *apiclient.Client
	Storage objectstore.Store
	SSEBus  bus.Bus
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Education API; tokens come from the request's session.
	api, err := apiclient.New(log, cfg.API, apiclient.ContextCredentials{})
	if err != nil {
		return Clients{}, fmt.Errorf("init api client: %w", err)
	}

	// Object storage (nil when uploads are disabled)
	store, err := resolveObjectStore(ctx, log, cfg.Storage)
	if err != nil {
		return Clients{}, err
	}

	// SSE fanout
	var sseBus bus.Bus
	switch cfg.Bus.Mode {
	case BusRedis:
		sseBus, err = bus.NewRedisBus(ctx, log, bus.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Channel:  cfg.Bus.Channel,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
	default:
		sseBus = bus.NewLocalBus()
	}

	return Clients{
		API:     api,
		Storage: store,
		SSEBus:  sseBus,
	}, nil
}

func (c Clients) Close() {
	if c.SSEBus != nil {
		_ = c.SSEBus.Close()
	}
}
