package main

import (
	"context"
	"log/slog"
	"os"

	"miniblog/config"
	"miniblog/internal/delivery"
	"miniblog/internal/delivery/api"
	"miniblog/internal/delivery/api/cookie"
	"miniblog/internal/delivery/api/middleware"
	"miniblog/internal/delivery/api/router/handler"
	"miniblog/internal/infra/auth"
	logs "miniblog/internal/infra/log"
	"miniblog/internal/infra/metrics"
	"miniblog/internal/infra/persistence/memory"
	"miniblog/internal/infra/persistence/postgres"
	"miniblog/internal/infra/pubsub"
	"miniblog/internal/infra/storage"
	"miniblog/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	// The storage driver decides which providers exist, so configuration is read before the graph is built.
	cfg, err := config.New()
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	fx.New(
		fx.Supply(cfg),
		injectInfra(),
		injectRepo(cfg),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			logs.New,
			context.Background,
			storage.New,
		),
		metrics.Module,
		pubsub.Module,
	)
}

func injectRepo(cfg *config.Config) fx.Option {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		return memory.Module
	}

	return postgres.Module
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewPostService,
			impl.NewMediaService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			cookie.NewRefreshCookie,
			handler.NewAuthHandler,
			handler.NewPostHandler,
			handler.NewMediaHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
