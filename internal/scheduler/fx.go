package scheduler

import (
	"context"

	appconfig "github.com/iliazhigalev/zhigalev-delivery-club/internal/config"
	parceldomain "github.com/iliazhigalev/zhigalev-delivery-club/internal/parcel/domain"
	"go.uber.org/fx"
)

func provideConfig(cfg appconfig.Config) Config {
	return Config{
		RunInterval: cfg.ComputeInterval,
		RunTimeout:  cfg.ComputeRunTimeout,
	}
}

func providePipeline(svc parceldomain.Service) Pipeline {
	return svc
}

func registerLifecycle(lc fx.Lifecycle, s *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
}

var Module = fx.Module("scheduler",
	fx.Provide(provideConfig),
	fx.Provide(providePipeline),
	fx.Provide(New),
	fx.Invoke(registerLifecycle),
)
