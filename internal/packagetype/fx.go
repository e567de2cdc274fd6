package packagetype

import (
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/packagetype/repository"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/packagetype/service"
	"go.uber.org/fx"
)

var Module = fx.Module("packagetype.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
