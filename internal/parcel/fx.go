package parcel

import (
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/parcel/repository"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/parcel/service"
	"go.uber.org/fx"
)

var Module = fx.Module("parcel.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
