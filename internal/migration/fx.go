package migration

import (
	"context"

	"github.com/iliazhigalev/zhigalev-delivery-club/internal/config"
	packagetypedomain "github.com/iliazhigalev/zhigalev-delivery-club/internal/packagetype/domain"
	parceldomain "github.com/iliazhigalev/zhigalev-delivery-club/internal/parcel/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// The schema is created automatically on startup so the service is
// usable out of the box for local and self-hosted environments.
var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, typeSvc packagetypedomain.Service) error {
		if err := conn.AutoMigrate(
			&packagetypedomain.PackageType{},
			&parceldomain.Package{},
		); err != nil {
			return err
		}

		if cfg.SeedPackageTypes {
			return typeSvc.EnsureDefaults(context.Background())
		}
		return nil
	}),
)
