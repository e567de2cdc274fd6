package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/packagetype/domain"
	"github.com/iliazhigalev/zhigalev-delivery-club/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Default reference data, created on first boot.
var defaultTypes = []domain.PackageType{
	{Name: "clothes", Description: "Clothing and textiles"},
	{Name: "electronics", Description: "Electronic devices and accessories"},
	{Name: "other", Description: "Everything else"},
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("packagetype.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.PackageType, error) {
	items, err := s.repo.All(ctx, s.db)
	if err != nil {
		return nil, err
	}

	types := make([]domain.PackageType, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		types = append(types, *item)
	}
	return types, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.PackageType, error) {
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.PackageType{}, err
	}
	if item == nil {
		return domain.PackageType{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) EnsureDefaults(ctx context.Context) error {
	for _, def := range defaultTypes {
		existing, err := s.repo.FindByName(ctx, s.db, def.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		pt := def
		pt.ID = s.genID.Generate()
		if err := s.repo.Insert(ctx, s.db, &pt); err != nil {
			// Concurrent boot may have inserted the same name.
			if db.IsDuplicateKeyErr(err) {
				continue
			}
			return err
		}
		s.log.Info("seeded package type", zap.String("name", pt.Name))
	}
	return nil
}
