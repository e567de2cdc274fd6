package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/clock"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/currency"
	packagetypedomain "github.com/iliazhigalev/zhigalev-delivery-club/internal/packagetype/domain"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/parcel/domain"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/pricing"
	"github.com/iliazhigalev/zhigalev-delivery-club/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Upper bounds on what a single parcel can plausibly carry.
var (
	maxWeightKG         = decimal.NewFromInt(1000)
	maxContentsValueUSD = decimal.NewFromInt(1_000_000)
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	TypeSvc packagetypedomain.Service
	Rates   currency.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	typeSvc packagetypedomain.Service
	rates   currency.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("parcel.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		typeSvc: p.TypeSvc,
		rates:   p.Rates,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePackageRequest) (domain.Package, error) {
	owner := strings.TrimSpace(req.OwnerSessionID)
	if owner == "" {
		return domain.Package{}, domain.ErrInvalidSession
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 255 {
		return domain.Package{}, domain.ErrInvalidName
	}

	if !req.WeightKG.IsPositive() || req.WeightKG.GreaterThan(maxWeightKG) {
		return domain.Package{}, domain.ErrInvalidWeight
	}
	if !req.ContentsValueUSD.IsPositive() || req.ContentsValueUSD.GreaterThan(maxContentsValueUSD) {
		return domain.Package{}, domain.ErrInvalidValue
	}

	var typeID *snowflake.ID
	var pkgType *packagetypedomain.PackageType
	if strings.TrimSpace(req.TypeID) != "" {
		id, err := snowflake.ParseString(strings.TrimSpace(req.TypeID))
		if err != nil || id == 0 {
			return domain.Package{}, domain.ErrInvalidType
		}
		pt, err := s.typeSvc.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, packagetypedomain.ErrNotFound) {
				return domain.Package{}, domain.ErrTypeNotFound
			}
			return domain.Package{}, err
		}
		typeID = &id
		pkgType = &pt
	}

	pkg := domain.Package{
		ID:               s.genID.Generate(),
		Name:             name,
		WeightKG:         req.WeightKG,
		ContentsValueUSD: req.ContentsValueUSD,
		TypeID:           typeID,
		OwnerSessionID:   owner,
		CreatedAt:        s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, s.db, &pkg); err != nil {
		return domain.Package{}, err
	}

	pkg.PackageType = pkgType
	return pkg, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPackagesRequest) (domain.ListPackagesResponse, error) {
	owner := strings.TrimSpace(req.OwnerSessionID)
	if owner == "" {
		return domain.ListPackagesResponse{}, domain.ErrInvalidSession
	}

	filter := domain.ListFilter{HasDeliveryCost: req.HasDeliveryCost}
	if strings.TrimSpace(req.TypeID) != "" {
		id, err := snowflake.ParseString(strings.TrimSpace(req.TypeID))
		if err != nil || id == 0 {
			return domain.ListPackagesResponse{}, domain.ErrInvalidType
		}
		filter.TypeID = &id
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	items, err := s.repo.List(ctx, s.db, owner, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListPackagesResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(pkg *domain.Package) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        pkg.ID.String(),
			CreatedAt: pkg.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	if err := s.attachTypes(ctx, items); err != nil {
		return domain.ListPackagesResponse{}, err
	}

	packages := make([]domain.Package, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		packages = append(packages, *item)
	}

	resp := domain.ListPackagesResponse{Packages: packages}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetPackageRequest) (domain.Package, error) {
	owner := strings.TrimSpace(req.OwnerSessionID)
	if owner == "" {
		return domain.Package{}, domain.ErrInvalidSession
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Package{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, owner, id)
	if err != nil {
		return domain.Package{}, err
	}
	if item == nil {
		return domain.Package{}, domain.ErrNotFound
	}

	if err := s.attachTypes(ctx, []*domain.Package{item}); err != nil {
		return domain.Package{}, err
	}
	return *item, nil
}

func (s *Service) Claim(ctx context.Context, req domain.ClaimPackageRequest) (domain.ClaimResult, error) {
	if req.CompanyID <= 0 {
		return domain.ClaimResult{}, domain.ErrInvalidCompany
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.ClaimResult{}, err
	}

	updated, err := s.repo.Claim(ctx, s.db, id, req.CompanyID, s.clock.Now())
	if err != nil {
		return domain.ClaimResult{}, err
	}
	if updated {
		s.log.Info("package claimed",
			zap.String("package_id", id.String()),
			zap.Int64("company_id", req.CompanyID),
		)
		return domain.ClaimResult{Status: domain.ClaimStatusClaimed, CompanyID: req.CompanyID}, nil
	}

	// Zero rows updated: either already taken or never registered.
	exists, err := s.repo.Exists(ctx, s.db, id)
	if err != nil {
		return domain.ClaimResult{}, err
	}
	if !exists {
		return domain.ClaimResult{Status: domain.ClaimStatusNotFound}, nil
	}
	return domain.ClaimResult{Status: domain.ClaimStatusAlreadyClaimed}, nil
}

// PriceUnprocessed fetches the rate once so every package priced in this run
// uses the same conversion, then writes all costs in one transaction.
func (s *Service) PriceUnprocessed(ctx context.Context) (int, error) {
	rate, err := s.rates.Rate(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch usd rate: %w", err)
	}

	packages, err := s.repo.FindUnpriced(ctx, s.db)
	if err != nil {
		return 0, fmt.Errorf("scan unpriced packages: %w", err)
	}
	if len(packages) == 0 {
		return 0, nil
	}

	processed := 0
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, pkg := range packages {
			if pkg == nil {
				continue
			}
			if !pkg.WeightKG.IsPositive() || !pkg.ContentsValueUSD.IsPositive() {
				s.log.Error("skipping package with invalid dimensions",
					zap.String("package_id", pkg.ID.String()),
					zap.String("weight_kg", pkg.WeightKG.String()),
					zap.String("contents_value_usd", pkg.ContentsValueUSD.String()),
				)
				continue
			}

			cost := pricing.Cost(pkg.WeightKG, pkg.ContentsValueUSD, rate)
			if err := s.repo.SetDeliveryCost(ctx, tx, pkg.ID, cost); err != nil {
				return fmt.Errorf("persist cost for package %s: %w", pkg.ID, err)
			}
			processed++

			s.log.Info("calculated delivery cost",
				zap.String("package_id", pkg.ID.String()),
				zap.String("delivery_cost_rub", cost.StringFixed(2)),
				zap.String("rate", rate.String()),
			)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return processed, nil
}

func (s *Service) attachTypes(ctx context.Context, packages []*domain.Package) error {
	need := false
	for _, pkg := range packages {
		if pkg != nil && pkg.TypeID != nil {
			need = true
			break
		}
	}
	if !need {
		return nil
	}

	types, err := s.typeSvc.List(ctx)
	if err != nil {
		return err
	}
	byID := make(map[snowflake.ID]packagetypedomain.PackageType, len(types))
	for _, pt := range types {
		byID[pt.ID] = pt
	}

	for _, pkg := range packages {
		if pkg == nil || pkg.TypeID == nil {
			continue
		}
		if pt, ok := byID[*pkg.TypeID]; ok {
			ptCopy := pt
			pkg.PackageType = &ptCopy
		}
	}
	return nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
