package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/iliazhigalev/zhigalev-delivery-club/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ListFilter struct {
	TypeID          *snowflake.ID
	HasDeliveryCost *bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, pkg *Package) error
	FindByID(ctx context.Context, db *gorm.DB, ownerSessionID string, id snowflake.ID) (*Package, error)
	List(ctx context.Context, db *gorm.DB, ownerSessionID string, filter ListFilter, page pagination.Pagination) ([]*Package, error)
	// FindUnpriced returns packages whose delivery cost is still null.
	FindUnpriced(ctx context.Context, db *gorm.DB) ([]*Package, error)
	// SetDeliveryCost writes the computed cost for a still-unpriced package.
	SetDeliveryCost(ctx context.Context, db *gorm.DB, id snowflake.ID, cost decimal.Decimal) error
	// Claim performs the single conditional update assigning a company to an
	// unclaimed package. It reports whether exactly one row was updated.
	Claim(ctx context.Context, db *gorm.DB, id snowflake.ID, companyID int64, claimedAt time.Time) (bool, error)
	Exists(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
}
