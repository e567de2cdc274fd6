package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	packagetypedomain "github.com/iliazhigalev/zhigalev-delivery-club/internal/packagetype/domain"
	"github.com/shopspring/decimal"
)

// Package is a registered parcel owned by an anonymous session. Delivery cost
// stays null until the pricing pipeline sets it, exactly once; company
// assignment transitions null->value exactly once via Claim.
type Package struct {
	ID               snowflake.ID        `gorm:"primaryKey" json:"id"`
	Name             string              `gorm:"size:255;not null" json:"name"`
	WeightKG         decimal.Decimal     `gorm:"type:numeric(10,3);not null" json:"weight_kg"`
	ContentsValueUSD decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"contents_value_usd"`
	TypeID           *snowflake.ID       `gorm:"index" json:"type_id,omitempty"`
	DeliveryCostRUB  decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"delivery_cost_rub"`
	CompanyID        *int64              `json:"company_id,omitempty"`
	OwnerSessionID   string              `gorm:"size:128;not null;index" json:"-"`
	CreatedAt        time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	ClaimedAt        *time.Time          `json:"claimed_at,omitempty"`

	PackageType *packagetypedomain.PackageType `gorm:"-" json:"package_type,omitempty"`
}

func (Package) TableName() string {
	return "packages"
}

// Priced reports whether the pipeline has already computed a delivery cost.
func (p *Package) Priced() bool {
	return p.DeliveryCostRUB.Valid
}

// Claimed reports whether a transport company holds the package.
func (p *Package) Claimed() bool {
	return p.CompanyID != nil
}
