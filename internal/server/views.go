package server

import (
	"time"

	"github.com/bwmarrin/snowflake"
	packagetypedomain "github.com/iliazhigalev/zhigalev-delivery-club/internal/packagetype/domain"
	parceldomain "github.com/iliazhigalev/zhigalev-delivery-club/internal/parcel/domain"
	"github.com/iliazhigalev/zhigalev-delivery-club/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

// costPending is what clients see while the pricing pipeline has not
// computed a delivery cost yet.
const costPending = "not yet computed"

// packageView is the wire form of a package. Delivery cost renders as a
// fixed-point string so unpriced packages can say so explicitly instead of
// emitting a bare null.
type packageView struct {
	ID               snowflake.ID                   `json:"id"`
	Name             string                         `json:"name"`
	WeightKG         decimal.Decimal                `json:"weight_kg"`
	ContentsValueUSD decimal.Decimal                `json:"contents_value_usd"`
	TypeID           *snowflake.ID                  `json:"type_id,omitempty"`
	DeliveryCostRUB  string                         `json:"delivery_cost_rub"`
	CompanyID        *int64                         `json:"company_id,omitempty"`
	CreatedAt        time.Time                      `json:"created_at"`
	ClaimedAt        *time.Time                     `json:"claimed_at,omitempty"`
	PackageType      *packagetypedomain.PackageType `json:"package_type,omitempty"`
}

type listPackagesView struct {
	pagination.PageInfo
	Packages []packageView `json:"packages"`
}

func toPackageView(pkg parceldomain.Package) packageView {
	cost := costPending
	if pkg.Priced() {
		cost = pkg.DeliveryCostRUB.Decimal.StringFixed(2)
	}
	return packageView{
		ID:               pkg.ID,
		Name:             pkg.Name,
		WeightKG:         pkg.WeightKG,
		ContentsValueUSD: pkg.ContentsValueUSD,
		TypeID:           pkg.TypeID,
		DeliveryCostRUB:  cost,
		CompanyID:        pkg.CompanyID,
		CreatedAt:        pkg.CreatedAt,
		ClaimedAt:        pkg.ClaimedAt,
		PackageType:      pkg.PackageType,
	}
}

func toListPackagesView(resp parceldomain.ListPackagesResponse) listPackagesView {
	packages := make([]packageView, 0, len(resp.Packages))
	for _, pkg := range resp.Packages {
		packages = append(packages, toPackageView(pkg))
	}
	return listPackagesView{
		PageInfo: resp.PageInfo,
		Packages: packages,
	}
}
