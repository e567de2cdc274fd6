package domain

import (
	"context"
	"errors"

	"github.com/iliazhigalev/zhigalev-delivery-club/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type CreatePackageRequest struct {
	OwnerSessionID   string
	Name             string
	WeightKG         decimal.Decimal
	ContentsValueUSD decimal.Decimal
	TypeID           string
}

type GetPackageRequest struct {
	OwnerSessionID string
	ID             string
}

type ListPackagesRequest struct {
	OwnerSessionID  string
	PageToken       string
	PageSize        int32
	TypeID          string
	HasDeliveryCost *bool
}

type ListPackagesResponse struct {
	pagination.PageInfo
	Packages []Package `json:"packages"`
}

type ClaimPackageRequest struct {
	ID        string
	CompanyID int64
}

type ClaimStatus string

const (
	ClaimStatusClaimed        ClaimStatus = "claimed"
	ClaimStatusAlreadyClaimed ClaimStatus = "already_claimed"
	ClaimStatusNotFound       ClaimStatus = "not_found"
)

// ClaimResult is a discriminated outcome: concurrent winners and losers are
// distinguished from a missing package instead of collapsing to one boolean.
type ClaimResult struct {
	Status    ClaimStatus `json:"status"`
	CompanyID int64       `json:"company_id,omitempty"`
}

type Service interface {
	Create(context.Context, CreatePackageRequest) (Package, error)
	List(context.Context, ListPackagesRequest) (ListPackagesResponse, error)
	GetByID(context.Context, GetPackageRequest) (Package, error)
	Claim(context.Context, ClaimPackageRequest) (ClaimResult, error)
	// PriceUnprocessed runs one pricing pass: fetches the rate once, prices
	// every unpriced package at that rate and returns the count priced.
	PriceUnprocessed(context.Context) (int, error)
}

var (
	ErrInvalidSession = errors.New("invalid_session")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidWeight  = errors.New("invalid_weight")
	ErrInvalidValue   = errors.New("invalid_value")
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidType    = errors.New("invalid_type")
	ErrTypeNotFound   = errors.New("type_not_found")
	ErrInvalidCompany = errors.New("invalid_company")
	ErrNotFound       = errors.New("not_found")
)
