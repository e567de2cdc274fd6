package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/parcel/domain"
	"github.com/iliazhigalev/zhigalev-delivery-club/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, pkg *domain.Package) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO packages (id, name, weight_kg, contents_value_usd, type_id, delivery_cost_rub, company_id, owner_session_id, created_at, claimed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pkg.ID,
		pkg.Name,
		pkg.WeightKG,
		pkg.ContentsValueUSD,
		pkg.TypeID,
		pkg.DeliveryCostRUB,
		pkg.CompanyID,
		pkg.OwnerSessionID,
		pkg.CreatedAt,
		pkg.ClaimedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, ownerSessionID string, id snowflake.ID) (*domain.Package, error) {
	var pkg domain.Package
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, weight_kg, contents_value_usd, type_id, delivery_cost_rub, company_id, owner_session_id, created_at, claimed_at
		 FROM packages WHERE owner_session_id = ? AND id = ?`,
		ownerSessionID,
		id,
	).Scan(&pkg).Error
	if err != nil {
		return nil, err
	}
	if pkg.ID == 0 {
		return nil, nil
	}
	return &pkg, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, ownerSessionID string, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Package, error) {
	var packages []*domain.Package
	stmt := db.WithContext(ctx).
		Model(&domain.Package{}).
		Where("owner_session_id = ?", ownerSessionID)
	if filter.TypeID != nil {
		stmt = stmt.Where("type_id = ?", *filter.TypeID)
	}
	if filter.HasDeliveryCost != nil {
		if *filter.HasDeliveryCost {
			stmt = stmt.Where("delivery_cost_rub IS NOT NULL")
		} else {
			stmt = stmt.Where("delivery_cost_rub IS NULL")
		}
	}

	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return nil, err
		}
		id, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			createdAt, createdAt, id,
		)
	}

	// Fetch one extra row to detect a following page.
	err := stmt.
		Order("created_at desc, id desc").
		Limit(page.PageSize + 1).
		Find(&packages).Error
	if err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *repo) FindUnpriced(ctx context.Context, db *gorm.DB) ([]*domain.Package, error) {
	var packages []*domain.Package
	err := db.WithContext(ctx).
		Model(&domain.Package{}).
		Where("delivery_cost_rub IS NULL").
		Order("created_at asc, id asc").
		Find(&packages).Error
	if err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *repo) SetDeliveryCost(ctx context.Context, db *gorm.DB, id snowflake.ID, cost decimal.Decimal) error {
	// The null predicate keeps re-runs from overwriting an already computed cost.
	return db.WithContext(ctx).Exec(
		`UPDATE packages SET delivery_cost_rub = ? WHERE id = ? AND delivery_cost_rub IS NULL`,
		cost,
		id,
	).Error
}

func (r *repo) Claim(ctx context.Context, db *gorm.DB, id snowflake.ID, companyID int64, claimedAt time.Time) (bool, error) {
	// Single conditional update: two concurrent claimers cannot both match the
	// null predicate, so exactly one observes RowsAffected == 1.
	res := db.WithContext(ctx).Exec(
		`UPDATE packages SET company_id = ?, claimed_at = ? WHERE id = ? AND company_id IS NULL`,
		companyID,
		claimedAt,
		id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) Exists(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Package{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
