package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/packagetype/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, pt *domain.PackageType) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO package_types (id, name, description) VALUES (?, ?, ?)`,
		pt.ID,
		pt.Name,
		pt.Description,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.PackageType, error) {
	var pt domain.PackageType
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, description FROM package_types WHERE id = ?`,
		id,
	).Scan(&pt).Error
	if err != nil {
		return nil, err
	}
	if pt.ID == 0 {
		return nil, nil
	}
	return &pt, nil
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, name string) (*domain.PackageType, error) {
	var pt domain.PackageType
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, description FROM package_types WHERE name = ?`,
		name,
	).Scan(&pt).Error
	if err != nil {
		return nil, err
	}
	if pt.ID == 0 {
		return nil, nil
	}
	return &pt, nil
}

func (r *repo) All(ctx context.Context, db *gorm.DB) ([]*domain.PackageType, error) {
	var types []*domain.PackageType
	err := db.WithContext(ctx).
		Model(&domain.PackageType{}).
		Order("name asc").
		Find(&types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}
