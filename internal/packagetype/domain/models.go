package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// PackageType is immutable reference data; packages hold a weak reference to it.
type PackageType struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string       `gorm:"size:255" json:"description,omitempty"`
}

func (PackageType) TableName() string {
	return "package_types"
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, pt *PackageType) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PackageType, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*PackageType, error)
	All(ctx context.Context, db *gorm.DB) ([]*PackageType, error)
}

type Service interface {
	List(ctx context.Context) ([]PackageType, error)
	GetByID(ctx context.Context, id snowflake.ID) (PackageType, error)
	// EnsureDefaults seeds the built-in types when they are missing.
	EnsureDefaults(ctx context.Context) error
}

var ErrNotFound = errors.New("package_type_not_found")
