package models

import (
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// Product is a catalog listing. Rows are read-only to the storefront.
type Product struct {
	ID          string            `gorm:"column:id;primaryKey"`
	Title       string            `gorm:"column:title;not null"`
	Description string            `gorm:"column:description;not null;default:''"`
	Emoji       string            `gorm:"column:emoji;not null;default:''"`
	Category    string            `gorm:"column:category;not null;default:''"`
	BasePrice   int64             `gorm:"column:base_price;not null"`
	Sizes       types.SizeOptions `gorm:"column:sizes;type:text;not null;default:'[]'"`
	SugarLevels types.StringList  `gorm:"column:sugar_levels;type:text;not null;default:'[]'"`
	IceLevels   types.StringList  `gorm:"column:ice_levels;type:text;not null;default:'[]'"`
	Position    int               `gorm:"column:position;not null;default:0"`
	IsActive    bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
