package models

import (
	"gorm.io/gorm"
)

// Product statuses
const (
	ProductActive     = "active"
	ProductInactive   = "inactive"
	ProductOutOfStock = "out_of_stock"
)

// Product categories
const (
	CategoryGrains     = "grains"
	CategoryTubers     = "tubers"
	CategoryVegetables = "vegetables"
	CategoryFruits     = "fruits"
	CategoryLivestock  = "livestock"
	CategoryInputs     = "farm_inputs"
	CategoryOther      = "other"
)

type Product struct {
	gorm.Model
	SellerID          uint    `gorm:"index;not null"`
	Name              string  `gorm:"not null"`
	Description       string  `gorm:"type:text"`
	Category          string  `gorm:"index;not null"`
	Price             float64 `gorm:"not null"` // per unit, NGN
	Unit              string  `gorm:"default:'kg'"`
	QuantityAvailable int     `gorm:"not null;default:0"`
	MinOrderQuantity  int     `gorm:"default:1"`
	ImageKeys         StringList `gorm:"type:jsonb"`
	Status            string  `gorm:"default:'active'"`
	Location          string
}
