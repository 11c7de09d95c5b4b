package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpressDelivery is the literal matched by the 7m catalog query.
const ExpressDelivery = "7m"

// Product represents a catalog item.
type Product struct {
	ID           string          `json:"id" bson:"_id" gorm:"type:char(36);primaryKey"`
	Name         string          `json:"name" bson:"name" gorm:"size:255;not null"`
	Description  string          `json:"description" bson:"description" gorm:"type:text"`
	Price        decimal.Decimal `json:"price" bson:"price" gorm:"type:decimal(20,2);not null"`
	Category     string          `json:"category" bson:"category" gorm:"size:128;index"`
	DeliveryTime string          `json:"deliveryTime" bson:"deliveryTime" gorm:"size:64;index"`
	Image        string          `json:"image,omitempty" bson:"image,omitempty" gorm:"size:512"`
	Stock        int             `json:"stock" bson:"stock"`
	Rating       float64         `json:"rating" bson:"rating"`
	CreatedAt    time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// EnsureID assigns a UUID when the product has none yet.
func (p *Product) EnsureID() {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
}

// BeforeCreate sets UUID before creating the record.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	p.EnsureID()
	return nil
}
