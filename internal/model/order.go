package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Known order statuses. The set is open: any non-empty status is stored as given.
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// LineItem is one product line of an order.
type LineItem struct {
	ProductID string          `json:"productId" bson:"productId"`
	Name      string          `json:"name,omitempty" bson:"name,omitempty"`
	Quantity  int             `json:"quantity" bson:"quantity"`
	Price     decimal.Decimal `json:"price" bson:"price"`
}

// Cancellation records why and when an order was cancelled.
type Cancellation struct {
	Reason      string    `json:"reason" bson:"reason"`
	Comment     string    `json:"comment" bson:"comment"`
	CancelledAt time.Time `json:"cancelledAt" bson:"cancelledAt"`
}

// Order represents a customer order.
type Order struct {
	ID              string          `json:"id" bson:"_id" gorm:"type:char(36);primaryKey"`
	UserID          string          `json:"userId" bson:"userId" gorm:"type:char(36);not null;index"`
	OrderNumber     string          `json:"orderNumber" bson:"orderNumber" gorm:"size:64;index"`
	Date            string          `json:"date" bson:"date" gorm:"size:64;index"`
	Items           []LineItem      `json:"items" bson:"items" gorm:"serializer:json;type:json"`
	TotalAmount     decimal.Decimal `json:"totalAmount" bson:"totalAmount" gorm:"type:decimal(20,2);not null"`
	Status          string          `json:"status" bson:"status" gorm:"size:32;not null;default:'Pending';index"`
	Tracking        map[string]any  `json:"tracking" bson:"tracking" gorm:"serializer:json;type:json"`
	PaymentMethod   map[string]any  `json:"paymentMethod" bson:"paymentMethod" gorm:"serializer:json;type:json"`
	DeliveryAddress Address         `json:"deliveryAddress" bson:"deliveryAddress" gorm:"embedded;embeddedPrefix:delivery_"`
	Cancellation    *Cancellation   `json:"cancellationReason,omitempty" bson:"cancellationReason,omitempty" gorm:"serializer:json;type:json"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// StatusChange is the set of fields a status update writes. Nil Tracking and
// nil Cancellation leave the stored values untouched; ClearCancellation
// removes the stored record.
type StatusChange struct {
	Status            string
	Tracking          map[string]any
	Cancellation      *Cancellation
	ClearCancellation bool
	UpdatedAt         time.Time
}

// IsCancelled reports whether the order is in the cancelled state.
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// EnsureID assigns a UUID when the order has none yet.
func (o *Order) EnsureID() {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
}

// BeforeCreate sets UUID before creating the record.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	o.EnsureID()
	return nil
}
