package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuskart/campuskart-backend/pkg/enums"
)

// PrintSpec carries the production options for a print-job line item.
type PrintSpec struct {
	ColorMode enums.PrintColorMode `json:"colorMode"`
	PageCount int                  `json:"pageCount"`
	Copies    int                  `json:"copies"`
}

// OrderItem is one line of an order. Product lines carry a product reference;
// print jobs carry a file reference and a print spec instead.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index" json:"orderId"`
	ProductID *uuid.UUID      `gorm:"column:product_id;type:uuid" json:"productId,omitempty"`
	Name      string          `gorm:"column:name;not null" json:"name"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unitPrice"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
	FileRef   string          `gorm:"column:file_ref" json:"fileRef,omitempty"`
	PrintSpec *PrintSpec      `gorm:"column:print_spec;type:jsonb;serializer:json" json:"printSpec,omitempty"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
