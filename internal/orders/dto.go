package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuskart/campuskart-backend/pkg/db/models"
	"github.com/campuskart/campuskart-backend/pkg/enums"
)

// CreateOrderItemInput is one requested line: either a product reference or
// a print job with a file and print spec.
type CreateOrderItemInput struct {
	ProductID *uuid.UUID        `json:"product_id"`
	Name      string            `json:"name" validate:"required,min=1,max=200"`
	UnitPrice decimal.Decimal   `json:"unit_price" validate:"required"`
	Quantity  int               `json:"quantity" validate:"required,min=1"`
	FileRef   string            `json:"file_ref"`
	PrintSpec *models.PrintSpec `json:"print_spec"`
}

// CreateOrderInput is a customer checkout request.
type CreateOrderInput struct {
	CustomerID       uuid.UUID              `json:"-"`
	VendorID         uuid.UUID              `json:"vendor_id" validate:"required"`
	Items            []CreateOrderItemInput `json:"order_items" validate:"required,min=1,dive"`
	TotalAmount      decimal.Decimal        `json:"total_price" validate:"required"`
	Instructions     string                 `json:"instructions" validate:"max=500"`
	DeliveryLocation string                 `json:"delivery_location" validate:"required,min=2,max=120"`
}

// UpdateStatusInput is a transition request against one order.
type UpdateStatusInput struct {
	OrderID     uuid.UUID
	ActorID     uuid.UUID
	ActorRole   enums.Role
	Target      enums.OrderStatus
	DeliveryOtp string
}

// OrderView is the order enriched with the party names real-time payloads
// and dashboards need.
type OrderView struct {
	models.Order
	VendorName     string `json:"vendorName"`
	VendorLocation string `json:"vendorLocation"`
	AgentName      string `json:"agentName,omitempty"`
}
