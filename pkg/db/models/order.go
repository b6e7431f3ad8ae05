package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuskart/campuskart-backend/pkg/enums"
)

// Order is the central aggregate: a customer's purchase from a single vendor,
// moved through the delivery lifecycle by status transitions only.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID      uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index" json:"customerId"`
	VendorID        uuid.UUID           `gorm:"column:vendor_id;type:uuid;not null;index" json:"vendorId"`
	DeliveryAgentID *uuid.UUID          `gorm:"column:delivery_agent_id;type:uuid;index" json:"deliveryAgentId"`
	TotalAmount     decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null" json:"totalAmount"`
	Status          enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'unpaid'" json:"paymentStatus"`

	// Commission split is settled once at creation and immutable afterwards.
	CommissionCompany  decimal.Decimal `gorm:"column:commission_company;type:numeric(12,2);not null;default:0" json:"commissionCompany"`
	CommissionDelivery decimal.Decimal `gorm:"column:commission_delivery;type:numeric(12,2);not null;default:0" json:"commissionDelivery"`
	CommissionVendor   decimal.Decimal `gorm:"column:commission_vendor;type:numeric(12,2);not null;default:0" json:"commissionVendor"`

	DeliveryOtp      string      `gorm:"column:delivery_otp" json:"deliveryOtp,omitempty"`
	Instructions     string      `gorm:"column:instructions" json:"instructions,omitempty"`
	DeliveryLocation string      `gorm:"column:delivery_location;not null" json:"deliveryLocation"`
	Items            []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt        time.Time   `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
