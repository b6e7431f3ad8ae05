package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Commission is the singleton policy row holding the current percentage
// split applied at order settlement.
type Commission struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyRate  decimal.Decimal `gorm:"column:company_rate;type:numeric(5,2);not null;default:5" json:"companyRate"`
	DeliveryRate decimal.Decimal `gorm:"column:delivery_rate;type:numeric(5,2);not null;default:5" json:"deliveryRate"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
