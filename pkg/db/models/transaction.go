package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuskart/campuskart-backend/pkg/enums"
)

// Transaction is one append-only wallet ledger entry. Rows are never updated
// or deleted.
type Transaction struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	Amount      decimal.Decimal         `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	Type        enums.TransactionType   `gorm:"column:type;type:text;not null" json:"type"`
	Description string                  `gorm:"column:description" json:"description,omitempty"`
	OrderID     *uuid.UUID              `gorm:"column:order_id;type:uuid" json:"orderId,omitempty"`
	Status      enums.TransactionStatus `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
