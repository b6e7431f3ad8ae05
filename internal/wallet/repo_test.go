package wallet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campuskart/campuskart-backend/pkg/db/models"
	"github.com/campuskart/campuskart-backend/pkg/enums"
)

func setupWalletTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  vendor_id TEXT NOT NULL,
  delivery_agent_id TEXT,
  total_amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'unpaid',
  commission_company NUMERIC NOT NULL DEFAULT 0,
  commission_delivery NUMERIC NOT NULL DEFAULT 0,
  commission_vendor NUMERIC NOT NULL DEFAULT 0,
  delivery_otp TEXT,
  instructions TEXT,
  delivery_location TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	return db
}

func seedEarningsOrder(t *testing.T, db *gorm.DB, status enums.OrderStatus) {
	t.Helper()
	order := models.Order{
		ID:                 uuid.New(),
		CustomerID:         uuid.New(),
		VendorID:           uuid.New(),
		TotalAmount:        decimal.NewFromInt(200),
		Status:             status,
		PaymentStatus:      enums.PaymentStatusUnpaid,
		CommissionCompany:  decimal.NewFromInt(20),
		CommissionDelivery: decimal.NewFromInt(10),
		CommissionVendor:   decimal.NewFromInt(170),
		DeliveryLocation:   "Hostel A",
	}
	require.NoError(t, db.Create(&order).Error)
}

func TestEarningsTotalsSpanAllStatuses(t *testing.T) {
	db := setupWalletTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedEarningsOrder(t, db, enums.OrderStatusDelivered)
	seedEarningsOrder(t, db, enums.OrderStatusAccepted)
	seedEarningsOrder(t, db, enums.OrderStatusCancelled)

	totals, err := repo.EarningsTotals(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), totals.TotalOrders)
	assert.True(t, totals.TotalSales.Equal(decimal.NewFromInt(600)), "total sales = %s", totals.TotalSales)
	assert.True(t, totals.CompanyTotal.Equal(decimal.NewFromInt(60)), "company total = %s", totals.CompanyTotal)
	assert.True(t, totals.DeliveryTotal.Equal(decimal.NewFromInt(30)), "delivery total = %s", totals.DeliveryTotal)
	assert.True(t, totals.VendorTotal.Equal(decimal.NewFromInt(510)), "vendor total = %s", totals.VendorTotal)
}

func TestEarningsTotalsEmptyTable(t *testing.T) {
	db := setupWalletTestDB(t)
	repo := NewRepository(db)

	totals, err := repo.EarningsTotals(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), totals.TotalOrders)
	assert.True(t, totals.TotalSales.IsZero())
	assert.True(t, totals.CompanyTotal.IsZero())
}
