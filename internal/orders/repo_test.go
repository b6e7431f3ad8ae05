package orders

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
	"github.com/campuskart/campuskart-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	vendors := `
CREATE TABLE IF NOT EXISTS vendors (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  store_name TEXT NOT NULL,
  location TEXT NOT NULL,
  zone_key TEXT NOT NULL,
  rating REAL NOT NULL DEFAULT 0,
  is_verified INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
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
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  name TEXT NOT NULL,
  unit_price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  file_ref TEXT,
  print_spec TEXT,
  created_at DATETIME
);`
	for _, stmt := range []string{vendors, orders, orderItems} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedVendor(t *testing.T, db *gorm.DB, zoneKey string) models.Vendor {
	t.Helper()
	vendor := models.Vendor{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		StoreName: "Campus Prints",
		Location:  "Hostel A",
		ZoneKey:   zoneKey,
	}
	require.NoError(t, db.Create(&vendor).Error)
	return vendor
}

func seedOrder(t *testing.T, db *gorm.DB, vendorID uuid.UUID, status enums.OrderStatus, agentID *uuid.UUID) models.Order {
	t.Helper()
	order := models.Order{
		ID:               uuid.New(),
		CustomerID:       uuid.New(),
		VendorID:         vendorID,
		DeliveryAgentID:  agentID,
		TotalAmount:      decimal.NewFromInt(100),
		Status:           status,
		PaymentStatus:    enums.PaymentStatusUnpaid,
		DeliveryLocation: "Hostel A",
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestRepositoryClaimIsGuarded(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	vendor := seedVendor(t, db, "hostel_a")
	order := seedOrder(t, db, vendor.ID, enums.OrderStatusAccepted, nil)

	firstAgent := uuid.New()
	won, err := repo.Claim(ctx, order.ID, firstAgent)
	require.NoError(t, err)
	assert.True(t, won)

	// a rival claim against the now-assigned order must lose
	won, err = repo.Claim(ctx, order.ID, uuid.New())
	require.NoError(t, err)
	assert.False(t, won)

	reloaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.DeliveryAgentID)
	assert.Equal(t, firstAgent, *reloaded.DeliveryAgentID)
	assert.Equal(t, enums.OrderStatusAgentRequested, reloaded.Status)
}

func TestRepositoryUpdateStatusRequiresExpectedState(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	vendor := seedVendor(t, db, "hostel_a")
	order := seedOrder(t, db, vendor.ID, enums.OrderStatusPending, nil)

	moved, err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusAccepted)
	require.NoError(t, err)
	assert.True(t, moved)

	// stale pre-image: the order is no longer pending
	moved, err = repo.UpdateStatus(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusCancelled)
	require.NoError(t, err)
	assert.False(t, moved)
}

func TestRepositoryListAvailable(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	hostelA := seedVendor(t, db, "hostel_a")
	hostelB := seedVendor(t, db, "hostel_b")
	agentID := uuid.New()

	open := seedOrder(t, db, hostelA.ID, enums.OrderStatusAccepted, nil)
	seedOrder(t, db, hostelA.ID, enums.OrderStatusPending, nil)
	seedOrder(t, db, hostelA.ID, enums.OrderStatusAccepted, &agentID)
	seedOrder(t, db, hostelB.ID, enums.OrderStatusAccepted, nil)

	available, err := repo.ListAvailable(ctx, "hostel_a")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, open.ID, available[0].ID)
	for _, order := range available {
		assert.Nil(t, order.DeliveryAgentID)
		assert.Equal(t, enums.OrderStatusAccepted, order.Status)
	}
}

func TestRepositoryListByAgentNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	vendor := seedVendor(t, db, "hostel_a")
	agentID := uuid.New()

	older := seedOrder(t, db, vendor.ID, enums.OrderStatusDelivered, &agentID)
	require.NoError(t, db.Model(&models.Order{}).
		Where("id = ?", older.ID).
		Update("created_at", "2024-01-01 10:00:00").Error)
	newer := seedOrder(t, db, vendor.ID, enums.OrderStatusOutForDelivery, &agentID)
	seedOrder(t, db, vendor.ID, enums.OrderStatusAccepted, nil)

	mine, err := repo.ListByAgent(ctx, agentID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, newer.ID, mine[0].ID)
	assert.Equal(t, older.ID, mine[1].ID)
}

func TestRepositoryListAllCursorPaging(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	vendor := seedVendor(t, db, "hostel_a")
	stamps := []string{
		"2024-01-01 10:00:00",
		"2024-01-02 10:00:00",
		"2024-01-03 10:00:00",
	}
	for _, stamp := range stamps {
		order := seedOrder(t, db, vendor.ID, enums.OrderStatusPending, nil)
		require.NoError(t, db.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("created_at", stamp).Error)
	}

	first, err := repo.ListAll(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.True(t, first[0].CreatedAt.After(first[1].CreatedAt))

	cursor := pagination.EncodeCursor(pagination.Cursor{
		CreatedAt: first[1].CreatedAt,
		ID:        first[1].ID,
	})
	second, err := repo.ListAll(ctx, pagination.Params{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.NotEqual(t, first[0].ID, second[0].ID)
	assert.NotEqual(t, first[1].ID, second[0].ID)
	assert.True(t, first[1].CreatedAt.After(second[0].CreatedAt))

	_, err = repo.ListAll(ctx, pagination.Params{Cursor: "!!not-a-cursor"})
	assert.Error(t, err)
}

func TestRepositoryMarkPaidOnce(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	vendor := seedVendor(t, db, "hostel_a")
	order := seedOrder(t, db, vendor.ID, enums.OrderStatusPending, nil)

	flipped, err := repo.MarkPaid(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, flipped)

	flipped, err = repo.MarkPaid(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, flipped)
}

func TestRepositoryCreatePersistsItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	vendor := seedVendor(t, db, "hostel_a")
	order := &models.Order{
		ID:               uuid.New(),
		CustomerID:       uuid.New(),
		VendorID:         vendor.ID,
		TotalAmount:      decimal.NewFromInt(40),
		Status:           enums.OrderStatusPending,
		PaymentStatus:    enums.PaymentStatusUnpaid,
		DeliveryLocation: "Hostel A",
		Items: []models.OrderItem{
			{
				ID:        uuid.New(),
				Name:      "Lab report",
				UnitPrice: decimal.NewFromInt(40),
				Quantity:  1,
				FileRef:   "uploads/lab-report.pdf",
				PrintSpec: &models.PrintSpec{
					ColorMode: enums.PrintColorModeBlackAndWhite,
					PageCount: 12,
					Copies:    2,
				},
			},
		},
	}
	require.NoError(t, repo.Create(ctx, order))

	reloaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, "Lab report", reloaded.Items[0].Name)
	require.NotNil(t, reloaded.Items[0].PrintSpec)
	assert.Equal(t, 12, reloaded.Items[0].PrintSpec.PageCount)
}
