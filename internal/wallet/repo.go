package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campuskart/campuskart-backend/pkg/db/models"
)

// EarningsAggregate summarizes the commission splits and raw sales volume
// across every order, whatever its status.
type EarningsAggregate struct {
	TotalOrders   int64           `json:"total_orders"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	CompanyTotal  decimal.Decimal `json:"company_total"`
	DeliveryTotal decimal.Decimal `json:"delivery_total"`
	VendorTotal   decimal.Decimal `json:"vendor_total"`
}

// Repository manages wallet balances and the transaction ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateBalance(ctx context.Context, userID uuid.UUID, balance decimal.Decimal) error
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.Transaction, error)
	EarningsTotals(ctx context.Context) (*EarningsAggregate, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a wallet repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindUserForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) UpdateBalance(ctx context.Context, userID uuid.UUID, balance decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("wallet_balance", balance).Error
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *repository) EarningsTotals(ctx context.Context) (*EarningsAggregate, error) {
	var row struct {
		TotalOrders   int64
		TotalSales    decimal.Decimal
		CompanyTotal  decimal.Decimal
		DeliveryTotal decimal.Decimal
		VendorTotal   decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select(`COUNT(*) AS total_orders,
COALESCE(SUM(total_amount), 0) AS total_sales,
COALESCE(SUM(commission_company), 0) AS company_total,
COALESCE(SUM(commission_delivery), 0) AS delivery_total,
COALESCE(SUM(commission_vendor), 0) AS vendor_total`).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &EarningsAggregate{
		TotalOrders:   row.TotalOrders,
		TotalSales:    row.TotalSales,
		CompanyTotal:  row.CompanyTotal,
		DeliveryTotal: row.DeliveryTotal,
		VendorTotal:   row.VendorTotal,
	}, nil
}
