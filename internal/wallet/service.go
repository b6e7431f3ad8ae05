package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/campuskart/campuskart-backend/pkg/db/models"
	"github.com/campuskart/campuskart-backend/pkg/enums"
	pkgerrors "github.com/campuskart/campuskart-backend/pkg/errors"
)

const transactionHistoryLimit = 50

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes wallet operations for the admin panel and user dashboard.
type Service interface {
	AddFunds(ctx context.Context, input AddFundsInput) (*models.User, error)
	MyWallet(ctx context.Context, userID uuid.UUID) (*WalletView, error)
	SystemEarnings(ctx context.Context) (*EarningsAggregate, error)
}

// Ledger is the internal surface order settlement uses to move money inside
// an existing transaction.
type Ledger interface {
	Debit(ctx context.Context, tx *gorm.DB, entry EntryInput) error
	Credit(ctx context.Context, tx *gorm.DB, entry EntryInput) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// AddFundsInput is an admin top-up of a user's wallet.
type AddFundsInput struct {
	UserID      uuid.UUID       `json:"user_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Description string          `json:"description" validate:"max=240"`
}

// EntryInput describes one ledger movement tied to an order.
type EntryInput struct {
	UserID      uuid.UUID
	Amount      decimal.Decimal
	OrderID     *uuid.UUID
	Description string
}

// WalletView combines the balance with recent ledger entries.
type WalletView struct {
	Balance      decimal.Decimal      `json:"balance"`
	Transactions []models.Transaction `json:"transactions"`
}

// NewService wires a wallet service with its repository and transaction runner.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// NewLedger exposes the settlement surface backed by the same repository.
func NewLedger(repo Repository) (Ledger, error) {
	if repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) AddFunds(ctx context.Context, input AddFundsInput) (*models.User, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	description := input.Description
	if description == "" {
		description = "funds added by admin"
	}

	var user *models.User
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		locked, err := repo.FindUserForUpdate(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}

		locked.WalletBalance = locked.WalletBalance.Add(input.Amount)
		if err := repo.UpdateBalance(ctx, locked.ID, locked.WalletBalance); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update balance")
		}
		if err := repo.CreateTransaction(ctx, &models.Transaction{
			UserID:      locked.ID,
			Amount:      input.Amount,
			Type:        enums.TransactionTypeCredit,
			Description: description,
			Status:      enums.TransactionStatusSuccess,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record transaction")
		}
		user = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Debit moves money out of a user's wallet inside the caller's transaction.
// Fails when the balance cannot cover the amount.
func (s *service) Debit(ctx context.Context, tx *gorm.DB, entry EntryInput) error {
	if !entry.Amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	repo := s.repo.WithTx(tx)
	user, err := repo.FindUserForUpdate(ctx, entry.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user.WalletBalance.LessThan(entry.Amount) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient wallet balance")
	}
	if err := repo.UpdateBalance(ctx, user.ID, user.WalletBalance.Sub(entry.Amount)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update balance")
	}
	if err := repo.CreateTransaction(ctx, &models.Transaction{
		UserID:      user.ID,
		Amount:      entry.Amount,
		Type:        enums.TransactionTypeDebit,
		Description: entry.Description,
		OrderID:     entry.OrderID,
		Status:      enums.TransactionStatusSuccess,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record transaction")
	}
	return nil
}

// Credit moves money into a user's wallet inside the caller's transaction.
func (s *service) Credit(ctx context.Context, tx *gorm.DB, entry EntryInput) error {
	if !entry.Amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	repo := s.repo.WithTx(tx)
	user, err := repo.FindUserForUpdate(ctx, entry.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if err := repo.UpdateBalance(ctx, user.ID, user.WalletBalance.Add(entry.Amount)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update balance")
	}
	if err := repo.CreateTransaction(ctx, &models.Transaction{
		UserID:      user.ID,
		Amount:      entry.Amount,
		Type:        enums.TransactionTypeCredit,
		Description: entry.Description,
		OrderID:     entry.OrderID,
		Status:      enums.TransactionStatusSuccess,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record transaction")
	}
	return nil
}

func (s *service) MyWallet(ctx context.Context, userID uuid.UUID) (*WalletView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	user, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	txns, err := s.repo.ListTransactions(ctx, userID, transactionHistoryLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}
	return &WalletView{Balance: user.WalletBalance, Transactions: txns}, nil
}

func (s *service) SystemEarnings(ctx context.Context) (*EarningsAggregate, error) {
	totals, err := s.repo.EarningsTotals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate earnings")
	}
	return totals, nil
}
