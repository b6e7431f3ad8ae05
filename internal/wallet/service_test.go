package wallet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/campuskart/campuskart-backend/pkg/db/models"
	"github.com/campuskart/campuskart-backend/pkg/enums"
	pkgerrors "github.com/campuskart/campuskart-backend/pkg/errors"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRepo struct {
	Repository

	users    map[uuid.UUID]*models.User
	balances map[uuid.UUID]decimal.Decimal
	txns     []models.Transaction
	earnings *EarningsAggregate
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		users:    map[uuid.UUID]*models.User{},
		balances: map[uuid.UUID]decimal.Decimal{},
	}
}

func (s *stubRepo) WithTx(*gorm.DB) Repository { return s }

func (s *stubRepo) FindUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindUserForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.FindUser(ctx, id)
}

func (s *stubRepo) UpdateBalance(_ context.Context, userID uuid.UUID, balance decimal.Decimal) error {
	s.balances[userID] = balance
	s.users[userID].WalletBalance = balance
	return nil
}

func (s *stubRepo) CreateTransaction(_ context.Context, txn *models.Transaction) error {
	s.txns = append(s.txns, *txn)
	return nil
}

func (s *stubRepo) ListTransactions(_ context.Context, userID uuid.UUID, _ int) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, txn := range s.txns {
		if txn.UserID == userID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (s *stubRepo) EarningsTotals(context.Context) (*EarningsAggregate, error) {
	return s.earnings, nil
}

func seedUser(repo *stubRepo, balance int64) *models.User {
	user := &models.User{
		ID:            uuid.New(),
		Name:          "Asha Patel",
		Email:         "asha@campus.edu",
		Role:          enums.RoleUser,
		WalletBalance: decimal.NewFromInt(balance),
	}
	repo.users[user.ID] = user
	return user
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if appErr.Code() != code {
		t.Fatalf("code = %v, want %v", appErr.Code(), code)
	}
}

func TestAddFundsCreditsBalanceAndRecordsLedger(t *testing.T) {
	repo := newStubRepo()
	user := seedUser(repo, 100)
	svc, err := NewService(repo, stubTxRunner{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.AddFunds(context.Background(), AddFundsInput{
		UserID: user.ID,
		Amount: decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.WalletBalance.Equal(decimal.NewFromInt(150)) {
		t.Errorf("balance = %s, want 150", updated.WalletBalance)
	}
	if len(repo.txns) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(repo.txns))
	}
	entry := repo.txns[0]
	if entry.Type != enums.TransactionTypeCredit {
		t.Errorf("type = %v, want credit", entry.Type)
	}
	if entry.Status != enums.TransactionStatusSuccess {
		t.Errorf("status = %v, want success", entry.Status)
	}
}

func TestAddFundsRejectsNonPositiveAmount(t *testing.T) {
	repo := newStubRepo()
	user := seedUser(repo, 0)
	svc, _ := NewService(repo, stubTxRunner{})

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		_, err := svc.AddFunds(context.Background(), AddFundsInput{UserID: user.ID, Amount: amount})
		expectCode(t, err, pkgerrors.CodeValidation)
	}
	if len(repo.txns) != 0 {
		t.Error("no ledger entries expected")
	}
}

func TestAddFundsUnknownUser(t *testing.T) {
	svc, _ := NewService(newStubRepo(), stubTxRunner{})
	_, err := svc.AddFunds(context.Background(), AddFundsInput{
		UserID: uuid.New(),
		Amount: decimal.NewFromInt(10),
	})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestDebitInsufficientBalance(t *testing.T) {
	repo := newStubRepo()
	user := seedUser(repo, 30)
	ledger, err := NewLedger(repo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = ledger.Debit(context.Background(), nil, EntryInput{
		UserID: user.ID,
		Amount: decimal.NewFromInt(50),
	})
	expectCode(t, err, pkgerrors.CodeStateConflict)
	if !user.WalletBalance.Equal(decimal.NewFromInt(30)) {
		t.Errorf("balance = %s, want unchanged 30", user.WalletBalance)
	}
}

func TestDebitAndCreditRoundTrip(t *testing.T) {
	repo := newStubRepo()
	customer := seedUser(repo, 200)
	agent := seedUser(repo, 0)
	ledger, _ := NewLedger(repo)
	orderID := uuid.New()

	if err := ledger.Debit(context.Background(), nil, EntryInput{
		UserID:      customer.ID,
		Amount:      decimal.NewFromInt(120),
		OrderID:     &orderID,
		Description: "order payment",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ledger.Credit(context.Background(), nil, EntryInput{
		UserID:      agent.ID,
		Amount:      decimal.NewFromInt(10),
		OrderID:     &orderID,
		Description: "delivery payout",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !customer.WalletBalance.Equal(decimal.NewFromInt(80)) {
		t.Errorf("customer balance = %s, want 80", customer.WalletBalance)
	}
	if !agent.WalletBalance.Equal(decimal.NewFromInt(10)) {
		t.Errorf("agent balance = %s, want 10", agent.WalletBalance)
	}
	if len(repo.txns) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(repo.txns))
	}
	if repo.txns[0].OrderID == nil || *repo.txns[0].OrderID != orderID {
		t.Error("debit entry should reference the order")
	}
}

func TestMyWallet(t *testing.T) {
	repo := newStubRepo()
	user := seedUser(repo, 75)
	repo.txns = []models.Transaction{
		{UserID: user.ID, Amount: decimal.NewFromInt(75), Type: enums.TransactionTypeCredit},
		{UserID: uuid.New(), Amount: decimal.NewFromInt(5), Type: enums.TransactionTypeCredit},
	}
	svc, _ := NewService(repo, stubTxRunner{})

	view, err := svc.MyWallet(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !view.Balance.Equal(decimal.NewFromInt(75)) {
		t.Errorf("balance = %s, want 75", view.Balance)
	}
	if len(view.Transactions) != 1 {
		t.Errorf("expected only the user's entries, got %d", len(view.Transactions))
	}
}

func TestSystemEarnings(t *testing.T) {
	repo := newStubRepo()
	repo.earnings = &EarningsAggregate{
		TotalOrders:   3,
		TotalSales:    decimal.NewFromInt(600),
		CompanyTotal:  decimal.NewFromInt(60),
		DeliveryTotal: decimal.NewFromInt(30),
		VendorTotal:   decimal.NewFromInt(510),
	}
	svc, _ := NewService(repo, stubTxRunner{})

	totals, err := svc.SystemEarnings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals.TotalOrders != 3 {
		t.Errorf("total orders = %d, want 3", totals.TotalOrders)
	}
	if !totals.TotalSales.Equal(decimal.NewFromInt(600)) {
		t.Errorf("total sales = %s, want 600", totals.TotalSales)
	}
	if !totals.CompanyTotal.Equal(decimal.NewFromInt(60)) {
		t.Errorf("company total = %s, want 60", totals.CompanyTotal)
	}
}
