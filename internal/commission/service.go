package commission

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/campuskart/campuskart-backend/pkg/db/models"
	pkgerrors "github.com/campuskart/campuskart-backend/pkg/errors"
)

var defaultRate = decimal.NewFromInt(5)

// Service exposes the commission policy used at order settlement.
type Service interface {
	// Get returns the current policy, creating the default row on first use.
	Get(ctx context.Context) (*models.Commission, error)
	Update(ctx context.Context, input UpdateCommissionInput) (*models.Commission, error)
}

type service struct {
	repo Repository
}

// UpdateCommissionInput carries a partial rate update; nil fields keep their
// current value.
type UpdateCommissionInput struct {
	CompanyRate  *decimal.Decimal `json:"company_rate"`
	DeliveryRate *decimal.Decimal `json:"delivery_rate"`
}

// NewService wires a commission service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("commission repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context) (*models.Commission, error) {
	commission, err := s.repo.First(ctx)
	if err == nil {
		return commission, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load commission policy")
	}

	commission = &models.Commission{
		CompanyRate:  defaultRate,
		DeliveryRate: defaultRate,
	}
	if err := s.repo.Create(ctx, commission); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed commission policy")
	}
	return commission, nil
}

func (s *service) Update(ctx context.Context, input UpdateCommissionInput) (*models.Commission, error) {
	if input.CompanyRate == nil && input.DeliveryRate == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one rate required")
	}
	if err := validateRate(input.CompanyRate, "company rate"); err != nil {
		return nil, err
	}
	if err := validateRate(input.DeliveryRate, "delivery rate"); err != nil {
		return nil, err
	}

	commission, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if input.CompanyRate != nil {
		commission.CompanyRate = *input.CompanyRate
	}
	if input.DeliveryRate != nil {
		commission.DeliveryRate = *input.DeliveryRate
	}
	if err := s.repo.Update(ctx, commission); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update commission policy")
	}
	return commission, nil
}

func validateRate(rate *decimal.Decimal, label string) error {
	if rate == nil {
		return nil
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, label+" must be between 0 and 100")
	}
	return nil
}
