package vendors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuskart/campuskart-backend/internal/dispatch"
	"github.com/campuskart/campuskart-backend/pkg/db"
	"github.com/campuskart/campuskart-backend/pkg/db/models"
	pkgerrors "github.com/campuskart/campuskart-backend/pkg/errors"
)

// Service defines operations on vendor store profiles.
type Service interface {
	Register(ctx context.Context, input RegisterVendorInput) (*models.Vendor, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.Vendor, error)
	List(ctx context.Context) ([]models.Vendor, error)
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) (*models.Vendor, error)
}

type service struct {
	repo Repository
}

// RegisterVendorInput carries the store profile a vendor submits.
type RegisterVendorInput struct {
	UserID    uuid.UUID `json:"-"`
	StoreName string    `json:"store_name" validate:"required,min=2,max=120"`
	Location  string    `json:"location" validate:"required,min=2,max=120"`
}

// NewService wires a vendor service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendors repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Register(ctx context.Context, input RegisterVendorInput) (*models.Vendor, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	storeName := strings.TrimSpace(input.StoreName)
	location := strings.TrimSpace(input.Location)
	if storeName == "" || location == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name and location required")
	}

	vendor := &models.Vendor{
		UserID:    input.UserID,
		StoreName: storeName,
		Location:  location,
		ZoneKey:   dispatch.ZoneKey(location),
	}
	if err := s.repo.Create(ctx, vendor); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "vendor profile already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor")
	}
	return vendor, nil
}

func (s *service) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Vendor, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	vendor, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return vendor, nil
}

func (s *service) List(ctx context.Context) ([]models.Vendor, error) {
	vendors, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}
	return vendors, nil
}

func (s *service) SetVerified(ctx context.Context, id uuid.UUID, verified bool) (*models.Vendor, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	if vendor.IsVerified == verified {
		return vendor, nil
	}
	vendor.IsVerified = verified
	if err := s.repo.Update(ctx, vendor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor")
	}
	return vendor, nil
}
