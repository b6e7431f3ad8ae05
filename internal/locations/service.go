package locations

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

// Service defines operations on the delivery location registry.
type Service interface {
	Create(ctx context.Context, input CreateLocationInput) (*models.Location, error)
	ListAvailable(ctx context.Context) ([]models.Location, error)
	ListAll(ctx context.Context) ([]models.Location, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*models.Location, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// CreateLocationInput carries the fields an admin submits for a new zone.
type CreateLocationInput struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	IsAvailable *bool  `json:"is_available"`
}

// NewService wires a location service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("locations repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateLocationInput) (*models.Location, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location name required")
	}

	// Zone key is fixed at write time; "Hostel A" and "hostel  a" are the
	// same zone and must collide here, not at publish time.
	zoneKey := dispatch.ZoneKey(name)
	if zoneKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location name required")
	}

	location := &models.Location{
		Name:        name,
		ZoneKey:     zoneKey,
		IsAvailable: true,
	}
	if input.IsAvailable != nil {
		location.IsAvailable = *input.IsAvailable
	}

	if err := s.repo.Create(ctx, location); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "location already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create location")
	}
	return location, nil
}

func (s *service) ListAvailable(ctx context.Context) ([]models.Location, error) {
	locations, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations")
	}
	return locations, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.Location, error) {
	locations, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations")
	}
	return locations, nil
}

func (s *service) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*models.Location, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location id required")
	}
	location, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	if location.IsAvailable == available {
		return location, nil
	}
	location.IsAvailable = available
	if err := s.repo.Update(ctx, location); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update location")
	}
	return location, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "location id required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete location")
	}
	return nil
}
