package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuskart/campuskart-backend/pkg/db/models"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// VendorDirectory resolves vendor profiles for ownership checks and zone
// routing.
type VendorDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Vendor, error)
}

// UserDirectory resolves user records for payload enrichment.
type UserDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// CommissionPolicy returns the rates applied at settlement.
type CommissionPolicy interface {
	Get(ctx context.Context) (*models.Commission, error)
}
