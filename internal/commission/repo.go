package commission

import (
	"context"

	"gorm.io/gorm"

	"github.com/campuskart/campuskart-backend/pkg/db/models"
)

// Repository manages the singleton commission policy row.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	First(ctx context.Context) (*models.Commission, error)
	Create(ctx context.Context, commission *models.Commission) error
	Update(ctx context.Context, commission *models.Commission) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a commission repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) First(ctx context.Context) (*models.Commission, error) {
	var commission models.Commission
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		First(&commission).Error; err != nil {
		return nil, err
	}
	return &commission, nil
}

func (r *repository) Create(ctx context.Context, commission *models.Commission) error {
	return r.db.WithContext(ctx).Create(commission).Error
}

func (r *repository) Update(ctx context.Context, commission *models.Commission) error {
	return r.db.WithContext(ctx).Save(commission).Error
}
