package models

import (
	"time"

	"github.com/google/uuid"
)

// Location is an admin-managed delivery zone.
type Location struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	ZoneKey     string    `gorm:"column:zone_key;not null;uniqueIndex" json:"zoneKey"`
	IsAvailable bool      `gorm:"column:is_available;not null;default:true" json:"isAvailable"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
