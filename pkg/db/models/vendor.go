package models

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is the store profile bound 1:1 to a user identity. Orders reference
// the vendor id, never the owning user id.
type Vendor struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"userId"`
	StoreName  string    `gorm:"column:store_name;not null" json:"storeName"`
	Location   string    `gorm:"column:location;not null" json:"location"`
	ZoneKey    string    `gorm:"column:zone_key;not null;index" json:"zoneKey"`
	Rating     float64   `gorm:"column:rating;not null;default:0" json:"rating"`
	IsVerified bool      `gorm:"column:is_verified;not null;default:false" json:"isVerified"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
