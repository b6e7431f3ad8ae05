package locations

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campuskart/campuskart-backend/pkg/db/models"
)

func setupLocationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS locations (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  zone_key TEXT NOT NULL UNIQUE,
  is_available INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func insertLocation(t *testing.T, db *gorm.DB, name, zoneKey string, available bool) models.Location {
	t.Helper()
	location := models.Location{
		ID:          uuid.New(),
		Name:        name,
		ZoneKey:     zoneKey,
		IsAvailable: available,
	}
	require.NoError(t, db.Create(&location).Error)
	return location
}

func TestRepositoryListAvailableSortsByName(t *testing.T) {
	db := setupLocationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	insertLocation(t, db, "South Gate", "south_gate", true)
	insertLocation(t, db, "Hostel A", "hostel_a", true)
	insertLocation(t, db, "Closed Wing", "closed_wing", false)

	locations, err := repo.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, "Hostel A", locations[0].Name)
	assert.Equal(t, "South Gate", locations[1].Name)
}

func TestRepositoryUniqueZoneKey(t *testing.T) {
	db := setupLocationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	insertLocation(t, db, "Hostel A", "hostel_a", true)

	err := repo.Create(ctx, &models.Location{
		ID:      uuid.New(),
		Name:    "HOSTEL  a",
		ZoneKey: "hostel_a",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE")
}

func TestRepositoryFindByZoneKey(t *testing.T) {
	db := setupLocationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := insertLocation(t, db, "Library", "library", true)

	found, err := repo.FindByZoneKey(ctx, "library")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)

	_, err = repo.FindByZoneKey(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDelete(t *testing.T) {
	db := setupLocationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := insertLocation(t, db, "Library", "library", true)
	require.NoError(t, repo.Delete(ctx, seeded.ID))

	_, err := repo.FindByID(ctx, seeded.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
