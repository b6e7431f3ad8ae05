package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/campuskart/campuskart-backend/api/middleware"
	"github.com/campuskart/campuskart-backend/internal/locations"
	"github.com/campuskart/campuskart-backend/pkg/db/models"
	"github.com/campuskart/campuskart-backend/pkg/enums"
	pkgerrors "github.com/campuskart/campuskart-backend/pkg/errors"
)

type stubLocationsService struct {
	create          func(ctx context.Context, input locations.CreateLocationInput) (*models.Location, error)
	setAvailability func(ctx context.Context, id uuid.UUID, available bool) (*models.Location, error)
	del             func(ctx context.Context, id uuid.UUID) error
}

func (s *stubLocationsService) Create(ctx context.Context, input locations.CreateLocationInput) (*models.Location, error) {
	if s.create != nil {
		return s.create(ctx, input)
	}
	return &models.Location{}, nil
}

func (s *stubLocationsService) ListAvailable(ctx context.Context) ([]models.Location, error) {
	return []models.Location{{Name: "Hostel A"}}, nil
}

func (s *stubLocationsService) ListAll(ctx context.Context) ([]models.Location, error) {
	return nil, nil
}

func (s *stubLocationsService) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*models.Location, error) {
	if s.setAvailability != nil {
		return s.setAvailability(ctx, id, available)
	}
	return &models.Location{}, nil
}

func (s *stubLocationsService) Delete(ctx context.Context, id uuid.UUID) error {
	if s.del != nil {
		return s.del(ctx, id)
	}
	return nil
}

func TestCreateLocationReturnsCreated(t *testing.T) {
	svc := &stubLocationsService{
		create: func(ctx context.Context, input locations.CreateLocationInput) (*models.Location, error) {
			if input.Name != "Hostel B" {
				t.Fatalf("unexpected name %q", input.Name)
			}
			return &models.Location{ID: uuid.New(), Name: input.Name, ZoneKey: "hostel_b"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/locations",
		strings.NewReader(`{"name": "Hostel B"}`))
	req = req.WithContext(middleware.WithIdentity(req.Context(), uuid.New(), "Root", enums.RoleAdmin))

	resp := httptest.NewRecorder()
	CreateLocation(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateLocationDuplicateConflict(t *testing.T) {
	svc := &stubLocationsService{
		create: func(ctx context.Context, input locations.CreateLocationInput) (*models.Location, error) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "location already exists")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/locations",
		strings.NewReader(`{"name": "Hostel A"}`))
	req = req.WithContext(middleware.WithIdentity(req.Context(), uuid.New(), "Root", enums.RoleAdmin))

	resp := httptest.NewRecorder()
	CreateLocation(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestSetLocationAvailabilityRequiresFlag(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodPut, "/api/admin/v1/locations/"+id.String()+"/availability",
		strings.NewReader(`{}`))
	req = req.WithContext(middleware.WithIdentity(req.Context(), uuid.New(), "Root", enums.RoleAdmin))
	req = withURLParam(req, "locationID", id.String())

	resp := httptest.NewRecorder()
	SetLocationAvailability(&stubLocationsService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSetLocationAvailabilityFlipsFlag(t *testing.T) {
	id := uuid.New()
	svc := &stubLocationsService{
		setAvailability: func(ctx context.Context, incoming uuid.UUID, available bool) (*models.Location, error) {
			if incoming != id {
				t.Fatalf("unexpected id %s", incoming)
			}
			if available {
				t.Fatalf("expected availability false")
			}
			return &models.Location{ID: id, IsAvailable: false}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/api/admin/v1/locations/"+id.String()+"/availability",
		strings.NewReader(`{"is_available": false}`))
	req = req.WithContext(middleware.WithIdentity(req.Context(), uuid.New(), "Root", enums.RoleAdmin))
	req = withURLParam(req, "locationID", id.String())

	resp := httptest.NewRecorder()
	SetLocationAvailability(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}
