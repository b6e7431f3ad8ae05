package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/campuskart/campuskart-backend/api/middleware"
	"github.com/campuskart/campuskart-backend/internal/dispatch"
	"github.com/campuskart/campuskart-backend/pkg/db/models"
	"github.com/campuskart/campuskart-backend/pkg/enums"
)

type stubDeliveryService struct {
	stubOrdersService

	available func(ctx context.Context, zone string) ([]models.Order, error)
	mine      func(ctx context.Context, agentID uuid.UUID) ([]models.Order, error)
}

func (s *stubDeliveryService) ListAvailable(ctx context.Context, zone string) ([]models.Order, error) {
	if s.available != nil {
		return s.available(ctx, zone)
	}
	return nil, nil
}

func (s *stubDeliveryService) ListMine(ctx context.Context, agentID uuid.UUID) ([]models.Order, error) {
	if s.mine != nil {
		return s.mine(ctx, agentID)
	}
	return nil, nil
}

func TestListAvailableRequiresLocation(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/delivery/available", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), uuid.New(), "Ben", enums.RoleAgent))

	resp := httptest.NewRecorder()
	ListAvailableDeliveries(&stubDeliveryService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListAvailablePassesLocation(t *testing.T) {
	svc := &stubDeliveryService{
		available: func(ctx context.Context, zone string) ([]models.Order, error) {
			if zone != "Hostel A" {
				t.Fatalf("unexpected location %q", zone)
			}
			return []models.Order{{ID: uuid.New(), Status: enums.OrderStatusAccepted}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/delivery/available?location=Hostel+A", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), uuid.New(), "Ben", enums.RoleAgent))

	resp := httptest.NewRecorder()
	ListAvailableDeliveries(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestListMyDeliveriesUsesIdentity(t *testing.T) {
	agentID := uuid.New()
	svc := &stubDeliveryService{
		mine: func(ctx context.Context, incoming uuid.UUID) ([]models.Order, error) {
			if incoming != agentID {
				t.Fatalf("agent id not taken from context")
			}
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/delivery/mine", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), agentID, "Ben", enums.RoleAgent))

	resp := httptest.NewRecorder()
	ListMyDeliveries(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestStreamDeliveriesRequiresLocation(t *testing.T) {
	hub := dispatch.NewHub(4, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/delivery/stream", nil)

	resp := httptest.NewRecorder()
	StreamDeliveries(hub, time.Second, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestStreamDeliveriesHandshakeAndHeartbeat(t *testing.T) {
	hub := dispatch.NewHub(4, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/delivery/stream?location=Hostel+A", nil).WithContext(ctx)
	resp := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		StreamDeliveries(hub, 5*time.Millisecond, nil).ServeHTTP(resp, req)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream handler did not stop on context cancel")
	}

	if got := resp.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("unexpected content type %q", got)
	}
	body := resp.Body.String()
	if !strings.Contains(body, ": connected") {
		t.Fatalf("handshake comment missing: %q", body)
	}
	if !strings.Contains(body, ": ping") {
		t.Fatalf("heartbeat comment missing: %q", body)
	}
}
