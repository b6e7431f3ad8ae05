package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuskart/campuskart-backend/api/middleware"
	internalorders "github.com/campuskart/campuskart-backend/internal/orders"
	"github.com/campuskart/campuskart-backend/pkg/db/models"
	"github.com/campuskart/campuskart-backend/pkg/enums"
	pkgerrors "github.com/campuskart/campuskart-backend/pkg/errors"
	"github.com/campuskart/campuskart-backend/pkg/pagination"
)

type stubOrdersService struct {
	create       func(ctx context.Context, input internalorders.CreateOrderInput) (*models.Order, error)
	updateStatus func(ctx context.Context, input internalorders.UpdateStatusInput) (*internalorders.OrderView, error)
	markPaid     func(ctx context.Context, orderID, actorID uuid.UUID, role enums.Role) (*models.Order, error)
	get          func(ctx context.Context, orderID, actorID uuid.UUID, role enums.Role) (*internalorders.OrderView, error)
	listAll      func(ctx context.Context, params pagination.Params) ([]models.Order, error)
}

func (s *stubOrdersService) Create(ctx context.Context, input internalorders.CreateOrderInput) (*models.Order, error) {
	if s.create != nil {
		return s.create(ctx, input)
	}
	return &models.Order{}, nil
}

func (s *stubOrdersService) UpdateStatus(ctx context.Context, input internalorders.UpdateStatusInput) (*internalorders.OrderView, error) {
	if s.updateStatus != nil {
		return s.updateStatus(ctx, input)
	}
	return &internalorders.OrderView{}, nil
}

func (s *stubOrdersService) MarkPaid(ctx context.Context, orderID, actorID uuid.UUID, role enums.Role) (*models.Order, error) {
	if s.markPaid != nil {
		return s.markPaid(ctx, orderID, actorID, role)
	}
	return &models.Order{}, nil
}

func (s *stubOrdersService) Get(ctx context.Context, orderID, actorID uuid.UUID, role enums.Role) (*internalorders.OrderView, error) {
	if s.get != nil {
		return s.get(ctx, orderID, actorID, role)
	}
	return &internalorders.OrderView{}, nil
}

func (s *stubOrdersService) ListAvailable(ctx context.Context, zone string) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrdersService) ListMine(ctx context.Context, agentID uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrdersService) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrdersService) ListForVendor(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrdersService) ListAll(ctx context.Context, params pagination.Params) ([]models.Order, error) {
	if s.listAll != nil {
		return s.listAll(ctx, params)
	}
	return nil, nil
}

func TestCreateOrderSeedsCustomerFromContext(t *testing.T) {
	customerID := uuid.New()
	vendorID := uuid.New()
	svc := &stubOrdersService{
		create: func(ctx context.Context, input internalorders.CreateOrderInput) (*models.Order, error) {
			if input.CustomerID != customerID {
				t.Fatalf("customer id not taken from context: %s", input.CustomerID)
			}
			if input.VendorID != vendorID {
				t.Fatalf("unexpected vendor id %s", input.VendorID)
			}
			return &models.Order{ID: uuid.New(), TotalAmount: input.TotalAmount}, nil
		},
	}

	body := `{
		"vendor_id": "` + vendorID.String() + `",
		"order_items": [{"name": "Notebook", "unit_price": "40", "quantity": 2}],
		"total_price": "80",
		"delivery_location": "Hostel A"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req = req.WithContext(middleware.WithIdentity(req.Context(), customerID, "Asha", enums.RoleUser))

	resp := httptest.NewRecorder()
	CreateOrder(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateOrderRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"bogus": true}`))
	req = req.WithContext(middleware.WithIdentity(req.Context(), uuid.New(), "Asha", enums.RoleUser))

	resp := httptest.NewRecorder()
	CreateOrder(&stubOrdersService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateOrderStatusParsesTargetAndOtp(t *testing.T) {
	orderID := uuid.New()
	agentID := uuid.New()
	svc := &stubOrdersService{
		updateStatus: func(ctx context.Context, input internalorders.UpdateStatusInput) (*internalorders.OrderView, error) {
			if input.OrderID != orderID {
				t.Fatalf("unexpected order id %s", input.OrderID)
			}
			if input.ActorID != agentID || input.ActorRole != enums.RoleAgent {
				t.Fatalf("identity not taken from context")
			}
			if input.Target != enums.OrderStatusDelivered {
				t.Fatalf("unexpected target %s", input.Target)
			}
			if input.DeliveryOtp != "4821" {
				t.Fatalf("otp not passed through: %q", input.DeliveryOtp)
			}
			return &internalorders.OrderView{Order: models.Order{ID: orderID, Status: enums.OrderStatusDelivered}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+orderID.String()+"/status",
		strings.NewReader(`{"status": "delivered", "otp": " 4821 "}`))
	req = req.WithContext(middleware.WithIdentity(req.Context(), agentID, "Ben", enums.RoleAgent))
	req = withURLParam(req, "orderID", orderID.String())

	resp := httptest.NewRecorder()
	UpdateOrderStatus(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data internalorders.OrderView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != enums.OrderStatusDelivered {
		t.Fatalf("unexpected status %s", envelope.Data.Status)
	}
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	orderID := uuid.New()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+orderID.String()+"/status",
		strings.NewReader(`{"status": "teleported"}`))
	req = req.WithContext(middleware.WithIdentity(req.Context(), uuid.New(), "Ben", enums.RoleAgent))
	req = withURLParam(req, "orderID", orderID.String())

	resp := httptest.NewRecorder()
	UpdateOrderStatus(&stubOrdersService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateOrderStatusMapsStateConflict(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{
		updateStatus: func(ctx context.Context, input internalorders.UpdateStatusInput) (*internalorders.OrderView, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order already delivered")
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+orderID.String()+"/status",
		strings.NewReader(`{"status": "cancelled"}`))
	req = req.WithContext(middleware.WithIdentity(req.Context(), uuid.New(), "Asha", enums.RoleUser))
	req = withURLParam(req, "orderID", orderID.String())

	resp := httptest.NewRecorder()
	UpdateOrderStatus(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "order already delivered") {
		t.Fatalf("coded message not surfaced: %s", resp.Body.String())
	}
}

func TestPayOrderBadUUID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/not-a-uuid/pay", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), uuid.New(), "Asha", enums.RoleUser))
	req = withURLParam(req, "orderID", "not-a-uuid")

	resp := httptest.NewRecorder()
	PayOrder(&stubOrdersService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminListOrdersPassesPagination(t *testing.T) {
	svc := &stubOrdersService{
		listAll: func(ctx context.Context, params pagination.Params) ([]models.Order, error) {
			if params.Limit != 5 {
				t.Fatalf("unexpected limit %d", params.Limit)
			}
			if params.Cursor != "abc" {
				t.Fatalf("unexpected cursor %q", params.Cursor)
			}
			return []models.Order{{ID: uuid.New(), TotalAmount: decimal.NewFromInt(100)}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders?limit=5&cursor=abc", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), uuid.New(), "Root", enums.RoleAdmin))

	resp := httptest.NewRecorder()
	AdminListOrders(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
