package orders

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/campuskart/campuskart-backend/internal/dispatch"
	"github.com/campuskart/campuskart-backend/internal/wallet"
	"github.com/campuskart/campuskart-backend/pkg/db/models"
	"github.com/campuskart/campuskart-backend/pkg/enums"
	pkgerrors "github.com/campuskart/campuskart-backend/pkg/errors"
	"github.com/campuskart/campuskart-backend/pkg/logger"
	"github.com/campuskart/campuskart-backend/pkg/pagination"
)

var oneHundred = decimal.NewFromInt(100)

// Service owns the order lifecycle: creation with settlement, the status
// state machine, payment, and the matching views agents pull from.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*OrderView, error)
	MarkPaid(ctx context.Context, orderID, actorID uuid.UUID, role enums.Role) (*models.Order, error)
	Get(ctx context.Context, orderID, actorID uuid.UUID, role enums.Role) (*OrderView, error)
	ListAvailable(ctx context.Context, zone string) ([]models.Order, error)
	ListMine(ctx context.Context, agentID uuid.UUID) ([]models.Order, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error)
	ListForVendor(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListAll(ctx context.Context, params pagination.Params) ([]models.Order, error)
}

type service struct {
	repo       Repository
	tx         txRunner
	vendors    VendorDirectory
	users      UserDirectory
	commission CommissionPolicy
	ledger     wallet.Ledger
	dispatcher dispatch.Dispatcher
	logg       *logger.Logger
}

// NewService builds the order service with its full dependency set.
func NewService(
	repo Repository,
	tx txRunner,
	vendors VendorDirectory,
	users UserDirectory,
	commission CommissionPolicy,
	ledger wallet.Ledger,
	dispatcher dispatch.Dispatcher,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if vendors == nil {
		return nil, fmt.Errorf("vendor directory required")
	}
	if users == nil {
		return nil, fmt.Errorf("user directory required")
	}
	if commission == nil {
		return nil, fmt.Errorf("commission policy required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("wallet ledger required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher required")
	}
	return &service{
		repo:       repo,
		tx:         tx,
		vendors:    vendors,
		users:      users,
		commission: commission,
		ledger:     ledger,
		dispatcher: dispatcher,
		logg:       logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one order item required")
	}
	if !input.TotalAmount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total amount must be positive")
	}
	deliveryLocation := strings.TrimSpace(input.DeliveryLocation)
	if deliveryLocation == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery location required")
	}
	for _, item := range input.Items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
		}
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
		if item.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
		}
	}

	if _, err := s.vendors.FindByID(ctx, input.VendorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}

	policy, err := s.commission.Get(ctx)
	if err != nil {
		return nil, err
	}
	company, delivery, vendorShare := settle(input.TotalAmount, policy.CompanyRate, policy.DeliveryRate)

	order := &models.Order{
		CustomerID:         input.CustomerID,
		VendorID:           input.VendorID,
		TotalAmount:        input.TotalAmount,
		Status:             enums.OrderStatusPending,
		PaymentStatus:      enums.PaymentStatusUnpaid,
		CommissionCompany:  company,
		CommissionDelivery: delivery,
		CommissionVendor:   vendorShare,
		DeliveryOtp:        newDeliveryOtp(),
		Instructions:       strings.TrimSpace(input.Instructions),
		DeliveryLocation:   deliveryLocation,
	}
	for _, item := range input.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      strings.TrimSpace(item.Name),
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			FileRef:   item.FileRef,
			PrintSpec: item.PrintSpec,
		})
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return order, nil
}

// settle splits the total into company/delivery/vendor shares. The split is
// computed once here; the vendor share is clamped at zero when the rates sum
// past 100%.
func settle(total, companyRate, deliveryRate decimal.Decimal) (company, delivery, vendor decimal.Decimal) {
	company = total.Mul(companyRate).Div(oneHundred).Round(2)
	delivery = total.Mul(deliveryRate).Div(oneHundred).Round(2)
	vendor = total.Sub(company).Sub(delivery)
	if vendor.IsNegative() {
		vendor = decimal.Zero
	}
	return company, delivery, vendor
}

// newDeliveryOtp returns the 4-digit handoff code shown to the customer.
// It is displayed, not enforced: no transition checks it.
func newDeliveryOtp() string {
	return fmt.Sprintf("%d", 1000+rand.IntN(9000))
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*OrderView, error) {
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", input.Target))
	}
	if !input.ActorRole.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, fmt.Sprintf("unknown role %q", input.ActorRole))
	}

	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	g, err := resolveTransition(input.ActorRole, order.Status, input.Target)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(ctx, g.ownership, order, input.ActorID); err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		switch g.effect {
		case effectClaim:
			won, err := repo.Claim(ctx, order.ID, input.ActorID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim order")
			}
			if !won {
				return pkgerrors.New(pkgerrors.CodeConflict, "order already claimed by another agent")
			}
			return nil
		case effectPayout:
			moved, err := repo.UpdateStatus(ctx, order.ID, order.Status, input.Target)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
			}
			if !moved {
				return pkgerrors.New(pkgerrors.CodeConflict, "order changed concurrently, retry")
			}
			return s.payout(ctx, tx, order)
		default:
			moved, err := repo.UpdateStatus(ctx, order.ID, order.Status, input.Target)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
			}
			if !moved {
				return pkgerrors.New(pkgerrors.CodeConflict, "order changed concurrently, retry")
			}
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	view, err := s.buildView(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, input.Target, view)
	return view, nil
}

func (s *service) checkOwnership(ctx context.Context, required ownership, order *models.Order, actorID uuid.UUID) error {
	switch required {
	case ownershipCustomer:
		if order.CustomerID != actorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another customer")
		}
	case ownershipVendor:
		vendor, err := s.vendors.FindByUserID(ctx, actorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "vendor profile not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor profile")
		}
		if vendor.ID != order.VendorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another vendor")
		}
	case ownershipAssignedAgent:
		if order.DeliveryAgentID == nil || *order.DeliveryAgentID != actorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order is assigned to another agent")
		}
	}
	return nil
}

// payout credits the delivery and vendor shares once the order is delivered.
// Runs only for paid orders; an unpaid delivery settles when payment lands
// out of band.
func (s *service) payout(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	if order.PaymentStatus != enums.PaymentStatusPaid {
		return nil
	}
	if order.DeliveryAgentID != nil && order.CommissionDelivery.IsPositive() {
		if err := s.ledger.Credit(ctx, tx, wallet.EntryInput{
			UserID:      *order.DeliveryAgentID,
			Amount:      order.CommissionDelivery,
			OrderID:     &order.ID,
			Description: "delivery payout",
		}); err != nil {
			return err
		}
	}
	if order.CommissionVendor.IsPositive() {
		vendor, err := s.vendors.FindByID(ctx, order.VendorID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor for payout")
		}
		if err := s.ledger.Credit(ctx, tx, wallet.EntryInput{
			UserID:      vendor.UserID,
			Amount:      order.CommissionVendor,
			OrderID:     &order.ID,
			Description: "vendor payout",
		}); err != nil {
			return err
		}
	}
	return nil
}

// notify publishes transition events without blocking or failing the
// request. accepted surfaces the job to the vendor's zone; the handshake
// steps broadcast a refresh hint.
func (s *service) notify(ctx context.Context, target enums.OrderStatus, view *OrderView) {
	var publish func(context.Context) error
	switch target {
	case enums.OrderStatusAccepted:
		publish = func(ctx context.Context) error {
			return s.dispatcher.NewDeliveryRequest(ctx, view.VendorLocation, view)
		}
	case enums.OrderStatusAgentRequested, enums.OrderStatusOutForDelivery:
		publish = func(ctx context.Context) error {
			return s.dispatcher.OrderUpdated(ctx, view)
		}
	default:
		return
	}

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := publish(ctx); err != nil && s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("dispatch failed for order %s: %v", view.ID, err))
		}
	}()
}

func (s *service) buildView(ctx context.Context, orderID uuid.UUID) (*OrderView, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	view := &OrderView{Order: *order}

	vendor, err := s.vendors.FindByID(ctx, order.VendorID)
	if err == nil {
		view.VendorName = vendor.StoreName
		view.VendorLocation = vendor.Location
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}

	if order.DeliveryAgentID != nil {
		agent, err := s.users.FindByID(ctx, *order.DeliveryAgentID)
		if err == nil {
			view.AgentName = agent.Name
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agent")
		}
	}
	return view, nil
}

func (s *service) MarkPaid(ctx context.Context, orderID, actorID uuid.UUID, role enums.Role) (*models.Order, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if role != enums.RoleAdmin && order.CustomerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another customer")
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
	}
	if order.Status == enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled orders cannot be paid")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := s.ledger.Debit(ctx, tx, wallet.EntryInput{
			UserID:      order.CustomerID,
			Amount:      order.TotalAmount,
			OrderID:     &order.ID,
			Description: "order payment",
		}); err != nil {
			return err
		}
		flipped, err := repo.MarkPaid(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
		}
		if !flipped {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	order.PaymentStatus = enums.PaymentStatusPaid
	return order, nil
}

func (s *service) Get(ctx context.Context, orderID, actorID uuid.UUID, role enums.Role) (*OrderView, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if err := s.canRead(ctx, order, actorID, role); err != nil {
		return nil, err
	}
	return s.buildView(ctx, order.ID)
}

func (s *service) canRead(ctx context.Context, order *models.Order, actorID uuid.UUID, role enums.Role) error {
	if role == enums.RoleAdmin {
		return nil
	}
	if order.CustomerID == actorID {
		return nil
	}
	if order.DeliveryAgentID != nil && *order.DeliveryAgentID == actorID {
		return nil
	}
	if role == enums.RoleVendor {
		vendor, err := s.vendors.FindByUserID(ctx, actorID)
		if err == nil && vendor.ID == order.VendorID {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "access denied for this order")
}

// ListAvailable is the pull-based reconciliation view: accepted, unassigned
// orders whose vendor sits in the requested zone.
func (s *service) ListAvailable(ctx context.Context, zone string) ([]models.Order, error) {
	zoneKey := dispatch.ZoneKey(zone)
	if zoneKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "zone required")
	}
	orders, err := s.repo.ListAvailable(ctx, zoneKey)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available orders")
	}
	return orders, nil
}

func (s *service) ListMine(ctx context.Context, agentID uuid.UUID) ([]models.Order, error) {
	if agentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	orders, err := s.repo.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list agent orders")
	}
	return orders, nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	orders, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer orders")
	}
	return orders, nil
}

func (s *service) ListForVendor(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	vendor, err := s.vendors.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor profile")
	}
	orders, err := s.repo.ListByVendor(ctx, vendor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendor orders")
	}
	return orders, nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params) ([]models.Order, error) {
	orders, err := s.repo.ListAll(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}
