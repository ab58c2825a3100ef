package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sliceworks/pizzeria-backend/pkg/db/models"
	"github.com/sliceworks/pizzeria-backend/pkg/enums"
	pkgerrors "github.com/sliceworks/pizzeria-backend/pkg/errors"
)

type stubRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newStubRepo() *stubRepo {
	return &stubRepo{orders: map[uuid.UUID]*models.Order{}}
}

func (s *stubRepo) Create(_ context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders[order.ID] = order
	return nil
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := s.orders[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindByPaymentSession(_ context.Context, paymentSessionID string) (*models.Order, error) {
	for _, order := range s.orders {
		if order.PaymentSessionID != nil && *order.PaymentSessionID == paymentSessionID {
			copied := *order
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enums.OrderStatus) (int64, error) {
	if order, ok := s.orders[id]; ok {
		order.Status = status
		return 1, nil
	}
	return 0, nil
}

func (s *stubRepo) SetPaymentSession(_ context.Context, id uuid.UUID, paymentSessionID string) error {
	if order, ok := s.orders[id]; ok {
		order.PaymentSessionID = &paymentSessionID
	}
	return nil
}

func (s *stubRepo) List(_ context.Context, status *enums.OrderStatus, _, _ int) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if status == nil || order.Status == *status {
			out = append(out, *order)
		}
	}
	return out, nil
}

func pendingOrder() *models.Order {
	return &models.Order{
		SessionID: "session-1",
		Status:    enums.OrderStatusPending,
		Method:    enums.FulfillmentPickup,
		LineItems: []models.OrderLineItem{{ItemID: "margherita", Name: "Margherita", Quantity: 1}},
	}
}

func TestCreateRejectsEmptyOrders(t *testing.T) {
	t.Parallel()

	svc, err := NewService(newStubRepo())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	err = svc.Create(context.Background(), &models.Order{SessionID: "session-1"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("err = %v", err)
	}
}

func TestMarkPaidTransitionsPendingOnly(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()

	order := pendingOrder()
	if err := svc.Create(ctx, order); err != nil {
		t.Fatalf("Create: %v", err)
	}

	paid, err := svc.MarkPaid(ctx, order.ID)
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if paid.Status != enums.OrderStatusPaid {
		t.Fatalf("status = %s", paid.Status)
	}

	// Paying again is a state conflict.
	if _, err := svc.MarkPaid(ctx, order.ID); !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("err = %v", err)
	}
}

func TestMarkPaidUnknownOrder(t *testing.T) {
	t.Parallel()

	svc, err := NewService(newStubRepo())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if _, err := svc.MarkPaid(context.Background(), uuid.New()); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestCancelPendingOnly(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()

	order := pendingOrder()
	if err := svc.Create(ctx, order); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Cancel(ctx, order.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if err := svc.Cancel(ctx, order.ID); !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("err = %v", err)
	}
}

func TestGetByPaymentSession(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()

	order := pendingOrder()
	if err := svc.Create(ctx, order); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.AttachPaymentSession(ctx, order.ID, "cs_test_123"); err != nil {
		t.Fatalf("AttachPaymentSession: %v", err)
	}

	found, err := svc.GetByPaymentSession(ctx, "cs_test_123")
	if err != nil {
		t.Fatalf("GetByPaymentSession: %v", err)
	}
	if found.ID != order.ID {
		t.Fatalf("id = %s", found.ID)
	}

	if _, err := svc.GetByPaymentSession(ctx, ""); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("err = %v", err)
	}
}
