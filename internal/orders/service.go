package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sliceworks/pizzeria-backend/pkg/db/models"
	"github.com/sliceworks/pizzeria-backend/pkg/enums"
	pkgerrors "github.com/sliceworks/pizzeria-backend/pkg/errors"
)

// Service is the order-record surface used by checkout and the admin API.
type Service interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByPaymentSession(ctx context.Context, paymentSessionID string) (*models.Order, error)
	AttachPaymentSession(ctx context.Context, id uuid.UUID, paymentSessionID string) error

	// MarkPaid moves a pending order to paid. Paying an order twice is a
	// state conflict, not a silent success.
	MarkPaid(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Cancel(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, status *enums.OrderStatus, limit, offset int) ([]models.Order, error)
}

type service struct {
	repo Repository
}

// NewService wires the order service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, order *models.Order) error {
	if order == nil || len(order.LineItems) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "an order needs at least one line item")
	}
	if order.Status == "" {
		order.Status = enums.OrderStatusPending
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting order")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return order, nil
}

func (s *service) GetByPaymentSession(ctx context.Context, paymentSessionID string) (*models.Order, error) {
	if paymentSessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment session id required")
	}
	order, err := s.repo.FindByPaymentSession(ctx, paymentSessionID)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return order, nil
}

func (s *service) AttachPaymentSession(ctx context.Context, id uuid.UUID, paymentSessionID string) error {
	if paymentSessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment session id required")
	}
	if err := s.repo.SetPaymentSession(ctx, id, paymentSessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attaching payment session")
	}
	return nil
}

func (s *service) MarkPaid(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == enums.OrderStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can be paid")
	}

	affected, err := s.repo.UpdateStatus(ctx, id, enums.OrderStatusPaid)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marking order paid")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	order.Status = enums.OrderStatusPaid
	return order, nil
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) error {
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != enums.OrderStatusPending {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can be cancelled")
	}
	if _, err := s.repo.UpdateStatus(ctx, id, enums.OrderStatusCancelled); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancelling order")
	}
	return nil
}

func (s *service) List(ctx context.Context, status *enums.OrderStatus, limit, offset int) ([]models.Order, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	out, err := s.repo.List(ctx, status, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return out, nil
}

func mapLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
}
