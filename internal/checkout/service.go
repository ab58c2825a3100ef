package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sliceworks/pizzeria-backend/internal/cart"
	"github.com/sliceworks/pizzeria-backend/internal/tracking"
	"github.com/sliceworks/pizzeria-backend/pkg/db/models"
	"github.com/sliceworks/pizzeria-backend/pkg/enums"
	pkgerrors "github.com/sliceworks/pizzeria-backend/pkg/errors"
	"github.com/sliceworks/pizzeria-backend/pkg/logger"
	"github.com/sliceworks/pizzeria-backend/pkg/metrics"
	"github.com/sliceworks/pizzeria-backend/pkg/stripe"
)

type cartSource interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type orderStore interface {
	Create(ctx context.Context, order *models.Order) error
	GetByPaymentSession(ctx context.Context, paymentSessionID string) (*models.Order, error)
	AttachPaymentSession(ctx context.Context, id uuid.UUID, paymentSessionID string) error
	MarkPaid(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

type paymentGateway interface {
	CreateCheckoutSession(ctx context.Context, input stripe.SessionInput) (*stripe.Session, error)
}

type tracker interface {
	Start(ctx context.Context, sessionID string) tracking.Status
	Reset(ctx context.Context, sessionID string) tracking.Status
}

type notifier interface {
	OrderPlaced(ctx context.Context, order *models.Order)
	OrderPaid(ctx context.Context, order *models.Order)
}

// InitiateResult is what the storefront needs to redirect the buyer.
type InitiateResult struct {
	OrderID    uuid.UUID `json:"order_id"`
	PaymentURL string    `json:"payment_url"`
}

// Service orchestrates checkout: it freezes the cart into a pending
// order, opens the hosted payment session and reacts to the provider's
// success and cancel callbacks.
type Service interface {
	Initiate(ctx context.Context, sessionID string) (*InitiateResult, error)

	// HandleSuccess confirms payment, clears the session's cart and kicks
	// off the delivery simulation. A replayed callback is idempotent.
	HandleSuccess(ctx context.Context, paymentSessionID string) (*models.Order, error)

	// HandleCancel voids the pending order. The cart is left untouched so
	// the buyer can retry without rebuilding it.
	HandleCancel(ctx context.Context, paymentSessionID string) error
}

// Params collect the checkout service dependencies.
type Params struct {
	Carts    cartSource
	Orders   orderStore
	Gateway  paymentGateway
	Tracker  tracker
	Notifier notifier
	Logger   *logger.Logger
	Metrics  *metrics.StorefrontMetrics
}

type service struct {
	carts    cartSource
	orders   orderStore
	gateway  paymentGateway
	tracker  tracker
	notifier notifier
	logg     *logger.Logger
	metrics  *metrics.StorefrontMetrics
}

// NewService wires the checkout orchestrator.
func NewService(params Params) (Service, error) {
	if params.Carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart service required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order service required")
	}
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment gateway required")
	}
	if params.Tracker == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "tracking simulator required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		carts:    params.Carts,
		orders:   params.Orders,
		gateway:  params.Gateway,
		tracker:  params.Tracker,
		notifier: params.Notifier,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

func (s *service) Initiate(ctx context.Context, sessionID string) (*InitiateResult, error) {
	start := time.Now()
	ctx = s.logg.WithSessionID(ctx, sessionID)

	current, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := validateCheckout(current); err != nil {
		return nil, err
	}

	order := orderFromCart(sessionID, current)
	if err := s.orders.Create(ctx, order); err != nil {
		s.observe("store_failed", start)
		return nil, err
	}
	ctx = s.logg.WithOrderID(ctx, order.ID.String())

	session, err := s.gateway.CreateCheckoutSession(ctx, sessionInput(order, current))
	if err != nil {
		// The buyer's cart is untouched; void the orphaned record so it
		// cannot be paid later.
		if cancelErr := s.orders.Cancel(ctx, order.ID); cancelErr != nil {
			s.logg.Error(ctx, "voiding orphaned order", cancelErr)
		}
		s.observe("gateway_failed", start)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating payment session")
	}

	if err := s.orders.AttachPaymentSession(ctx, order.ID, session.ID); err != nil {
		s.observe("store_failed", start)
		return nil, err
	}

	s.notifyAsync(ctx, func(bg context.Context) { s.notifier.OrderPlaced(bg, order) })
	s.observe("initiated", start)
	s.logg.Info(ctx, "checkout initiated")

	return &InitiateResult{OrderID: order.ID, PaymentURL: session.URL}, nil
}

func (s *service) HandleSuccess(ctx context.Context, paymentSessionID string) (*models.Order, error) {
	start := time.Now()

	order, err := s.orders.GetByPaymentSession(ctx, paymentSessionID)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithOrderID(s.logg.WithSessionID(ctx, order.SessionID), order.ID.String())

	if order.Status == enums.OrderStatusPaid {
		// Replayed callback; everything already happened.
		return order, nil
	}

	paid, err := s.orders.MarkPaid(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, order.SessionID); err != nil {
		// The payment settled; a stale cart is recoverable, failing the
		// callback is not.
		s.logg.Error(ctx, "clearing cart after payment", err)
	}

	s.tracker.Reset(ctx, order.SessionID)
	s.tracker.Start(ctx, order.SessionID)

	s.notifyAsync(ctx, func(bg context.Context) { s.notifier.OrderPaid(bg, paid) })
	s.observe("paid", start)
	s.logg.Info(ctx, "checkout completed")

	return paid, nil
}

func (s *service) HandleCancel(ctx context.Context, paymentSessionID string) error {
	order, err := s.orders.GetByPaymentSession(ctx, paymentSessionID)
	if err != nil {
		return err
	}
	ctx = s.logg.WithOrderID(ctx, order.ID.String())

	if order.Status != enums.OrderStatusPending {
		return nil
	}
	if err := s.orders.Cancel(ctx, order.ID); err != nil {
		return err
	}
	s.logg.Info(ctx, "checkout cancelled")
	return nil
}

func (s *service) notifyAsync(ctx context.Context, fn func(context.Context)) {
	if s.notifier == nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	go fn(bg)
}

func (s *service) observe(outcome string, start time.Time) {
	s.metrics.ObserveCheckout(outcome, time.Since(start))
}

func validateCheckout(c *cart.Cart) error {
	if c.IsEmpty() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if !c.Fulfillment.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "choose pickup or delivery before checkout")
	}
	if strings.TrimSpace(c.Contact.Name) == "" ||
		strings.TrimSpace(c.Contact.Email) == "" ||
		strings.TrimSpace(c.Contact.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "contact name, email and phone are required")
	}
	if c.Fulfillment == enums.FulfillmentDelivery && !c.Contact.HasAddress() {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery orders need a full address")
	}
	return nil
}

func orderFromCart(sessionID string, c *cart.Cart) *models.Order {
	order := &models.Order{
		ID:           uuid.New(),
		SessionID:    sessionID,
		Status:       enums.OrderStatusPending,
		Method:       c.Fulfillment,
		ContactName:  c.Contact.Name,
		ContactEmail: c.Contact.Email,
		ContactPhone: c.Contact.Phone,
		Street:       c.Contact.Street,
		City:         c.Contact.City,
		PostalCode:   c.Contact.PostalCode,
		Subtotal:     c.Subtotal(),
		Tax:          c.Tax(),
		Total:        c.Total(),
	}
	for _, line := range c.Lines {
		order.LineItems = append(order.LineItems, models.OrderLineItem{
			ItemID:              line.ID,
			Name:                line.Name,
			UnitBase:            line.UnitBase,
			UnitTax:             line.UnitTax,
			UnitTotal:           line.UnitTotal,
			Quantity:            line.Quantity,
			SelectedIngredients: pq.StringArray(line.SelectedIngredients),
			SelectedOptions:     pq.StringArray(line.SelectedOptions),
		})
	}
	return order
}

func sessionInput(order *models.Order, c *cart.Cart) stripe.SessionInput {
	items := make([]stripe.SessionLineItem, 0, len(c.Lines))
	for _, line := range c.Lines {
		items = append(items, stripe.SessionLineItem{
			ID:              line.ID,
			Name:            line.Name,
			UnitAmountCents: line.UnitTotal.Shift(2).IntPart(),
			Quantity:        int64(line.Quantity),
			ImageURL:        line.ImageURL,
		})
	}
	return stripe.SessionInput{
		OrderID:    order.ID.String(),
		LineItems:  items,
		TotalCents: c.Total().Shift(2).IntPart(),
	}
}
