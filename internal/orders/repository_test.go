package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sliceworks/pizzeria-backend/pkg/db/models"
	"github.com/sliceworks/pizzeria-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ordersDDL := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  fulfillment_method TEXT NOT NULL,
  contact_name TEXT NOT NULL,
  contact_email TEXT NOT NULL,
  contact_phone TEXT NOT NULL,
  street TEXT,
  city TEXT,
  postal_code TEXT,
  subtotal TEXT NOT NULL,
  tax TEXT NOT NULL,
  total TEXT NOT NULL,
  payment_session_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	lineItemsDDL := `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  name TEXT NOT NULL,
  unit_base TEXT NOT NULL,
  unit_tax TEXT NOT NULL,
  unit_total TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  selected_ingredients TEXT,
  selected_options TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ordersDDL).Error)
	require.NoError(t, db.Exec(lineItemsDDL).Error)
	return db
}

func newOrder(t *testing.T, sessionID string, created time.Time) *models.Order {
	t.Helper()

	subtotal := decimal.RequireFromString("10.00")
	tax := decimal.RequireFromString("1.30")
	order := &models.Order{
		ID:           uuid.New(),
		SessionID:    sessionID,
		Status:       enums.OrderStatusPending,
		Method:       enums.FulfillmentPickup,
		ContactName:  "Sam Reyes",
		ContactEmail: "sam@example.com",
		ContactPhone: "555-0100",
		Subtotal:     subtotal,
		Tax:          tax,
		Total:        subtotal.Add(tax),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	line := models.OrderLineItem{
		ID:        uuid.New(),
		ItemID:    "margherita",
		Name:      "Margherita",
		UnitBase:  subtotal,
		UnitTax:   tax,
		UnitTotal: subtotal.Add(tax),
		Quantity:  1,
		CreatedAt: created,
	}
	order.LineItems = []models.OrderLineItem{line}
	return order
}

func TestRepositoryCreateAndFindByID(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := newOrder(t, "session-1", time.Now().UTC())
	require.NoError(t, repo.Create(context.Background(), order))

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.SessionID, found.SessionID)
	assert.Equal(t, enums.OrderStatusPending, found.Status)
	require.Len(t, found.LineItems, 1)
	assert.Equal(t, "margherita", found.LineItems[0].ItemID)
	assert.True(t, found.Total.Equal(decimal.RequireFromString("11.30")))
}

func TestRepositoryFindByPaymentSession(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := newOrder(t, "session-1", time.Now().UTC())
	require.NoError(t, repo.Create(context.Background(), order))
	require.NoError(t, repo.SetPaymentSession(context.Background(), order.ID, "cs_test_123"))

	found, err := repo.FindByPaymentSession(context.Background(), "cs_test_123")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = repo.FindByPaymentSession(context.Background(), "cs_unknown")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := newOrder(t, "session-1", time.Now().UTC())
	require.NoError(t, repo.Create(context.Background(), order))

	affected, err := repo.UpdateStatus(context.Background(), order.ID, enums.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, found.Status)

	affected, err = repo.UpdateStatus(context.Background(), uuid.New(), enums.OrderStatusPaid)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestRepositoryListFiltersAndOrders(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	older := newOrder(t, "session-1", now.Add(-time.Hour))
	newer := newOrder(t, "session-2", now)
	require.NoError(t, repo.Create(context.Background(), older))
	require.NoError(t, repo.Create(context.Background(), newer))
	_, err := repo.UpdateStatus(context.Background(), newer.ID, enums.OrderStatusPaid)
	require.NoError(t, err)

	all, err := repo.List(context.Background(), nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID, "newest first")

	paid := enums.OrderStatusPaid
	filtered, err := repo.List(context.Background(), &paid, 10, 0)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, newer.ID, filtered[0].ID)
}
