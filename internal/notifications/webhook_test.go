package notifications

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sliceworks/pizzeria-backend/pkg/config"
	"github.com/sliceworks/pizzeria-backend/pkg/db/models"
)

func testOrder() *models.Order {
	return &models.Order{
		ID:          uuid.New(),
		ContactName: "Sam Reyes",
		Method:      "pickup",
		Total:       decimal.RequireFromString("11.30"),
		LineItems:   []models.OrderLineItem{{ItemID: "margherita", Quantity: 1}},
	}
}

func TestOrderPlacedPostsContent(t *testing.T) {
	t.Parallel()

	var got webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewNotifier(config.NotifyConfig{WebhookURL: server.URL}, nil)
	notifier.OrderPlaced(context.Background(), testOrder())

	if !strings.Contains(got.Content, "pickup") || !strings.Contains(got.Content, "11.30") {
		t.Fatalf("content = %q", got.Content)
	}
}

func TestDisabledNotifierIsSilent(t *testing.T) {
	t.Parallel()

	notifier := NewNotifier(config.NotifyConfig{}, nil)
	if notifier.Enabled() {
		t.Fatal("blank URL must disable the notifier")
	}
	// Must not panic or block.
	notifier.OrderPlaced(context.Background(), testOrder())
	notifier.OrderPaid(context.Background(), testOrder())
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := NewNotifier(config.NotifyConfig{WebhookURL: server.URL}, nil)
	// Failure is logged, never returned.
	notifier.OrderPaid(context.Background(), testOrder())
}
