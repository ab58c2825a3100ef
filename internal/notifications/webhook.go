package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sliceworks/pizzeria-backend/pkg/config"
	"github.com/sliceworks/pizzeria-backend/pkg/db/models"
	"github.com/sliceworks/pizzeria-backend/pkg/logger"
)

const defaultTimeout = 5 * time.Second

// Notifier posts order announcements to the configured chat webhook.
// Delivery is best effort: failures are logged and never surfaced to the
// buyer's request, and a missing webhook URL disables the notifier.
type Notifier struct {
	httpClient *http.Client
	webhookURL string
	logg       *logger.Logger
}

// Option configures optional notifier behavior.
type Option func(*Notifier)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(n *Notifier) {
		if client != nil {
			n.httpClient = client
		}
	}
}

// NewNotifier builds the webhook notifier from config. A blank webhook
// URL yields a disabled notifier rather than an error so local setups
// work without one.
func NewNotifier(cfg config.NotifyConfig, logg *logger.Logger, opts ...Option) *Notifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	n := &Notifier{
		httpClient: &http.Client{Timeout: timeout},
		webhookURL: strings.TrimSpace(cfg.WebhookURL),
		logg:       logg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// Enabled reports whether a webhook URL is configured.
func (n *Notifier) Enabled() bool {
	return n != nil && n.webhookURL != ""
}

type webhookPayload struct {
	Content string `json:"content"`
}

// OrderPlaced announces a new pending order. Callers should invoke it
// from a goroutine; it blocks only for the HTTP round trip.
func (n *Notifier) OrderPlaced(ctx context.Context, order *models.Order) {
	if !n.Enabled() || order == nil {
		return
	}

	content := fmt.Sprintf(
		"New %s order %s from %s: %d item(s), total $%s",
		order.Method, order.ID, order.ContactName, len(order.LineItems), order.Total.StringFixed(2),
	)
	n.post(ctx, content)
}

// OrderPaid announces a completed payment.
func (n *Notifier) OrderPaid(ctx context.Context, order *models.Order) {
	if !n.Enabled() || order == nil {
		return
	}
	n.post(ctx, fmt.Sprintf("Order %s paid, total $%s", order.ID, order.Total.StringFixed(2)))
}

func (n *Notifier) post(ctx context.Context, content string) {
	payload, err := json.Marshal(webhookPayload{Content: content})
	if err != nil {
		n.logError(ctx, "encoding webhook payload", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		n.logError(ctx, "building webhook request", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logError(ctx, "delivering webhook", err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		n.logError(ctx, "delivering webhook", fmt.Errorf("status %d", resp.StatusCode))
	}
}

func (n *Notifier) logError(ctx context.Context, msg string, err error) {
	if n.logg != nil {
		n.logg.Error(ctx, msg, err)
	}
}
