// Package push delivers notifications to mobile devices through an
// external push gateway. The gateway fronts APNs and FCM; this package
// only speaks JSON over HTTP to it.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notification is one message for one device.
type Notification struct {
	DeliveryID     string `json:"delivery_id"`
	Token          string `json:"token"`
	Platform       string `json:"platform"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	PostID         string `json:"post_id"`
	OrganizationID string `json:"organization_id"`
}

// Sender delivers a single notification. Implementations must be safe
// for concurrent use.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// NewDeliveryID returns a fresh delivery identifier. The gateway
// deduplicates on it, so retried sends reuse the original.
func NewDeliveryID() string { return uuid.NewString() }

// GatewaySender posts notifications to the push gateway one at a time.
type GatewaySender struct {
	url    string
	apiKey string
	client *http.Client
	logger *zap.Logger
}

func NewGatewaySender(url, apiKey string, logger *zap.Logger) *GatewaySender {
	return &GatewaySender{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

func (g *GatewaySender) Send(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("X-Delivery-ID", n.DeliveryID)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("push gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		g.logger.Warn("push gateway rejected notification",
			zap.String("delivery_id", n.DeliveryID),
			zap.String("platform", n.Platform),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("push gateway: HTTP %d", resp.StatusCode)
	}
	return nil
}

// NopSender discards notifications. Used in dev environments with no
// gateway configured, and in tests.
type NopSender struct{}

func (NopSender) Send(context.Context, Notification) error { return nil }
