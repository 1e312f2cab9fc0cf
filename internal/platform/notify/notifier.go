// Package notify delivers scan lifecycle events to configured webhook
// endpoints. Payloads are HMAC-SHA256 signed so receivers can verify origin.
// Delivery is best-effort with bounded retries; the scan status field remains
// the source of truth for clients that poll.
package notify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	EventScanCompleted = "scan.completed"
	EventScanFailed    = "scan.failed"

	signatureHeader = "X-CalcifyX-Signature"
	eventHeader     = "X-CalcifyX-Event"
	maxAttempts     = 3
)

// Event is the webhook payload for a scan lifecycle transition.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	ScanID    string          `json:"scan_id"`
	PatientID string          `json:"patient_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Notifier fans an event out to all configured endpoints.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

type webhookNotifier struct {
	urls   []string
	secret []byte
	client *resty.Client
	logger zerolog.Logger
}

// NewWebhookNotifier returns a Notifier that POSTs signed events to each URL.
func NewWebhookNotifier(urls []string, secret string, logger zerolog.Logger) Notifier {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(maxAttempts - 1).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second)
	return &webhookNotifier{
		urls:   urls,
		secret: []byte(secret),
		client: client,
		logger: logger,
	}
}

func (n *webhookNotifier) Notify(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		n.logger.Error().Err(err).Str("event", event.Type).Msg("marshal webhook event")
		return
	}
	sig := Sign(n.secret, body)

	for _, url := range n.urls {
		resp, err := n.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetHeader(eventHeader, event.Type).
			SetHeader(signatureHeader, sig).
			SetBody(body).
			Post(url)
		if err != nil {
			n.logger.Error().Err(err).Str("url", url).Str("event", event.Type).Msg("webhook delivery failed")
			continue
		}
		n.logger.Info().
			Str("url", url).
			Str("event", event.Type).
			Int("status", resp.StatusCode()).
			Msg("webhook delivered")
	}
}

// Sign computes the hex HMAC-SHA256 signature for a payload.
func Sign(secret, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether sig is a valid signature for payload.
func VerifySignature(secret, payload []byte, sig string) bool {
	return hmac.Equal([]byte(Sign(secret, payload)), []byte(sig))
}

type noopNotifier struct{}

// NewNoop returns a Notifier that drops every event.
func NewNoop() Notifier { return noopNotifier{} }

func (noopNotifier) Notify(context.Context, Event) {}
