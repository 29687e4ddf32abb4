// Package webhook delivers attendance events to an HTTP endpoint, signed with
// HMAC-SHA256.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

var ErrQueueFull = errors.New("webhook queue full")

// Notifier is an attendance EventSink. Emit only queues; Run performs the
// deliveries. Failed deliveries are logged and not retried.
type Notifier struct {
	url    string
	secret string
	client *http.Client
	queue  chan EventPayload
	logger *slog.Logger
	now    func() time.Time
}

func NewNotifier(url, secret string, queueSize int, logger *slog.Logger) *Notifier {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Notifier{
		url:    url,
		secret: secret,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		queue:  make(chan EventPayload, queueSize),
		logger: logger,
		now:    time.Now,
	}
}

func (n *Notifier) Emit(_ context.Context, event domain.Attendance) error {
	payload := EventPayload{
		Type:      EventAttendanceMarked,
		Data:      event,
		Timestamp: event.Timestamp,
	}

	select {
	case n.queue <- payload:
		return nil
	default:
		n.logger.Warn("webhook queue full, dropping event", "name", event.Name)
		return ErrQueueFull
	}
}

func (n *Notifier) Run(ctx context.Context) {
	n.logger.Info("webhook notifier started", "url", n.url)

	for {
		select {
		case <-ctx.Done():
			n.logger.Info("webhook notifier stopped")
			return
		case event := <-n.queue:
			if err := n.Send(ctx, event); err != nil {
				n.logger.Error("webhook delivery failed", "type", event.Type, "error", err)
			}
		}
	}
}

// Send delivers one event synchronously.
func (n *Notifier) Send(ctx context.Context, event EventPayload) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ts := n.now().Unix()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, Sign(n.secret, ts, payload))
	req.Header.Set(TimestampHeader, strconv.FormatInt(ts, 10))
	req.Header.Set(EventHeader, event.Type)
	req.Header.Set("User-Agent", "Chamada-Webhook/1.0")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("post webhook: HTTP %d", resp.StatusCode)
	}

	return nil
}
