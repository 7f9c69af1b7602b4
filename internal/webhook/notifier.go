// Package webhook posts intake events to an external automation endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pysugar/channel-onboard/internal/logging"
)

const DefaultTimeout = 10 * time.Second

// Event is the payload sent for every new client.
type Event struct {
	ClientID    string `json:"clientId"`
	ChannelID   string `json:"channelId"`
	CompanyName string `json:"companyName"`
	Industry    string `json:"industry"`
}

// Notifier delivers events with a single POST and no retries.
type Notifier struct {
	url    string
	client *http.Client
}

// New returns nil when url is empty; a nil Notifier ignores events.
func New(url string, timeout time.Duration) *Notifier {
	if url == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Notifier{url: url, client: &http.Client{Timeout: timeout}}
}

// Enabled reports whether events are actually sent.
func (n *Notifier) Enabled() bool {
	return n != nil && n.url != ""
}

// Notify sends the event. Any non-2xx status is an error.
func (n *Notifier) Notify(ctx context.Context, ev Event) error {
	if !n.Enabled() {
		return nil
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode webhook event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if id := logging.GetRequestID(ctx); id != "" {
		req.Header.Set(logging.HeaderRequestID, id)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	logging.Printf(ctx, "✅ n8n webhook triggered for client %s", ev.ClientID)
	return nil
}
