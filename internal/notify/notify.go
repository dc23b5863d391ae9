// Package notify delivers best-effort outbound notifications. A failed
// attempt is captured as an Outcome for the caller to log and count; it
// never becomes an error that fails the primary operation.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Outcome is the typed result of a delivery attempt.
type Outcome struct {
	Delivered bool
	Err       error
}

type Notifier interface {
	Attempt(ctx context.Context, payload any) Outcome
}

// WebhookNotifier posts JSON payloads to a fixed sink URL.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *WebhookNotifier) Attempt(ctx context.Context, payload any) Outcome {
	if n.url == "" {
		return Outcome{Delivered: false, Err: fmt.Errorf("notification sink not configured")}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Outcome{Delivered: false, Err: fmt.Errorf("marshal payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return Outcome{Delivered: false, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return Outcome{Delivered: false, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return Outcome{Delivered: false, Err: fmt.Errorf("sink responded %d", resp.StatusCode)}
	}
	return Outcome{Delivered: true}
}

// Recorder captures attempted payloads in memory. Test double.
type Recorder struct {
	Payloads []any
	// Fail makes every attempt report failure, for exercising the
	// swallow-and-log contract.
	Fail bool
}

func (r *Recorder) Attempt(ctx context.Context, payload any) Outcome {
	r.Payloads = append(r.Payloads, payload)
	if r.Fail {
		return Outcome{Delivered: false, Err: fmt.Errorf("recorder configured to fail")}
	}
	return Outcome{Delivered: true}
}
