package economy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// minPostInterval spaces posts to the ledger. The platform API rate
// limits clients as an anti-cheat measure; staying under its window
// locally beats getting 429s back.
const minPostInterval = time.Second

// HTTPRecorder posts results as JSON to the platform's ledger endpoint
type HTTPRecorder struct {
	client *http.Client
	url    string
	token  string

	mu   sync.Mutex
	next time.Time
}

// NewHTTPRecorder builds a recorder for the given endpoint. The token
// may be empty when the ledger sits behind local auth.
func NewHTTPRecorder(url, token string) *HTTPRecorder {
	return &HTTPRecorder{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
		token:  token,
	}
}

// reserve claims the next posting slot and returns how long to wait
// for it
func (r *HTTPRecorder) reserve() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	wait := time.Until(r.next)
	if wait < 0 {
		wait = 0
	}
	r.next = time.Now().Add(wait + minPostInterval)
	return wait
}

// Record implements Recorder
func (r *HTTPRecorder) Record(ctx context.Context, result Result) error {
	if wait := r.reserve(); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building ledger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("ledger request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ledger returned status %d", resp.StatusCode)
	}
	return nil
}
