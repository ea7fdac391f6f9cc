package rostersim

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/matchday/internal/domain/types"
)

// ErrUnhealthy is returned when the health probe does not answer 200.
var ErrUnhealthy = errors.New("service unhealthy")

// APIError is a non-2xx answer from the balancer service.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("balance request failed with status %d (%s): %s", e.Status, e.Code, e.Message)
}

// Client talks to a running balancer service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// CheckHealth probes GET /healthz.
func (c *Client) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// Balance posts body to /balance and decodes the reply.
func (c *Client) Balance(ctx context.Context, body types.BalanceRequest) (types.BalanceResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return types.BalanceResponse{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/balance", bytes.NewReader(payload))
	if err != nil {
		return types.BalanceResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return types.BalanceResponse{}, fmt.Errorf("balance request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.BalanceResponse{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		var envelope struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &envelope) == nil {
			apiErr.Code, apiErr.Message = envelope.Code, envelope.Message
		}
		return types.BalanceResponse{}, apiErr
	}

	var out types.BalanceResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return types.BalanceResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}
