package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"infinite-experiment/router/internal/models"
	"infinite-experiment/router/internal/models/dtos/requests"
	"infinite-experiment/router/internal/models/dtos/responses"
)

// RoutesPath is the admin API resource every call goes to.
const RoutesPath = "/api/v1/routes"

// ErrTransport marks a request that never produced an HTTP response.
var ErrTransport = errors.New("request failed")

// StatusError is returned when the admin API answered with a non-2xx status.
type StatusError struct {
	Method  string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, RoutesPath, e.Status)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, RoutesPath, e.Status, e.Message)
}

// RoutesClient talks to the admin API of a router.
type RoutesClient struct {
	BaseURL string
	Client  *http.Client
}

// NewRoutesClient creates a client for the admin server at baseURL.
func NewRoutesClient(baseURL string) *RoutesClient {
	return &RoutesClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// List fetches the current routes.
func (c *RoutesClient) List(ctx context.Context) ([]models.RouteView, error) {
	status, body, err := c.do(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, statusError(http.MethodGet, status, body)
	}

	var resp responses.APIResponse[responses.RouteListResponse]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("error decoding routes: %w", err)
	}
	if resp.Data == nil {
		return []models.RouteView{}, nil
	}
	return resp.Data.Routes, nil
}

// Create posts {from, to, type}. The returned status is non-zero whenever the
// server answered, including alongside a *StatusError for non-2xx statuses.
func (c *RoutesClient) Create(ctx context.Context, req requests.CreateRouteRequest) (int, error) {
	return c.mutate(ctx, http.MethodPost, req)
}

// Delete sends {from} as the body of a DELETE.
func (c *RoutesClient) Delete(ctx context.Context, req requests.DeleteRouteRequest) (int, error) {
	return c.mutate(ctx, http.MethodDelete, req)
}

func (c *RoutesClient) mutate(ctx context.Context, method string, payload any) (int, error) {
	status, body, err := c.do(ctx, method, payload)
	if err != nil {
		return status, err
	}
	if status < 200 || status >= 300 {
		return status, statusError(method, status, body)
	}
	return status, nil
}

// do sends one request. Bodies go out without a Content-Type header; the
// admin API decodes them as JSON regardless.
func (c *RoutesClient) do(ctx context.Context, method string, payload any) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("error marshaling request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+RoutesPath, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, RoutesPath, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}

	return resp.StatusCode, body, nil
}

func statusError(method string, status int, body []byte) *StatusError {
	var envelope responses.APIResponse[any]
	msg := ""
	if err := json.Unmarshal(body, &envelope); err == nil {
		msg = envelope.Error
	}
	return &StatusError{Method: method, Status: status, Message: msg}
}
