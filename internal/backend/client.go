package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is used when no base URL is configured
const DefaultBaseURL = "http://localhost:8000"

const (
	processInvoicePath = "/api/process-invoice"
	queryPath          = "/api/query"
	healthPath         = "/"
)

// maxErrorBody bounds how much of a failed response is read for its message
const maxErrorBody = 64 << 10

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the document backend. A zero timeout leaves
// requests bounded only by the transport and the caller's context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the backend address requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping probes the backend root endpoint
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, &TransportError{Err: err}
	}
	return resp, nil
}

func isSuccess(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

// errorBody matches both {"error": "..."} and FastAPI's {"detail": "..."}
type errorBody struct {
	Error  string          `json:"error"`
	Detail json.RawMessage `json:"detail"`
}

// decodeAPIError turns a non-2xx response into an *APIError, using fallback
// when the body carries no usable message
func decodeAPIError(resp *http.Response, fallback string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: fallback}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return apiErr
	}

	switch {
	case strings.TrimSpace(eb.Error) != "":
		apiErr.Message = eb.Error
	case len(eb.Detail) > 0:
		// detail is a string for HTTPException, a list for validation errors
		var detail string
		if err := json.Unmarshal(eb.Detail, &detail); err == nil && strings.TrimSpace(detail) != "" {
			apiErr.Message = detail
		}
	}

	return apiErr
}
