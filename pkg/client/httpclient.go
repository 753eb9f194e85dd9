package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultTimeout      = 10 * time.Second
	HeaderCorrelationID = "X-Correlation-ID"
)

type HttpClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Service    string
}

func NewHttpClient(service, baseURL string, timeout time.Duration) *HttpClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HttpClient{
		BaseURL: baseURL,
		Service: service,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type Response struct {
	*http.Response
	Body []byte
}

func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (c *HttpClient) GET(ctx context.Context, path string) (*Response, error) {
	return c.request(ctx, http.MethodGet, path, nil)
}

func (c *HttpClient) POST(ctx context.Context, path string, body any) (*Response, error) {
	return c.request(ctx, http.MethodPost, path, body)
}

func (c *HttpClient) PUT(ctx context.Context, path string, body any) (*Response, error) {
	return c.request(ctx, http.MethodPut, path, body)
}

// Expect performs the request and turns any non-2xx answer into a *RemoteError.
func (c *HttpClient) Expect(ctx context.Context, method, path string, body any) (*Response, error) {
	resp, err := c.request(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, newRemoteError(c.Service, resp)
	}
	return resp, nil
}

func (c *HttpClient) request(ctx context.Context, method, path string, body any) (*Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderCorrelationID, correlationID(ctx))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &TransportError{Service: c.Service, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Service: c.Service, Method: method, Path: path, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return &Response{
		Response: resp,
		Body:     respBody,
	}, nil
}

type correlationKey struct{}

// WithCorrelationID attaches the id sent in the X-Correlation-ID header of
// every outgoing request made with ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey{}).(string); ok {
		return id
	}
	return ""
}

func correlationID(ctx context.Context) string {
	if id := CorrelationID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

// GetErrorMessage picks the most descriptive text of an error body, in the
// same order the services fill it: message, then error, then code.
func GetErrorMessage(resp *Response) string {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := resp.DecodeJSON(&errResp); err != nil {
		if len(resp.Body) > 0 {
			return string(resp.Body)
		}
		return http.StatusText(resp.StatusCode)
	}

	if errResp.Message != "" {
		return errResp.Message
	}
	if errResp.Error != "" {
		return errResp.Error
	}
	if errResp.Code != "" {
		return errResp.Code
	}
	return http.StatusText(resp.StatusCode)
}
