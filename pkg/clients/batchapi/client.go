package batchapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/hatchery/internal/config"
)

// Client exposes the remote batch API operations used by the application.
type Client interface {
	SignIn(ctx context.Context, email, password string) (*SignInResponse, error)
	ListBatches(ctx context.Context, farm string) ([]BatchRecord, error)
	CreateBatch(ctx context.Context, req CreateBatchRequest) (*BatchRecord, error)
	UpdateHatchedCount(ctx context.Context, id string, hatchedCount int) (*BatchRecord, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a batch API client using the provided configuration values.
func NewClient(cfg config.BatchAPIConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	if cfg.Token != "" {
		restyClient.SetAuthToken(cfg.Token)
	}

	return &APIClient{httpClient: restyClient}
}

// BatchRecord mirrors the batch representation returned by the remote API.
type BatchRecord struct {
	ID           string  `json:"id"`
	BatchName    string  `json:"batch_name"`
	InputDate    string  `json:"input_date"`
	EggCount     int     `json:"egg_count"`
	HatchedCount int     `json:"hatched_count"`
	HatchRate    float64 `json:"hatch_rate"`
}

// CreateBatchRequest is the payload for batch creation.
type CreateBatchRequest struct {
	BatchName string `json:"batch_name"`
	InputDate string `json:"input_date"`
	EggCount  int    `json:"egg_count"`
	Farm      string `json:"farm"`
}

// SignInResponse mirrors a successful authentication response.
type SignInResponse struct {
	Token    string `json:"token"`
	FarmName string `json:"farm_name"`
}

// apiError represents the remote API error payload.
type apiError struct {
	Message string `json:"message"`
}

// SignIn authenticates with credentials and adopts the returned token for
// subsequent calls.
func (c *APIClient) SignIn(ctx context.Context, email, password string) (*SignInResponse, error) {
	result := new(SignInResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(result).
		SetError(apiErr).
		Post("/auth/signin")
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("batch api error: status=%d, message=%s", resp.StatusCode(), apiErr.Message)
	}

	c.httpClient.SetAuthToken(result.Token)
	return result, nil
}

// ListBatches fetches every batch belonging to the given farm scope.
func (c *APIClient) ListBatches(ctx context.Context, farm string) ([]BatchRecord, error) {
	var result []BatchRecord
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("farm", farm).
		SetResult(&result).
		SetError(apiErr).
		Get("/batches")
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("batch api error: status=%d, message=%s", resp.StatusCode(), apiErr.Message)
	}

	return result, nil
}

// CreateBatch registers a new batch; the remote side assigns the id.
func (c *APIClient) CreateBatch(ctx context.Context, req CreateBatchRequest) (*BatchRecord, error) {
	result := new(BatchRecord)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(result).
		SetError(apiErr).
		Post("/batches")
	if err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("batch api error: status=%d, message=%s", resp.StatusCode(), apiErr.Message)
	}

	return result, nil
}

// UpdateHatchedCount submits a new hatched count. The response carries the
// server-computed hatch rate, which callers treat as authoritative.
func (c *APIClient) UpdateHatchedCount(ctx context.Context, id string, hatchedCount int) (*BatchRecord, error) {
	result := new(BatchRecord)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]int{"hatched_count": hatchedCount}).
		SetResult(result).
		SetError(apiErr).
		Put(fmt.Sprintf("/batches/%s", id))
	if err != nil {
		return nil, fmt.Errorf("update batch %s: %w", id, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("batch api error: status=%d, message=%s", resp.StatusCode(), apiErr.Message)
	}

	return result, nil
}
