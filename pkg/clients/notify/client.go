package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/hatchery/internal/config"
)

// Client exposes the one-shot notification scheduling operation.
type Client interface {
	ScheduleOneShot(ctx context.Context, req ScheduleRequest) (*ScheduleResponse, error)
	Send(ctx context.Context, title, body string) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a notification service client from configuration values.
func NewClient(cfg config.NotifyConfig) *APIClient {
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

// ScheduleRequest describes a time-triggered notification.
type ScheduleRequest struct {
	TriggerAt time.Time `json:"trigger_at"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
}

// ScheduleResponse carries the handle assigned to the scheduled notification.
type ScheduleResponse struct {
	Handle string `json:"handle"`
}

// apiError represents the notification service error payload.
type apiError struct {
	Message string `json:"message"`
}

// ScheduleOneShot registers a notification that fires once at the requested
// time. The service rejects past timestamps and unauthorized callers.
func (c *APIClient) ScheduleOneShot(ctx context.Context, req ScheduleRequest) (*ScheduleResponse, error) {
	result := new(ScheduleResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(result).
		SetError(apiErr).
		Post("/schedules")
	if err != nil {
		return nil, fmt.Errorf("schedule notification: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("notify api error: status=%d, message=%s", resp.StatusCode(), apiErr.Message)
	}

	return result, nil
}

// Send delivers a notification immediately, used for daily digests.
func (c *APIClient) Send(ctx context.Context, title, body string) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"title": title, "body": body}).
		SetError(apiErr).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("notify api error: status=%d, message=%s", resp.StatusCode(), apiErr.Message)
	}

	return nil
}
