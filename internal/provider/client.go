// Package provider implements the telephony provider's outbound message API.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppopeskul/sms-relay/internal/config"
)

// ErrNotConfigured is returned before any network call when provider
// credentials are missing.
var ErrNotConfigured = errors.New("provider credentials are not configured")

// SendRequest carries one outbound message to the provider.
type SendRequest struct {
	To       string
	From     string
	Body     string
	MediaURL string
}

// SendResult is the provider's acknowledgment of an accepted message.
type SendResult struct {
	SID string `json:"sid"`
}

// Client sends messages through the provider's REST API.
type Client interface {
	SendMessage(ctx context.Context, req SendRequest) (*SendResult, error)
}

type httpClient struct {
	cfg        *config.ProviderConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds an HTTP client for the provider's Messages endpoint.
func NewClient(cfg *config.ProviderConfig, logger *zap.Logger) Client {
	return &httpClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger: logger,
	}
}

// SendMessage POSTs a form-encoded message create request and returns the
// provider-assigned message SID.
func (c *httpClient) SendMessage(ctx context.Context, req SendRequest) (*SendResult, error) {
	if c.cfg.AccountSID == "" || c.cfg.AuthToken == "" {
		return nil, ErrNotConfigured
	}

	form := url.Values{}
	form.Set("To", req.To)
	form.Set("From", req.From)
	if req.Body != "" {
		form.Set("Body", req.Body)
	}
	if req.MediaURL != "" {
		form.Set("MediaUrl", req.MediaURL)
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.AccountSID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("provider rejected message (status %d, code %d): %s",
				resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result SendResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// Some gateways acknowledge with an empty body; the caller falls
		// back to a generated id.
		c.logger.Warn("Provider response had no message SID", zap.Error(err))
		return &SendResult{}, nil
	}

	return &result, nil
}
