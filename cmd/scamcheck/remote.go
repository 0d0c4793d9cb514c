package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
)

type apiError struct {
	Error string `json:"error"`
}

// remoteClient posts text to a ScamGuard API
type remoteClient struct {
	client *resty.Client
}

func newRemoteClient(baseURL string, timeout time.Duration) *remoteClient {
	return &remoteClient{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("User-Agent", "scamcheck/1.0"),
	}
}

func (c *remoteClient) Analyze(ctx context.Context, text string, channel models.Channel) (*models.AnalysisRecord, error) {
	var rec models.AnalysisRecord
	var apiErr apiError

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(models.AnalysisRequest{Text: text, Channel: channel}).
		SetResult(&rec).
		SetError(&apiErr).
		Post("/api/v1/analyze")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.IsError() {
		if apiErr.Error != "" {
			return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode(), apiErr.Error)
		}
		return nil, fmt.Errorf("server returned %d", resp.StatusCode())
	}

	return &rec, nil
}
