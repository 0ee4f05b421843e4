package detection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mikey/phish-dashboard/internal/core"
	"go.uber.org/zap"
)

const maxErrorBody = 64 * 1024

// Client is an implementation of core.DetectionClient over the detection service HTTP API
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new detection service client
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid detection service URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid detection service URL %q: scheme must be http or https", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    u,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// CheckURL calls POST /api/check-url
func (c *Client) CheckURL(ctx context.Context, req core.URLCheckRequest) (*core.DetectionResult, error) {
	var result core.DetectionResult
	if err := c.do(ctx, "check url", http.MethodPost, "/api/check-url", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CheckEmail calls POST /api/check-email
func (c *Client) CheckEmail(ctx context.Context, req core.EmailCheckRequest) (*core.DetectionResult, error) {
	var result core.DetectionResult
	if err := c.do(ctx, "check email", http.MethodPost, "/api/check-email", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Stats calls GET /api/stats
func (c *Client) Stats(ctx context.Context) (*core.Stats, error) {
	var stats core.Stats
	if err := c.do(ctx, "stats", http.MethodGet, "/api/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// History calls GET /api/url-history or /api/email-history
func (c *Client) History(ctx context.Context, kind core.CheckKind, limit int) ([]core.HistoryRecord, error) {
	var path string
	switch kind {
	case core.KindURL:
		path = "/api/url-history"
	case core.KindEmail:
		path = "/api/email-history"
	default:
		return nil, fmt.Errorf("unsupported history kind: %s", kind)
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var records []core.HistoryRecord
	if err := c.do(ctx, string(kind)+" history", http.MethodGet, path, query, nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []core.HistoryRecord{}
	}
	return records, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL.JoinPath(path)
	endpoint.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("Calling detection service", zap.String("op", op), zap.String("url", endpoint.String()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &core.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		terr := &core.TransportError{Op: op, Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var payload errorResponse
		if json.Unmarshal(raw, &payload) == nil {
			terr.ServiceMessage = payload.Error
		}
		c.logger.Debug("Detection service returned an error",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("error", terr.ServiceMessage))
		return terr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &core.TransportError{
			Op:     op,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("failed to decode response: %w", err),
		}
	}
	return nil
}
