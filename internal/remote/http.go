package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"styleme/internal/domain"
)

const maxResponseBytes = 32 << 20

// HTTPOptions configures the HTTP backend.
type HTTPOptions struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// HTTPClient calls the hairstyle service's JSON API.
type HTTPClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     zerolog.Logger
}

type generateRequest struct {
	Image  string `json:"image"`
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	GeneratedImage string `json:"generated_image"`
	Error          string `json:"error"`
}

type modifyRequest struct {
	Image              string `json:"image"`
	ModificationPrompt string `json:"modification_prompt"`
}

type modifyResponse struct {
	ModifiedImage string `json:"modified_image"`
	Error         string `json:"error"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPClient constructs a client. BaseURL is required.
func NewHTTPClient(opts HTTPOptions) (*HTTPClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("remote: base url is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &HTTPClient{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

func (c *HTTPClient) Name() string { return "http" }

// RequestStyle posts the image and prompt to /api/ai/generate_hairstyle.
func (c *HTTPClient) RequestStyle(ctx context.Context, img domain.SourceImage, prompt string) Result {
	if img.Empty() {
		return Failed("empty source image")
	}
	var out generateResponse
	if res := c.post(ctx, "/api/ai/generate_hairstyle", generateRequest{Image: img.DataURI(), Prompt: prompt}, &out); res != nil {
		return *res
	}
	if out.Error != "" {
		return Failed("%s", out.Error)
	}
	return fromImageRef(strings.TrimSpace(out.GeneratedImage))
}

// Modify posts to /api/ai/modify_hairstyle.
func (c *HTTPClient) Modify(ctx context.Context, img domain.SourceImage, prompt string) Result {
	if img.Empty() {
		return Failed("empty source image")
	}
	var out modifyResponse
	if res := c.post(ctx, "/api/ai/modify_hairstyle", modifyRequest{Image: img.DataURI(), ModificationPrompt: prompt}, &out); res != nil {
		return *res
	}
	if out.Error != "" {
		return Failed("%s", out.Error)
	}
	return fromImageRef(strings.TrimSpace(out.ModifiedImage))
}

// Health queries /api/ai/health.
func (c *HTTPClient) Health(ctx context.Context) (HealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/ai/health", nil)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("health request: %w", err)
	}
	defer resp.Body.Close()
	var status HealthStatus
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&status); err != nil {
		return HealthStatus{}, fmt.Errorf("decode health response: %w", err)
	}
	if resp.StatusCode >= 300 && status.Status == "" {
		status.Status = "unhealthy"
	}
	return status, nil
}

// post performs one JSON exchange. It returns a non-nil failure Result when
// the exchange did not produce a decodable 2xx body.
func (c *HTTPClient) post(ctx context.Context, path string, payload, out any) *Result {
	body, err := json.Marshal(payload)
	if err != nil {
		res := Failed("encode request: %v", err)
		return &res
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		res := Failed("build request: %v", err)
		return &res
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		reason := err.Error()
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			reason = "timeout"
		}
		c.logger.Warn().Err(err).Str("path", path).Msg("remote request failed")
		res := Failed("%s", reason)
		return &res
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		res := Failed("read response: %v", err)
		return &res
	}
	c.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("remote response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if json.Unmarshal(raw, &apiErr) == nil && strings.TrimSpace(apiErr.Error) != "" {
			res := Failed("status %d: %s", resp.StatusCode, strings.TrimSpace(apiErr.Error))
			return &res
		}
		res := Failed("status %d", resp.StatusCode)
		return &res
	}
	if err := json.Unmarshal(raw, out); err != nil {
		res := Failed("malformed response: %v", err)
		return &res
	}
	return nil
}

var _ Client = (*HTTPClient)(nil)
