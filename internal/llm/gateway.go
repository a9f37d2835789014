package llm

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

	"go.uber.org/zap"

	"github.com/pageza/mealmind/backend/internal/metrics"
)

const (
	// DefaultTimeout bounds a single gateway call
	DefaultTimeout = 30 * time.Second

	maxResponseSize = 4 * 1024 * 1024
)

// GatewayConfig holds the endpoint settings for HTTPGateway
type GatewayConfig struct {
	URL     string
	Token   string
	Timeout time.Duration

	// HTTPClient overrides the default client, mostly for tests
	HTTPClient *http.Client
}

// HTTPGateway posts payloads to a chat-completion endpoint with bearer auth
type HTTPGateway struct {
	cfg    GatewayConfig
	client *http.Client
	logger *zap.Logger
}

// NewHTTPGateway creates a gateway for the given endpoint
func NewHTTPGateway(cfg GatewayConfig, logger *zap.Logger) *HTTPGateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}

	return &HTTPGateway{
		cfg:    cfg,
		client: client,
		logger: logger.Named("gateway"),
	}
}

// Invoke sends the payload once. It never returns a Go error: failures are reported
// as a map with an "error" field plus, when known, "status_code" and "body".
func (g *HTTPGateway) Invoke(ctx context.Context, payload Payload) any {
	start := time.Now()
	resp, outcome := g.invoke(ctx, payload)
	metrics.ObserveGatewayCall(outcome, time.Since(start))
	return resp
}

func (g *HTTPGateway) invoke(ctx context.Context, payload Payload) (any, string) {
	if g.cfg.Token == "" {
		return map[string]any{"error": "API Token is missing"}, "missing_token"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("failed to marshal request: %v", err)}, "request_error"
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("failed to create request: %v", err)}, "request_error"
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.Token)

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error("gateway request failed", zap.Error(err), zap.String("model", payload.Model))
		if errors.Is(err, context.DeadlineExceeded) {
			return map[string]any{"error": fmt.Sprintf("request timed out after %s", g.cfg.Timeout)}, "timeout"
		}
		return map[string]any{"error": fmt.Sprintf("failed to send request: %v", err)}, "transport_error"
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("failed to read response: %v", err)}, "transport_error"
	}

	decoded := decodeBody(raw)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.logger.Error("gateway returned error status",
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(string(raw), 200)),
		)
		return statusError(resp.StatusCode, decoded), "status_error"
	}

	g.logger.Debug("gateway request completed",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(raw)),
	)
	return decoded, "ok"
}

// decodeBody returns the decoded JSON body, or the raw text when it is not JSON
func decodeBody(raw []byte) any {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return string(raw)
	}
	return v
}

func statusError(status int, body any) map[string]any {
	if m, ok := body.(map[string]any); ok && truthy(m["error"]) {
		out := make(map[string]any, len(m)+1)
		for k, v := range m {
			out[k] = v
		}
		out["status_code"] = status
		return out
	}

	text := http.StatusText(status)
	if text == "" {
		text = "unexpected status"
	}
	return map[string]any{
		"error":       fmt.Sprintf("%d %s", status, strings.ToLower(text)),
		"status_code": status,
		"body":        body,
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
