package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc, token string) *HTTPGateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewHTTPGateway(GatewayConfig{
		URL:        server.URL,
		Token:      token,
		HTTPClient: server.Client(),
	}, nil)
}

func TestHTTPGateway_Success(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody Payload

	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"[1]"}}]}`))
	}, "secret")

	payload := BuildPayload(RecipeRequest{Ingredients: "rice"}, "model:tag")
	resp := gw.Invoke(context.Background(), payload)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "model", gotBody.Model)
	assert.Equal(t, 800, gotBody.MaxTokens)

	value, err := NormalizeResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, []any{json.Number("1")}, value)
}

func TestHTTPGateway_MissingToken(t *testing.T) {
	called := false
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, "")

	resp := gw.Invoke(context.Background(), Payload{})
	assert.Equal(t, map[string]any{"error": "API Token is missing"}, resp)
	assert.False(t, called)
}

func TestHTTPGateway_ProviderError(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limit reached"}`))
	}, "secret")

	resp := gw.Invoke(context.Background(), Payload{})
	m, ok := resp.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "rate limit reached", m["error"])
	assert.Equal(t, http.StatusTooManyRequests, m["status_code"])
}

func TestHTTPGateway_StatusWithoutErrorField(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream down`))
	}, "secret")

	resp := gw.Invoke(context.Background(), Payload{})
	m, ok := resp.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "502 bad gateway", m["error"])
	assert.Equal(t, http.StatusBadGateway, m["status_code"])
	assert.Equal(t, "upstream down", m["body"])

	_, err := NormalizeResponse(resp)
	require.Error(t, err)
	assert.Equal(t, "LLM Connection Error: 502 bad gateway", err.Error())
}

func TestHTTPGateway_NonJSONBody(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`Here: [{"meal_name":"Toast"}]`))
	}, "secret")

	resp := gw.Invoke(context.Background(), Payload{})
	assert.Equal(t, `Here: [{"meal_name":"Toast"}]`, resp)

	value, err := NormalizeResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"meal_name": "Toast"}}, value)
}

func TestHTTPGateway_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(server.Close)

	gw := NewHTTPGateway(GatewayConfig{
		URL:        server.URL,
		Token:      "secret",
		Timeout:    50 * time.Millisecond,
		HTTPClient: server.Client(),
	}, nil)

	resp := gw.Invoke(context.Background(), Payload{})
	m, ok := resp.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, m["error"], "timed out")

	_, err := NormalizeResponse(resp)
	var nerr *Error
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, KindConnection, nerr.Kind)
}

func TestNewHTTPGateway_DefaultTimeout(t *testing.T) {
	gw := NewHTTPGateway(GatewayConfig{URL: "http://example.invalid"}, nil)
	assert.Equal(t, DefaultTimeout, gw.cfg.Timeout)
	assert.Equal(t, DefaultTimeout, gw.client.Timeout)
}
