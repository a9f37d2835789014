package llm

import (
	"context"

	"go.uber.org/zap"

	"github.com/pageza/mealmind/backend/internal/logging"
)

// Gateway sends a payload to the model provider. Implementations must not fail
// through a Go error: transport problems come back as a response map carrying an
// "error" field.
type Gateway interface {
	Invoke(ctx context.Context, payload Payload) any
}

// GatewayFunc adapts a plain function to the Gateway interface
type GatewayFunc func(ctx context.Context, payload Payload) any

func (f GatewayFunc) Invoke(ctx context.Context, payload Payload) any {
	return f(ctx, payload)
}

// Normalizer turns a recipe request into a list of recipes by way of one gateway
// call. It holds no per-call state and is safe for concurrent use.
type Normalizer struct {
	gateway      Gateway
	defaultModel string
}

// NewNormalizer creates a Normalizer using defaultModel when a request has no override
func NewNormalizer(gateway Gateway, defaultModel string) *Normalizer {
	return &Normalizer{
		gateway:      gateway,
		defaultModel: defaultModel,
	}
}

// DefaultModel returns the configured fallback model identifier
func (n *Normalizer) DefaultModel() string {
	return n.defaultModel
}

// Normalize builds the payload, calls the gateway once and normalizes the response.
// Failures are returned as *Error.
func (n *Normalizer) Normalize(ctx context.Context, req RecipeRequest) (any, error) {
	payload := BuildPayload(req, n.defaultModel)
	logger := logging.L(ctx)
	logger.Debug("invoking gateway",
		zap.String("model", payload.Model),
		zap.Int("prompt_length", len(payload.Messages[0].Content)),
	)

	resp := n.gateway.Invoke(ctx, payload)

	value, err := NormalizeResponse(resp)
	if err != nil {
		logger.Warn("normalization failed", zap.Error(err))
		return nil, err
	}
	return value, nil
}

// NormalizeResponse extracts the generated text from a gateway response and
// recovers the JSON payload from it. The same input always yields the same output.
func NormalizeResponse(resp any) (any, error) {
	text, err := ExtractText(resp)
	if err != nil {
		return nil, err
	}
	value, err := RecoverJSON(text)
	if err != nil {
		return nil, err
	}
	return value, nil
}
