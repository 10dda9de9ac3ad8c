package ai

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"

	"backend/internal/secrets"
)

// NewRouterFromEnv registers every provider that has credentials.
// HTTPS providers need an API key from the resolver; Bedrock only
// needs BEDROCK_MODEL_ID since it uses the execution role.
func NewRouterFromEnv(ctx context.Context, keys *secrets.Resolver, bedrock BedrockInvoker, logger *zap.Logger) *Router {
	r := NewRouter(logger)

	if k := keys.APIKey(ctx, "openai"); k != "" {
		r.Register(ProviderOpenAI, NewOpenAIClient(k, os.Getenv("OPENAI_MODEL")))
	}
	if k := keys.APIKey(ctx, "anthropic"); k != "" {
		r.Register(ProviderAnthropic, NewAnthropicClient(k, os.Getenv("ANTHROPIC_MODEL")))
	}
	if k := keys.APIKey(ctx, "gemini"); k != "" {
		r.Register(ProviderGemini, NewGeminiClient(k, os.Getenv("GEMINI_MODEL")))
	}
	if bedrock != nil && strings.TrimSpace(os.Getenv("BEDROCK_MODEL_ID")) != "" {
		r.Register(ProviderBedrock, NewBedrockClient(bedrock, os.Getenv("BEDROCK_MODEL_ID")))
	}

	registered := make([]string, 0, len(r.chatters))
	for p := range r.chatters {
		registered = append(registered, string(p))
	}
	logger.Info("ai providers configured", zap.Strings("providers", registered))
	return r
}
