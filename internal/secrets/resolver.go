package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.uber.org/zap"

	"backend/internal/security"
)

// ParameterGetter is the slice of the SSM API the resolver needs.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Resolver looks up provider API keys. Order: SSM SecureString
// parameter, AES-GCM encrypted env var, plain env var. A missing key is
// not an error; the provider simply stays unconfigured.
type Resolver struct {
	ssm    ParameterGetter
	stage  string
	encKey []byte
	logger *zap.Logger
}

func NewResolver(ssmClient ParameterGetter, logger *zap.Logger) *Resolver {
	stage := strings.TrimSpace(os.Getenv("STAGE"))
	if stage == "" {
		stage = "dev"
	}

	var encKey []byte
	if b64 := strings.TrimSpace(os.Getenv("SECRETS_ENC_KEY_B64")); b64 != "" {
		k, err := security.LoadKeyFromBase64(b64)
		if err != nil {
			logger.Warn("SECRETS_ENC_KEY_B64 invalid, encrypted env keys unavailable", zap.Error(err))
		} else {
			encKey = k
		}
	}

	return &Resolver{ssm: ssmClient, stage: stage, encKey: encKey, logger: logger}
}

// APIKey returns the key for a provider name ("openai", "anthropic",
// "gemini"), or empty when none is configured.
func (r *Resolver) APIKey(ctx context.Context, provider string) string {
	provider = strings.ToLower(strings.TrimSpace(provider))

	if key := r.fromSSM(ctx, provider); key != "" {
		return key
	}
	if key := r.fromEncryptedEnv(provider); key != "" {
		return key
	}
	return strings.TrimSpace(os.Getenv(envName(provider) + "_API_KEY"))
}

func (r *Resolver) fromSSM(ctx context.Context, provider string) string {
	if r.ssm == nil {
		return ""
	}
	name := fmt.Sprintf("/%s/ai-pro/%s-api-key", r.stage, provider)
	out, err := r.ssm.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		// ParameterNotFound is the normal case for unused providers.
		r.logger.Debug("ssm parameter lookup failed",
			zap.String("name", name), zap.Error(err))
		return ""
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return ""
	}
	return strings.TrimSpace(*out.Parameter.Value)
}

func (r *Resolver) fromEncryptedEnv(provider string) string {
	if r.encKey == nil {
		return ""
	}
	enc := strings.TrimSpace(os.Getenv(envName(provider) + "_API_KEY_ENC"))
	if enc == "" {
		return ""
	}
	key, err := security.DecryptAESGCM(r.encKey, enc)
	if err != nil {
		r.logger.Warn("encrypted API key decrypt failed",
			zap.String("provider", provider), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(key)
}

func envName(provider string) string {
	if provider == "gemini" {
		// The Google key predates the provider naming.
		return "GOOGLE"
	}
	return strings.ToUpper(provider)
}
