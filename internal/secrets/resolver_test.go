package secrets_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backend/internal/secrets"
	"backend/internal/security"
)

type fakeSSM struct {
	params   map[string]string
	lastName string
}

func (f *fakeSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.lastName = aws.ToString(in.Name)
	v, ok := f.params[f.lastName]
	if !ok {
		return nil, errors.New("ParameterNotFound")
	}
	return &ssm.GetParameterOutput{
		Parameter: &ssmtypes.Parameter{Value: aws.String(v)},
	}, nil
}

func TestAPIKeyFromSSM(t *testing.T) {
	t.Setenv("STAGE", "prod")
	fake := &fakeSSM{params: map[string]string{
		"/prod/ai-pro/openai-api-key": "sk-from-ssm",
	}}
	r := secrets.NewResolver(fake, zap.NewNop())

	assert.Equal(t, "sk-from-ssm", r.APIKey(context.Background(), "openai"))
	assert.Equal(t, "/prod/ai-pro/openai-api-key", fake.lastName)
}

func TestAPIKeyFallsBackToPlainEnv(t *testing.T) {
	t.Setenv("STAGE", "dev")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-from-env")

	r := secrets.NewResolver(&fakeSSM{}, zap.NewNop())
	assert.Equal(t, "sk-ant-from-env", r.APIKey(context.Background(), "anthropic"))
}

func TestAPIKeyFromEncryptedEnv(t *testing.T) {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i)
	}
	b64 := base64.StdEncoding.EncodeToString(raw)
	key, err := security.LoadKeyFromBase64(b64)
	require.NoError(t, err)
	enc, err := security.EncryptAESGCM(key, "sk-encrypted")
	require.NoError(t, err)

	t.Setenv("SECRETS_ENC_KEY_B64", b64)
	t.Setenv("OPENAI_API_KEY_ENC", enc)
	t.Setenv("OPENAI_API_KEY", "sk-plain-should-lose")

	r := secrets.NewResolver(&fakeSSM{}, zap.NewNop())
	assert.Equal(t, "sk-encrypted", r.APIKey(context.Background(), "openai"))
}

func TestAPIKeyGeminiUsesGoogleEnvName(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "google-key")

	r := secrets.NewResolver(&fakeSSM{}, zap.NewNop())
	assert.Equal(t, "google-key", r.APIKey(context.Background(), "gemini"))
}

func TestAPIKeyMissingIsEmptyNotError(t *testing.T) {
	r := secrets.NewResolver(&fakeSSM{}, zap.NewNop())
	assert.Empty(t, r.APIKey(context.Background(), "openai"))
}
