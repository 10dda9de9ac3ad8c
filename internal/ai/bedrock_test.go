package ai_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	bedrockruntime "github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/ai"
	"backend/internal/store"
)

type fakeInvoker struct {
	response string
	err      error
	lastIn   *bedrockruntime.InvokeModelInput
}

func (f *fakeInvoker) InvokeModel(_ context.Context, in *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.lastIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.response)}, nil
}

func TestBedrockChatExtractsText(t *testing.T) {
	invoker := &fakeInvoker{
		response: `{"content":[{"type":"text","text":"Hello "},{"type":"text","text":"there"}]}`,
	}
	c := ai.NewBedrockClient(invoker, "anthropic.claude-3-5-sonnet-20241022-v2:0")

	answer, err := c.Chat(context.Background(), "say hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello there", answer)
	assert.Equal(t, "anthropic.claude-3-5-sonnet-20241022-v2:0", *invoker.lastIn.ModelId)
}

func TestBedrockChatSendsHistoryAndPrompt(t *testing.T) {
	invoker := &fakeInvoker{response: `{"content":[{"type":"text","text":"ok"}]}`}
	c := ai.NewBedrockClient(invoker, "")

	history := []store.Turn{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}
	_, err := c.Chat(context.Background(), "new question", history)
	require.NoError(t, err)

	var payload struct {
		AnthropicVersion string `json:"anthropic_version"`
		Messages         []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(invoker.lastIn.Body, &payload))
	assert.Equal(t, "bedrock-2023-05-31", payload.AnthropicVersion)
	require.Len(t, payload.Messages, 3)
	assert.Equal(t, "user", payload.Messages[0].Role)
	assert.Equal(t, "assistant", payload.Messages[1].Role)
	assert.Equal(t, "user", payload.Messages[2].Role)
}

func TestBedrockChatInvokeFailure(t *testing.T) {
	c := ai.NewBedrockClient(&fakeInvoker{err: errors.New("access denied")}, "")

	_, err := c.Chat(context.Background(), "hello", nil)
	assert.Error(t, err)
}

func TestBedrockChatEmptyContent(t *testing.T) {
	c := ai.NewBedrockClient(&fakeInvoker{response: `{"content":[]}`}, "")

	_, err := c.Chat(context.Background(), "hello", nil)
	assert.Error(t, err)
}
