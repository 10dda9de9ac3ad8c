package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	bedrockruntime "github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"backend/internal/store"
)

// BedrockInvoker is the slice of the Bedrock runtime API we use.
type BedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockClient chats through a Claude model hosted on Bedrock. Unlike
// the HTTPS providers it authenticates with the Lambda execution role,
// so it needs no API key.
type BedrockClient struct {
	invoker BedrockInvoker
	modelID string
}

func NewBedrockClient(invoker BedrockInvoker, modelID string) *BedrockClient {
	if modelID == "" {
		modelID = "anthropic.claude-3-5-sonnet-20241022-v2:0"
	}
	return &BedrockClient{invoker: invoker, modelID: modelID}
}

func (c *BedrockClient) Chat(ctx context.Context, prompt string, history []store.Turn) (string, error) {
	messages := make([]map[string]any, 0, len(history)+1)
	for _, t := range history {
		messages = append(messages, map[string]any{
			"role":    t.Role,
			"content": []map[string]any{{"type": "text", "text": t.Content}},
		})
	}
	messages = append(messages, map[string]any{
		"role":    "user",
		"content": []map[string]any{{"type": "text", "text": prompt}},
	})

	// Claude-on-Bedrock message schema.
	payload := map[string]any{
		"anthropic_version": "bedrock-2023-05-31",
		"max_tokens":        maxAnswerTokens,
		"temperature":       0.8,
		"system":            voiceSystemPrompt,
		"messages":          messages,
	}

	body, _ := json.Marshal(payload)

	out, err := c.invoker.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("bedrock InvokeModel: %w", err)
	}

	var raw struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(out.Body, &raw); err != nil {
		return "", fmt.Errorf("bedrock response unmarshal: %w", err)
	}

	var sb strings.Builder
	for _, part := range raw.Content {
		if part.Type == "text" {
			sb.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("bedrock returned no text content")
	}
	return text, nil
}

var _ Chatter = (*BedrockClient)(nil)
