package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"backend/internal/ai"
)

func TestParseProviderAliases(t *testing.T) {
	cases := map[string]ai.Provider{
		"openai":    ai.ProviderOpenAI,
		"gpt":       ai.ProviderOpenAI,
		"ChatGPT":   ai.ProviderOpenAI,
		"claude":    ai.ProviderAnthropic,
		"Anthropic": ai.ProviderAnthropic,
		"google":    ai.ProviderGemini,
		"gemini":    ai.ProviderGemini,
		"bedrock":   ai.ProviderBedrock,
		"aws":       ai.ProviderBedrock,
		" claude ":  ai.ProviderAnthropic,
	}
	for input, want := range cases {
		got, ok := ai.ParseProvider(input)
		assert.True(t, ok, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}

	_, ok := ai.ParseProvider("cortana")
	assert.False(t, ok)
	_, ok = ai.ParseProvider("")
	assert.False(t, ok)
}

func TestResolveSlotWins(t *testing.T) {
	p, query := ai.Resolve("claude", "ask gemini about black holes", "openai")
	assert.Equal(t, ai.ProviderAnthropic, p)
	// The slot decided, so the query stays untouched.
	assert.Equal(t, "ask gemini about black holes", query)
}

func TestResolveQueryAliasStripped(t *testing.T) {
	p, query := ai.Resolve("", "ask claude what a quasar is", "")
	assert.Equal(t, ai.ProviderAnthropic, p)
	assert.Equal(t, "ask what a quasar is", query)
}

func TestResolveQueryAliasWithPunctuation(t *testing.T) {
	p, _ := ai.Resolve("", "hey gemini, what time is it", "")
	assert.Equal(t, ai.ProviderGemini, p)
}

func TestResolveStoredPreference(t *testing.T) {
	p, query := ai.Resolve("", "what is the capital of France", "gemini")
	assert.Equal(t, ai.ProviderGemini, p)
	assert.Equal(t, "what is the capital of France", query)
}

func TestResolveDefault(t *testing.T) {
	p, query := ai.Resolve("", "what is the capital of France", "")
	assert.Equal(t, ai.DefaultProvider, p)
	assert.Equal(t, "what is the capital of France", query)

	// Garbage stored value also falls through to the default.
	p, _ = ai.Resolve("", "hello there", "hal9000")
	assert.Equal(t, ai.DefaultProvider, p)
}
