package ai

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"backend/internal/store"
)

// voiceSystemPrompt keeps answers short enough to be spoken aloud.
const voiceSystemPrompt = "You are AI Pro, a friendly, knowledgeable AI assistant who loves discussing any topic with enthusiasm. Keep responses conversational and voice-friendly."

const (
	// requestTimeout bounds every outbound provider call; on expiry the
	// user gets a fallback message, never a retry loop.
	requestTimeout = 10 * time.Second

	// maxAnswerTokens keeps spoken answers short.
	maxAnswerTokens = 200

	// historyWindow is how many stored turns are sent as context.
	historyWindow = 5
)

// Chatter is one provider-specific chat client.
type Chatter interface {
	Chat(ctx context.Context, prompt string, history []store.Turn) (string, error)
}

// Router dispatches a resolved Provider to its client. Providers with
// no configured API key are simply not registered.
type Router struct {
	chatters map[Provider]Chatter
	logger   *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{chatters: make(map[Provider]Chatter), logger: logger}
}

func (r *Router) Register(p Provider, c Chatter) {
	r.chatters[p] = c
}

// Chat forwards the prompt to the provider's client. A missing client
// (no API key configured) and a failed call are both reported as
// errors; callers turn them into spoken fallbacks via FallbackMessage.
func (r *Router) Chat(ctx context.Context, p Provider, prompt string, history []store.Turn) (string, error) {
	c, ok := r.chatters[p]
	if !ok {
		return "", fmt.Errorf("provider %s is not configured", p)
	}

	answer, err := c.Chat(ctx, prompt, recentTurns(history))
	if err != nil {
		r.logger.Error("provider chat failed", zap.String("provider", string(p)), zap.Error(err))
		return "", err
	}
	return answer, nil
}

// Configured reports whether the provider has a usable client.
func (r *Router) Configured(p Provider) bool {
	_, ok := r.chatters[p]
	return ok
}

// FallbackMessage is the spoken apology when a provider is missing or
// failing, always suggesting the alternatives.
func FallbackMessage(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return "Hmm, I'm having trouble with OpenAI right now. Want to try asking me to use Gemini or Claude?"
	case ProviderAnthropic:
		return "Claude is having a moment. Want to try with OpenAI or Gemini?"
	case ProviderGemini:
		return "Gemini is taking a break. Try asking me to use OpenAI or Claude!"
	case ProviderBedrock:
		return "Bedrock isn't responding right now. Try asking me to use OpenAI, Gemini, or Claude!"
	}
	return "That assistant isn't available right now. Try OpenAI, Gemini, or Claude!"
}

func recentTurns(history []store.Turn) []store.Turn {
	if len(history) <= historyWindow {
		return history
	}
	return history[len(history)-historyWindow:]
}
