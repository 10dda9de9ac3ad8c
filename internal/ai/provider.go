package ai

import "strings"

// Provider is the chat backend a request is routed to. It is resolved
// exactly once at the request boundary; nothing downstream re-parses
// provider names out of free text.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
	ProviderBedrock   Provider = "bedrock"
)

// DefaultProvider is used when neither the request nor the user record
// names one.
const DefaultProvider = ProviderOpenAI

// ParseProvider maps spoken or stored provider names, including the
// aliases users actually say ("claude", "gpt", "google").
func ParseProvider(s string) (Provider, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "openai", "gpt", "chatgpt":
		return ProviderOpenAI, true
	case "anthropic", "claude":
		return ProviderAnthropic, true
	case "gemini", "google":
		return ProviderGemini, true
	case "bedrock", "aws":
		return ProviderBedrock, true
	}
	return "", false
}

// queryAliases are checked against individual query words so a user can
// say "ask claude what a quasar is".
var queryAliases = map[string]Provider{
	"gemini":    ProviderGemini,
	"google":    ProviderGemini,
	"claude":    ProviderAnthropic,
	"anthropic": ProviderAnthropic,
	"openai":    ProviderOpenAI,
	"gpt":       ProviderOpenAI,
	"chatgpt":   ProviderOpenAI,
	"bedrock":   ProviderBedrock,
}

// Resolve picks the provider for a chat request and strips any provider
// mention from the query. Precedence: explicit Provider slot, provider
// named inside the query, the user's stored preference, then the
// default.
func Resolve(slot, query, stored string) (Provider, string) {
	if p, ok := ParseProvider(slot); ok {
		return p, query
	}

	words := strings.Fields(query)
	for _, w := range words {
		if p, ok := queryAliases[strings.ToLower(strings.Trim(w, ".,!?"))]; ok {
			return p, stripAlias(words, w)
		}
	}

	if p, ok := ParseProvider(stored); ok {
		return p, query
	}
	return DefaultProvider, query
}

func stripAlias(words []string, alias string) string {
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if w == alias {
			continue
		}
		kept = append(kept, w)
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}
