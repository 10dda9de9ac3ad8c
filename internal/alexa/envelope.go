// Package alexa holds the skill request/response envelope. The JSON
// shapes are a fixed contract with the Alexa service; only the fields
// this skill reads or writes are modeled.
package alexa

// Request types.
const (
	RequestTypeLaunch       = "LaunchRequest"
	RequestTypeIntent       = "IntentRequest"
	RequestTypeSessionEnded = "SessionEndedRequest"
)

// Skill intents.
const (
	IntentShopping        = "ShoppingIntent"
	IntentLLMQuery        = "LLMQueryIntent"
	IntentAddToCart       = "AddToCartIntent"
	IntentViewCart        = "ViewCartIntent"
	IntentRemoveFromCart  = "RemoveFromCartIntent"
	IntentClearCart       = "ClearCartIntent"
	IntentCheckout        = "CheckoutIntent"
	IntentConfirmPurchase = "ConfirmPurchaseIntent"
	IntentCancelPurchase  = "CancelPurchaseIntent"
	IntentSetProvider     = "SetProviderIntent"
)

// Built-in Amazon intents.
const (
	IntentHelp     = "AMAZON.HelpIntent"
	IntentStop     = "AMAZON.StopIntent"
	IntentCancel   = "AMAZON.CancelIntent"
	IntentYes      = "AMAZON.YesIntent"
	IntentNo       = "AMAZON.NoIntent"
	IntentFallback = "AMAZON.FallbackIntent"
)

// Slot names.
const (
	SlotProduct    = "Product"
	SlotPrice      = "Price"
	SlotCategory   = "Category"
	SlotItemNumber = "ItemNumber"
	SlotQuery      = "Query"
	SlotProvider   = "Provider"
)

type RequestEnvelope struct {
	Version string  `json:"version"`
	Session Session `json:"session"`
	Request Request `json:"request"`
}

type Session struct {
	New        bool              `json:"new"`
	SessionID  string            `json:"sessionId"`
	Attributes map[string]string `json:"attributes"`
	User       User              `json:"user"`
}

type User struct {
	UserID string `json:"userId"`
}

type Request struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
	Locale    string `json:"locale"`
	Intent    Intent `json:"intent"`
	Reason    string `json:"reason,omitempty"`
}

type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots"`
}

type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SlotValue returns the raw spoken value for a slot, empty when the
// slot is absent or unfilled.
func (i Intent) SlotValue(name string) string {
	if s, ok := i.Slots[name]; ok {
		return s.Value
	}
	return ""
}
