package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"backend/internal/ai"
	"backend/internal/alexa"
	"backend/internal/apl"
	"backend/internal/cart"
	"backend/internal/catalog"
	"backend/internal/search"
	"backend/internal/store"
)

// Session attribute keys. The products cache lets "add item N" refer to
// the most recent search; the pending flag gates purchase confirmation.
const (
	attrCurrentProducts = "current_products"
	attrPendingCheckout = "pending_checkout"
)

const welcomeText = "Welcome to AI Pro Shopping! I can help you find products, manage your cart, and complete purchases. What would you like to shop for today?"

// Preferences is the slice of the user record the skill needs outside
// the cart flow.
type Preferences interface {
	GetPreferredProvider(ctx context.Context, userID string) (string, error)
	SetPreferredProvider(ctx context.Context, userID, provider string) error
	GetConversation(ctx context.Context, userID string) ([]store.Turn, error)
	AppendConversation(ctx context.Context, userID, userMsg, assistantMsg string) error
}

// SkillHandler routes skill intents to the ranker, the cart service, or
// the AI router, and renders every outcome as a spoken response.
type SkillHandler struct {
	ranker *search.Ranker
	carts  *cart.Service
	prefs  Preferences
	ai     *ai.Router
	logger *zap.Logger
}

func NewSkillHandler(ranker *search.Ranker, carts *cart.Service, prefs Preferences, router *ai.Router, logger *zap.Logger) *SkillHandler {
	return &SkillHandler{
		ranker: ranker,
		carts:  carts,
		prefs:  prefs,
		ai:     router,
		logger: logger,
	}
}

// Handle is the Lambda entry point. It never returns an error: every
// failure path, including panics, becomes a spoken apology so the voice
// session survives.
func (h *SkillHandler) Handle(ctx context.Context, req alexa.RequestEnvelope) (resp alexa.ResponseEnvelope, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("skill handler panic", zap.Any("panic", r))
			resp = alexa.Ask("Sorry, I encountered an error. Please try again.", nil)
			err = nil
		}
	}()

	attrs := req.Session.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	userID := req.Session.User.UserID

	h.logger.Info("skill request",
		zap.String("type", req.Request.Type),
		zap.String("intent", req.Request.Intent.Name))

	switch req.Request.Type {
	case alexa.RequestTypeLaunch:
		return alexa.Ask(welcomeText, attrs), nil
	case alexa.RequestTypeIntent:
		return h.handleIntent(ctx, userID, req.Request.Intent, attrs), nil
	case alexa.RequestTypeSessionEnded:
		// No speech is allowed in the SessionEndedRequest response.
		return alexa.ResponseEnvelope{Version: "1.0"}, nil
	default:
		return alexa.Ask("I didn't understand that request.", attrs), nil
	}
}

func (h *SkillHandler) handleIntent(ctx context.Context, userID string, intent alexa.Intent, attrs map[string]string) alexa.ResponseEnvelope {
	switch intent.Name {
	case alexa.IntentShopping:
		return h.search(ctx, userID, attrs,
			intent.SlotValue(alexa.SlotProduct),
			intent.SlotValue(alexa.SlotPrice),
			intent.SlotValue(alexa.SlotCategory))

	case alexa.IntentLLMQuery:
		query := intent.SlotValue(alexa.SlotQuery)
		if isShoppingQuery(query) {
			return h.search(ctx, userID, attrs, query, intent.SlotValue(alexa.SlotPrice), "")
		}
		return h.chat(ctx, userID, attrs, query, intent.SlotValue(alexa.SlotProvider))

	case alexa.IntentAddToCart:
		return h.addToCart(ctx, userID, attrs, intent.SlotValue(alexa.SlotItemNumber))

	case alexa.IntentViewCart:
		return h.viewCart(ctx, userID, attrs)

	case alexa.IntentRemoveFromCart:
		return h.removeFromCart(ctx, userID, attrs, intent.SlotValue(alexa.SlotItemNumber))

	case alexa.IntentClearCart:
		return h.clearCart(ctx, userID, attrs)

	case alexa.IntentCheckout:
		return h.checkout(ctx, userID, attrs)

	case alexa.IntentConfirmPurchase, alexa.IntentYes:
		return h.confirmPurchase(ctx, userID, attrs)

	case alexa.IntentCancelPurchase, alexa.IntentNo:
		return h.cancelPurchase(attrs)

	case alexa.IntentSetProvider:
		return h.setProvider(ctx, userID, attrs, intent.SlotValue(alexa.SlotProvider))

	case alexa.IntentHelp:
		return alexa.Ask("I can help you shop! Try saying: 'Find me headphones', 'Show my cart', 'Add item 1', or 'Checkout now'. What would you like to do?", attrs)

	case alexa.IntentStop, alexa.IntentCancel:
		return alexa.Tell("Thanks for shopping with AI Pro! Goodbye!")

	case alexa.IntentFallback:
		return alexa.Ask("I didn't understand that. Try saying 'help' for instructions.", attrs)

	default:
		return alexa.Ask("I didn't understand that. Try saying 'help' for instructions.", attrs)
	}
}

// search runs the ranker and caches the result set in the session so
// "add item N" can refer to it.
func (h *SkillHandler) search(ctx context.Context, userID string, attrs map[string]string, query, priceStr, category string) alexa.ResponseEnvelope {
	query = strings.TrimSpace(query)
	if query == "" {
		return alexa.Ask("What would you like to shop for?", attrs)
	}

	opts := search.Options{Category: category, Limit: search.GeneralLimit}
	if priceStr != "" {
		if maxPrice, err := strconv.ParseFloat(priceStr, 64); err == nil && maxPrice >= 0 {
			opts.MaxPrice = &maxPrice
		} else {
			h.logger.Warn("unparseable price slot, ignoring filter", zap.String("price", priceStr))
		}
	}

	result := h.ranker.Search(query, opts)
	if !result.OK || len(result.Products) == 0 {
		return alexa.Ask(fmt.Sprintf(
			"I couldn't find any products matching '%s'. Try being more specific or adjusting your criteria.", query), attrs)
	}

	cached, err := json.Marshal(result.Products)
	if err == nil {
		attrs[attrCurrentProducts] = string(cached)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "I found %d great options for you. ", len(result.Products))
	for i, p := range result.Products {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&sb, "Item %d: %s at $%.2f. ", i+1, p.Name, p.Price)
	}
	sb.WriteString("You can say 'add item 1' to add any item to your cart, or 'view cart' to see what you have.")

	return alexa.AskSSML(sb.String(), attrs).
		WithCard(
			fmt.Sprintf("Shopping Results: %s", query),
			fmt.Sprintf("Found %d products. Check your screen or Alexa app for details.", len(result.Products)),
			result.Products[0].ImageURL).
		WithAPL("shopping-products", apl.ProductsDocument(query), apl.ProductsDatasource(result.Products, query))
}

func (h *SkillHandler) addToCart(ctx context.Context, userID string, attrs map[string]string, itemNumber string) alexa.ResponseEnvelope {
	cached, ok := attrs[attrCurrentProducts]
	if itemNumber == "" || !ok {
		return alexa.Ask("Please search for products first before adding items to your cart.", attrs)
	}

	index, err := strconv.Atoi(itemNumber)
	if err != nil {
		return alexa.Ask(fmt.Sprintf("I don't see item %s in the results. Please choose a valid item number.", itemNumber), attrs)
	}
	index-- // spoken numbers are 1-based

	var products []catalog.Product
	if err := json.Unmarshal([]byte(cached), &products); err != nil {
		h.logger.Warn("corrupt session product cache", zap.Error(err))
		return alexa.Ask("Please search for products first before adding items to your cart.", attrs)
	}
	if index < 0 || index >= len(products) {
		return alexa.Ask(fmt.Sprintf("I don't see item %s in the results. Please choose a valid item number.", itemNumber), attrs)
	}

	userCart, added, err := h.carts.AddToCart(ctx, userID, products[index])
	if err != nil {
		h.logger.Error("add to cart failed", zap.Error(err))
		return alexa.Ask("Sorry, I couldn't add that item to your cart. Please try again.", attrs)
	}
	if !added {
		return alexa.Ask("That item is already in your cart! Say 'view cart' to see all your items.", attrs)
	}
	return alexa.Ask(fmt.Sprintf(
		"Added %s to your cart for $%.2f. You now have %d items. Say 'view cart' to review, or keep shopping!",
		products[index].Name, products[index].Price, len(userCart.Items)), attrs)
}

func (h *SkillHandler) viewCart(ctx context.Context, userID string, attrs map[string]string) alexa.ResponseEnvelope {
	userCart, err := h.carts.ViewCart(ctx, userID)
	if err != nil {
		h.logger.Error("view cart failed", zap.Error(err))
		return alexa.Ask("I'm having trouble reaching your cart right now. Please try again.", attrs)
	}
	if len(userCart.Items) == 0 {
		return alexa.Ask("Your cart is empty. Search for products to start shopping!", attrs)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You have %d items in your cart totaling $%.2f. ", len(userCart.Items), userCart.Total)
	for i, item := range userCart.Items {
		fmt.Fprintf(&sb, "Item %d: %s at $%.2f. ", i+1, item.Name, item.Price)
	}
	sb.WriteString("Say 'checkout now' to complete your purchase, or 'clear cart' to start over.")

	return alexa.AskSSML(sb.String(), attrs).
		WithAPL("shopping-cart", apl.CartDocument(), apl.CartDatasource(userCart))
}

func (h *SkillHandler) removeFromCart(ctx context.Context, userID string, attrs map[string]string, itemNumber string) alexa.ResponseEnvelope {
	if itemNumber == "" {
		return alexa.Ask("Which item number would you like to remove?", attrs)
	}
	index, err := strconv.Atoi(itemNumber)
	if err != nil {
		return alexa.Ask(fmt.Sprintf("I couldn't find item %s in your cart.", itemNumber), attrs)
	}

	userCart, removed, err := h.carts.RemoveFromCart(ctx, userID, index-1)
	switch {
	case err == cart.ErrIndexOutOfRange:
		return alexa.Ask(fmt.Sprintf("I couldn't find item %s in your cart.", itemNumber), attrs)
	case err != nil:
		h.logger.Error("remove from cart failed", zap.Error(err))
		return alexa.Ask("Sorry, I couldn't remove that item. Please try again.", attrs)
	}
	return alexa.Ask(fmt.Sprintf(
		"Removed %s from your cart. You now have %d items.", removed.Name, len(userCart.Items)), attrs)
}

func (h *SkillHandler) clearCart(ctx context.Context, userID string, attrs map[string]string) alexa.ResponseEnvelope {
	if _, err := h.carts.ClearCart(ctx, userID); err != nil {
		h.logger.Error("clear cart failed", zap.Error(err))
		return alexa.Ask("Sorry, I couldn't clear your cart. Please try again.", attrs)
	}
	return alexa.Ask("Your cart has been cleared. Ready to start fresh!", attrs)
}

func (h *SkillHandler) checkout(ctx context.Context, userID string, attrs map[string]string) alexa.ResponseEnvelope {
	userCart, err := h.carts.Checkout(ctx, userID)
	switch {
	case err == cart.ErrEmptyCart:
		return alexa.Ask("Your cart is empty. Add some items before checking out!", attrs)
	case err != nil:
		h.logger.Error("checkout failed", zap.Error(err))
		return alexa.Ask("I'm having trouble reaching your cart right now. Please try again.", attrs)
	}

	attrs[attrPendingCheckout] = "true"
	return alexa.Ask(fmt.Sprintf(
		"You're about to purchase %d items for a total of $%.2f. Say 'yes, buy it' to confirm, or 'cancel' to go back.",
		len(userCart.Items), userCart.Total), attrs)
}

func (h *SkillHandler) confirmPurchase(ctx context.Context, userID string, attrs map[string]string) alexa.ResponseEnvelope {
	if attrs[attrPendingCheckout] != "true" {
		return alexa.Ask("I'm not sure what you're confirming. Say 'checkout' to review your cart first.", attrs)
	}

	order, err := h.carts.ConfirmPurchase(ctx, userID)
	switch {
	case err == cart.ErrEmptyCart:
		// The cart changed between checkout and confirm.
		attrs[attrPendingCheckout] = "false"
		return alexa.Ask("Your cart is empty. Nothing to check out!", attrs)
	case err != nil:
		h.logger.Error("confirm purchase failed", zap.Error(err))
		return alexa.Ask("Sorry, there was an error processing your order. Please try again.", attrs)
	}

	attrs[attrPendingCheckout] = "false"
	speech := fmt.Sprintf(
		"Order confirmed! Your order number is %s. Total: $%.2f. You'll receive confirmation details in your Alexa app. Estimated delivery in %s.",
		order.OrderID, order.Total, order.EstimatedDelivery)

	return alexa.AskSSML(speech, attrs).
		WithCard(
			fmt.Sprintf("Order Confirmed - #%s", order.OrderID),
			fmt.Sprintf("Total: $%.2f\nTracking: %s\nDelivery: %s", order.Total, order.TrackingNumber, order.EstimatedDelivery),
			"").
		WithAPL("order-confirmation", apl.ConfirmationDocument(), apl.ConfirmationDatasource(order))
}

func (h *SkillHandler) cancelPurchase(attrs map[string]string) alexa.ResponseEnvelope {
	if attrs[attrPendingCheckout] != "true" {
		return alexa.Ask("Okay, what would you like to do?", attrs)
	}
	attrs[attrPendingCheckout] = "false"
	return alexa.Ask("Checkout cancelled. Your items are still in your cart. Say 'view cart' to review, or keep shopping!", attrs)
}

// chat proxies free-text questions to the resolved AI provider.
func (h *SkillHandler) chat(ctx context.Context, userID string, attrs map[string]string, query, providerSlot string) alexa.ResponseEnvelope {
	query = strings.TrimSpace(query)
	if query == "" {
		return alexa.Ask("What would you like to ask?", attrs)
	}

	stored := ""
	if pref, err := h.prefs.GetPreferredProvider(ctx, userID); err == nil {
		stored = pref
	}
	provider, prompt := ai.Resolve(providerSlot, query, stored)
	if prompt == "" {
		prompt = query
	}

	history, err := h.prefs.GetConversation(ctx, userID)
	if err != nil {
		h.logger.Warn("conversation history load failed", zap.Error(err))
	}

	answer, err := h.ai.Chat(ctx, provider, prompt, history)
	if err != nil {
		return alexa.Ask(ai.FallbackMessage(provider), attrs)
	}

	if err := h.prefs.AppendConversation(ctx, userID, prompt, answer); err != nil {
		h.logger.Warn("conversation save failed", zap.Error(err))
	}
	return alexa.Ask(answer, attrs)
}

func (h *SkillHandler) setProvider(ctx context.Context, userID string, attrs map[string]string, providerSlot string) alexa.ResponseEnvelope {
	provider, ok := ai.ParseProvider(providerSlot)
	if !ok {
		return alexa.Ask("Which assistant would you like? You can choose OpenAI, Claude, Gemini, or Bedrock.", attrs)
	}
	if err := h.prefs.SetPreferredProvider(ctx, userID, string(provider)); err != nil {
		h.logger.Error("provider preference save failed", zap.Error(err))
		return alexa.Ask("Sorry, I couldn't save that preference. Please try again.", attrs)
	}
	return alexa.Ask(fmt.Sprintf("Done! I'll use %s for our chats from now on.", provider), attrs)
}

// isShoppingQuery routes free-text utterances that are really shopping
// requests to the search flow.
func isShoppingQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	prefixes := []string{
		"find me", "find a", "search for", "shop for", "buy", "show me",
		"i want to buy", "i need to buy", "looking for",
	}
	for _, p := range prefixes {
		if strings.HasPrefix(q, p) {
			return true
		}
	}
	return false
}
