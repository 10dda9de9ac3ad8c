package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"backend/internal/ai"
)

// ProviderPrefs is the part of the user record the portal writes.
type ProviderPrefs interface {
	GetPreferredProvider(ctx context.Context, userID string) (string, error)
	SetPreferredProvider(ctx context.Context, userID, provider string) error
}

// AlertSetup provisions the per-user order notification topic.
type AlertSetup interface {
	EnsureEmailAlerts(ctx context.Context, userID, email string) (string, error)
}

// PortalHandler serves the HTML configuration page and its small JSON
// API: provider preference and order alert email.
type PortalHandler struct {
	prefs  ProviderPrefs
	alerts AlertSetup
	router *ai.Router
	logger *zap.Logger
}

func NewPortalHandler(prefs ProviderPrefs, alerts AlertSetup, router *ai.Router, logger *zap.Logger) *PortalHandler {
	return &PortalHandler{prefs: prefs, alerts: alerts, router: router, logger: logger}
}

type configureRequest struct {
	UserID     string `json:"user_id"`
	Provider   string `json:"provider"`
	AlertEmail string `json:"alert_email,omitempty"`
}

func (h *PortalHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	path := req.RawPath
	if path == "" {
		path = req.RequestContext.HTTP.Path
	}
	method := req.RequestContext.HTTP.Method

	switch {
	case method == http.MethodGet && (path == "/" || path == ""):
		return htmlOK(configPage), nil
	case method == http.MethodGet && path == "/api/status":
		return h.status(), nil
	case method == http.MethodPost && path == "/api/configure":
		return h.configure(ctx, req.Body), nil
	default:
		return jsonErr(http.StatusNotFound, "not_found", nil), nil
	}
}

func (h *PortalHandler) status() events.APIGatewayV2HTTPResponse {
	providers := map[string]bool{}
	for _, p := range []ai.Provider{ai.ProviderOpenAI, ai.ProviderAnthropic, ai.ProviderGemini, ai.ProviderBedrock} {
		providers[string(p)] = h.router.Configured(p)
	}
	return jsonOK(map[string]any{
		"ok":        true,
		"providers": providers,
	})
}

func (h *PortalHandler) configure(ctx context.Context, body string) events.APIGatewayV2HTTPResponse {
	var req configureRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return jsonErr(http.StatusBadRequest, "invalid_json", err)
	}

	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return jsonErr(http.StatusBadRequest, "user_id_required", nil)
	}

	provider, ok := ai.ParseProvider(req.Provider)
	if !ok {
		return jsonErr(http.StatusBadRequest, "unknown_provider", nil)
	}

	if err := h.prefs.SetPreferredProvider(ctx, req.UserID, string(provider)); err != nil {
		h.logger.Error("portal provider save failed", zap.Error(err))
		return jsonErr(http.StatusInternalServerError, "preference_save_failed", err)
	}

	topicArn := ""
	if email := strings.TrimSpace(req.AlertEmail); email != "" {
		arn, err := h.alerts.EnsureEmailAlerts(ctx, req.UserID, email)
		if err != nil {
			// The preference is already saved; report partial success.
			h.logger.Warn("portal alert setup failed", zap.Error(err))
		} else {
			topicArn = arn
		}
	}

	return jsonOK(map[string]any{
		"ok":              true,
		"provider":        string(provider),
		"alerts_topic":    topicArn,
		"alerts_enabled":  topicArn != "",
		"confirm_pending": topicArn != "",
	})
}

func jsonOK(v any) events.APIGatewayV2HTTPResponse {
	b, _ := json.Marshal(v)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(b),
	}
}

func jsonErr(status int, msg string, err error) events.APIGatewayV2HTTPResponse {
	resp := map[string]any{"error": msg}
	if err != nil {
		resp["detail"] = err.Error()
	}
	b, _ := json.Marshal(resp)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(b),
	}
}

func htmlOK(body string) events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type": "text/html; charset=utf-8",
		},
		Body: body,
	}
}
