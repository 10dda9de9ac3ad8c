package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backend/internal/ai"
	"backend/internal/handlers"
)

type fakeAlertSetup struct {
	arn      string
	err      error
	lastUser string
	lastMail string
}

func (f *fakeAlertSetup) EnsureEmailAlerts(_ context.Context, userID, email string) (string, error) {
	f.lastUser = userID
	f.lastMail = email
	return f.arn, f.err
}

func newPortalFixture() (*handlers.PortalHandler, *fakePrefs, *fakeAlertSetup) {
	logger := zap.NewNop()
	prefs := &fakePrefs{}
	alerts := &fakeAlertSetup{arn: "arn:aws:sns:us-east-1:123456789012:topic"}

	router := ai.NewRouter(logger)
	router.Register(ai.ProviderOpenAI, &fakeChatter{answer: "ok"})

	return handlers.NewPortalHandler(prefs, alerts, router, logger), prefs, alerts
}

func portalRequest(method, path, body string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		RawPath: path,
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method: method,
				Path:   path,
			},
		},
		Body: body,
	}
}

func TestPortalServesConfigPage(t *testing.T) {
	h, _, _ := newPortalFixture()

	resp, err := h.Handle(context.Background(), portalRequest(http.MethodGet, "/", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Headers["Content-Type"], "text/html")
	assert.Contains(t, resp.Body, "<form")
}

func TestPortalStatusReportsConfiguredProviders(t *testing.T) {
	h, _, _ := newPortalFixture()

	resp, err := h.Handle(context.Background(), portalRequest(http.MethodGet, "/api/status", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		OK        bool            `json:"ok"`
		Providers map[string]bool `json:"providers"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.True(t, body.OK)
	assert.True(t, body.Providers["openai"])
	assert.False(t, body.Providers["gemini"])
	assert.False(t, body.Providers["bedrock"])
}

func TestPortalConfigureSavesPreferenceAndAlerts(t *testing.T) {
	h, prefs, alerts := newPortalFixture()

	resp, err := h.Handle(context.Background(), portalRequest(http.MethodPost, "/api/configure",
		`{"user_id":"amzn1.ask.account.test","provider":"claude","alert_email":"shopper@example.com"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "anthropic", prefs.provider)
	assert.Equal(t, "amzn1.ask.account.test", alerts.lastUser)
	assert.Equal(t, "shopper@example.com", alerts.lastMail)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, "anthropic", body["provider"])
	assert.Equal(t, true, body["alerts_enabled"])
}

func TestPortalConfigureWithoutEmailSkipsAlerts(t *testing.T) {
	h, prefs, alerts := newPortalFixture()

	resp, err := h.Handle(context.Background(), portalRequest(http.MethodPost, "/api/configure",
		`{"user_id":"amzn1.ask.account.test","provider":"gemini"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "gemini", prefs.provider)
	assert.Empty(t, alerts.lastUser)
}

func TestPortalConfigureValidation(t *testing.T) {
	h, _, _ := newPortalFixture()
	ctx := context.Background()

	resp, err := h.Handle(ctx, portalRequest(http.MethodPost, "/api/configure", "{broken"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Body, "invalid_json")

	resp, err = h.Handle(ctx, portalRequest(http.MethodPost, "/api/configure",
		`{"provider":"claude"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Body, "user_id_required")

	resp, err = h.Handle(ctx, portalRequest(http.MethodPost, "/api/configure",
		`{"user_id":"u","provider":"cortana"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Body, "unknown_provider")
}

func TestPortalUnknownRoute(t *testing.T) {
	h, _, _ := newPortalFixture()

	resp, err := h.Handle(context.Background(), portalRequest(http.MethodGet, "/nope", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
