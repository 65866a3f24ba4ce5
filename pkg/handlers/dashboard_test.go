package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ekaya-inc/ekaya-growth/pkg/artifacts"
	"github.com/ekaya-inc/ekaya-growth/pkg/config"
	"github.com/ekaya-inc/ekaya-growth/pkg/models"
	"github.com/ekaya-inc/ekaya-growth/pkg/render"
	"github.com/ekaya-inc/ekaya-growth/pkg/services"
	"github.com/ekaya-inc/ekaya-growth/pkg/testhelpers"
)

func newDashboardMux(t *testing.T, logger *zap.Logger) *http.ServeMux {
	t.Helper()
	store, err := artifacts.Load(context.Background(), testhelpers.WriteArtifacts(t), zap.NewNop())
	require.NoError(t, err)

	dashboard, err := services.NewDashboardService(store, services.DashboardOptions{Version: "test", MaxCount: 1000}, zap.NewNop())
	require.NoError(t, err)

	renderer := render.NewRenderer(config.RenderConfig{Width: 320, Height: 200}, zap.NewNop())

	mux := http.NewServeMux()
	NewDashboardHandler(dashboard, renderer, logger).RegisterRoutes(mux)
	NewConfigHandler(dashboard, logger).RegisterRoutes(mux)
	return mux
}

func serve(mux http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	code, _ := body["error"].(string)
	return code
}

func TestConfigHandler_Get(t *testing.T) {
	mux := newDashboardMux(t, zap.NewNop())

	rec := serve(mux, http.MethodGet, "/api/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))

	var cfg models.DashboardConfig
	decodeData(t, rec, &cfg)
	assert.Equal(t, "Instagram Growth Strategy", cfg.Title)
	assert.Len(t, cfg.Tabs, 5)
	assert.Equal(t, "Comparison of Models", cfg.DefaultChoice)
}

func TestDashboardHandler_GetTab(t *testing.T) {
	mux := newDashboardMux(t, zap.NewNop())

	for _, tab := range models.Tabs {
		rec := serve(mux, http.MethodGet, "/api/tabs/"+tab.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code, tab.ID)

		var content models.TabContent
		decodeData(t, rec, &content)
		assert.Equal(t, tab.ID, content.ID)
	}
}

func TestDashboardHandler_UnknownSelectors(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	mux := newDashboardMux(t, zap.New(core))

	targets := []string{
		"/api/tabs/tab-9-template",
		"/api/timeseries/followers",
		"/api/timeseries/followers/png",
		"/api/metrics/" + url.PathEscape("Precision Recall"),
		"/api/metrics/lift/png",
	}
	for _, target := range targets {
		rec := serve(mux, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, "invalid_selector", errorCode(t, rec), target)
	}

	assert.Equal(t, len(targets), logs.FilterMessage("Selector value outside its domain").Len())
}

func TestDashboardHandler_GetTimeSeries(t *testing.T) {
	mux := newDashboardMux(t, zap.NewNop())

	for _, chart := range []string{"growth", "discovery", "forecast"} {
		rec := serve(mux, http.MethodGet, "/api/timeseries/"+chart, nil)
		require.Equal(t, http.StatusOK, rec.Code, chart)

		var fig models.Figure
		decodeData(t, rec, &fig)
		assert.NotEmpty(t, fig.Data, chart)
	}
}

func TestDashboardHandler_PNG(t *testing.T) {
	mux := newDashboardMux(t, zap.NewNop())

	for _, target := range []string{
		"/api/timeseries/growth/png",
		"/api/metrics/roc-auc/png",
		"/api/metrics/" + url.PathEscape("Confusion Matrix") + "/png",
	} {
		rec := serve(mux, http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

		img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err, target)
		assert.Equal(t, 320, img.Bounds().Dx())
		assert.Equal(t, 200, img.Bounds().Dy())
	}
}

func TestDashboardHandler_GetMetric_LabelAndSlug(t *testing.T) {
	mux := newDashboardMux(t, zap.NewNop())

	byLabel := serve(mux, http.MethodGet, "/api/metrics/"+url.PathEscape("Feature Importance"), nil)
	bySlug := serve(mux, http.MethodGet, "/api/metrics/feature-importance", nil)

	require.Equal(t, http.StatusOK, byLabel.Code)
	require.Equal(t, http.StatusOK, bySlug.Code)
	assert.JSONEq(t, byLabel.Body.String(), bySlug.Body.String())
}

func TestDashboardHandler_Profiles(t *testing.T) {
	mux := newDashboardMux(t, zap.NewNop())

	rec := serve(mux, http.MethodGet, "/api/profiles", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var options []models.ProfileOption
	decodeData(t, rec, &options)
	require.Len(t, options, testhelpers.FixtureProfileCount)
	assert.Equal(t, models.ProfileOption{Label: "alice_photo", Value: 0}, options[0])

	rec = serve(mux, http.MethodGet, "/api/profiles/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var sel models.ProfileSelection
	decodeData(t, rec, &sel)
	assert.Equal(t, `You have selected "bob.travels"`, sel.SelectedText)
	assert.Equal(t, "Predicted probability of following is 12%, Actual status is non-follower", sel.ProbabilityText)
}

func TestDashboardHandler_GetProfile_Errors(t *testing.T) {
	mux := newDashboardMux(t, zap.NewNop())

	tests := []struct {
		target string
		status int
		code   string
	}{
		{"/api/profiles/3", http.StatusNotFound, "profile_not_found"},
		{"/api/profiles/-1", http.StatusNotFound, "profile_not_found"},
		{"/api/profiles/alice_photo", http.StatusBadRequest, "invalid_selector"},
	}
	for _, tt := range tests {
		rec := serve(mux, http.MethodGet, tt.target, nil)
		assert.Equal(t, tt.status, rec.Code, tt.target)
		assert.Equal(t, tt.code, errorCode(t, rec), tt.target)
	}
}
