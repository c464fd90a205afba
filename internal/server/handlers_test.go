package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bobmcallan/aurum/internal/app"
	"github.com/bobmcallan/aurum/internal/common"
	"github.com/bobmcallan/aurum/internal/models"
	"github.com/bobmcallan/aurum/internal/storage/memory"
)

// stubModel predicts a fixed price.
type stubModel struct {
	value float64
}

func (m *stubModel) Predict(ctx context.Context, features models.DerivedFeatures) (float64, error) {
	return m.value, nil
}

// newTestServer creates a server over the in-memory backend and a stub model.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := common.NewSilentLogger()
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = "memory"

	mgr := memory.NewManager(logger)
	t.Cleanup(func() { mgr.Close() })

	a := app.NewAppWithDeps(cfg, logger, mgr, &stubModel{value: 1810})
	return NewServer(a)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return bytes.NewBuffer(data)
}

func doRequest(srv *Server, method, path, token string, body *bytes.Buffer) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return out
}

// registerAndLogin creates alice and returns her bearer token.
func registerAndLogin(t *testing.T, srv *Server) string {
	t.Helper()
	rec := doRequest(srv, http.MethodPost, "/api/auth/register", "", jsonBody(t, map[string]string{
		"username":   "alice",
		"password":   "s3cret-pass",
		"first_name": "Alice",
		"last_name":  "Smith",
		"email":      "alice@example.com",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(srv, http.MethodPost, "/api/auth/login", "", jsonBody(t, map[string]string{
		"username": "alice",
		"password": "s3cret-pass",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	token, _ := decodeBody(t, rec)["token"].(string)
	if token == "" {
		t.Fatal("login response missing token")
	}
	return token
}

func TestRegister(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/auth/register", "", jsonBody(t, map[string]string{
		"username":   "alice",
		"password":   "s3cret-pass",
		"first_name": "Alice",
		"last_name":  "Smith",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if id, _ := decodeBody(t, rec)["account_id"].(string); id == "" {
		t.Error("response missing account_id")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	srv := newTestServer(t)
	registerAndLogin(t, srv)

	rec := doRequest(srv, http.MethodPost, "/api/auth/register", "", jsonBody(t, map[string]string{
		"username": "alice",
		"password": "other-pass",
	}))
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
	if code, _ := decodeBody(t, rec)["code"].(string); code != "duplicate_username" {
		t.Errorf("code = %q, want duplicate_username", code)
	}
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing username", map[string]string{"password": "s3cret-pass"}},
		{"missing password", map[string]string{"username": "alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(srv, http.MethodPost, "/api/auth/register", "", jsonBody(t, tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	srv := newTestServer(t)
	registerAndLogin(t, srv)

	for _, body := range []map[string]string{
		{"username": "alice", "password": "wrong"},
		{"username": "nobody", "password": "s3cret-pass"},
	} {
		rec := doRequest(srv, http.MethodPost, "/api/auth/login", "", jsonBody(t, body))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("login %v: status = %d, want 401", body["username"], rec.Code)
		}
	}
}

func TestAuthMe(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv)

	rec := doRequest(srv, http.MethodGet, "/api/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["display_name"] != "Alice Smith" {
		t.Errorf("display_name = %v, want Alice Smith", body["display_name"])
	}

	// Without a token there is no identity.
	rec = doRequest(srv, http.MethodGet, "/api/auth/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	// A garbage token is rejected by the middleware.
	rec = doRequest(srv, http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestPredictRequiresSession(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/predict", "", jsonBody(t, map[string]float64{
		"open_price": 1800, "previous_price": 1795, "seven_day_average": 1798,
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401: %s", rec.Code, rec.Body.String())
	}
}

func TestPredictEndToEnd(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv)

	rec := doRequest(srv, http.MethodPost, "/api/predict", token, jsonBody(t, map[string]float64{
		"open_price": 1800, "previous_price": 1795, "seven_day_average": 1798,
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["predicted_price"] != 1810.0 {
		t.Errorf("predicted_price = %v, want 1810", body["predicted_price"])
	}
	if body["price_change"] != 5.0 {
		t.Errorf("price_change = %v, want 5", body["price_change"])
	}
	if body["trend"] != "increase" {
		t.Errorf("trend = %v, want increase", body["trend"])
	}
	if body["magnitude"] != 15.0 {
		t.Errorf("magnitude = %v, want 15", body["magnitude"])
	}
	if chart, _ := body["chart_base64"].(string); chart == "" {
		t.Error("response missing chart_base64")
	}
	if id, _ := body["record_id"].(string); id == "" {
		t.Error("response missing record_id")
	}
}

func TestPredictMissingFields(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv)

	rec := doRequest(srv, http.MethodPost, "/api/predict", token, jsonBody(t, map[string]float64{
		"open_price": 1800,
	}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestPredictionListAndChart(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv)

	rec := doRequest(srv, http.MethodPost, "/api/predict", token, jsonBody(t, map[string]float64{
		"open_price": 1800, "previous_price": 1795, "seven_day_average": 1798,
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("predict status = %d", rec.Code)
	}
	recordID, _ := decodeBody(t, rec)["record_id"].(string)

	rec = doRequest(srv, http.MethodGet, "/api/predictions", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["count"] != 1.0 {
		t.Errorf("count = %v, want 1", body["count"])
	}

	rec = doRequest(srv, http.MethodGet, "/api/predictions/"+recordID+"/chart", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("chart status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}

	// Another user cannot fetch alice's chart.
	rec = doRequest(srv, http.MethodPost, "/api/auth/register", "", jsonBody(t, map[string]string{
		"username": "bob", "password": "bob-pass",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("bob register status = %d", rec.Code)
	}
	rec = doRequest(srv, http.MethodPost, "/api/auth/login", "", jsonBody(t, map[string]string{
		"username": "bob", "password": "bob-pass",
	}))
	bobToken, _ := decodeBody(t, rec)["token"].(string)

	rec = doRequest(srv, http.MethodGet, "/api/predictions/"+recordID+"/chart", bobToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("cross-account chart status = %d, want 404", rec.Code)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv)

	rec := doRequest(srv, http.MethodPost, "/api/auth/logout", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}

	// The token is now useless even though the JWT itself is unexpired.
	rec = doRequest(srv, http.MethodPost, "/api/predict", token, jsonBody(t, map[string]float64{
		"open_price": 1800, "previous_price": 1795, "seven_day_average": 1798,
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("predict after logout status = %d, want 401", rec.Code)
	}

	// Logging out again is still 200, with or without the stale token.
	rec = doRequest(srv, http.MethodPost, "/api/auth/logout", token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("repeat logout with stale token status = %d, want 200", rec.Code)
	}
	rec = doRequest(srv, http.MethodPost, "/api/auth/logout", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("logout without token status = %d, want 200", rec.Code)
	}
}

func TestHealthAndVersion(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
	if decodeBody(t, rec)["status"] != "ok" {
		t.Error("health body missing status ok")
	}

	rec = doRequest(srv, http.MethodGet, "/api/version", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("version status = %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/auth/register", "", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "POST" {
		t.Errorf("Allow = %q, want POST", allow)
	}
}
