package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	"github.com/bryanwahyu/estatehub/internal/domain/users"
)

type stubTokens map[string]users.Principal

func (s stubTokens) Parse(tok string) (users.Principal, error) {
	p, ok := s[tok]
	if !ok {
		return users.Principal{}, errs.ErrUnauthorized
	}
	return p, nil
}

var tokens = stubTokens{
	"agent-token": {ID: "a1", Role: users.RoleAgent},
	"admin-token": {ID: "root", Role: users.RoleAdmin},
}

func whoami(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		w.Write([]byte("anonymous"))
		return
	}
	w.Write([]byte(string(p.ID)))
}

func call(h http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(tokens, nil)(http.HandlerFunc(whoami))

	assert.Equal(t, http.StatusUnauthorized, call(h, "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(h, "Bearer nope").Code)
	assert.Equal(t, http.StatusUnauthorized, call(h, "agent-token").Code, "scheme required")

	rec := call(h, "Bearer agent-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a1", rec.Body.String())

	rec = call(h, "bearer admin-token")
	assert.Equal(t, "root", rec.Body.String())
}

func TestOptionalAuth(t *testing.T) {
	h := OptionalAuth(tokens)(http.HandlerFunc(whoami))
	assert.Equal(t, "anonymous", call(h, "").Body.String())
	assert.Equal(t, "anonymous", call(h, "Bearer expired").Body.String())
	assert.Equal(t, "a1", call(h, "Bearer agent-token").Body.String())
}

func TestRequireRole(t *testing.T) {
	var gotStatus int
	onErr := func(w http.ResponseWriter, status int, msg string) {
		gotStatus = status
		w.WriteHeader(status)
	}
	h := RequireAuth(tokens, onErr)(RequireRole(onErr, users.RoleAdmin)(http.HandlerFunc(whoami)))

	assert.Equal(t, http.StatusForbidden, call(h, "Bearer agent-token").Code)
	assert.Equal(t, http.StatusForbidden, gotStatus)
	assert.Equal(t, http.StatusOK, call(h, "Bearer admin-token").Code)

	bare := RequireRole(nil, users.RoleAdmin)(http.HandlerFunc(whoami))
	assert.Equal(t, http.StatusUnauthorized, call(bare, "").Code)
}

func TestLoggingLevels(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	ok := Logging(log)(http.HandlerFunc(whoami))
	call(ok, "")
	boom := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	call(boom, "")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.EqualValues(t, http.StatusOK, entries[0].ContextMap()["status"])
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
}

func TestMetricsTrackAndCount(t *testing.T) {
	m := NewMetrics()
	okH := m.Track(Count(&m.Logins)(http.HandlerFunc(whoami)))
	failH := m.Track(Count(&m.Logins)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})))

	call(okH, "")
	call(okH, "")
	call(failH, "")

	assert.EqualValues(t, 3, m.RequestsTotal.Load())
	assert.EqualValues(t, 2, m.RequestsSuccess.Load())
	assert.EqualValues(t, 1, m.RequestsFailed.Load())
	assert.EqualValues(t, 2, m.Logins.Load())
	assert.EqualValues(t, 0, m.RequestsInProgress.Load())

	rec := httptest.NewRecorder()
	m.Handler(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 2, body["logins_total"])
}

func TestHealth(t *testing.T) {
	up := CheckFunc(func(context.Context) error { return nil })
	refused := CheckFunc(func(context.Context) error { return errors.New("connection refused") })

	serve := func(h http.HandlerFunc) (int, HealthReport) {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		var rep HealthReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
		return rec.Code, rep
	}

	h := NewHealth(Dependency{Name: "database", Critical: true, Checker: up})
	code, rep := serve(h.Handler)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusOK, rep.Status)

	h.Add(Dependency{Name: "redis", Checker: refused})
	code, rep = serve(h.Handler)
	assert.Equal(t, http.StatusOK, code, "a stats cache outage only degrades the API")
	assert.Equal(t, StatusDegraded, rep.Status)
	assert.Equal(t, "up", rep.Dependencies["database"].Status)
	assert.Equal(t, "connection refused", rep.Dependencies["redis"].Error)
	assert.False(t, rep.Dependencies["redis"].Critical)

	code, rep = serve(h.Ready)
	assert.Equal(t, http.StatusOK, code)
	assert.NotContains(t, rep.Dependencies, "redis")

	down := NewHealth(
		Dependency{Name: "database", Critical: true, Checker: refused},
		Dependency{Name: "storage", Checker: up},
	)
	code, rep = serve(down.Handler)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, StatusDown, rep.Status)
	code, _ = serve(down.Ready)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidateID("id", "3f1c2a4e-5b6d-4e7f-8a9b-0c1d2e3f4a5b"))
	assert.True(t, errs.IsValidation(ValidateID("id", "")))
	assert.True(t, errs.IsValidation(ValidateID("id", "1 OR 1=1")))

	assert.NoError(t, ValidateImageUpload("image/jpeg", 1024))
	assert.NoError(t, ValidateImageUpload("Image/PNG; charset=binary", 1))
	assert.True(t, errs.IsValidation(ValidateImageUpload("application/pdf", 1)))
	assert.True(t, errs.IsValidation(ValidateImageUpload("image/png", 0)))
	assert.True(t, errs.IsValidation(ValidateImageUpload("image/png", MaxImageBytes+1)))

	assert.Equal(t, "hi there", SanitizeString("  hi\x00 there\x07 "))
	assert.Equal(t, 100, ValidateLimit(0))
	assert.Equal(t, 500, ValidateLimit(10_000))
	assert.Equal(t, 25, ValidateLimit(25))
}
