package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/goliatone/go-translations/internal/identity"
	"github.com/goliatone/go-translations/internal/logging/console"
	"github.com/goliatone/go-translations/internal/middleware"
)

var secret = []byte("test-secret")

func signed(t *testing.T, claims jwt.RegisteredClaims, method jwt.SigningMethod, key any) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func protected(t *testing.T) http.Handler {
	t.Helper()
	auth, err := middleware.Auth(middleware.AuthConfig{Secret: secret, Issuer: "marketplace"})
	if err != nil {
		t.Fatalf("auth: %v", err)
	}
	return auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			t.Errorf("expected actor on context")
		}
		_, _ = w.Write([]byte(actor.ID.String()))
	}))
}

func TestAuthRequiresSecret(t *testing.T) {
	if _, err := middleware.Auth(middleware.AuthConfig{}); err != middleware.ErrSecretRequired {
		t.Fatalf("expected ErrSecretRequired, got %v", err)
	}
}

func TestAuthAcceptsValidToken(t *testing.T) {
	token := signed(t, jwt.RegisteredClaims{
		Subject:   "farmer-42",
		Issuer:    "marketplace",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, jwt.SigningMethodHS256, secret)

	req := httptest.NewRequest(http.MethodGet, "/api/translations/keys", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != identity.ActorUUID("farmer-42").String() {
		t.Fatalf("unexpected actor id %q", got)
	}
}

func TestAuthRejections(t *testing.T) {
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Token abc",
		"bad signature": "Bearer " + signed(t, jwt.RegisteredClaims{
			Subject: "x", Issuer: "marketplace", ExpiresAt: future,
		}, jwt.SigningMethodHS256, []byte("other")),
		"expired": "Bearer " + signed(t, jwt.RegisteredClaims{
			Subject: "x", Issuer: "marketplace", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}, jwt.SigningMethodHS256, secret),
		"no expiry": "Bearer " + signed(t, jwt.RegisteredClaims{
			Subject: "x", Issuer: "marketplace",
		}, jwt.SigningMethodHS256, secret),
		"wrong issuer": "Bearer " + signed(t, jwt.RegisteredClaims{
			Subject: "x", Issuer: "elsewhere", ExpiresAt: future,
		}, jwt.SigningMethodHS256, secret),
		"wrong algorithm": "Bearer " + signed(t, jwt.RegisteredClaims{
			Subject: "x", Issuer: "marketplace", ExpiresAt: future,
		}, jwt.SigningMethodHS512, secret),
		"blank subject": "Bearer " + signed(t, jwt.RegisteredClaims{
			Issuer: "marketplace", ExpiresAt: future,
		}, jwt.SigningMethodHS256, secret),
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/translations/keys", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			protected(t).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["success"] != false || body["code"] != "UNAUTHORIZED" {
				t.Fatalf("unexpected envelope %v", body)
			}
		})
	}
}

func TestRecoverWritesEnvelope(t *testing.T) {
	var buf bytes.Buffer
	logger := console.NewProvider(console.Options{Writer: &buf, Format: console.FormatJSON}).GetLogger("test")

	h := middleware.Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(buf.String(), `"msg":"http.panic"`) || !strings.Contains(buf.String(), "boom") {
		t.Fatalf("expected panic to be logged, got %s", buf.String())
	}
}

func TestRequestIDAndLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := console.NewProvider(console.Options{Writer: &buf, Format: console.FormatJSON}).GetLogger("test")

	h := middleware.Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}),
		middleware.RequestID(),
		middleware.Log(logger),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/translations/common.missing/history", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get(middleware.RequestIDHeader); got != "req-123" {
		t.Fatalf("expected request id echoed, got %q", got)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log entry %q: %v", buf.String(), err)
	}
	if entry["level"] != "WARN" || entry["status"] != float64(404) {
		t.Fatalf("unexpected log entry %v", entry)
	}
	if entry["request_id"] != "req-123" {
		t.Fatalf("expected request id in log entry, got %v", entry)
	}
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	h := middleware.RequestID()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Fatalf("expected generated request id")
	}
}
