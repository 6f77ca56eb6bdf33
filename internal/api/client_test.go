package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/medilink-hms/client/internal/api/dto"
	"github.com/medilink-hms/client/internal/config"
	"github.com/medilink-hms/client/internal/domain"
	"github.com/medilink-hms/client/internal/observability"
	"github.com/medilink-hms/client/internal/persistence"
	"github.com/medilink-hms/client/internal/router"
	apperrors "github.com/medilink-hms/client/pkg/util"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *persistence.MemoryVault, *router.Navigator, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	vault := persistence.NewMemoryVault()
	nav := router.NewNavigator()
	client := NewClient(config.APIConfig{BaseURL: srv.URL}, vault, nav, observability.NewMetrics(), nil)
	return client, vault, nav, srv
}

func storeToken(t *testing.T, vault persistence.Vault, token string) {
	t.Helper()
	err := vault.Store(persistence.Credentials{
		Token:   token,
		Profile: domain.Profile{ID: "u1", Role: domain.RolePatient},
	})
	if err != nil {
		t.Fatalf("seed vault: %v", err)
	}
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth, gotRequestID string
	client, vault, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"success":true}`))
	}))
	storeToken(t, vault, "tok-abc")

	var out dto.Envelope
	if err := client.Get(context.Background(), "/user/profile", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatal("expected a request id header")
	}
}

func TestClientNormalizesErrorMessage(t *testing.T) {
	client, _, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"email already registered"}`))
	}))

	err := client.Post(context.Background(), "/auth/register/user", map[string]string{}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := apperrors.MessageOf(err, "fallback"); got != "email already registered" {
		t.Fatalf("expected backend message, got %q", got)
	}
}

func TestClientFallbackMessage(t *testing.T) {
	client, _, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := client.Get(context.Background(), "/user/records", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := apperrors.MessageOf(err, "x"); got != "Something went wrong" {
		t.Fatalf("expected generic fallback, got %q", got)
	}
}

func TestClientAuthExpiryTeardown(t *testing.T) {
	client, vault, nav, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"jwt expired"}`))
	}))
	storeToken(t, vault, "stale")
	nav.Go("/dashboard")

	var hookCalls int32
	client.SetAuthExpiredHook(func() { atomic.AddInt32(&hookCalls, 1) })

	err := client.Get(context.Background(), "/user/records", nil)
	if !apperrors.IsAuthExpired(err) {
		t.Fatalf("expected auth-expired error, got %v", err)
	}

	if creds, _ := vault.Load(); creds != nil {
		t.Fatal("expected vault cleared on 401")
	}
	if nav.Current() != "/login?expired=true" {
		t.Fatalf("expected expired login redirect, got %q", nav.Current())
	}
	if atomic.LoadInt32(&hookCalls) != 1 {
		t.Fatalf("expected hook fired once, got %d", hookCalls)
	}

	// A second 401 while already on the login route must not loop.
	history := len(nav.History())
	_ = client.Get(context.Background(), "/user/records", nil)
	if len(nav.History()) != history {
		t.Fatal("expected no further redirect while on login route")
	}
	if atomic.LoadInt32(&hookCalls) != 1 {
		t.Fatalf("expected hook not fired again, got %d", hookCalls)
	}
}

func TestClientNoRedirectOnLoginRoute(t *testing.T) {
	client, vault, nav, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"bad credentials"}`))
	}))
	storeToken(t, vault, "whatever")
	nav.Go(router.LoginPath)

	err := client.Post(context.Background(), "/auth/login/user", dto.LoginRequest{}, nil)
	if !apperrors.IsAuthExpired(err) {
		t.Fatalf("expected 401 error, got %v", err)
	}
	if nav.Current() != router.LoginPath {
		t.Fatalf("expected to stay on login route, got %q", nav.Current())
	}
	if creds, _ := vault.Load(); creds == nil {
		t.Fatal("vault must not be cleared while on the login route")
	}
}

func TestClientLocalExpiryPrecheck(t *testing.T) {
	var reached int32
	client, vault, nav, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&reached, 1)
		w.Write([]byte(`{"success":true}`))
	}))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	token, err := expired.SignedString([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	storeToken(t, vault, token)
	nav.Go("/dashboard")

	callErr := client.Get(context.Background(), "/user/profile", nil)
	if !apperrors.IsAuthExpired(callErr) {
		t.Fatalf("expected local expiry detection, got %v", callErr)
	}
	if atomic.LoadInt32(&reached) != 0 {
		t.Fatal("expected no round trip for a locally expired token")
	}
	if nav.Current() != "/login?expired=true" {
		t.Fatalf("expected expired redirect, got %q", nav.Current())
	}
}

func TestClientOpaqueTokenSentAsIs(t *testing.T) {
	var gotAuth string
	client, vault, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true}`))
	}))
	storeToken(t, vault, "opaque-not-a-jwt")

	if err := client.Get(context.Background(), "/user/profile", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "Bearer opaque-not-a-jwt" {
		t.Fatalf("opaque token must be sent untouched, got %q", gotAuth)
	}
}
