package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medilink-hms/client/internal/api/dto"
	"github.com/medilink-hms/client/internal/config"
	"github.com/medilink-hms/client/internal/observability"
	"github.com/medilink-hms/client/internal/persistence"
	"github.com/medilink-hms/client/internal/router"
	apperrors "github.com/medilink-hms/client/pkg/util"
)

const fallbackMessage = "Something went wrong"

// Client is the authenticated REST client. Every request carries the vaulted
// bearer token; every error response is normalized so call sites rely on a
// single message field; a 401 tears the session down process-wide.
type Client struct {
	baseURL string
	http    *http.Client
	vault   persistence.Vault
	nav     *router.Navigator
	metrics *observability.Metrics
	logger  *zap.Logger

	onAuthExpired func()
}

// NewClient builds the client against the configured base URL.
func NewClient(cfg config.APIConfig, vault persistence.Vault, nav *router.Navigator, metrics *observability.Metrics, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.RequestTimeout()},
		vault:   vault,
		nav:     nav,
		metrics: metrics,
		logger:  logger,
	}
}

// SetAuthExpiredHook registers the callback fired when a 401 tears down the
// persisted session, so the in-memory session state can follow.
func (c *Client) SetAuthExpiredHook(fn func()) {
	c.onAuthExpired = fn
}

// Get issues an authenticated GET and decodes the body into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues an authenticated POST with a JSON body and decodes into out.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	token := c.bearerToken()
	if token != "" && tokenExpired(token) {
		// The token is dead; skip the round trip and tear down as a 401 would.
		c.handleAuthExpired()
		c.metrics.RecordError(path, method, "AUTH_EXPIRED")
		return apperrors.NewAuthExpired("")
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewRequestFailed(err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.NewRequestFailed(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordError(path, method, "REQUEST_FAILED")
		return apperrors.NewRequestFailed(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordError(path, method, "REQUEST_FAILED")
		return apperrors.NewRequestFailed(err)
	}
	c.metrics.RecordRequest(path, method, resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleAuthExpired()
		c.metrics.RecordError(path, method, "AUTH_EXPIRED")
		return apperrors.NewAuthExpired(envelopeMessage(raw))
	}
	if resp.StatusCode >= 400 {
		apiErr := apperrors.FromStatus(resp.StatusCode, envelopeMessage(raw), fallbackMessage)
		c.metrics.RecordError(path, method, apiErr.Code)
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return apperrors.NewDecodeError(err)
		}
	}
	return nil
}

// handleAuthExpired clears the persisted session and redirects to the login
// view with the expired marker. Already being on the login route suppresses
// the redirect so an expired token cannot loop.
func (c *Client) handleAuthExpired() {
	if c.nav.OnLoginRoute() {
		return
	}
	if err := c.vault.Clear(); err != nil {
		c.logger.Warn("clearing vault after auth expiry", zap.Error(err))
	}
	c.nav.GoLoginExpired()
	c.logger.Info("session expired, redirected to login")
	if c.onAuthExpired != nil {
		c.onAuthExpired()
	}
}

func (c *Client) bearerToken() string {
	creds, err := c.vault.Load()
	if err != nil || creds == nil {
		return ""
	}
	return creds.Token
}

// tokenExpired inspects the bearer token's claims without verifying the
// signature. Opaque or malformed tokens are left to the backend to judge.
func tokenExpired(token string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

func envelopeMessage(raw []byte) string {
	var env dto.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}
	return env.Message
}
