package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/medilink-hms/client/internal/api"
	"github.com/medilink-hms/client/internal/api/dto"
	"github.com/medilink-hms/client/internal/domain"
	"github.com/medilink-hms/client/internal/events"
	"github.com/medilink-hms/client/internal/persistence"
	"github.com/medilink-hms/client/internal/router"
	apperrors "github.com/medilink-hms/client/pkg/util"
)

// Result is the outcome of an auth operation. Expected failures never
// propagate as errors; they land here with a human-readable message.
type Result struct {
	Success bool
	Message string
}

// Store is the single source of truth for who is signed in and as what.
// All mutation goes through its operations; observers follow along via the
// event dispatcher.
type Store struct {
	mu       sync.Mutex
	identity *domain.Profile
	role     domain.Role
	token    string
	loading  bool
	phase    domain.RestorePhase

	// epoch increments on every teardown or fresh login. Async results
	// captured under an older epoch are discarded, so a slow profile
	// validation can never resurrect a session torn down underneath it.
	epoch uint64

	readyOnce sync.Once

	vault      persistence.Vault
	client     *api.Client
	dispatcher events.Dispatcher
	nav        *router.Navigator
	logger     *zap.Logger
}

// NewStore wires the store into the API client's auth-expiry hook so a 401
// on any call tears down the in-memory session too.
func NewStore(vault persistence.Vault, client *api.Client, dispatcher events.Dispatcher, nav *router.Navigator, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		loading:    true,
		phase:      domain.RestoreNone,
		vault:      vault,
		client:     client,
		dispatcher: dispatcher,
		nav:        nav,
		logger:     logger,
	}
	client.SetAuthExpiredHook(s.expire)
	return s
}

// Snapshot returns an immutable view of the current session state.
func (s *Store) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := domain.SessionSnapshot{
		Role:          s.role,
		Token:         s.token,
		Loading:       s.loading,
		Phase:         s.phase,
		Authenticated: s.identity != nil && s.token != "",
	}
	if s.identity != nil {
		copied := *s.identity
		snap.Identity = &copied
	}
	return snap
}

// Restore rebuilds the session from the vault at startup. Cached credentials
// are trusted immediately (tentative) and re-validated against the role's
// profile endpoint; a rejected token tears the session down. Loading flips to
// ready exactly once, whatever the outcome.
func (s *Store) Restore(ctx context.Context) {
	defer s.ready()

	creds, err := s.vault.Load()
	if err != nil {
		s.logger.Warn("reading credential vault", zap.Error(err))
		return
	}
	if creds == nil {
		return
	}

	role := creds.Profile.Role
	if !role.Valid() {
		s.logger.Warn("vault holds profile with unknown role, discarding",
			zap.String("role", string(role)))
		_ = s.vault.Clear()
		return
	}

	s.mu.Lock()
	profile := creds.Profile
	s.identity = &profile
	s.role = role
	s.token = creds.Token
	s.phase = domain.RestoreTentative
	epoch := s.epoch
	s.mu.Unlock()

	s.publishAuthenticated(ctx, profile, role, domain.RestoreTentative)

	ep := role.Endpoints()
	var resp dto.ProfileResponse
	if err := s.client.Get(ctx, ep.ProfilePath, &resp); err != nil {
		s.logger.Info("session re-validation failed", zap.Error(err))
		s.rejectRestore(epoch)
		return
	}
	if !resp.Success {
		s.rejectRestore(epoch)
		return
	}

	fresh, err := resp.Profile(ep.ProfileField)
	if err != nil {
		s.logger.Warn("profile response unusable", zap.Error(err))
		s.rejectRestore(epoch)
		return
	}
	fresh = fresh.WithRole(role)

	s.mu.Lock()
	if s.epoch != epoch {
		// Session was torn down (or replaced) while the validation call was
		// in flight; the stale result must not be applied.
		s.mu.Unlock()
		return
	}
	s.identity = &fresh
	s.phase = domain.RestoreConfirmed
	token := s.token
	s.mu.Unlock()

	if err := s.vault.Store(persistence.Credentials{Token: token, Profile: fresh}); err != nil {
		s.logger.Warn("persisting refreshed profile", zap.Error(err))
	}
	s.dispatcher.Publish(ctx, events.EventIdentityRefreshed, events.SessionPayload{
		Identity: &fresh,
		Role:     role,
		Phase:    domain.RestoreConfirmed,
	})
}

// Login authenticates against the role's login endpoint and, on success,
// persists the token and role-tagged profile.
func (s *Store) Login(ctx context.Context, creds dto.LoginRequest, role domain.Role) Result {
	if !role.Valid() {
		return Result{Success: false, Message: "unknown role"}
	}

	var resp dto.LoginResponse
	if err := s.client.Post(ctx, role.Endpoints().LoginPath, creds, &resp); err != nil {
		return Result{Success: false, Message: apperrors.MessageOf(err, "Login failed")}
	}
	if !resp.Success {
		return Result{Success: false, Message: orFallback(resp.Message, "Login failed")}
	}

	profile := resp.User.WithRole(role)
	if err := s.vault.Store(persistence.Credentials{Token: resp.Token, Profile: profile}); err != nil {
		s.logger.Warn("persisting credentials", zap.Error(err))
	}

	s.mu.Lock()
	s.epoch++
	s.identity = &profile
	s.role = role
	s.token = resp.Token
	s.phase = domain.RestoreConfirmed
	s.mu.Unlock()
	s.ready()

	s.publishAuthenticated(ctx, profile, role, domain.RestoreConfirmed)
	return Result{Success: true}
}

// Register posts the role-specific registration form and relays the backend
// verdict. The session itself is untouched; flows log in afterward.
func (s *Store) Register(ctx context.Context, form dto.RegisterForm, role domain.Role) Result {
	if !role.Valid() {
		return Result{Success: false, Message: "unknown role"}
	}

	var resp dto.Envelope
	if err := s.client.Post(ctx, role.Endpoints().RegisterPath, form, &resp); err != nil {
		return Result{Success: false, Message: apperrors.MessageOf(err, "Registration failed")}
	}
	return Result{Success: resp.Success, Message: resp.Message}
}

// VerifyOTP posts a one-time-code verification. Does not mutate the session.
func (s *Store) VerifyOTP(ctx context.Context, payload dto.VerifyOTPRequest) Result {
	var resp dto.Envelope
	if err := s.client.Post(ctx, "/auth/verify-otp", payload, &resp); err != nil {
		return Result{Success: false, Message: apperrors.MessageOf(err, "Verification failed")}
	}
	return Result{Success: resp.Success, Message: resp.Message}
}

// Logout clears the vault and in-memory state and returns to the public
// landing route. Idempotent; also the teardown path used on auth expiry.
func (s *Store) Logout() {
	s.teardown(domain.RestoreNone)
	s.nav.Go(router.LandingPath)
}

// expire is invoked by the API client after a 401 already cleared the vault
// and redirected; only the in-memory state remains to be dropped.
func (s *Store) expire() {
	s.clearState(domain.RestoreNone)
	s.dispatcher.Publish(context.Background(), events.EventSessionCleared, events.SessionPayload{})
}

func (s *Store) teardown(phase domain.RestorePhase) {
	s.clearState(phase)
	if err := s.vault.Clear(); err != nil {
		s.logger.Warn("clearing vault", zap.Error(err))
	}
	s.dispatcher.Publish(context.Background(), events.EventSessionCleared, events.SessionPayload{Phase: phase})
}

func (s *Store) clearState(phase domain.RestorePhase) {
	s.mu.Lock()
	s.epoch++
	s.identity = nil
	s.role = ""
	s.token = ""
	s.phase = phase
	s.mu.Unlock()
}

// rejectRestore tears down a tentative session whose token failed
// re-validation, unless the session already moved on.
func (s *Store) rejectRestore(epoch uint64) {
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.teardown(domain.RestoreRejected)
	s.nav.Go(router.LandingPath)
}

func (s *Store) ready() {
	s.readyOnce.Do(func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	})
}

func (s *Store) publishAuthenticated(ctx context.Context, profile domain.Profile, role domain.Role, phase domain.RestorePhase) {
	s.dispatcher.Publish(ctx, events.EventSessionAuthenticated, events.SessionPayload{
		Identity: &profile,
		Role:     role,
		Phase:    phase,
	})
}

func orFallback(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}
