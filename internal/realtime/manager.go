package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/medilink-hms/client/internal/config"
	"github.com/medilink-hms/client/internal/domain"
	"github.com/medilink-hms/client/internal/events"
)

// JoinMessage announces which logical user a fresh connection represents.
// The transport carries no identity until this is sent.
type JoinMessage struct {
	Action string `json:"action"`
	UserID string `json:"userId"`
}

// ServerMessage is one inbound frame from the realtime endpoint.
type ServerMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Conn abstracts a websocket connection for testability.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	Close() error
}

// Dialer opens a connection to the realtime endpoint.
type Dialer func(ctx context.Context, url string) (Conn, error)

// GorillaDialer dials with the default gorilla/websocket dialer.
func GorillaDialer(ctx context.Context, url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

type command struct {
	identity *domain.Profile
}

type frame struct {
	gen int
	msg []byte
	err error
}

// Manager owns the client side of the realtime channel: at most one live
// connection, scoped to the authenticated identity. A single goroutine
// serializes every transition, so an old connection is always closed before
// a new one is dialed and frames read from a superseded connection are
// discarded by generation.
type Manager struct {
	cfg        config.RealtimeConfig
	dial       Dialer
	dispatcher events.Dispatcher
	logger     *zap.Logger

	commands chan command
	done     chan struct{}

	mu     sync.Mutex
	joined string
}

// NewManager builds a manager using the given dialer; pass GorillaDialer
// outside tests.
func NewManager(cfg config.RealtimeConfig, dial Dialer, dispatcher events.Dispatcher, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		cfg:        cfg,
		dial:       dial,
		dispatcher: dispatcher,
		logger:     logger,
		commands:   make(chan command, 16),
		done:       make(chan struct{}),
	}
}

// Start subscribes to session lifecycle events and launches the owner
// goroutine. It returns immediately; the manager runs until ctx is canceled.
func (m *Manager) Start(ctx context.Context) {
	m.dispatcher.Subscribe(events.EventSessionAuthenticated, func(_ context.Context, event events.Event) error {
		if payload, ok := event.Payload.(events.SessionPayload); ok {
			m.commands <- command{identity: payload.Identity}
		}
		return nil
	})
	m.dispatcher.Subscribe(events.EventIdentityRefreshed, func(_ context.Context, event events.Event) error {
		if payload, ok := event.Payload.(events.SessionPayload); ok {
			m.commands <- command{identity: payload.Identity}
		}
		return nil
	})
	m.dispatcher.Subscribe(events.EventSessionCleared, func(_ context.Context, _ events.Event) error {
		m.commands <- command{identity: nil}
		return nil
	})

	go m.run(ctx)
}

// Done is closed once the owner goroutine has exited and any connection is
// torn down.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// JoinedUser returns the user id of the live connection, or "" when none.
func (m *Manager) JoinedUser() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.joined
}

func (m *Manager) run(ctx context.Context) {
	defer close(m.done)

	var (
		identity *domain.Profile
		conn     Conn
		gen      int
		retry    <-chan time.Time
	)
	// One shared frame channel outlives individual connections; stale pumps
	// keep draining into it and their frames are dropped by generation.
	frames := make(chan frame, 16)

	teardown := func() {
		if conn != nil {
			_ = conn.Close()
			conn = nil
		}
		gen++
		retry = nil
		m.setJoined("")
	}

	connect := func() {
		if identity == nil {
			return
		}
		dialed, err := m.dial(ctx, m.cfg.URL)
		if err != nil {
			m.logger.Warn("realtime dial failed", zap.Error(err))
			retry = time.After(m.cfg.RedialDelay())
			return
		}
		if err := dialed.WriteJSON(JoinMessage{Action: "join", UserID: identity.ID}); err != nil {
			m.logger.Warn("realtime join failed", zap.Error(err))
			_ = dialed.Close()
			retry = time.After(m.cfg.RedialDelay())
			return
		}
		conn = dialed
		go readPump(conn, gen, frames)
		m.setJoined(identity.ID)
		m.logger.Info("realtime channel open", zap.String("user_id", identity.ID))
	}

	for {
		select {
		case <-ctx.Done():
			teardown()
			return

		case cmd := <-m.commands:
			if sameIdentity(identity, cmd.identity) && conn != nil {
				// Refresh of the already-joined identity; the connection stays.
				identity = cmd.identity
				continue
			}
			// Old connection must be down before anything scoped to the new
			// identity is dialed.
			teardown()
			identity = cmd.identity
			connect()

		case fr := <-frames:
			if fr.gen != gen {
				// Frame from a superseded connection; never deliver it.
				continue
			}
			if fr.err != nil {
				m.logger.Warn("realtime channel dropped", zap.Error(fr.err))
				teardown()
				if identity != nil {
					retry = time.After(m.cfg.RedialDelay())
				}
				continue
			}
			m.deliver(ctx, fr.msg)

		case <-retry:
			retry = nil
			connect()
		}
	}
}

func (m *Manager) deliver(ctx context.Context, raw []byte) {
	var msg ServerMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		// Ignore malformed frames.
		return
	}
	if msg.Type != "notification" {
		return
	}
	m.dispatcher.Publish(ctx, events.EventNotificationReceived, events.NotificationPayload{
		Notification: domain.NotificationEvent{
			Content:    msg.Content,
			ReceivedAt: time.Now(),
		},
	})
}

func (m *Manager) setJoined(userID string) {
	m.mu.Lock()
	m.joined = userID
	m.mu.Unlock()
}

// readPump forwards inbound frames tagged with the connection's generation.
// It exits on the first read error, which the owner loop turns into a redial.
func readPump(conn Conn, gen int, frames chan<- frame) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			frames <- frame{gen: gen, err: err}
			return
		}
		frames <- frame{gen: gen, msg: msg}
	}
}

func sameIdentity(a, b *domain.Profile) bool {
	return a != nil && b != nil && a.ID == b.ID
}
