package runtime

import (
	"bufio"
	"io"
	"log/slog"
	"net"
	"strings"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/moderation"
	"chat-relay/observability"
)

// Lines beyond this size abort the session like any other read failure.
const maxLineBytes = 64 << 10

// SessionHandler drives one connection through its lifecycle:
// Connecting -> Named -> Active -> Closed. It owns the live transport stream
// and is its only reader; writes from other goroutines go through the
// registered domain.Session. The handler is also the only component that
// inserts and removes its registry entry.
type SessionHandler struct {
	log         *slog.Logger
	conn        net.Conn
	session     *domain.Session
	registry    contract.IRegistry
	broadcaster contract.IBroadcaster
	moderator   *moderation.Moderator // nil disables censoring
	stats       *observability.RelayStats
}

func NewSessionHandler(
	log *slog.Logger,
	conn net.Conn,
	registry contract.IRegistry,
	broadcaster contract.IBroadcaster,
	moderator *moderation.Moderator,
	stats *observability.RelayStats,
) *SessionHandler {
	return &SessionHandler{
		log:         log,
		conn:        conn,
		session:     domain.NewSession(conn),
		registry:    registry,
		broadcaster: broadcaster,
		moderator:   moderator,
		stats:       stats,
	}
}

// Session exposes the handler's session for tests and the accept loop.
func (h *SessionHandler) Session() *domain.Session {
	return h.session
}

// Run blocks until the peer disconnects or a fatal I/O error occurs.
// The transport is released on every exit path.
func (h *SessionHandler) Run() {
	defer h.session.Close()

	scanner := bufio.NewScanner(h.conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	if err := h.handshake(scanner); err != nil {
		// A failed handshake never reaches the registry and nobody is
		// notified; the id simply vanishes.
		h.session.SetState(domain.Closed)
		h.log.Debug("Handshake aborted",
			"remote", h.conn.RemoteAddr(),
			"err", err)
		return
	}

	h.relay(scanner)
	h.part()
}

// handshake interprets the first non-empty line as the display name.
func (h *SessionHandler) handshake(scanner *bufio.Scanner) error {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return err
		}
		return io.EOF
	}
	name := strings.TrimSpace(scanner.Text())
	if name == "" {
		return errors.ErrEmptyName
	}

	h.session.Name = name
	h.session.SetState(domain.Named)
	if !h.registry.Insert(h.session) {
		// A colliding uuid breaks the registry invariant; drop the
		// connection instead of shadowing the existing session.
		h.log.Error("Session id already registered, dropping connection",
			"id", h.session.ID,
			"remote", h.conn.RemoteAddr())
		return errors.ErrDuplicateSession
	}
	h.stats.IncrSessionsJoined()
	h.stats.ObservePeak(h.registry.Len())

	h.log.Info("Client connected",
		"id", h.session.ID,
		"name", name,
		"remote", h.conn.RemoteAddr())
	h.broadcaster.Broadcast(domain.JoinNotice(name), h.session.ID)

	h.session.SetState(domain.Active)
	return nil
}

// relay reads lines until the transport dies, fanning each one out to every
// other session. A panic anywhere in the loop is recovered and treated as an
// unconditional disconnect so one misbehaving session cannot take the
// process down.
func (h *SessionHandler) relay(scanner *bufio.Scanner) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("Session handler panic, treating as disconnect",
				"id", h.session.ID,
				"panic", r)
		}
	}()

	for scanner.Scan() {
		content := scanner.Text()
		if content == "" {
			continue
		}
		if h.moderator != nil {
			content = h.moderator.Censor(content)
		}
		message := domain.NewMessage(h.session.Name, content)
		h.broadcaster.Broadcast(message.Line(), h.session.ID)
		h.stats.IncrMessagesRelayed()
	}

	if err := scanner.Err(); err != nil {
		h.log.Debug("Session read failed",
			"id", h.session.ID,
			"err", err)
	}
}

// part removes the session and announces the departure exactly once, using
// the name captured during the handshake. Remove is idempotent, so a racing
// teardown cannot produce a second notice.
func (h *SessionHandler) part() {
	h.session.SetState(domain.Closed)
	if _, ok := h.registry.Remove(h.session.ID); !ok {
		return
	}
	h.stats.IncrSessionsParted()
	h.log.Info("Client disconnected",
		"id", h.session.ID,
		"name", h.session.Name)
	h.broadcaster.Broadcast(domain.LeaveNotice(h.session.Name), h.session.ID)
}
