package runtime

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"chat-relay/contract"
	"chat-relay/moderation"
	"chat-relay/observability"
)

// Server is the accept loop. It implements contract.Worker so it runs under
// the supervisor next to the other workers. Each accepted connection gets
// its own handler goroutine with no admission control and no read deadline:
// a silent peer occupies its goroutine until it closes or Drain releases it.
type Server struct {
	log         *slog.Logger
	listener    net.Listener
	registry    contract.IRegistry
	broadcaster contract.IBroadcaster
	moderator   *moderation.Moderator
	stats       *observability.RelayStats
	wg          sync.WaitGroup

	cmu   sync.Mutex // Guards conns
	conns map[net.Conn]struct{}
}

func NewServer(
	log *slog.Logger,
	listener net.Listener,
	registry contract.IRegistry,
	broadcaster contract.IBroadcaster,
	moderator *moderation.Moderator,
	stats *observability.RelayStats,
) *Server {
	return &Server{
		log:         log,
		listener:    listener,
		registry:    registry,
		broadcaster: broadcaster,
		moderator:   moderator,
		stats:       stats,
		conns:       make(map[net.Conn]struct{}),
	}
}

// track keeps the raw transport reachable for Drain until its handler
// finishes. The registry only knows sessions past the handshake.
func (s *Server) track(conn net.Conn) {
	s.cmu.Lock()
	s.conns[conn] = struct{}{}
	s.cmu.Unlock()
}

func (s *Server) untrack(conn net.Conn) {
	s.cmu.Lock()
	delete(s.conns, conn)
	s.cmu.Unlock()
}

func (s *Server) liveConns() int {
	s.cmu.Lock()
	defer s.cmu.Unlock()
	return len(s.conns)
}

// Run accepts connections until the listener is closed. Transient accept
// errors are logged and the loop continues; only a closed listener (the
// shutdown path) ends the worker.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("Relay listening", "addr", s.listener.Addr().String())

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				s.log.Info("Accept loop stopped")
				return nil
			}
			s.log.Warn("Accept failed, continuing", "err", err)
			continue
		}

		handler := NewSessionHandler(s.log, conn, s.registry, s.broadcaster, s.moderator, s.stats)
		s.track(conn)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			handler.Run()
		}()
	}
}

// Drain closes every live session and waits for the handlers to finish,
// bounded by the given timeout. Returns true when all handlers exited.
func (s *Server) Drain(timeout time.Duration) bool {
	// Registered sessions close through their once guard; connections still
	// in the handshake have no session yet and are closed directly.
	s.registry.CloseAll()
	s.cmu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.cmu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		s.log.Warn("Drain timeout, abandoning remaining handlers")
		return false
	}
}
