// Package observability aggregates relay counters for telemetry and the
// shutdown report.
package observability

import "sync/atomic"

// RelayStats collects atomic counters across all sessions. Writers are the
// accept loop, the session handlers and the broadcaster; readers are the
// telemetry worker and the shutdown summary.
type RelayStats struct {
	SessionsJoined   uint64
	SessionsParted   uint64
	MessagesRelayed  uint64
	DeliveriesOK     uint64
	DeliveriesFailed uint64
	PeakSessions     uint64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	SessionsJoined   uint64
	SessionsParted   uint64
	MessagesRelayed  uint64
	DeliveriesOK     uint64
	DeliveriesFailed uint64
	PeakSessions     uint64
}

func NewRelayStats() *RelayStats {
	return &RelayStats{}
}

func (s *RelayStats) IncrSessionsJoined() {
	atomic.AddUint64(&s.SessionsJoined, 1)
}

func (s *RelayStats) IncrSessionsParted() {
	atomic.AddUint64(&s.SessionsParted, 1)
}

func (s *RelayStats) IncrMessagesRelayed() {
	atomic.AddUint64(&s.MessagesRelayed, 1)
}

func (s *RelayStats) IncrDeliveriesOK() {
	atomic.AddUint64(&s.DeliveriesOK, 1)
}

func (s *RelayStats) IncrDeliveriesFailed() {
	atomic.AddUint64(&s.DeliveriesFailed, 1)
}

// ObservePeak records the current number of active sessions if it exceeds
// the highest value seen so far.
func (s *RelayStats) ObservePeak(active int) {
	if active < 0 {
		return
	}
	current := uint64(active)
	for {
		peak := atomic.LoadUint64(&s.PeakSessions)
		if current <= peak {
			return
		}
		if atomic.CompareAndSwapUint64(&s.PeakSessions, peak, current) {
			return
		}
	}
}

func (s *RelayStats) GetSnapshot() Snapshot {
	return Snapshot{
		SessionsJoined:   atomic.LoadUint64(&s.SessionsJoined),
		SessionsParted:   atomic.LoadUint64(&s.SessionsParted),
		MessagesRelayed:  atomic.LoadUint64(&s.MessagesRelayed),
		DeliveriesOK:     atomic.LoadUint64(&s.DeliveriesOK),
		DeliveriesFailed: atomic.LoadUint64(&s.DeliveriesFailed),
		PeakSessions:     atomic.LoadUint64(&s.PeakSessions),
	}
}
