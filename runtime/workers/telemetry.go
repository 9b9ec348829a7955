package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"chat-relay/contract"
	"chat-relay/observability"
)

// TelemetryWorker periodically reports relay counters together with the
// process' own CPU and memory footprint.
type TelemetryWorker struct {
	log      *slog.Logger
	registry contract.IRegistry
	stats    *observability.RelayStats
	interval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, registry contract.IRegistry,
	stats *observability.RelayStats, interval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{
		log:      log,
		registry: registry,
		stats:    stats,
		interval: interval,
	}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	self, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry")
			return nil
		case <-ticker.C:
			w.report(self)
		}
	}
}

func (w *TelemetryWorker) report(self *process.Process) {
	snap := w.stats.GetSnapshot()
	args := []any{
		"active_sessions", w.registry.Len(),
		"peak_sessions", snap.PeakSessions,
		"joined", snap.SessionsJoined,
		"parted", snap.SessionsParted,
		"relayed", snap.MessagesRelayed,
		"delivery_failures", snap.DeliveriesFailed,
	}

	if cpu, err := self.CPUPercent(); err == nil {
		args = append(args, "cpu_percent", cpu)
	}
	if mem, err := self.MemoryInfo(); err == nil {
		args = append(args, "rss_mb", mem.RSS>>20)
	}

	w.log.Info("Relay telemetry", args...)
}
