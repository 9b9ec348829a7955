package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"chat-relay/internal"
	"chat-relay/logs"
	"chat-relay/moderation"
	"chat-relay/observability"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting. This pattern is preferred over calling
// os.Exit or panic directly because it ensures all 'defer' statements run
// before the program exits and decouples the wiring from the entry point.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Moderation (only when a word list is configured)
	var moderator *moderation.Moderator
	if len(config.CensoredWords) > 0 {
		replacement, err := internal.CharacterRune(config.CharReplacement)
		if err != nil {
			return err
		}
		mod, err := moderation.NewModerator(config.CensoredWords, replacement)
		if err != nil {
			return fmt.Errorf("moderation setup failed: %w", err)
		}
		moderator = &mod
		log.Info("Moderation enabled", "words", len(config.CensoredWords))
	}

	// 3. Core components
	registry := runtime.NewRegistry()
	stats := observability.NewRelayStats()
	broadcaster := runtime.NewBroadcaster(log, registry, stats)

	// Bind failure is the only fatal setup error.
	listener, err := net.Listen("tcp", config.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", config.Addr(), err)
	}

	server := runtime.NewServer(log, listener, registry, broadcaster, moderator, stats)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Supervision
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(server, workers.NewTelemetryWorker(log, registry, stats, config.MetricInterval))

	done := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(done)
	}()

	// 6. Wait for Stop
	<-ctx.Done()
	log.Info("Shutting down gracefully...")

	// Closing the listener unblocks the accept loop; draining closes every
	// live session so blocked handlers observe the teardown.
	_ = listener.Close()
	server.Drain(config.ShutdownTimeout)
	<-done

	printSummary(stats.GetSnapshot())
	log.Info("Relay stopped cleanly")
	return nil
}

func printSummary(snap observability.Snapshot) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	rows := [][]string{
		{"Sessions joined", strconv.FormatUint(snap.SessionsJoined, 10)},
		{"Sessions parted", strconv.FormatUint(snap.SessionsParted, 10)},
		{"Peak concurrent sessions", strconv.FormatUint(snap.PeakSessions, 10)},
		{"Messages relayed", strconv.FormatUint(snap.MessagesRelayed, 10)},
		{"Deliveries ok", strconv.FormatUint(snap.DeliveriesOK, 10)},
		{"Deliveries failed", strconv.FormatUint(snap.DeliveriesFailed, 10)},
	}
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
}
