package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"

	"chat-relay/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run mirrors stdin to the socket and the socket to stdout. The only
// protocol step is sending the display name as the first line; everything
// after that is plain text relayed by the server.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Connect to the relay.
	conn, err := net.Dial("tcp", config.ServerAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer func() {
		log.Debug("Closing connection...")
		_ = conn.Close()
	}()

	// 3. Name handshake.
	stdin := bufio.NewScanner(os.Stdin)
	fmt.Print(color.New(color.FgCyan, color.Bold).Render("Enter your name: "))
	if !stdin.Scan() {
		return exitOK, nil
	}
	name := strings.TrimSpace(stdin.Text())
	if name == "" {
		return exitRuntime, fmt.Errorf("display name must not be empty")
	}
	if _, err := fmt.Fprintln(conn, name); err != nil {
		return exitRuntime, fmt.Errorf("handshake failed: %w", err)
	}
	log.Info("Connected", "server", config.ServerAddress, "name", name)

	// 4. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)

	// socket -> stdout
	go func() {
		incoming := bufio.NewScanner(conn)
		for incoming.Scan() {
			fmt.Println(render(incoming.Text()))
		}
		done <- incoming.Err()
	}()

	// stdin -> socket
	go func() {
		for stdin.Scan() {
			line := stdin.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			if _, err := fmt.Fprintln(conn, line); err != nil {
				done <- err
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Stopping client...")
		return exitOK, nil
	case err := <-done:
		if err != nil {
			return exitRuntime, fmt.Errorf("connection lost: %w", err)
		}
		log.Info("Server closed the connection")
		return exitOK, nil
	}
}

// render colorizes join/leave notices; regular chat lines pass through.
func render(line string) string {
	switch {
	case strings.HasSuffix(line, " has joined the chat."):
		return color.New(color.FgGreen).Render(line)
	case strings.HasSuffix(line, " has left the chat."):
		return color.New(color.FgYellow).Render(line)
	default:
		return line
	}
}
