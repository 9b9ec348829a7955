package e2e

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

// BaseRelaySuite connects to an already running relay. The whole suite is
// skipped unless E2E_RELAY_ADDR is set, so it stays out of regular test runs.
type BaseRelaySuite struct {
	suite.Suite
	Config Config
}

// Client is one connected chat participant.
type Client struct {
	conn    net.Conn
	scanner *bufio.Scanner
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseRelaySuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.RelayAddr == "" {
		s.T().Skip("E2E_RELAY_ADDR not set, skipping e2e suite")
	}
}

// Join opens one client connection, performs the name handshake and prints a
// colorized header for the step in logs.
func (s *BaseRelaySuite) Join(name string) *Client {
	header := fmt.Sprintf("  ====== join %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	conn, err := net.Dial("tcp", s.Config.RelayAddr)
	s.Require().NoError(err, "Failed to connect to relay at "+s.Config.RelayAddr)
	s.T().Cleanup(func() { _ = conn.Close() })

	_, err = fmt.Fprintln(conn, name)
	s.Require().NoError(err)
	return &Client{conn: conn, scanner: bufio.NewScanner(conn)}
}

// Say sends one chat line through the relay.
func (s *BaseRelaySuite) Say(c *Client, line string) {
	_, err := fmt.Fprintln(c.conn, line)
	s.Require().NoError(err)
}

// ReadLine waits for the next line pushed by the relay.
func (s *BaseRelaySuite) ReadLine(c *Client) string {
	s.Require().NoError(c.conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
	s.Require().True(c.scanner.Scan(), "expected a line from the relay")
	s.Require().NoError(c.conn.SetReadDeadline(time.Time{}))
	return c.scanner.Text()
}
