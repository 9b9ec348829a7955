package runtime

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-relay/domain"
	"chat-relay/logs"
	"chat-relay/mocks"
	"chat-relay/observability"
)

// readLine pulls one line from the receiving end of a pipe in the
// background; net.Pipe writes block until somebody reads.
func readLine(conn net.Conn) <-chan string {
	out := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(conn)
		if scanner.Scan() {
			out <- scanner.Text()
			return
		}
		close(out)
	}()
	return out
}

func TestBroadcaster_Excludes_The_Sender(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromString("error")
	stats := observability.NewRelayStats()

	alice, _ := pipeSession(t, "Alice")
	bob, bobPeer := pipeSession(t, "Bob")
	carol, carolPeer := pipeSession(t, "Carol")

	registryMock := mocks.NewMockIRegistry(ctrl)
	registryMock.EXPECT().
		Snapshot().
		Return([]*domain.Session{alice, bob, carol}).
		Times(1)

	bobLine := readLine(bobPeer)
	carolLine := readLine(carolPeer)

	// When Alice's message is broadcast
	broadcaster := NewBroadcaster(log, registryMock, stats)
	broadcaster.Broadcast("Alice: hi", alice.ID)

	// Then the two other sessions receive it and Alice does not
	req.Equal("Alice: hi", <-bobLine)
	req.Equal("Alice: hi", <-carolLine)
	req.EqualValues(2, stats.GetSnapshot().DeliveriesOK)
}

func TestBroadcaster_Failed_Delivery_Is_Skipped(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromString("error")
	stats := observability.NewRelayStats()

	// Given a receiver whose transport is already torn down
	dead, deadPeer := pipeSession(t, "Dead")
	dead.Close()
	_ = deadPeer.Close()
	alive, alivePeer := pipeSession(t, "Alive")

	// The dead session comes first so the failure precedes the delivery
	registryMock := mocks.NewMockIRegistry(ctrl)
	registryMock.EXPECT().
		Snapshot().
		Return([]*domain.Session{dead, alive}).
		Times(1)

	aliveLine := readLine(alivePeer)

	broadcaster := NewBroadcaster(log, registryMock, stats)
	broadcaster.Broadcast("sender has left the chat.", "sender-id")

	// Then the failure does not abort the remaining deliveries
	req.Equal("sender has left the chat.", <-aliveLine)
	snap := stats.GetSnapshot()
	req.EqualValues(1, snap.DeliveriesFailed)
	req.EqualValues(1, snap.DeliveriesOK)
}

func TestBroadcaster_Empty_Snapshot_Is_A_Noop(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	stats := observability.NewRelayStats()

	registryMock := mocks.NewMockIRegistry(ctrl)
	registryMock.EXPECT().Snapshot().Return(nil).Times(1)

	broadcaster := NewBroadcaster(logs.GetLoggerFromString("error"), registryMock, stats)

	done := make(chan struct{})
	go func() {
		broadcaster.Broadcast("nobody listens", "")
		close(done)
	}()

	select {
	case <-done:
		req.Zero(stats.GetSnapshot().DeliveriesOK)
	case <-time.After(time.Second):
		req.Fail("Broadcast with no targets should return immediately")
	}
}
