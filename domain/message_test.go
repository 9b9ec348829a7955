package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMessage_Line(t *testing.T) {
	req := require.New(t)

	message := NewMessage("Alice", "hi")
	req.NotEqual(uuid.Nil, message.ID)
	req.False(message.CreatedAt.IsZero())
	req.Equal("Alice: hi", message.Line())
}

func TestNotices(t *testing.T) {
	req := require.New(t)

	req.Equal("Alice has joined the chat.", JoinNotice("Alice"))
	req.Equal("Alice has left the chat.", LeaveNotice("Alice"))
}
