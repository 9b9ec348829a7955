// Package domain contains core concepts of the relay.
// This file defines Message values and the wire text they produce.
// Messages are immutable, built per received line, never persisted.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents one relayed chat line.
type Message struct {
	ID         uuid.UUID // unique identifier
	SenderName string
	Content    string
	CreatedAt  time.Time
}

func NewMessage(senderName, content string) Message {
	return Message{
		ID:         uuid.New(),
		SenderName: senderName,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
}

// Line renders the message as it travels on the wire.
func (m Message) Line() string {
	return m.SenderName + ": " + m.Content
}

// JoinNotice is the synthetic line announcing a new participant.
func JoinNotice(name string) string {
	return name + " has joined the chat."
}

// LeaveNotice is the synthetic line announcing a departure.
func LeaveNotice(name string) string {
	return name + " has left the chat."
}
