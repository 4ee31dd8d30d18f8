package session

import (
	"fmt"
	"time"
)

// MessageKind identifies who produced a chat message
type MessageKind string

const (
	KindUser  MessageKind = "user"
	KindAI    MessageKind = "ai"
	KindError MessageKind = "error"
)

// Metadata carries backend retrieval statistics, shown as-is
type Metadata struct {
	ChunksUsed    int
	ContextLength int
}

// String formats the statistics the way they are displayed under an answer
func (m Metadata) String() string {
	return fmt.Sprintf("Chunks: %d | Context: %d chars", m.ChunksUsed, m.ContextLength)
}

// Message is one entry of the conversation. Messages are never modified after
// they are appended.
type Message struct {
	ID        string
	Kind      MessageKind
	Content   string
	Timestamp time.Time
	Metadata  *Metadata
}

// Answer is a successful backend reply to a question
type Answer struct {
	Text     string
	Metadata *Metadata
}
