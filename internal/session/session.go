package session

import (
	"sync"
	"time"
)

// State is the conversational state of a session. Illegal combinations
// (e.g. a draft position outside collection) are unrepresentable: the field
// index is only meaningful while the state is StateCollecting.
type State int

const (
	// StateIdle is the default state: general Q&A turns.
	StateIdle State = iota
	// StateAwaitingConfirmation means the bot offered to start a booking
	// and is waiting for a yes/no answer.
	StateAwaitingConfirmation
	// StateCollecting means an appointment intake is in progress.
	StateCollecting
	// StateClosed is terminal: the token budget was exhausted and only the
	// fixed quota message is returned from now on.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateCollecting:
		return "collecting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Message is one entry of the append-only conversation transcript.
type Message struct {
	Role      string    `json:"role"` // "user" or "bot"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session holds the per-conversation state. It is not safe for concurrent
// use by itself: callers must hold the session lock for the whole turn,
// including the collaborator calls, so that no two turns for the same id
// ever interleave.
type Session struct {
	mu sync.Mutex

	ID          string
	State       State
	FieldIndex  int               // next intake field while State == StateCollecting
	Draft       map[string]string // partially collected appointment fields
	Messages    []Message
	TotalTokens int
	CreatedAt   time.Time
}

// Lock serializes turn processing for this session.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the turn lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Append records a transcript entry. Ordering is arrival order; entries are
// never reordered or removed.
func (s *Session) Append(role, content string) Message {
	msg := Message{Role: role, Content: content, Timestamp: time.Now()}
	s.Messages = append(s.Messages, msg)
	return msg
}

// ResetDraft clears the in-progress appointment draft.
func (s *Session) ResetDraft() {
	s.Draft = make(map[string]string)
	s.FieldIndex = 0
}
