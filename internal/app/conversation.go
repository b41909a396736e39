package app

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is one ordered dialogue thread. At most one system message,
// always at index 0; the rest alternate user/assistant starting with user. A
// trailing unmatched user message (interrupted turn) is tolerated everywhere.
type Conversation struct {
	Messages []Message `json:"messages"`
}

func (c Conversation) Empty() bool { return len(c.Messages) == 0 }

// Turns counts completed user/assistant exchanges.
func (c Conversation) Turns() int {
	n := 0
	for _, m := range c.Messages {
		if m.Role == RoleAssistant {
			n++
		}
	}
	return n
}

func (c *Conversation) Append(m Message) {
	c.Messages = append(c.Messages, m)
}

// SystemMessage returns the leading system message, if any.
func (c Conversation) SystemMessage() (Message, bool) {
	if len(c.Messages) > 0 && c.Messages[0].Role == RoleSystem {
		return c.Messages[0], true
	}
	return Message{}, false
}

// Trim enforces the retention window: a conversation never holds more than
// 2*maxTurns+1 messages. When it does, it is rewritten to the system message
// plus the last 2*maxTurns messages.
func (c *Conversation) Trim(maxTurns int) {
	if maxTurns <= 0 {
		return
	}
	limit := 2*maxTurns + 1
	if len(c.Messages) <= limit {
		return
	}
	tail := c.Messages[len(c.Messages)-2*maxTurns:]
	if c.Messages[0].Role == RoleSystem {
		trimmed := make([]Message, 0, limit)
		trimmed = append(trimmed, c.Messages[0])
		c.Messages = append(trimmed, tail...)
		return
	}
	c.Messages = tail
}

// ConversationStore persists one conversation as JSON at a fixed path. Load
// and Save never fail the session: a missing or garbled file reads as an
// empty conversation, and write errors are surfaced to the caller to log.
type ConversationStore struct {
	Path string
	log  zerolog.Logger
}

func NewConversationStore(path string, log zerolog.Logger) *ConversationStore {
	return &ConversationStore{Path: path, log: log}
}

func (s *ConversationStore) Load() Conversation {
	var conv Conversation
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", s.Path).Msg("read conversation failed, starting fresh")
		}
		return conv
	}
	if err := json.Unmarshal(data, &conv); err != nil {
		s.log.Warn().Err(err).Str("path", s.Path).Msg("conversation file unreadable, starting fresh")
		return Conversation{}
	}
	return conv
}

// Save replaces the persisted conversation atomically: the new state is
// written to a temp file in the same directory and renamed over the old one.
func (s *ConversationStore) Save(conv Conversation) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".conversation-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.Path)
}

// Reset deletes the persisted conversation. A missing file is not an error.
func (s *ConversationStore) Reset() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
