package app

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

func testStore(t *testing.T) *ConversationStore {
	t.Helper()
	return NewConversationStore(filepath.Join(t.TempDir(), "conversation.json"), zerolog.Nop())
}

func TestConversationStore_RoundTrip(t *testing.T) {
	store := testStore(t)

	conv := Conversation{Messages: []Message{
		{Role: RoleSystem, Content: "You are a helpful terminal assistant."},
		{Role: RoleUser, Content: "what does ls -la do? — émoji test 🚀 日本語"},
		{Role: RoleAssistant, Content: "It lists *all* files…"},
		{Role: RoleUser, Content: "unterminated trailing question"},
	}}

	if err := store.Save(conv); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got := store.Load()
	if !reflect.DeepEqual(got, conv) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, conv)
	}
}

func TestConversationStore_LoadMissingFile(t *testing.T) {
	store := testStore(t)
	if got := store.Load(); !got.Empty() {
		t.Fatalf("expected empty conversation, got %+v", got)
	}
}

func TestConversationStore_LoadGarbage(t *testing.T) {
	store := testStore(t)
	if err := os.WriteFile(store.Path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := store.Load(); !got.Empty() {
		t.Fatalf("garbage file should read as empty conversation, got %+v", got)
	}
}

func TestConversationStore_ResetIdempotent(t *testing.T) {
	store := testStore(t)
	if err := store.Reset(); err != nil {
		t.Fatalf("Reset on missing file: %v", err)
	}
	if err := store.Save(Conversation{Messages: []Message{{Role: RoleUser, Content: "q"}}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if got := store.Load(); !got.Empty() {
		t.Fatalf("expected empty after reset, got %+v", got)
	}
}

func TestConversationTrim(t *testing.T) {
	const maxTurns = 3

	conv := Conversation{}
	conv.Append(Message{Role: RoleSystem, Content: "sys"})
	for i := 0; i < 10; i++ {
		conv.Append(Message{Role: RoleUser, Content: "q"})
		conv.Append(Message{Role: RoleAssistant, Content: "a"})
	}

	wantTail := append([]Message{}, conv.Messages[len(conv.Messages)-2*maxTurns:]...)
	conv.Trim(maxTurns)

	if got, want := len(conv.Messages), 2*maxTurns+1; got != want {
		t.Fatalf("trimmed length = %d, want %d", got, want)
	}
	if conv.Messages[0].Role != RoleSystem || conv.Messages[0].Content != "sys" {
		t.Fatalf("system message not preserved: %+v", conv.Messages[0])
	}
	if !reflect.DeepEqual(conv.Messages[1:], wantTail) {
		t.Fatalf("tail mismatch:\ngot  %+v\nwant %+v", conv.Messages[1:], wantTail)
	}
}

func TestConversationTrim_UnderLimitUntouched(t *testing.T) {
	conv := Conversation{Messages: []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "q"},
		{Role: RoleAssistant, Content: "a"},
	}}
	before := append([]Message{}, conv.Messages...)
	conv.Trim(5)
	if !reflect.DeepEqual(conv.Messages, before) {
		t.Fatalf("conversation under the limit was modified")
	}
}

func TestConversationTrim_NoSystemMessage(t *testing.T) {
	conv := Conversation{}
	for i := 0; i < 6; i++ {
		conv.Append(Message{Role: RoleUser, Content: "q"})
		conv.Append(Message{Role: RoleAssistant, Content: "a"})
	}
	conv.Trim(2)
	if got := len(conv.Messages); got != 4 {
		t.Fatalf("trimmed length = %d, want 4", got)
	}
}

func TestConversationTurns(t *testing.T) {
	conv := Conversation{Messages: []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "q1"},
		{Role: RoleAssistant, Content: "a1"},
		{Role: RoleUser, Content: "pending"},
	}}
	if got := conv.Turns(); got != 1 {
		t.Fatalf("Turns() = %d, want 1", got)
	}
}
