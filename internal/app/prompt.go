package app

import (
	"fmt"
	"runtime"
	"strings"
)

func osName() string {
	switch runtime.GOOS {
	case "darwin":
		return "macOS"
	case "linux":
		return "Linux"
	default:
		return runtime.GOOS
	}
}

// NewSystemMessage synthesizes the system message for a fresh conversation.
// Every non-empty fact in the snapshot appears exactly once. In legacy mode
// the ambient console capture is folded in here instead of the shell facts,
// so the model still gets situational grounding without the hook installed.
func NewSystemMessage(mode ContextMode, console string) Message {
	snap := mode.Snapshot

	var b strings.Builder
	fmt.Fprintf(&b, "You are a helpful terminal assistant. You are running on %s.", osName())
	if snap.Cwd != "" {
		fmt.Fprintf(&b, " Current directory is %s.", snap.Cwd)
	}

	if mode.Integrated() {
		if snap.PrevCwd != "" {
			fmt.Fprintf(&b, "\nPrevious directory: %s", snap.PrevCwd)
		}
		if snap.Shell != "" {
			b.WriteString("\nShell: " + snap.Shell)
			if snap.ShellVersion != "" {
				b.WriteString(" " + snap.ShellVersion)
			}
		} else if snap.ShellVersion != "" {
			b.WriteString("\nShell version: " + snap.ShellVersion)
		}
		if snap.User != "" || snap.Host != "" {
			b.WriteString("\nUser: " + userAtHost(snap.User, snap.Host))
		}
		switch {
		case snap.TermCols != "" && snap.TermRows != "":
			fmt.Fprintf(&b, "\nTerminal size: %s columns x %s rows", snap.TermCols, snap.TermRows)
		case snap.TermCols != "":
			fmt.Fprintf(&b, "\nTerminal width: %s columns", snap.TermCols)
		case snap.TermRows != "":
			fmt.Fprintf(&b, "\nTerminal height: %s rows", snap.TermRows)
		}
		if len(snap.RecentCmds) > 0 {
			b.WriteString("\nRecent commands:\n" + strings.Join(snap.RecentCmds, "\n"))
		}
		if snap.LastCmd != "" {
			fmt.Fprintf(&b, "\nLast command: %s", snap.LastCmd)
			if snap.LastExit != "" {
				fmt.Fprintf(&b, " (exit status %s)", snap.LastExit)
			}
		}
	} else if console != "" {
		b.WriteString("\n\n" + console)
	}

	return Message{Role: RoleSystem, Content: b.String()}
}

func userAtHost(user, host string) string {
	switch {
	case user != "" && host != "":
		return user + "@" + host
	case user != "":
		return user
	default:
		return host
	}
}

// BuildTurn produces the outbound message sequence for one question. A
// non-empty conversation is reused verbatim as the prefix; otherwise the
// sequence starts with sys. The new user message concatenates the context
// blocks and the literal question, blank-line separated. With no question
// there is nothing to send and ok is false.
func BuildTurn(conv Conversation, sys Message, blocks []Block, question string) (messages []Message, user Message, ok bool) {
	if strings.TrimSpace(question) == "" {
		return nil, Message{}, false
	}

	if conv.Empty() {
		messages = []Message{sys}
	} else {
		messages = append(messages, conv.Messages...)
	}

	parts := make([]string, 0, len(blocks)+1)
	for _, blk := range blocks {
		parts = append(parts, blk.Render())
	}
	parts = append(parts, question)
	user = Message{Role: RoleUser, Content: strings.Join(parts, "\n\n")}
	return append(messages, user), user, true
}
