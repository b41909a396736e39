package app

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// zsh extended history lines look like ": 1616432631:0;actual command".
var zshHistoryPrefix = regexp.MustCompile(`^: \d+:\d+;`)

const historyLabel = "Recent Terminal History"

// DefaultHistoryPath returns the shell history file for the current user.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".zsh_history")
}

// ReadHistory returns the last `lines` commands from the shell history file at
// path. Timestamp prefixes are stripped and any entry that itself invokes the
// assistant (commandName followed by a space) is dropped so the assistant
// never sees its own calls as context. All I/O problems degrade to a Failed
// result with a distinct note.
func ReadHistory(path string, lines int, commandName string) ProviderResult {
	if path == "" {
		return failed(SourceHistory, "no terminal history file found")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			return failed(SourceHistory, "no terminal history file found")
		case errors.Is(err, os.ErrPermission):
			return failed(SourceHistory, "permission denied when accessing terminal history file")
		default:
			return failed(SourceHistory, "error retrieving terminal history: "+err.Error())
		}
	}
	if !utf8.Valid(data) {
		return failed(SourceHistory, "error decoding terminal history file")
	}

	entries := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(entries) > lines {
		entries = entries[len(entries)-lines:]
	}

	selfPrefix := commandName + " "
	kept := make([]string, 0, len(entries))
	for _, entry := range entries {
		cmd := strings.TrimSpace(zshHistoryPrefix.ReplaceAllString(entry, ""))
		if cmd == "" || strings.HasPrefix(cmd, selfPrefix) {
			continue
		}
		kept = append(kept, cmd)
	}
	if len(kept) == 0 {
		return empty(SourceHistory, "no recent terminal history found")
	}
	return included(Block{
		Source: SourceHistory,
		Label:  historyLabel,
		Text:   strings.Join(kept, "\n"),
	})
}
