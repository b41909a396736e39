package app

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// Snapshot files written by the capture hook carry one of these prefixes;
	// anything else in the directory is ignored.
	consolePrefixOutput  = "console_"
	consolePrefixCapture = "capture_"

	// Never consider more than this many snapshots, whatever the budget.
	maxConsoleFiles = 5

	// A truncated snapshot is only worth including if at least this many
	// estimated tokens of it fit.
	minUsefulTokens = 100

	truncationMarker = "\n[output truncated]"

	consoleLabel = "Recent Console Output"
)

type consoleFile struct {
	path    string
	modTime int64
}

// CollectConsole gathers previously captured console snapshots from dir,
// newest first, including whole files until budget (in estimated tokens)
// would be exceeded. The overflowing file is truncated to the remaining
// budget when enough of it fits, otherwise dropped. A missing directory or
// unreadable snapshot degrades to less context, never an error.
func CollectConsole(dir string, budget int) ProviderResult {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return empty(SourceConsole, "no console output captured")
	}

	candidates := make([]consoleFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, consolePrefixOutput) && !strings.HasPrefix(name, consolePrefixCapture) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, consoleFile{
			path:    filepath.Join(dir, name),
			modTime: info.ModTime().UnixNano(),
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime > candidates[j].modTime
	})
	if len(candidates) > maxConsoleFiles {
		candidates = candidates[:maxConsoleFiles]
	}

	var parts []string
	used := 0
	for _, cand := range candidates {
		data, err := os.ReadFile(cand.path)
		if err != nil {
			continue
		}
		text := string(data)
		cost := EstimateTokens(text)
		if used+cost <= budget {
			parts = append(parts, text)
			used += cost
			continue
		}
		remaining := budget - used
		if remaining > minUsefulTokens {
			cut := remaining*4 - len(truncationMarker)
			if cut > 0 && cut < len(text) {
				// Back off to a rune boundary so the cut never splits a
				// multibyte character.
				for cut > 0 && text[cut]&0xC0 == 0x80 {
					cut--
				}
				parts = append(parts, text[:cut]+truncationMarker)
			}
		}
		break
	}

	if len(parts) == 0 {
		return empty(SourceConsole, "no console output captured")
	}
	return included(Block{
		Source: SourceConsole,
		Label:  consoleLabel,
		Text:   strings.Join(parts, "\n\n"),
	})
}
