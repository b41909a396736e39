package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ReadFileContext returns the full content of one file labeled with its name.
// Read failures are reported inline as labeled strings so that multi-file
// aggregation can show partial failures next to the files that did load.
func ReadFileContext(path string) ProviderResult {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return failed(SourceFile, fmt.Sprintf("File not found: %s", path))
		}
		return failed(SourceFile, fmt.Sprintf("Error reading file %s: %v", path, err))
	}
	return included(Block{
		Source: SourceFile,
		Label:  fmt.Sprintf("File Content (%s)", path),
		Text:   string(data),
	})
}

// ReadFilesContext aggregates ReadFileContext over paths in order, joining
// sections with a blank line. Paths are not deduplicated. Per-file errors are
// kept inline so partial failures show up next to the files that did load;
// the result is Failed only when nothing could be read at all. loaded lists
// the paths whose content made it in, for context reporting.
func ReadFilesContext(paths []string) (result ProviderResult, loaded []string) {
	if len(paths) == 0 {
		return empty(SourceFile, "no files requested"), nil
	}
	sections := make([]string, 0, len(paths))
	for _, p := range paths {
		res := ReadFileContext(p)
		if res.Status == StatusIncluded {
			loaded = append(loaded, p)
			sections = append(sections, res.Block.Render())
		} else {
			sections = append(sections, res.Note)
		}
	}
	joined := strings.Join(sections, "\n\n")
	if len(loaded) == 0 {
		return failed(SourceFile, joined), nil
	}
	return included(Block{Source: SourceFile, Text: joined}), loaded
}
