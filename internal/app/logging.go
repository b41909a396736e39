package app

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// NewLogger builds the invocation logger. When logging is enabled in config it
// appends to the log file under the data directory; otherwise everything is
// discarded. Each invocation carries a fresh id so interleaved runs can be
// told apart in the shared file.
func NewLogger(cfg Config) zerolog.Logger {
	var out io.Writer = io.Discard
	if cfg.Logging {
		if err := os.MkdirAll(filepath.Dir(cfg.LogPath()), 0o755); err == nil {
			if f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
				out = f
			}
		}
	}
	return zerolog.New(out).With().
		Timestamp().
		Str("invocation", uuid.NewString()).
		Logger()
}
