package app

import (
	"os"

	"github.com/rs/zerolog"
)

// Application wires the long-lived pieces together once at startup. The
// context mode is decided here and never re-checked.
type Application struct {
	Config Config
	Logger zerolog.Logger
	Client *CompletionClient
	Store  *ConversationStore
	Mode   ContextMode
}

func NewApplication(cfg Config) *Application {
	logger := NewLogger(cfg)
	mode := DetectContextMode(os.Getenv, cfg.CommandName)
	logger.Info().
		Str("model", cfg.Model).
		Bool("integrated", mode.Integrated()).
		Msg("termy started")

	return &Application{
		Config: cfg,
		Logger: logger,
		Client: NewCompletionClient(cfg),
		Store:  NewConversationStore(cfg.ConversationPath(), logger),
		Mode:   mode,
	}
}

func (a *Application) NewSession() *Session {
	return NewSession(a.Config, a.Logger, a.Store, a.Client, a.Mode)
}
