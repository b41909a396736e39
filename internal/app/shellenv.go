package app

import (
	"os"
	"strings"
)

// Environment keys populated by the shell integration hook. The hook exports
// these before every prompt; a plain install without the hook leaves them
// unset and termy runs in legacy mode.
const (
	EnvShellCwd      = "TERMY_SHELL_CWD"
	EnvShellPrevCwd  = "TERMY_SHELL_OLDPWD"
	EnvShellName     = "TERMY_SHELL_NAME"
	EnvShellVersion  = "TERMY_SHELL_VERSION"
	EnvShellRecent   = "TERMY_SHELL_RECENT"
	EnvShellLastCmd  = "TERMY_SHELL_LAST_CMD"
	EnvShellLastExit = "TERMY_SHELL_LAST_EXIT"
	EnvShellUser     = "TERMY_SHELL_USER"
	EnvShellHost     = "TERMY_SHELL_HOST"
	EnvShellCols     = "TERMY_SHELL_COLUMNS"
	EnvShellRows     = "TERMY_SHELL_LINES"
)

// ShellSnapshot holds the facts the shell hook recorded for this invocation.
// It lives for one invocation only and is never persisted.
type ShellSnapshot struct {
	Cwd          string
	PrevCwd      string
	Shell        string
	ShellVersion string
	RecentCmds   []string
	LastCmd      string
	LastExit     string
	User         string
	Host         string
	TermCols     string
	TermRows     string
}

// ModeKind selects the context-assembly path for the invocation.
type ModeKind int

const (
	// ModeLegacy reads shell history and console snapshots from disk.
	ModeLegacy ModeKind = iota
	// ModeIntegrated uses facts the shell hook exported into the environment.
	ModeIntegrated
)

// ContextMode is decided once per invocation and passed down; nothing
// re-checks the environment after this.
type ContextMode struct {
	Kind     ModeKind
	Snapshot ShellSnapshot
}

func (m ContextMode) Integrated() bool { return m.Kind == ModeIntegrated }

// DetectContextMode reads the shell integration environment through getenv.
// Presence of the cwd key selects integrated mode; otherwise the process
// working directory is the only ambient fact and legacy mode applies. If the
// recorded last command is an invocation of commandName it is cleared, so the
// assistant never treats its own call as prior history.
func DetectContextMode(getenv func(string) string, commandName string) ContextMode {
	cwd := strings.TrimSpace(getenv(EnvShellCwd))
	if cwd == "" {
		wd, _ := os.Getwd()
		return ContextMode{Kind: ModeLegacy, Snapshot: ShellSnapshot{Cwd: wd}}
	}

	snap := ShellSnapshot{
		Cwd:          cwd,
		PrevCwd:      strings.TrimSpace(getenv(EnvShellPrevCwd)),
		Shell:        strings.TrimSpace(getenv(EnvShellName)),
		ShellVersion: strings.TrimSpace(getenv(EnvShellVersion)),
		LastCmd:      strings.TrimSpace(getenv(EnvShellLastCmd)),
		LastExit:     strings.TrimSpace(getenv(EnvShellLastExit)),
		User:         strings.TrimSpace(getenv(EnvShellUser)),
		Host:         strings.TrimSpace(getenv(EnvShellHost)),
		TermCols:     strings.TrimSpace(getenv(EnvShellCols)),
		TermRows:     strings.TrimSpace(getenv(EnvShellRows)),
	}
	if recent := strings.TrimSpace(getenv(EnvShellRecent)); recent != "" {
		for _, line := range strings.Split(recent, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				snap.RecentCmds = append(snap.RecentCmds, line)
			}
		}
	}
	if strings.HasPrefix(snap.LastCmd, commandName+" ") {
		snap.LastCmd = ""
	}
	return ContextMode{Kind: ModeIntegrated, Snapshot: snap}
}
