package app

import (
	"os"
	"reflect"
	"testing"
)

func envLookup(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestDetectContextMode_Legacy(t *testing.T) {
	mode := DetectContextMode(envLookup(nil), "termy")
	if mode.Integrated() {
		t.Fatal("expected legacy mode without shell cwd key")
	}
	wd, _ := os.Getwd()
	if mode.Snapshot.Cwd != wd {
		t.Fatalf("legacy cwd = %q, want process working directory %q", mode.Snapshot.Cwd, wd)
	}
}

func TestDetectContextMode_Integrated(t *testing.T) {
	mode := DetectContextMode(envLookup(map[string]string{
		EnvShellCwd:      "/home/dev/project",
		EnvShellPrevCwd:  "/home/dev",
		EnvShellName:     "zsh",
		EnvShellVersion:  "5.9",
		EnvShellRecent:   "git status\nmake test\n",
		EnvShellLastCmd:  "make test",
		EnvShellLastExit: "2",
		EnvShellUser:     "dev",
		EnvShellHost:     "box",
		EnvShellCols:     "120",
		EnvShellRows:     "40",
	}), "termy")

	if !mode.Integrated() {
		t.Fatal("expected integrated mode")
	}
	snap := mode.Snapshot
	if snap.Cwd != "/home/dev/project" || snap.PrevCwd != "/home/dev" {
		t.Fatalf("directories = %q / %q", snap.Cwd, snap.PrevCwd)
	}
	if snap.Shell != "zsh" || snap.ShellVersion != "5.9" {
		t.Fatalf("shell = %q %q", snap.Shell, snap.ShellVersion)
	}
	if !reflect.DeepEqual(snap.RecentCmds, []string{"git status", "make test"}) {
		t.Fatalf("recent = %v", snap.RecentCmds)
	}
	if snap.LastCmd != "make test" || snap.LastExit != "2" {
		t.Fatalf("last command = %q exit %q", snap.LastCmd, snap.LastExit)
	}
	if snap.User != "dev" || snap.Host != "box" {
		t.Fatalf("user/host = %q/%q", snap.User, snap.Host)
	}
	if snap.TermCols != "120" || snap.TermRows != "40" {
		t.Fatalf("terminal size = %sx%s", snap.TermCols, snap.TermRows)
	}
}

func TestDetectContextMode_SelfFilter(t *testing.T) {
	tests := []struct {
		name    string
		lastCmd string
		want    string
	}{
		{"own invocation cleared", "termy what went wrong", ""},
		{"other command kept", "grep termy main.go", "grep termy main.go"},
		{"bare name kept", "termy", "termy"},
		{"shared prefix kept", "termy2 --help", "termy2 --help"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mode := DetectContextMode(envLookup(map[string]string{
				EnvShellCwd:     "/tmp",
				EnvShellLastCmd: tc.lastCmd,
			}), "termy")
			if got := mode.Snapshot.LastCmd; got != tc.want {
				t.Fatalf("LastCmd = %q, want %q", got, tc.want)
			}
		})
	}
}
