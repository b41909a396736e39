package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"termy/internal/app"
	"termy/internal/tui"

	"github.com/spf13/cobra"
)

const version = "1.0.2"

var (
	flagLines    int
	flagFiles    []string
	flagFileList string
	flagNew      bool
	flagContinue bool
)

// contextFiles merges the repeatable -f flags with the comma-separated
// --files list, preserving order and duplicates.
func contextFiles() []string {
	files := append([]string{}, flagFiles...)
	if flagFileList != "" {
		for _, f := range strings.Split(flagFileList, ",") {
			if f = strings.TrimSpace(f); f != "" {
				files = append(files, f)
			}
		}
	}
	return files
}

// validateInputs enforces the pre-network failure rules: bad credentials and
// missing context files abort before any request is made.
func validateInputs(cfg app.Config, files []string) error {
	if err := cfg.ValidateCredentials(); err != nil {
		return err
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("file not found: %s", f)
		}
	}
	return nil
}

func runOneShot(question string, linesSet bool) error {
	cfg, err := app.LoadConfig(app.DefaultConfigPath())
	if err != nil {
		return err
	}
	lines := cfg.HistoryLines
	if linesSet {
		lines = flagLines
	}
	rend := tui.New(os.Stdout)

	files := contextFiles()
	if question == "" && len(files) == 0 {
		rend.Help(cfg.Model, cfg.HistoryLines)
		return nil
	}
	if err := validateInputs(cfg, files); err != nil {
		rend.Error(err.Error())
		os.Exit(1)
	}

	application := app.NewApplication(cfg)
	if flagNew {
		if err := application.Store.Reset(); err != nil {
			return err
		}
	}
	session := application.NewSession()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	answer, used, err := session.Ask(ctx, question, files, lines)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			rend.Error("Request interrupted; nothing was saved.")
			return nil
		}
		rend.Error(err.Error())
		os.Exit(1)
	}
	if answer == "" {
		return nil
	}
	rend.Answer(answer)
	if len(used) > 0 {
		rend.Info("Context used: " + strings.Join(used, " and "))
	}
	return nil
}

func runChat() error {
	cfg, err := app.LoadConfig(app.DefaultConfigPath())
	if err != nil {
		return err
	}
	rend := tui.New(os.Stdout)
	if err := validateInputs(cfg, nil); err != nil {
		rend.Error(err.Error())
		os.Exit(1)
	}

	application := app.NewApplication(cfg)
	if flagNew {
		if err := application.Store.Reset(); err != nil {
			return err
		}
	}
	session := application.NewSession()
	return session.RunInteractive(context.Background(), os.Stdin, os.Stdout, rend)
}

func main() {
	root := &cobra.Command{
		Use:   "termy [question]",
		Short: "Terminal AI assistant with shell context",
		Long: "termy sends your question to a language model together with local context:\n" +
			"recent shell history, file contents and, when the shell hook is installed,\n" +
			"live shell state. Conversations persist across invocations.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				cfg, _ := app.LoadConfig(app.DefaultConfigPath())
				fmt.Printf("termy v%s using %s\n", version, cfg.Model)
				return nil
			}
			question := ""
			if len(args) > 0 {
				question = strings.TrimSpace(args[0])
			}
			return runOneShot(question, cmd.Flags().Changed("lines"))
		},
	}

	root.Flags().IntVarP(&flagLines, "lines", "l", 10, "Number of terminal history lines to include as context")
	root.Flags().StringArrayVarP(&flagFiles, "file", "f", nil, "Path to a file to include as context (repeatable)")
	root.Flags().StringVar(&flagFileList, "files", "", "Comma-separated list of files to include as context")
	root.Flags().BoolVar(&flagNew, "new", false, "Start a new conversation")
	root.Flags().BoolVar(&flagContinue, "continue", false, "Continue the saved conversation (default)")
	root.Flags().BoolP("version", "v", false, "Print version information")

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive multi-turn session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat()
		},
	}
	chatCmd.Flags().BoolVar(&flagNew, "new", false, "Start a new conversation")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(app.DefaultConfigPath())
			if err != nil {
				return err
			}
			return app.NewApplication(cfg).Store.Reset()
		},
	}

	completionCmd := &cobra.Command{
		Use:       "completion [shell]",
		Short:     "Generate shell completion",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(os.Stdout)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			}
			return fmt.Errorf("unsupported shell: %s", args[0])
		},
	}

	root.AddCommand(chatCmd, resetCmd, completionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
