package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Completer is the network collaborator: one synchronous request, one answer.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Renderer is the display collaborator. The session controller never formats
// terminal output itself.
type Renderer interface {
	Answer(markdown string)
	Info(line string)
	Error(line string)
	Help(model string, historyLines int)
}

// Session runs one conversation thread: it owns the in-memory Conversation
// from load to final save. Single-threaded by construction; one request is in
// flight at a time and the store is only written after a completed turn.
type Session struct {
	cfg         Config
	log         zerolog.Logger
	store       *ConversationStore
	client      Completer
	mode        ContextMode
	conv        Conversation
	historyPath string

	started  time.Time
	asked    int
	answered int
}

func NewSession(cfg Config, log zerolog.Logger, store *ConversationStore, client Completer, mode ContextMode) *Session {
	return &Session{
		cfg:         cfg,
		log:         log,
		store:       store,
		client:      client,
		mode:        mode,
		conv:        store.Load(),
		historyPath: DefaultHistoryPath(),
		started:     time.Now(),
	}
}

func (s *Session) Conversation() Conversation { return s.conv }

// collectContext runs the providers that apply under the current mode. In
// integrated mode the shell facts already live in the system message, so the
// history and console providers are not invoked at all. The console capture
// is returned separately when it belongs in a fresh system message rather
// than the user turn.
func (s *Session) collectContext(files []string, lines int) (blocks []Block, console string, used []string) {
	if !s.mode.Integrated() {
		hist := ReadHistory(s.historyPath, lines, s.cfg.CommandName)
		switch hist.Status {
		case StatusIncluded:
			blocks = append(blocks, hist.Block)
			used = append(used, fmt.Sprintf("%d lines of terminal history", lines))
		default:
			s.log.Debug().Str("note", hist.Note).Msg("terminal history unavailable")
		}

		cons := CollectConsole(s.cfg.ConsoleDir(), s.cfg.ConsoleBudget)
		if cons.Status == StatusIncluded {
			if s.conv.Empty() {
				console = cons.Block.Render()
			} else {
				blocks = append(blocks, cons.Block)
			}
			used = append(used, "console output")
		}
	}

	if len(files) > 0 {
		res, loaded := ReadFilesContext(files)
		if res.Status == StatusIncluded {
			blocks = append(blocks, res.Block)
			for _, path := range loaded {
				used = append(used, "content from "+path)
			}
		} else {
			s.log.Debug().Str("note", res.Note).Msg("file context unavailable")
		}
	}
	return blocks, console, used
}

// Ask runs one turn. On any failure (transport, HTTP, extraction) the
// in-memory conversation is rolled back to its pre-turn state and nothing is
// persisted, so a failed exchange can never poison the thread. An empty
// question runs the providers for logging but sends nothing.
func (s *Session) Ask(ctx context.Context, question string, files []string, lines int) (answer string, used []string, err error) {
	blocks, console, used := s.collectContext(files, lines)

	var sys Message
	if s.conv.Empty() {
		sys = NewSystemMessage(s.mode, console)
	}

	messages, user, ok := BuildTurn(s.conv, sys, blocks, question)
	if !ok {
		s.log.Info().Int("blocks", len(blocks)).Msg("no question supplied, skipping request")
		return "", used, nil
	}

	base := len(s.conv.Messages)
	if s.conv.Empty() {
		s.conv.Append(sys)
	}
	s.conv.Append(user)
	s.asked++

	answer, err = s.client.Complete(ctx, messages)
	if err != nil {
		s.conv.Messages = s.conv.Messages[:base]
		s.log.Error().Err(err).Msg("completion failed")
		return "", used, err
	}
	if IsExtractionFailure(answer) {
		s.conv.Messages = s.conv.Messages[:base]
		s.log.Error().Str("sentinel", answer).Msg("response carried no answer")
		return "", used, errors.New(answer)
	}

	s.conv.Append(Message{Role: RoleAssistant, Content: answer})
	s.conv.Trim(s.cfg.MaxTurns)
	if err := s.store.Save(s.conv); err != nil {
		s.log.Error().Err(err).Msg("saving conversation failed")
	}
	s.answered++
	return answer, used, nil
}

// Clear resets the persisted conversation and reinitializes the in-memory one
// to just the prior system message, so the thread restarts with the same
// grounding facts.
func (s *Session) Clear() {
	sys, hasSys := s.conv.SystemMessage()
	if err := s.store.Reset(); err != nil {
		s.log.Error().Err(err).Msg("resetting conversation failed")
	}
	s.conv = Conversation{}
	if hasSys {
		s.conv.Append(sys)
	}
}

// RunInteractive is the cooperative read-eval loop: block on input, dispatch
// a command or run a turn, repeat until quit or end of input. An interrupt
// while a request is in flight aborts that turn only.
func (s *Session) RunInteractive(ctx context.Context, in io.Reader, out io.Writer, rend Renderer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	rend.Info("Interactive session with " + s.cfg.Model + ". Type 'help' for commands, 'quit' to leave.")

loop:
	for {
		fmt.Fprint(out, "\n"+s.cfg.CommandName+"> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "help":
			rend.Help(s.cfg.Model, s.cfg.HistoryLines)
			continue
		case "model":
			rend.Info("Current model: " + s.cfg.Model)
			continue
		case "history":
			s.showHistory(rend)
			continue
		case "clear":
			fmt.Fprint(out, "Clear the current conversation? [y/N] ")
			if !scanner.Scan() {
				break loop
			}
			if strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
				s.Clear()
				rend.Info("Conversation cleared.")
			} else {
				rend.Info("Conversation kept.")
			}
			continue
		case "quit", "exit":
			break loop
		}

		turnCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		answer, used, err := s.Ask(turnCtx, input, nil, s.cfg.HistoryLines)
		stop()
		if err != nil {
			if errors.Is(err, context.Canceled) {
				rend.Error("Request interrupted; turn discarded.")
			} else {
				rend.Error(err.Error())
			}
			continue
		}
		rend.Answer(answer)
		if len(used) > 0 {
			rend.Info("Context used: " + strings.Join(used, " and "))
		}
	}

	rend.Info(fmt.Sprintf("Session summary: %d questions, %d answered, %s elapsed.",
		s.asked, s.answered, time.Since(s.started).Round(time.Second)))
	return scanner.Err()
}

func (s *Session) showHistory(rend Renderer) {
	shown := 0
	for _, m := range s.conv.Messages {
		switch m.Role {
		case RoleUser:
			rend.Info("You: " + m.Content)
			shown++
		case RoleAssistant:
			rend.Info("Assistant: " + m.Content)
			shown++
		}
	}
	if shown == 0 {
		rend.Info("No conversation history yet.")
	}
}
