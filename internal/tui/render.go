// Package tui renders answers, panels and status lines for the terminal. It
// is a pure display collaborator: nothing in here touches conversation state.
package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorBorder  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(0, 1)
	helpBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("14")).
			Padding(0, 1)
)

type Renderer struct {
	out   io.Writer
	width int
	md    *glamour.TermRenderer
}

func New(out io.Writer) *Renderer {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		width = w
	}
	md, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	return &Renderer{out: out, width: width, md: md}
}

// Answer prints a rendered markdown answer under a heading. If markdown
// rendering fails the raw text is printed instead.
func (r *Renderer) Answer(markdown string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, headingStyle.Render("Answer:"))
	if r.md != nil {
		if rendered, err := r.md.Render(markdown); err == nil {
			fmt.Fprintln(r.out, rendered)
			return
		}
	}
	fmt.Fprintln(r.out, markdown)
}

func (r *Renderer) Info(line string) {
	fmt.Fprintln(r.out, dimStyle.Render(line))
}

func (r *Renderer) Error(line string) {
	fmt.Fprintln(r.out, errorBorder.Width(min(r.width-2, 76)).Render(line))
}

// Help shows the interactive command reference and one-shot usage.
func (r *Renderer) Help(model string, historyLines int) {
	body := strings.Join([]string{
		headingStyle.Render("termy — terminal assistant"),
		"",
		"One-shot:  termy \"your question\" [-l lines] [-f file]...",
		"",
		"Interactive commands:",
		"  help     show this screen",
		"  history  show the current conversation",
		"  model    show the active model",
		"  clear    start a new conversation (asks first)",
		"  quit     leave the session",
		"",
		fmt.Sprintf("Model: %s", model),
		fmt.Sprintf("Default terminal history lines: %d", historyLines),
	}, "\n")
	fmt.Fprintln(r.out, helpBorder.Width(min(r.width-2, 76)).Render(body))
}
