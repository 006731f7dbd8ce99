package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ProgressSpinner shows a spinner on stderr while a slow request, such as
// server-side OCR, is in flight
type ProgressSpinner struct {
	message string
	enabled bool
	out     io.Writer

	program *tea.Program
	done    chan struct{}
	once    sync.Once
}

// NewProgressSpinner creates a new progress spinner. Without color support
// it prints the message once instead of animating.
func NewProgressSpinner(message string, noColor bool) *ProgressSpinner {
	return &ProgressSpinner{
		message: message,
		enabled: ColorEnabled(noColor, os.Stderr) && os.Getenv("CI") == "",
		out:     os.Stderr,
		done:    make(chan struct{}),
	}
}

// Start begins the spinner in a goroutine
func (p *ProgressSpinner) Start() {
	if !p.enabled {
		fmt.Fprintf(p.out, "%s...\n", p.message)
		return
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	p.program = tea.NewProgram(spinnerModel{
		spinner: s,
		message: p.message,
		style:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}, tea.WithOutput(p.out), tea.WithInput(nil))

	go func() {
		defer close(p.done)
		_, _ = p.program.Run()
	}()
}

// Stop ends the spinner and waits for the terminal to be restored
func (p *ProgressSpinner) Stop() {
	p.once.Do(func() {
		if p.program == nil {
			return
		}
		p.program.Quit()
		<-p.done
	})
}

type spinnerModel struct {
	spinner spinner.Model
	message string
	style   lipgloss.Style
}

func (s spinnerModel) Init() tea.Cmd {
	return s.spinner.Tick
}

func (s spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return s, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s spinnerModel) View() string {
	return fmt.Sprintf("%s %s\n", s.spinner.View(), s.style.Render(s.message))
}
