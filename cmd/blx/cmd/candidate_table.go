package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	cliapi "bl-extractor/internal/cli"
	"bl-extractor/internal/parser"
)

// KeyMap represents the key bindings for the candidate table
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Details  key.Binding
	Rejected key.Binding
	Help     key.Binding
	Quit     key.Binding
	Back     key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Details: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "reasons"),
		),
		Rejected: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "toggle rejected"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

var candidateColumns = []table.Column{
	{Title: "RANK", Width: 4},
	{Title: "VALUE", Width: 20},
	{Title: "TIER", Width: 8},
	{Title: "FORMAT", Width: 24},
	{Title: "SCORE", Width: 6},
	{Title: "POS", Width: 6},
}

// CandidateTable browses the scored candidates of one decision
type CandidateTable struct {
	table        table.Model
	decision     parser.Decision
	keys         KeyMap
	showRejected bool
	showDetails  bool
	showHelp     bool
	quitting     bool
	useColor     bool
}

// NewCandidateTable creates a new candidate table
func NewCandidateTable(decision parser.Decision, useColor bool) CandidateTable {
	t := table.New(
		table.WithColumns(candidateColumns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	if useColor {
		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(false)
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(false)
		t.SetStyles(s)
	}

	m := CandidateTable{
		table:    t,
		decision: decision,
		keys:     DefaultKeyMap(),
		useColor: useColor,
	}
	m.table.SetRows(m.rows())
	return m
}

// visible returns the candidates currently listed
func (m CandidateTable) visible() []parser.ScoredCandidate {
	if !m.showRejected {
		return m.decision.Ranked
	}
	all := make([]parser.ScoredCandidate, 0, len(m.decision.Ranked)+len(m.decision.Rejected))
	all = append(all, m.decision.Ranked...)
	return append(all, m.decision.Rejected...)
}

func (m CandidateTable) rows() []table.Row {
	candidates := m.visible()
	rows := make([]table.Row, len(candidates))
	for i, c := range candidates {
		rank := strconv.Itoa(i + 1)
		if i >= len(m.decision.Ranked) {
			rank = "-"
		}
		rows[i] = table.Row{
			rank,
			c.Value,
			c.Tier.String(),
			c.Format,
			strconv.Itoa(c.Score),
			strconv.Itoa(c.Position),
		}
	}
	return rows
}

// selected returns the candidate under the cursor
func (m CandidateTable) selected() (parser.ScoredCandidate, bool) {
	candidates := m.visible()
	i := m.table.Cursor()
	if i < 0 || i >= len(candidates) {
		return parser.ScoredCandidate{}, false
	}
	return candidates[i], true
}

// Init initializes the candidate table
func (m CandidateTable) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m CandidateTable) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showDetails {
			switch {
			case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Details):
				m.showDetails = false
			case key.Matches(msg, m.keys.Quit):
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Rejected):
			m.showRejected = !m.showRejected
			m.table.SetRows(m.rows())
			m.table.SetCursor(0)
			return m, nil

		case key.Matches(msg, m.keys.Details):
			if _, ok := m.selected(); ok {
				m.showDetails = true
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		return m, nil
	}

	return m, nil
}

// View renders the candidate table
func (m CandidateTable) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.summaryLine())
	b.WriteString("\n\n")

	if m.showHelp {
		b.WriteString(m.helpView())
		b.WriteString("\n")
	}

	if m.showDetails {
		b.WriteString(m.detailsView())
	} else {
		b.WriteString(m.table.View())
	}
	b.WriteString("\n")

	b.WriteString(m.render(lipgloss.Color("244"), m.statusLine()))
	return b.String()
}

func (m CandidateTable) summaryLine() string {
	if value, ok := m.decision.BLNumber(); ok {
		return m.render(lipgloss.Color("82"), fmt.Sprintf("Accepted %s (margin %d)", value, m.decision.Margin))
	}
	return m.render(lipgloss.Color("208"), fmt.Sprintf("No BL number accepted: %s", m.decision.Reason))
}

func (m CandidateTable) detailsView() string {
	c, ok := m.selected()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%s  score %d", c.Value, c.Score)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "raw %q at %d, %s tier, %s\n\n", c.Raw, c.Position, c.Tier, c.Format)
	for _, reason := range c.Reasons {
		fmt.Fprintf(&b, "  %s\n", reason)
	}
	return b.String()
}

// helpView returns the help view
func (m CandidateTable) helpView() string {
	help := strings.Builder{}
	help.WriteString("Help:\n")
	help.WriteString("  ↑/k         - Move up\n")
	help.WriteString("  ↓/j         - Move down\n")
	help.WriteString("  enter       - Show scoring reasons\n")
	help.WriteString("  x           - Toggle rejected candidates\n")
	help.WriteString("  esc         - Back to table\n")
	help.WriteString("  ?           - Toggle help\n")
	help.WriteString("  q/ctrl+c    - Quit\n")
	return help.String()
}

// statusLine returns the status line
func (m CandidateTable) statusLine() string {
	if m.showDetails {
		return "Reasons | Press esc to return to candidates"
	}

	total := len(m.visible())
	if total == 0 {
		return "No candidates found"
	}
	return fmt.Sprintf("Candidate %d of %d | Press ? for help", m.table.Cursor()+1, total)
}

func (m CandidateTable) render(color lipgloss.Color, s string) string {
	if !m.useColor {
		return s
	}
	return lipgloss.NewStyle().Foreground(color).Render(s)
}

// runCandidateTable runs the interactive candidate table
func runCandidateTable(decision parser.Decision, cfg *cliapi.Config) error {
	p := tea.NewProgram(NewCandidateTable(decision, cliapi.ColorEnabled(cfg.NoColor, os.Stdout)), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
