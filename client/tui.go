package client

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle   = lipgloss.NewStyle().Faint(true)
	valueStyle   = lipgloss.NewStyle().Bold(true)
	buttonStyle  = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	disabledBtn  = buttonStyle.Faint(true)
	detailsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type outcomeMsg Outcome

// Model is the terminal rendition of the home page's caller widget.
type Model struct {
	ctx    context.Context
	caller *Caller
	state  *State
	env    string
	commit string
}

func NewModel(ctx context.Context, caller *Caller, env, commit string) Model {
	return Model{ctx: ctx, caller: caller, state: &State{}, env: env, commit: commit}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "enter":
			if !m.state.Begin() {
				return m, nil
			}
			return m, m.call
		}

	case outcomeMsg:
		m.state.Finish(Outcome(msg))
	}

	return m, nil
}

func (m Model) call() tea.Msg {
	return outcomeMsg(m.caller.Call(m.ctx))
}

func (m Model) Snapshot() Snapshot {
	return m.state.Snapshot()
}

func (m Model) View() string {
	snap := m.state.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("AI Boost Day") + "\n\n")
	b.WriteString(labelStyle.Render("Environment: ") + valueStyle.Render(m.env) + "\n")
	b.WriteString(labelStyle.Render("Commit: ") + valueStyle.Render(m.commit) + "\n\n")

	if snap.Loading() {
		b.WriteString(disabledBtn.Render(snap.ButtonLabel()) + "\n")
	} else {
		b.WriteString(buttonStyle.Render(snap.ButtonLabel()) + "\n")
	}

	if snap.Message != "" {
		b.WriteString("\n" + labelStyle.Render("API response: ") + valueStyle.Render(snap.Message) + "\n")
	}
	if snap.Details != "" {
		b.WriteString(detailsStyle.Render("Details: "+snap.Details) + "\n")
	}

	b.WriteString("\n" + labelStyle.Render("enter: call • q: quit") + "\n")
	return b.String()
}
