// Package bills renders the upcoming-bills table shown alongside the
// pay-day workflow.
package bills

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshep3087/stuffer/engine"
)

type Colors struct {
	Primary string
}

type Model struct {
	upcoming  table.Model
	envelopes map[int64]string
}

func New(colors Colors) Model {
	upcoming := table.New(
		table.WithColumns([]table.Column{
			{Title: "Bill", Width: 24},
			{Title: "Envelope", Width: 20},
			{Title: "Due", Width: 12},
			{Title: "Amount", Width: 10},
		}),
	)

	tableStyle := table.DefaultStyles()
	tableStyle.Selected = tableStyle.Selected.
		Foreground(lipgloss.Color(colors.Primary))

	upcoming.SetStyles(tableStyle)

	return Model{upcoming: upcoming}
}

func (m *Model) SetFocus(focus bool) {
	if focus {
		m.upcoming.Focus()
	} else {
		m.upcoming.Blur()
	}
}

func (m *Model) SetSize(width, height int) {
	m.upcoming.SetHeight(height)
	m.upcoming.SetWidth(width)
}

// SetEnvelopes installs the envelope-id lookup used to name the envelope
// a bill draws from.
func (m *Model) SetEnvelopes(envelopes []*engine.Envelope) {
	m.envelopes = make(map[int64]string, len(envelopes))
	for _, e := range envelopes {
		m.envelopes[e.ID] = e.Name
	}
}

func (m *Model) SetBills(bills []engine.Bill) {
	rows := make([]table.Row, 0, len(bills))
	for _, b := range bills {
		envelope := ""
		if b.EnvelopeID != nil {
			envelope = m.envelopes[*b.EnvelopeID]
		}
		rows = append(rows, table.Row{
			b.Name,
			envelope,
			b.DueDate.Format("Jan 02"),
			b.Amount.Display(),
		})
	}

	m.upcoming.SetRows(rows)
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.upcoming, cmd = m.upcoming.Update(msg)
	return *m, cmd
}

func (m *Model) View() string {
	return m.upcoming.View()
}
