// Package summary renders the post-execution recap: what went where,
// which goals moved closest, and the remaining unallocated money.
package summary

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rshep3087/stuffer/engine"
)

var titleCaser = cases.Title(language.English)

// Deposit is one envelope's final funding for the recap tree. Binder
// names group deposits; an empty binder name lands under the root.
type Deposit struct {
	Envelope string
	Binder   string
	Amount   *money.Money
}

// Results is everything the recap needs, captured after the pipeline
// settles.
type Results struct {
	Inflow      *money.Money
	Allocated   *money.Money
	Unallocated *money.Money
	FundedCount int
	Deposits    []Deposit
	Impacts     []engine.Impact
}

type Model struct {
	Styles   Styles
	Viewport viewport.Model

	currency    string
	results     Results
	depositTree *tree.Tree
}

type Styles struct {
	HeaderStyle   lipgloss.Style
	AmountStyle   lipgloss.Style
	ImpactStyle   lipgloss.Style
	TreeRootStyle lipgloss.Style
	BinderStyle   lipgloss.Style
	SummaryStyle  lipgloss.Style
}

func defaultStyles() Styles {
	return Styles{
		HeaderStyle:   lipgloss.NewStyle().Bold(true),
		AmountStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff00")),
		ImpactStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#d29b1d")),
		TreeRootStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")),
		BinderStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#bbbbbb")),
		SummaryStyle:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2),
	}
}

type Option func(*Model)

func WithCurrency(currency string) Option {
	return func(m *Model) {
		m.currency = currency
	}
}

func New(opts ...Option) Model {
	m := Model{
		Styles:   defaultStyles(),
		Viewport: viewport.New(0, 20),
		currency: "USD",
	}

	for _, opt := range opts {
		opt(&m)
	}

	m.results = Results{
		Inflow:      money.New(0, m.currency),
		Allocated:   money.New(0, m.currency),
		Unallocated: money.New(0, m.currency),
	}
	m.depositTree = tree.New()
	m.UpdateViewport()

	return m
}

// SetResults installs the run's outcome and rebuilds the recap.
func (m *Model) SetResults(results Results) {
	m.results = results
	m.updateDepositTree()
	m.UpdateViewport()
}

func (m *Model) updateDepositTree() {
	m.depositTree = tree.New()
	m.depositTree.Root(m.Styles.TreeRootStyle.Render("Stuffed"))

	binderNodes := make(map[string]*tree.Tree)
	for _, d := range m.results.Deposits {
		label := fmt.Sprintf("%s (%s)", titleCaser.String(d.Envelope), d.Amount.Display())
		if d.Binder == "" {
			m.depositTree.Child(label)
			continue
		}
		node, ok := binderNodes[d.Binder]
		if !ok {
			node = tree.New().Root(m.Styles.BinderStyle.Render(titleCaser.String(d.Binder)))
			binderNodes[d.Binder] = node
			m.depositTree.Child(node)
		}
		node.Child(label)
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.Viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.Viewport.Width = width
	m.Viewport.Height = height
}

func (m *Model) UpdateViewport() {
	depositContent := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Render(m.depositTree.String())

	impactContent := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Render(
			lipgloss.JoinVertical(lipgloss.Top,
				m.Styles.HeaderStyle.Render("Goal Impact"),
				table.New(
					table.WithColumns([]table.Column{
						{Title: "Envelope", Width: 20},
						{Title: "Deposit", Width: 15},
						{Title: "Days Sooner", Width: 12},
					}),
					table.WithRows(m.impactRows()),
					table.WithHeight(len(m.results.Impacts)+1),
				).View(),
			),
		)

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top,
		m.summaryView(),
		depositContent,
		impactContent,
	)

	m.Viewport.SetContent(mainContent)
}

func (m *Model) impactRows() []table.Row {
	rows := make([]table.Row, 0, len(m.results.Impacts))
	for _, impact := range m.results.Impacts {
		rows = append(rows, table.Row{
			titleCaser.String(impact.Name),
			impact.Deposit.Display(),
			fmt.Sprintf("%d", impact.DaysSaved),
		})
	}
	return rows
}

func (m *Model) summaryView() string {
	return m.Styles.SummaryStyle.Render(
		lipgloss.JoinVertical(lipgloss.Top,
			m.Styles.HeaderStyle.Render("Pay Day Recap"),
			fmt.Sprintf("Inflow: %s", m.Styles.AmountStyle.Render(m.results.Inflow.Display())),
			fmt.Sprintf("Stuffed: %s", m.Styles.AmountStyle.Render(m.results.Allocated.Display())),
			fmt.Sprintf("Left over: %s", m.results.Unallocated.Display()),
			fmt.Sprintf("Envelopes funded: %d", m.results.FundedCount),
		),
	)
}
