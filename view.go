package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n\n")

	switch m.sessionState {
	case amountEntry:
		b.WriteString(m.entryForm.View())
		if m.statusMsg != "" {
			b.WriteString("\n")
			b.WriteString(m.styles.warningStyle.Render(m.statusMsg))
		}

	case strategyReview:
		if m.editForm != nil {
			b.WriteString(m.editForm.View())
		} else {
			b.WriteString(lipgloss.JoinVertical(lipgloss.Left,
				m.reviewList.View(),
				m.reviewFooter(),
			))
		}

	case stuffing:
		b.WriteString(m.exec.render(m.styles))

	case showSummary:
		b.WriteString(m.summaryModel.View())
		b.WriteString("\n")
		b.WriteString(m.styles.mutedStyle.Render("press r to start a new pay day"))

	case billsView:
		b.WriteString(m.billsModel.View())

	case configView:
		b.WriteString(m.configModel.View())

	case loading:
		b.WriteString(fmt.Sprintf("%s Loading envelopes...", m.loadingSpinner.View()))

	case errorState:
		b.WriteString(m.styles.errorStyle.Render(fmt.Sprintf("%s - 'q' to quit", m.errorMsg)))
		return m.styles.docStyle.Render(b.String())
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return m.styles.docStyle.Render(b.String())
}

func (m model) renderTitle() string {
	var b strings.Builder

	if m.cyclePeriod.String() == "" {
		b.WriteString(m.styles.titleStyle.Render(fmt.Sprintf("stuffer | %s", m.sessionState.String())))
		return b.String()
	}

	b.WriteString(m.styles.titleStyle.Render(
		fmt.Sprintf("stuffer | %s | %s",
			m.sessionState.String(),
			m.cyclePeriod.String(),
		),
	))

	return b.String()
}
