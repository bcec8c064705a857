package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshep3087/stuffer/engine"
)

// newReviewList builds the envelope list for strategy review. Items read
// their allocation state from the session live, so toggling or editing
// never requires rebuilding the list.
//
// Ordering follows the session's binder partition: allocated envelopes
// first, ungrouped ones ahead of binder groups, then everything not yet
// allocated in snapshot order.
func (m *model) newReviewList() list.Model {
	ungrouped, groups := m.session.ReviewGroups()

	ordered := make([]*engine.Envelope, 0, len(m.envelopes))
	seen := make(map[int64]bool, len(m.envelopes))
	add := func(e *engine.Envelope) {
		ordered = append(ordered, e)
		seen[e.ID] = true
	}
	for _, e := range ungrouped {
		add(e)
	}
	for _, g := range groups {
		for _, e := range g.Envelopes {
			add(e)
		}
	}
	for _, e := range m.envelopes {
		if !seen[e.ID] {
			add(e)
		}
	}

	items := make([]list.Item, 0, len(ordered))
	for _, e := range ordered {
		items = append(items, envelopeItem{e: e, session: m.session})
	}

	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.AdaptiveColor{Light: string(m.theme.Primary), Dark: string(m.theme.Primary)}).
		Foreground(lipgloss.AdaptiveColor{Light: string(m.theme.Primary), Dark: string(m.theme.Primary)}).
		Padding(0, 0, 0, 1)
	d.Styles.SelectedDesc = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: string(m.theme.Primary), Dark: string(m.theme.Primary)})

	help := []key.Binding{m.reviewKeys.toggle, m.reviewKeys.edit, m.reviewKeys.boost, m.reviewKeys.execute}
	d.ShortHelpFunc = func() []key.Binding { return help }
	d.FullHelpFunc = func() [][]key.Binding {
		return [][]key.Binding{help, {m.reviewKeys.binder, m.reviewKeys.advisor}}
	}

	l := list.New(items, d, 0, 0)
	l.Title = "strategy review"
	l.SetShowTitle(false)
	l.DisableQuitKeybindings()
	return l
}

// refreshReviewItems forces the list to re-render after a session
// mutation.
func (m *model) refreshReviewItems() {
	for i, it := range m.reviewList.Items() {
		m.reviewList.SetItem(i, it)
	}
}

// selectedEnvelope returns the envelope under the cursor.
func (m model) selectedEnvelope() (*engine.Envelope, bool) {
	item, ok := m.reviewList.SelectedItem().(envelopeItem)
	if !ok {
		return nil, false
	}
	return item.e, true
}

// newEditForm builds the amount editor for one envelope. The same form
// serves base-allocation edits and gold-stage boosts.
func newEditForm(e *engine.Envelope, boost bool, currency string) *huh.Form {
	title := fmt.Sprintf("Allocation for %s", e.Name)
	description := "Zero removes the envelope from this cycle"
	if boost {
		title = fmt.Sprintf("Gold boost for %s", e.Name)
		description = "Layered on top of the base allocation; zero removes the boost"
	}

	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(title).
			Description(description).
			Key("amount").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return nil
				}
				if _, err := engine.ParseAmount(s, currency); err != nil {
					return fmt.Errorf("amount must be a valid number")
				}
				return nil
			}),
	))
}

// reviewFooter renders the running totals under the envelope list, plus
// a reserve warning when upcoming bills outrun the allocation.
func (m model) reviewFooter() string {
	ledger := m.session.Ledger()

	totals := []string{
		fmt.Sprintf("inflow %s", ledger.ExternalInflow().Display()),
		fmt.Sprintf("autopilot %s", ledger.AutopilotReserve().Display()),
		fmt.Sprintf("manual %s", ledger.ManualAllocations().Display()),
	}

	unallocated := fmt.Sprintf("unallocated %s", ledger.UnallocatedFuel().Display())
	if ledger.IsOverAllocated() {
		unallocated = m.styles.warningStyle.Render(unallocated + " (over-allocated)")
	}
	totals = append(totals, unallocated)

	footer := m.styles.totalsStyle.Render(strings.Join(totals, "  "))

	if shortfall, short := engine.ReserveShortfall(ledger, m.billsDue, m.cyclePeriod.End()); short {
		warning := fmt.Sprintf("bills due this cycle exceed allocations by %s", shortfall.Display())
		footer = lipgloss.JoinVertical(lipgloss.Left, footer, m.styles.warningStyle.Render(warning))
	}

	if m.statusMsg != "" {
		footer = lipgloss.JoinVertical(lipgloss.Left, footer, m.styles.mutedStyle.Render(m.statusMsg))
	}

	return footer
}
