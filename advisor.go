package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/rshep3087/stuffer/engine"
)

// advisorTimeout bounds one allocation-suggestion round trip.
const advisorTimeout = 30 * time.Second

// AdvisorProvider produces allocation suggestions for one pay cycle.
type AdvisorProvider interface {
	// SuggestAllocations returns suggested manual allocations for the
	// given inflow, considering envelope goals and upcoming bills.
	SuggestAllocations(
		ctx context.Context,
		inflow *money.Money,
		envelopes []*engine.Envelope,
		bills []engine.Bill,
	) ([]AllocationSuggestion, error)
}

// AllocationSuggestion is one advisor-proposed envelope allocation.
type AllocationSuggestion struct {
	EnvelopeID int64  `json:"envelope_id"`
	Amount     string `json:"amount"`
	Reasoning  string `json:"reasoning"`
}

// advisorMsg is sent when the advisor round trip completes.
type advisorMsg struct {
	suggestions []AllocationSuggestion
	err         error
}

// Advisor manages AI-powered allocation suggestions.
type Advisor struct {
	provider AdvisorProvider
	enabled  bool
}

func NewAdvisor(provider AdvisorProvider) *Advisor {
	return &Advisor{
		provider: provider,
		enabled:  provider != nil,
	}
}

// IsEnabled returns true if allocation suggestions are available.
func (a *Advisor) IsEnabled() bool {
	return a.enabled
}

// requestAdvice creates a tea.Cmd that asks the advisor for allocations
// on top of the current automatic baseline.
func (m model) requestAdvice() tea.Cmd {
	if m.advisor == nil || !m.advisor.IsEnabled() {
		log.Debug("advisor disabled, skipping suggestion request")
		return nil
	}

	inflow := m.session.Inflow()
	envelopes := m.envelopes
	bills := m.billsDue
	provider := m.advisor.provider

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), advisorTimeout)
		defer cancel()

		suggestions, err := provider.SuggestAllocations(ctx, inflow, envelopes, bills)
		if err != nil {
			log.Error("advisor suggestion failed", "error", err)
		} else {
			log.Debug("advisor suggestion succeeded", "count", len(suggestions))
		}

		return advisorMsg{suggestions: suggestions, err: err}
	}
}

// handleAdvice applies the advisor's allocations to the ledger. Unknown
// envelope ids and unparseable amounts are skipped, not fatal.
func (m model) handleAdvice(msg advisorMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.statusMsg = fmt.Sprintf("advisor error: %s", msg.err)
		return m, nil
	}

	applied := 0
	for _, s := range msg.suggestions {
		if _, ok := m.session.Envelope(s.EnvelopeID); !ok {
			log.Debug("advisor suggested unknown envelope", "id", s.EnvelopeID)
			continue
		}
		amount, err := engine.ParseAmount(s.Amount, m.cfg.Currency)
		if err != nil {
			log.Debug("advisor suggested bad amount", "id", s.EnvelopeID, "amount", s.Amount)
			continue
		}
		m.session.Ledger().SetAmount(s.EnvelopeID, amount)
		applied++
	}

	m.statusMsg = fmt.Sprintf("advisor applied %d suggestion(s)", applied)
	m.refreshReviewItems()
	return m, nil
}

// formatEnvelopesForAdvisor renders the envelope snapshot for the prompt.
func formatEnvelopesForAdvisor(envelopes []*engine.Envelope) string {
	var sb strings.Builder
	sb.WriteString("Envelopes:\n")
	for _, e := range envelopes {
		fmt.Fprintf(&sb, "- ID: %d, Name: %s, Balance: %s", e.ID, e.Name, e.Balance.Display())
		if e.Recurring() {
			fmt.Fprintf(&sb, ", Monthly plan: %s", e.Velocity.Display())
		}
		if e.GoalAmount != nil {
			fmt.Fprintf(&sb, ", Goal: %s", e.GoalAmount.Display())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatBillsForAdvisor renders the upcoming bills for the prompt.
func formatBillsForAdvisor(bills []engine.Bill) string {
	if len(bills) == 0 {
		return "No bills due this cycle.\n"
	}

	var sb strings.Builder
	sb.WriteString("Bills due this cycle:\n")
	for _, b := range bills {
		fmt.Fprintf(&sb, "- %s: %s due %s\n", b.Name, b.Amount.Display(), b.DueDate.Format("2006-01-02"))
	}
	return sb.String()
}
