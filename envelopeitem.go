package main

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"

	"github.com/rshep3087/stuffer/engine"
)

type envelopeItem struct {
	e       *engine.Envelope
	session *engine.Session
}

func (i envelopeItem) Title() string {
	var b strings.Builder
	if amount, ok := i.session.Ledger().Amount(i.e.ID); ok {
		b.WriteString("[x] ")
		b.WriteString(i.e.Name)
		b.WriteString(fmt.Sprintf("  +%s", amount.Display()))
	} else {
		b.WriteString("[ ] ")
		b.WriteString(i.e.Name)
	}
	if _, ok := i.session.Boost(i.e.ID); ok {
		b.WriteString(" *")
	}
	return b.String()
}

func (i envelopeItem) Description() string {
	parts := []string{fmt.Sprintf("balance %s", i.e.Balance.Display())}

	if i.e.Recurring() {
		parts = append(parts, fmt.Sprintf("autopilot %s", i.e.Velocity.Display()))
	}
	if i.e.GoalAmount != nil {
		goal := fmt.Sprintf("goal %s", i.e.GoalAmount.Display())
		if amount, ok := i.session.Ledger().Amount(i.e.ID); ok && amount.IsPositive() {
			if days, applies := engine.DaysSaved(i.e, amount); applies && days > 0 {
				goal += fmt.Sprintf(" (%d days sooner)", days)
			}
		}
		parts = append(parts, goal)
	}
	if i.e.BinderName != "" {
		parts = append(parts, i.e.BinderName)
	}
	if boost, ok := i.session.Boost(i.e.ID); ok {
		parts = append(parts, fmt.Sprintf("boost %s", boost.Display()))
	}

	return strings.Join(parts, " | ")
}

func (i envelopeItem) FilterValue() string {
	return i.e.Name
}

func (i envelopeItem) suggested() *money.Money {
	if i.e.Recurring() {
		return i.e.Velocity
	}
	return money.New(0, i.session.Currency())
}
