package main

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"

	"github.com/rshep3087/stuffer/engine"
)

// execState mirrors pipeline events for rendering. The session itself is
// owned by the pipeline goroutine while a run is active, so the view
// reads only from here until the done message arrives.
type execState struct {
	// order and names are frozen from the allocation at launch
	order []int64
	names map[int64]string

	stage       engine.Stage
	activeID    int64
	accountFill *money.Money
	amounts     map[int64]*money.Money
	failure     error
}

func newExecState(s *engine.Session) execState {
	entries := s.Ledger().Entries()
	order := make([]int64, 0, len(entries))
	names := make(map[int64]string, len(entries))
	for _, entry := range entries {
		order = append(order, entry.EnvelopeID)
		if e, ok := s.Envelope(entry.EnvelopeID); ok {
			names[entry.EnvelopeID] = e.Name
		}
	}
	for _, entry := range s.BoostEntries() {
		if _, ok := names[entry.EnvelopeID]; ok {
			continue
		}
		order = append(order, entry.EnvelopeID)
		if e, ok := s.Envelope(entry.EnvelopeID); ok {
			names[entry.EnvelopeID] = e.Name
		}
	}

	return execState{
		order:   order,
		names:   names,
		stage:   engine.StageIdle,
		amounts: make(map[int64]*money.Money, len(order)),
	}
}

// apply folds one pipeline event into the display state.
func (x *execState) apply(e engine.Event) {
	switch e.Kind {
	case engine.EventStage:
		x.stage = e.Stage
		x.activeID = 0
	case engine.EventAccountFill:
		x.accountFill = e.Amount
	case engine.EventActive:
		x.activeID = e.EnvelopeID
	case engine.EventProgress:
		x.amounts[e.EnvelopeID] = e.Amount
	case engine.EventFailed:
		x.failure = e.Err
	case engine.EventDone:
		x.activeID = 0
	}
}

func (x execState) render(s styles) string {
	var b strings.Builder

	b.WriteString(x.renderStageLine(s))
	b.WriteString("\n\n")

	for _, id := range x.order {
		b.WriteString(x.renderEnvelopeLine(id, s))
		b.WriteString("\n")
	}

	if x.failure != nil {
		b.WriteString("\n")
		b.WriteString(s.errorStyle.Render(fmt.Sprintf("stuffing halted: %v", x.failure)))
		b.WriteString("\n")
		b.WriteString(s.mutedStyle.Render("completed deposits are saved; press r to start over"))
	}

	return b.String()
}

func (x execState) renderStageLine(s styles) string {
	label := x.stage.String()
	switch x.stage {
	case engine.StageAccountFill:
		line := s.activeStyle.Render("funding account")
		if x.accountFill != nil {
			line += s.mutedStyle.Render(fmt.Sprintf("  %s", x.accountFill.Display()))
		}
		return line
	case engine.StageSilver:
		return s.silverStyle.Render("silver stage: autopilot envelopes")
	case engine.StageGold:
		return s.goldStyle.Render("gold stage: boosts")
	case engine.StageSettled:
		return s.activeStyle.Render("settling")
	}
	return s.mutedStyle.Render(label)
}

func (x execState) renderEnvelopeLine(id int64, s styles) string {
	name := x.names[id]
	amount, funded := x.amounts[id]

	marker := "  "
	style := s.mutedStyle
	switch {
	case id == x.activeID:
		marker = "> "
		style = s.activeStyle
	case funded && amount.IsPositive():
		marker = "+ "
		style = s.silverStyle
	}

	line := marker + name
	if funded {
		line += fmt.Sprintf("  %s", amount.Display())
	}
	return style.Render(line)
}
