package main

import (
	"testing"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/carlmjohnson/be"

	"github.com/rshep3087/stuffer/engine"
)

func TestEnvelopeToRow(t *testing.T) {
	goalDate := time.Date(2027, time.June, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		envelope *engine.Envelope
		expected envelopeRow
	}{
		{
			name: "plain envelope",
			envelope: &engine.Envelope{
				ID:      1,
				Name:    "Groceries",
				Balance: money.New(12500, "USD"),
			},
			expected: envelopeRow{
				ID:      1,
				Name:    "Groceries",
				Balance: "$125.00",
			},
		},
		{
			name: "goal envelope with recurring plan",
			envelope: &engine.Envelope{
				ID:               2,
				Name:             "Vacation",
				Balance:          money.New(10000, "USD"),
				GoalAmount:       money.New(120000, "USD"),
				GoalDate:         &goalDate,
				Velocity:         money.New(20000, "USD"),
				RecurringEnabled: true,
				BinderName:       "travel",
			},
			expected: envelopeRow{
				ID:         2,
				Name:       "Vacation",
				Balance:    "$100.00",
				Goal:       "$1,200.00",
				GoalDate:   "2027-06-01",
				Velocity:   "$200.00",
				Recurring:  true,
				BinderName: "travel",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, tt.expected, envelopeToRow(tt.envelope))
		})
	}
}

func TestOrDash(t *testing.T) {
	be.Equal(t, "-", orDash(""))
	be.Equal(t, "travel", orDash("travel"))
}
