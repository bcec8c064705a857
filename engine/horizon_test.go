package engine

import (
	"testing"

	"github.com/carlmjohnson/be"
)

func TestDaysSaved(t *testing.T) {
	tests := []struct {
		name       string
		envelope   *Envelope
		deposit    int64
		wantDays   int
		applicable bool
	}{
		{
			name: "goal 1200 balance 400 velocity 200 deposit 100",
			envelope: &Envelope{
				Balance:    usd(40000),
				GoalAmount: usd(120000),
				Velocity:   usd(20000),
			},
			deposit:    10000,
			wantDays:   15,
			applicable: true,
		},
		{
			name: "no goal amount",
			envelope: &Envelope{
				Balance:  usd(40000),
				Velocity: usd(20000),
			},
			deposit:    10000,
			applicable: false,
		},
		{
			name: "zero velocity is not applicable",
			envelope: &Envelope{
				Balance:    usd(40000),
				GoalAmount: usd(120000),
				Velocity:   usd(0),
			},
			deposit:    10000,
			applicable: false,
		},
		{
			name: "nil velocity is not applicable",
			envelope: &Envelope{
				Balance:    usd(40000),
				GoalAmount: usd(120000),
			},
			deposit:    10000,
			applicable: false,
		},
		{
			name: "deposit covering the whole remainder",
			envelope: &Envelope{
				Balance:    usd(100000),
				GoalAmount: usd(120000),
				Velocity:   usd(20000),
			},
			deposit:    20000,
			wantDays:   30,
			applicable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, ok := DaysSaved(tt.envelope, usd(tt.deposit))
			be.Equal(t, tt.applicable, ok)
			if tt.applicable {
				be.Equal(t, tt.wantDays, days)
			}
		})
	}
}

func TestRankImpacts(t *testing.T) {
	goal := func(id int64, name string, balance, goalAmount, velocity int64) *Envelope {
		return &Envelope{ID: id, Name: name, Balance: usd(balance), GoalAmount: usd(goalAmount), Velocity: usd(velocity)}
	}

	pairs := []DepositPair{
		{Envelope: goal(1, "small", 0, 100000, 50000), Deposit: usd(1000)},
		{Envelope: goal(2, "big", 0, 100000, 50000), Deposit: usd(50000)},
		{Envelope: &Envelope{ID: 3, Name: "no goal", Balance: usd(0)}, Deposit: usd(50000)},
		{Envelope: goal(4, "medium", 0, 100000, 50000), Deposit: usd(20000)},
		{Envelope: goal(5, "also big", 0, 100000, 50000), Deposit: usd(50000)},
		{Envelope: goal(6, "zero deposit", 0, 100000, 50000), Deposit: usd(0)},
	}

	impacts := RankImpacts(pairs)

	// top 3, descending, not-applicable and non-positive filtered out
	be.Equal(t, 3, len(impacts))
	be.Equal(t, "big", impacts[0].Name)
	// tie with "big" keeps input order
	be.Equal(t, "also big", impacts[1].Name)
	be.Equal(t, "medium", impacts[2].Name)
}

func TestRankImpactsNeverContainsNotApplicable(t *testing.T) {
	pairs := []DepositPair{
		{Envelope: &Envelope{ID: 1, Name: "no velocity", Balance: usd(0), GoalAmount: usd(100000), Velocity: usd(0)}, Deposit: usd(10000)},
	}

	impacts := RankImpacts(pairs)
	be.Equal(t, 0, len(impacts))
}
