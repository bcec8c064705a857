package engine

import (
	"math"
	"slices"

	"github.com/Rhymond/go-money"
)

// daysPerMonth is the average month length used for every projection in
// the engine, so all time-to-goal numbers are mutually comparable.
const daysPerMonth = 30.44

// topImpacts is how many ranked impacts a summary keeps.
const topImpacts = 3

// Impact is one envelope's projected improvement from a deposit: the
// goal arrives DaysSaved days sooner than it would have without it.
type Impact struct {
	EnvelopeID int64
	Name       string
	Deposit    *money.Money
	DaysSaved  int
}

// daysToGoal projects how many days of saving at velocity per month are
// left until balance reaches goal. Amounts are in minor units; the units
// cancel in the division.
func daysToGoal(goal, balance, velocity *money.Money) float64 {
	remaining := float64(goal.Amount() - balance.Amount())
	perDay := float64(velocity.Amount()) / daysPerMonth
	return remaining / perDay
}

// DaysSaved computes how many days sooner the envelope reaches its goal
// if deposit lands now. The second return is false when the projection is
// not applicable: no goal amount, or zero/negative velocity. Callers must
// treat "not applicable" as absent, never as zero days.
//
// The result may be negative when the formula says the deposit delayed
// the goal; normal flows never produce that, but the math permits it.
func DaysSaved(e *Envelope, deposit *money.Money) (int, bool) {
	if e.GoalAmount == nil || e.Velocity == nil || !e.Velocity.IsPositive() {
		return 0, false
	}

	before := daysToGoal(e.GoalAmount, e.Balance, e.Velocity)
	after, _ := e.Balance.Add(deposit)
	return int(math.Round(before - daysToGoal(e.GoalAmount, after, e.Velocity))), true
}

// DepositPair couples an envelope (with its pre-execution balance) to the
// amount it received during execution.
type DepositPair struct {
	Envelope *Envelope
	Deposit  *money.Money
}

// RankImpacts computes DaysSaved for each pair, drops not-applicable and
// non-positive results, and returns the top entries by days saved in
// descending order. Ties keep the input order (stable sort).
func RankImpacts(pairs []DepositPair) []Impact {
	impacts := make([]Impact, 0, len(pairs))
	for _, p := range pairs {
		days, ok := DaysSaved(p.Envelope, p.Deposit)
		if !ok || days <= 0 {
			continue
		}
		impacts = append(impacts, Impact{
			EnvelopeID: p.Envelope.ID,
			Name:       p.Envelope.Name,
			Deposit:    p.Deposit,
			DaysSaved:  days,
		})
	}

	slices.SortStableFunc(impacts, func(a, b Impact) int {
		return b.DaysSaved - a.DaysSaved
	})

	if len(impacts) > topImpacts {
		impacts = impacts[:topImpacts]
	}
	return impacts
}
