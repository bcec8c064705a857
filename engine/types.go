// Package engine implements the pay-day allocation and execution engine:
// the allocation ledger built up during strategy review, the staged
// stuffing pipeline that turns it into real ledger writes, and the
// horizon projection that ranks how much each deposit moved an envelope
// toward its goal. The engine has no UI dependencies; progress is
// reported as events on a channel.
package engine

import (
	"time"

	"github.com/Rhymond/go-money"
)

// Envelope is a budget category as read from the ledger store. The engine
// only reads envelopes; balance changes go through the store interfaces.
type Envelope struct {
	ID               int64
	Name             string
	Balance          *money.Money
	GoalAmount       *money.Money
	GoalDate         *time.Time
	// Velocity is the monthly cash-flow amount for recurring plans.
	Velocity         *money.Money
	RecurringEnabled bool
	BinderID         *int64
	BinderName       string
}

// Recurring reports whether the envelope participates in the automatic
// baseline: its recurring flag is set and it has a positive velocity.
func (e *Envelope) Recurring() bool {
	return e.RecurringEnabled && e.Velocity != nil && e.Velocity.IsPositive()
}

// Account is a holding account money lands in before being moved into
// envelopes. Sessions without an account run in direct mode.
type Account struct {
	ID        int64
	Name      string
	Balance   *money.Money
	IsDefault bool
}

// Bill is an upcoming recurring obligation from the schedule store. Read
// only; used to warn about thin reserves before execution.
type Bill struct {
	EnvelopeID *int64
	Name       string
	Amount     *money.Money
	DueDate    time.Time
}

// Settings is the persisted pay-day snapshot. Nil fields are left
// untouched on save (merge semantics).
type Settings struct {
	LastPayAmount    *money.Money
	LastPayDate      *time.Time
	DefaultAccountID *int64
	PayFrequency     string
}

// Pay frequencies recognized in settings.
const (
	PayMonthly  = "monthly"
	PayBiweekly = "biweekly"
	PayWeekly   = "weekly"
)

// CycleLength returns the length of one pay cycle for a frequency,
// defaulting to monthly for unknown values.
func CycleLength(frequency string) time.Duration {
	const day = 24 * time.Hour
	switch frequency {
	case PayWeekly:
		return 7 * day
	case PayBiweekly:
		return 14 * day
	default:
		return 30 * day
	}
}
