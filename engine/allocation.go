package engine

import (
	"slices"
	"time"

	"github.com/Rhymond/go-money"
)

// Class tags an allocation entry as part of the automatic baseline or as
// money the user added by hand this cycle.
type Class int

const (
	ClassAutomatic Class = iota
	ClassManual
)

func (c Class) String() string {
	if c == ClassAutomatic {
		return "automatic"
	}
	return "manual"
}

// Entry is one envelope's allocation for the current pay cycle.
type Entry struct {
	EnvelopeID int64
	Amount     *money.Money
	Class      Class
}

// Ledger holds the allocation map for one pay cycle and keeps its derived
// totals current incrementally: each mutator adjusts the running buckets
// by the delta instead of recomputing from scratch.
//
// Entry order is insertion order and is the iteration order the pipeline
// executes in.
type Ledger struct {
	currency  string
	inflow    *money.Money
	envelopes map[int64]*Envelope

	entries map[int64]*Entry
	order   []int64

	autopilot *money.Money
	manual    *money.Money
}

// NewLedger creates an empty ledger for one pay cycle. The envelope
// snapshot is used to classify entries; classification is re-derived from
// the envelope on every mutation, not remembered from insertion time.
func NewLedger(inflow *money.Money, envelopes []*Envelope) *Ledger {
	byID := make(map[int64]*Envelope, len(envelopes))
	for _, e := range envelopes {
		byID[e.ID] = e
	}

	cur := inflow.Currency().Code
	return &Ledger{
		currency:  cur,
		inflow:    inflow,
		envelopes: byID,
		entries:   make(map[int64]*Entry),
		autopilot: money.New(0, cur),
		manual:    money.New(0, cur),
	}
}

// classFor derives the bucket for an envelope from its current recurring
// state. Unknown envelope ids are a caller bug.
func (l *Ledger) classFor(envelopeID int64) Class {
	if e, ok := l.envelopes[envelopeID]; ok && e.Recurring() {
		return ClassAutomatic
	}
	return ClassManual
}

func (l *Ledger) addToBucket(class Class, amount *money.Money) {
	if class == ClassAutomatic {
		l.autopilot, _ = l.autopilot.Add(amount)
		return
	}
	l.manual, _ = l.manual.Add(amount)
}

func (l *Ledger) subtractFromBucket(class Class, amount *money.Money) {
	if class == ClassAutomatic {
		l.autopilot, _ = l.autopilot.Subtract(amount)
		return
	}
	l.manual, _ = l.manual.Subtract(amount)
}

// Toggle flips an envelope in or out of the allocation. When the envelope
// is already allocated it is removed and its amount leaves the matching
// bucket; otherwise it is added with suggested (or zero when nil).
func (l *Ledger) Toggle(envelopeID int64, suggested *money.Money) {
	class := l.classFor(envelopeID)

	if entry, ok := l.entries[envelopeID]; ok {
		l.subtractFromBucket(class, entry.Amount)
		l.remove(envelopeID)
		return
	}

	amount := suggested
	if amount == nil {
		amount = money.New(0, l.currency)
	}
	l.insert(&Entry{EnvelopeID: envelopeID, Amount: amount, Class: class})
	l.addToBucket(class, amount)
}

// SetAmount overwrites an envelope's allocation. A non-positive amount
// removes the entry entirely and restores the totals to their value
// before the envelope was added.
func (l *Ledger) SetAmount(envelopeID int64, amount *money.Money) {
	class := l.classFor(envelopeID)
	previous := money.New(0, l.currency)
	if entry, ok := l.entries[envelopeID]; ok {
		previous = entry.Amount
	}

	if amount == nil || !amount.IsPositive() {
		if _, ok := l.entries[envelopeID]; ok {
			l.subtractFromBucket(class, previous)
			l.remove(envelopeID)
		}
		return
	}

	if entry, ok := l.entries[envelopeID]; ok {
		entry.Amount = amount
		entry.Class = class
	} else {
		l.insert(&Entry{EnvelopeID: envelopeID, Amount: amount, Class: class})
	}

	delta, _ := amount.Subtract(previous)
	l.addToBucket(class, delta)
}

// AddBinder bulk-adds every envelope in the binder that has a positive
// recurring velocity, at that velocity, classified automatic. Envelopes
// already allocated keep their current entry.
func (l *Ledger) AddBinder(binderID int64) {
	ids := make([]int64, 0, len(l.envelopes))
	for id := range l.envelopes {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		e := l.envelopes[id]
		if e.BinderID == nil || *e.BinderID != binderID || !e.Recurring() {
			continue
		}
		if _, ok := l.entries[id]; ok {
			continue
		}
		l.insert(&Entry{EnvelopeID: id, Amount: e.Velocity, Class: ClassAutomatic})
		l.addToBucket(ClassAutomatic, e.Velocity)
	}
}

// SeedAutomatic populates the automatic baseline: every recurring
// envelope with a positive velocity is allocated its velocity. Called on
// entry into strategy review, before the user edits anything.
func (l *Ledger) SeedAutomatic(envelopes []*Envelope) {
	for _, e := range envelopes {
		if !e.Recurring() {
			continue
		}
		if _, ok := l.entries[e.ID]; ok {
			continue
		}
		l.insert(&Entry{EnvelopeID: e.ID, Amount: e.Velocity, Class: ClassAutomatic})
		l.addToBucket(ClassAutomatic, e.Velocity)
	}
}

func (l *Ledger) insert(entry *Entry) {
	l.entries[entry.EnvelopeID] = entry
	l.order = append(l.order, entry.EnvelopeID)
}

func (l *Ledger) remove(envelopeID int64) {
	delete(l.entries, envelopeID)
	l.order = slices.DeleteFunc(l.order, func(id int64) bool { return id == envelopeID })
}

// CanExecute reports whether anything is allocated. Over-allocation is a
// warning, never a blocker.
func (l *Ledger) CanExecute() bool {
	return len(l.entries) > 0
}

// Amount returns the current allocation for an envelope, if any.
func (l *Ledger) Amount(envelopeID int64) (*money.Money, bool) {
	entry, ok := l.entries[envelopeID]
	if !ok {
		return nil, false
	}
	return entry.Amount, true
}

// Entries returns the allocation in insertion order. The returned slice
// is a snapshot; mutating the ledger afterwards does not change it.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.entries[id])
	}
	return out
}

// ExternalInflow is the lump sum being distributed this cycle.
func (l *Ledger) ExternalInflow() *money.Money { return l.inflow }

// AutopilotReserve is the total earmarked for recurring envelopes.
func (l *Ledger) AutopilotReserve() *money.Money { return l.autopilot }

// ManualAllocations is the total the user added on top of the baseline.
func (l *Ledger) ManualAllocations() *money.Money { return l.manual }

// AvailableFuel is the inflow minus the autopilot reserve.
func (l *Ledger) AvailableFuel() *money.Money {
	out, _ := l.inflow.Subtract(l.autopilot)
	return out
}

// UnallocatedFuel is the available fuel minus manual allocations.
// Negative means over-allocated.
func (l *Ledger) UnallocatedFuel() *money.Money {
	out, _ := l.AvailableFuel().Subtract(l.manual)
	return out
}

// IsOverAllocated reports whether more money is allocated than came in.
func (l *Ledger) IsOverAllocated() bool {
	return l.UnallocatedFuel().IsNegative()
}

// ReserveShortfall sums the bills due by the given time and reports how
// far the total allocation falls short of covering them. The second
// return is false when reserves look sufficient.
func ReserveShortfall(l *Ledger, bills []Bill, until time.Time) (*money.Money, bool) {
	due := money.New(0, l.currency)
	for _, b := range bills {
		if b.DueDate.After(until) {
			continue
		}
		due, _ = due.Add(b.Amount)
	}

	allocated, _ := l.autopilot.Add(l.manual)
	shortfall, _ := due.Subtract(allocated)
	if !shortfall.IsPositive() {
		return nil, false
	}
	return shortfall, true
}
