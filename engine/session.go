package engine

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Rhymond/go-money"
)

// Phase is the cockpit workflow position. The workflow is strictly
// linear; the only backwards move is Reset.
type Phase int

const (
	PhaseAmountEntry Phase = iota
	PhaseStrategyReview
	PhaseStagedExecution
	PhaseSummary
)

func (p Phase) String() string {
	switch p {
	case PhaseAmountEntry:
		return "amount entry"
	case PhaseStrategyReview:
		return "strategy review"
	case PhaseStagedExecution:
		return "stuffing"
	case PhaseSummary:
		return "summary"
	}
	return "unknown"
}

// Stage marks where the pipeline is inside staged execution.
type Stage int

const (
	StageIdle Stage = iota
	StageAccountFill
	StageSilver
	StageGold
	StageSettled
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAccountFill:
		return "account fill"
	case StageSilver:
		return "silver"
	case StageGold:
		return "gold"
	case StageSettled:
		return "settled"
	}
	return "unknown"
}

// Guard failures surfaced to the user as validation messages.
var (
	ErrInvalidAmount   = errors.New("enter a valid amount")
	ErrNothingSelected = errors.New("select at least one envelope")
)

// BinderGroup is a display grouping of allocated envelopes sharing a
// binder. Grouping affects review ordering only, never execution order.
type BinderGroup struct {
	BinderID  int64
	Name      string
	Envelopes []*Envelope
}

// Session is the root aggregate for one pay-day run: the current phase,
// the allocation ledger, the optional gold-stage boosts, the live
// per-envelope progress the pipeline advances, and the final ranked
// impacts. A session is owned by exactly one workflow run and is
// discarded or Reset between cycles.
type Session struct {
	currency  string
	envelopes []*Envelope
	byID      map[int64]*Envelope
	account   *Account

	phase  Phase
	inflow *money.Money
	ledger *Ledger

	boosts     map[int64]*money.Money
	boostOrder []int64

	progress      map[int64]*money.Money
	progressOrder []int64

	stage       Stage
	activeID    int64
	activeIndex int
	accountFill *money.Money

	impacts []Impact
	runErr  error
}

// NewSession starts a session in amount entry. The envelope slice is the
// frozen snapshot for this cycle; account may be nil for direct mode.
func NewSession(currency string, envelopes []*Envelope, account *Account) *Session {
	byID := make(map[int64]*Envelope, len(envelopes))
	for _, e := range envelopes {
		byID[e.ID] = e
	}
	s := &Session{
		currency:  currency,
		envelopes: envelopes,
		byID:      byID,
		account:   account,
	}
	s.Reset()
	return s
}

func (s *Session) Phase() Phase           { return s.phase }
func (s *Session) Currency() string       { return s.currency }
func (s *Session) Stage() Stage           { return s.stage }
func (s *Session) Account() *Account      { return s.account }
func (s *Session) Envelopes() []*Envelope { return s.envelopes }
func (s *Session) Ledger() *Ledger        { return s.ledger }
func (s *Session) Inflow() *money.Money   { return s.inflow }
func (s *Session) Impacts() []Impact      { return s.impacts }
func (s *Session) Err() error             { return s.runErr }

// Envelope looks up an envelope from the session snapshot.
func (s *Session) Envelope(id int64) (*Envelope, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// BeginReview moves AmountEntry -> StrategyReview. The guard requires a
// positive inflow; on failure the session stays put and the returned
// error is the validation message. On success the ledger is seeded with
// the automatic baseline.
func (s *Session) BeginReview(inflow *money.Money) error {
	if s.phase != PhaseAmountEntry {
		return nil
	}
	if inflow == nil || !inflow.IsPositive() {
		return ErrInvalidAmount
	}

	s.inflow = inflow
	s.ledger = NewLedger(inflow, s.envelopes)
	s.ledger.SeedAutomatic(s.envelopes)
	s.phase = PhaseStrategyReview
	return nil
}

// SetBoost records a gold-stage top-up for an envelope, layered on top of
// its base allocation. A non-positive amount removes the boost.
func (s *Session) SetBoost(envelopeID int64, amount *money.Money) {
	if amount == nil || !amount.IsPositive() {
		if _, ok := s.boosts[envelopeID]; ok {
			delete(s.boosts, envelopeID)
			s.boostOrder = slices.DeleteFunc(s.boostOrder, func(id int64) bool { return id == envelopeID })
		}
		return
	}
	if _, ok := s.boosts[envelopeID]; !ok {
		s.boostOrder = append(s.boostOrder, envelopeID)
	}
	s.boosts[envelopeID] = amount
}

// Boost returns the gold-stage top-up for an envelope, if any.
func (s *Session) Boost(envelopeID int64) (*money.Money, bool) {
	b, ok := s.boosts[envelopeID]
	return b, ok
}

// BoostEntries returns the boost map in insertion order.
func (s *Session) BoostEntries() []Entry {
	out := make([]Entry, 0, len(s.boostOrder))
	for _, id := range s.boostOrder {
		out = append(out, Entry{EnvelopeID: id, Amount: s.boosts[id], Class: ClassManual})
	}
	return out
}

// BeginExecution moves StrategyReview -> StagedExecution. The guard
// requires at least one allocated envelope; over-allocation is a warning
// upstream, not a blocker here.
func (s *Session) BeginExecution() error {
	if s.phase != PhaseStrategyReview {
		return nil
	}
	if !s.ledger.CanExecute() {
		return ErrNothingSelected
	}
	s.phase = PhaseStagedExecution
	s.stage = StageIdle
	return nil
}

// ReviewGroups partitions the allocated envelopes into ungrouped ones and
// binder groups, in allocation order. Display ordering only.
func (s *Session) ReviewGroups() ([]*Envelope, []BinderGroup) {
	var ungrouped []*Envelope
	var groups []BinderGroup
	index := make(map[int64]int)

	for _, entry := range s.ledger.Entries() {
		e, ok := s.byID[entry.EnvelopeID]
		if !ok {
			continue
		}
		if e.BinderID == nil {
			ungrouped = append(ungrouped, e)
			continue
		}
		i, ok := index[*e.BinderID]
		if !ok {
			i = len(groups)
			index[*e.BinderID] = i
			groups = append(groups, BinderGroup{BinderID: *e.BinderID, Name: e.BinderName})
		}
		groups[i].Envelopes = append(groups[i].Envelopes, e)
	}

	return ungrouped, groups
}

// Progress returns the accumulated execution progress for an envelope.
func (s *Session) Progress(envelopeID int64) *money.Money {
	if p, ok := s.progress[envelopeID]; ok {
		return p
	}
	return money.New(0, s.currency)
}

// FundedCount reports how many envelopes have accumulated any progress.
func (s *Session) FundedCount() int {
	n := 0
	for _, id := range s.progressOrder {
		if s.progress[id].IsPositive() {
			n++
		}
	}
	return n
}

// setStage, setActive, addProgress, setAccountFill, fail, and complete
// are the pipeline's mutation surface. Nothing else may touch a session
// while staged execution is active.

func (s *Session) setStage(stage Stage) { s.stage = stage }

func (s *Session) setActive(envelopeID int64, index int) {
	s.activeID = envelopeID
	s.activeIndex = index
}

func (s *Session) addProgress(envelopeID int64, amount *money.Money) *money.Money {
	current, ok := s.progress[envelopeID]
	if !ok {
		current = money.New(0, s.currency)
		s.progressOrder = append(s.progressOrder, envelopeID)
	}
	current, _ = current.Add(amount)
	s.progress[envelopeID] = current
	return current
}

// progressEntries pairs each funded envelope with its accumulated
// deposit. Progress for an id outside the snapshot means the ledger was
// fed an unknown envelope; that is a caller bug and must not be funded
// or reported silently.
func (s *Session) progressEntries() ([]DepositPair, error) {
	pairs := make([]DepositPair, 0, len(s.progressOrder))
	for _, id := range s.progressOrder {
		e, ok := s.byID[id]
		if !ok {
			return nil, fmt.Errorf("envelope %d is not in the session snapshot", id)
		}
		pairs = append(pairs, DepositPair{Envelope: e, Deposit: s.progress[id]})
	}
	return pairs, nil
}

func (s *Session) setAccountFill(amount *money.Money) { s.accountFill = amount }

func (s *Session) fail(err error) { s.runErr = err }

func (s *Session) complete(impacts []Impact) {
	s.impacts = impacts
	s.phase = PhaseSummary
}

// Reset abandons the run and returns to amount entry defaults from any
// phase: zeroed inflow, empty allocation, boost and progress maps, no
// impacts, no error.
func (s *Session) Reset() {
	s.phase = PhaseAmountEntry
	s.inflow = money.New(0, s.currency)
	s.ledger = NewLedger(s.inflow, s.envelopes)
	s.boosts = make(map[int64]*money.Money)
	s.boostOrder = nil
	s.progress = make(map[int64]*money.Money)
	s.progressOrder = nil
	s.stage = StageIdle
	s.activeID = 0
	s.activeIndex = 0
	s.accountFill = money.New(0, s.currency)
	s.impacts = nil
	s.runErr = nil
}
