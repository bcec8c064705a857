package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/log"
)

// Pipeline timing. The per-item delay clamps keep short runs legible and
// long runs bounded: past totalBudget/min items the floor dominates and
// the realized stage duration exceeds the nominal budget on purpose.
const (
	leadInPause = 800 * time.Millisecond

	accountFillSteps    = 20
	accountFillDuration = 2 * time.Second
	postFillPause       = 500 * time.Millisecond

	silverBudget   = 9000 * time.Millisecond
	silverMinDelay = 600 * time.Millisecond
	silverMaxDelay = 1500 * time.Millisecond

	goldLeadPause = 800 * time.Millisecond
	goldBudget    = 8000 * time.Millisecond
	goldMinDelay  = 1200 * time.Millisecond
	goldMaxDelay  = 3000 * time.Millisecond

	trailingPause = time.Second
)

// perItemDelay spreads a stage budget over count items, clamped.
func perItemDelay(budget time.Duration, count int, minDelay, maxDelay time.Duration) time.Duration {
	if count <= 0 {
		return minDelay
	}
	d := budget / time.Duration(count)
	if d < minDelay {
		return minDelay
	}
	if d > maxDelay {
		return maxDelay
	}
	return d
}

// Sleeper is the pipeline's suspension point. Tests substitute a
// recording implementation to run with zero wall-clock time.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// WallSleeper sleeps on the real clock, waking early on cancellation.
type WallSleeper struct{}

func (WallSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pipeline executes one session's frozen allocation as the fixed ordered
// stage sequence: lead-in, account fill (account mode only), silver,
// gold (when boosts exist), settlement, impact ranking, settings
// persistence. Single flow, strictly sequential; the visible ordering is
// part of the contract. Store writes are awaited one at a time and a
// write failure halts the run in place with no rollback and no retry.
type Pipeline struct {
	ledger   LedgerStore
	settings SettingsStore
	userID   string

	sleeper Sleeper
	now     func() time.Time
	logger  *log.Logger
	events  chan Event
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSleeper substitutes the delay implementation.
func WithSleeper(s Sleeper) Option {
	return func(p *Pipeline) { p.sleeper = s }
}

// WithClock substitutes the timestamp source for ledger writes and the
// settings snapshot.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithLogger substitutes the pipeline logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// NewPipeline creates a pipeline writing to the given stores under the
// given user id.
func NewPipeline(ledger LedgerStore, settings SettingsStore, userID string, opts ...Option) *Pipeline {
	p := &Pipeline{
		ledger:   ledger,
		settings: settings,
		userID:   userID,
		sleeper:  WallSleeper{},
		now:      time.Now,
		logger:   log.Default(),
		events:   make(chan Event, 256),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Events is the progress stream for one Run. The channel is closed when
// the run ends, whether it finished, failed, or was cancelled.
func (p *Pipeline) Events() <-chan Event { return p.events }

func (p *Pipeline) emit(e Event) {
	select {
	case p.events <- e:
	default:
		// A stalled consumer must not stall the stuffing flow.
	}
}

// emitFinal delivers a terminal event even when the buffer is full of
// unread progress. Failure and done must reach the consumer; only a dead
// context lets them go.
func (p *Pipeline) emitFinal(ctx context.Context, e Event) {
	select {
	case p.events <- e:
	case <-ctx.Done():
	}
}

// Run drives the session from StagedExecution to Summary. Cancellation is
// honored between steps and inside delays, never mid-write; a cancelled
// run leaves the session in StagedExecution with no error recorded. A
// store write failure records the error on the session and halts without
// the Summary transition, leaving completed writes in place.
func (p *Pipeline) Run(ctx context.Context, s *Session) error {
	defer close(p.events)

	if s.Phase() != PhaseStagedExecution {
		return fmt.Errorf("pipeline started in phase %q", s.Phase())
	}

	p.logger.Debug("stuffing run starting",
		"inflow", s.Inflow().Display(),
		"entries", len(s.Ledger().Entries()),
		"boosts", len(s.BoostEntries()),
		"account_mode", s.Account() != nil,
	)

	if err := p.sleeper.Sleep(ctx, leadInPause); err != nil {
		return err
	}

	if s.Account() != nil {
		if err := p.fillAccount(ctx, s); err != nil {
			return err
		}
	}

	if err := p.runSilver(ctx, s); err != nil {
		return err
	}

	if err := p.runGold(ctx, s); err != nil {
		return err
	}

	pairs, err := s.progressEntries()
	if err != nil {
		return p.abort(ctx, s, err)
	}

	if err := p.settle(ctx, s, pairs); err != nil {
		return err
	}

	impacts := RankImpacts(pairs)

	p.persistSettings(ctx, s)

	if err := p.sleeper.Sleep(ctx, trailingPause); err != nil {
		return err
	}

	s.complete(impacts)
	p.emitFinal(ctx, Event{Kind: EventDone, Stage: StageSettled})
	p.logger.Debug("stuffing run complete", "funded", s.FundedCount(), "impacts", len(impacts))
	return nil
}

// fillAccount simulates the external deposit landing in the account with
// equal incremental updates, then performs the one real deposit write.
func (p *Pipeline) fillAccount(ctx context.Context, s *Session) error {
	account := s.Account()
	s.setStage(StageAccountFill)
	p.emit(Event{Kind: EventStage, Stage: StageAccountFill})

	inflow := s.Inflow()
	step := accountFillDuration / accountFillSteps
	for i := 1; i <= accountFillSteps; i++ {
		fill := money.New(inflow.Amount()*int64(i)/accountFillSteps, inflow.Currency().Code)
		s.setAccountFill(fill)
		p.emit(Event{Kind: EventAccountFill, Stage: StageAccountFill, Index: i, Amount: fill})
		if err := p.sleeper.Sleep(ctx, step); err != nil {
			return err
		}
	}

	err := p.ledger.DepositToAccount(ctx, account.ID, inflow, "Payday deposit", p.now())
	if err != nil {
		return p.abort(ctx, s, fmt.Errorf("depositing to account %d: %w", account.ID, err))
	}

	return p.sleeper.Sleep(ctx, postFillPause)
}

// runSilver fulfills the base allocation in snapshot order. Each entry's
// progress jumps to its full amount in one step; the inter-item delay is
// the clamped share of the stage budget, with no delay after the last
// entry.
func (p *Pipeline) runSilver(ctx context.Context, s *Session) error {
	s.setStage(StageSilver)
	p.emit(Event{Kind: EventStage, Stage: StageSilver})

	entries := s.Ledger().Entries()
	delay := perItemDelay(silverBudget, len(entries), silverMinDelay, silverMaxDelay)

	for i, entry := range entries {
		s.setActive(entry.EnvelopeID, i)
		p.emit(Event{Kind: EventActive, Stage: StageSilver, EnvelopeID: entry.EnvelopeID, Index: i})

		progress := s.addProgress(entry.EnvelopeID, entry.Amount)
		p.emit(Event{Kind: EventProgress, Stage: StageSilver, EnvelopeID: entry.EnvelopeID, Index: i, Amount: progress})

		if i < len(entries)-1 {
			if err := p.sleeper.Sleep(ctx, delay); err != nil {
				return err
			}
		}
	}
	return nil
}

// runGold layers the boosts on top of existing progress. Unlike silver,
// every gold entry is followed by the per-item delay, the last one
// included; that trailing beat is part of the choreography.
func (p *Pipeline) runGold(ctx context.Context, s *Session) error {
	boosts := s.BoostEntries()
	if len(boosts) == 0 {
		return nil
	}

	if err := p.sleeper.Sleep(ctx, goldLeadPause); err != nil {
		return err
	}
	s.setStage(StageGold)
	p.emit(Event{Kind: EventStage, Stage: StageGold})

	delay := perItemDelay(goldBudget, len(boosts), goldMinDelay, goldMaxDelay)

	for i, entry := range boosts {
		s.setActive(entry.EnvelopeID, i)
		p.emit(Event{Kind: EventActive, Stage: StageGold, EnvelopeID: entry.EnvelopeID, Index: i})

		progress := s.addProgress(entry.EnvelopeID, entry.Amount)
		p.emit(Event{Kind: EventProgress, Stage: StageGold, EnvelopeID: entry.EnvelopeID, Index: i, Amount: progress})

		if err := p.sleeper.Sleep(ctx, delay); err != nil {
			return err
		}
	}
	return nil
}

// settle performs the real writes: one per envelope with accumulated
// progress, for the final accumulated amount. Account mode transfers from
// the account; direct mode deposits straight into the envelope.
func (p *Pipeline) settle(ctx context.Context, s *Session, pairs []DepositPair) error {
	s.setStage(StageSettled)
	p.emit(Event{Kind: EventStage, Stage: StageSettled})

	account := s.Account()
	now := p.now()

	for _, pair := range pairs {
		if !pair.Deposit.IsPositive() {
			continue
		}

		var err error
		if account != nil {
			err = p.ledger.TransferToEnvelope(ctx, account.ID, pair.Envelope.ID, pair.Deposit, "Payday stuffing", now)
		} else {
			err = p.ledger.DepositToEnvelope(ctx, pair.Envelope.ID, pair.Deposit, "Payday stuffing", now)
		}
		if err != nil {
			return p.abort(ctx, s, fmt.Errorf("funding envelope %d: %w", pair.Envelope.ID, err))
		}
	}
	return nil
}

// persistSettings merges the pay-day snapshot into the settings record.
// A settings failure is logged but does not fail the run; the money moved
// and the summary must still appear.
func (p *Pipeline) persistSettings(ctx context.Context, s *Session) {
	now := p.now()
	record := Settings{
		LastPayAmount: s.Inflow(),
		LastPayDate:   &now,
	}
	if account := s.Account(); account != nil {
		record.DefaultAccountID = &account.ID
	}

	if err := p.settings.SaveSettings(ctx, p.userID, record); err != nil {
		p.logger.Error("saving pay-day settings", "error", err)
	}
}

// abort records a store failure on the session and emits the terminal
// failure event. The session stays in StagedExecution; writes that
// already succeeded stand.
func (p *Pipeline) abort(ctx context.Context, s *Session, err error) error {
	s.fail(err)
	p.emitFinal(ctx, Event{Kind: EventFailed, Stage: s.Stage(), Err: err})
	p.logger.Error("stuffing run halted", "stage", s.Stage(), "error", err)
	return err
}
