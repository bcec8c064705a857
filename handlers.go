package main

import (
	"context"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/rshep3087/stuffer/engine"
	"github.com/rshep3087/stuffer/summary"
)

// Message types for store loads and pipeline progress.
type (
	getLedgerMsg struct {
		envelopes []*engine.Envelope
		accounts  []*engine.Account
	}

	getSettingsMsg struct {
		settings engine.Settings
	}

	getBillsMsg struct {
		bills []engine.Bill
	}

	storeErrorMsg struct {
		err error
	}

	pipelineEventMsg engine.Event

	pipelineDoneMsg struct {
		err error
	}
)

// getLedger fetches envelopes and accounts in parallel.
func (m model) getLedger() tea.Msg {
	ctx := context.Background()

	var errGroup errgroup.Group
	var envelopes []*engine.Envelope
	var accounts []*engine.Account

	errGroup.Go(func() error {
		es, err := m.budget.Envelopes(ctx)
		if err != nil {
			return err
		}
		envelopes = es
		return nil
	})

	errGroup.Go(func() error {
		as, err := m.budget.Accounts(ctx)
		if err != nil {
			return err
		}
		accounts = as
		return nil
	})

	if err := errGroup.Wait(); err != nil {
		log.Error("loading ledger", "error", err)
		return storeErrorMsg{err: err}
	}

	return getLedgerMsg{envelopes: envelopes, accounts: accounts}
}

func (m model) getSettings() tea.Msg {
	ctx := context.Background()

	record, err := m.budget.Settings(ctx, m.cfg.User)
	if err != nil {
		log.Error("loading settings", "error", err)
		return storeErrorMsg{err: err}
	}

	return getSettingsMsg{settings: record}
}

// getBills runs after settings arrive: the pay frequency decides how far
// out the upcoming-bills window reaches.
func (m model) getBills() tea.Msg {
	ctx := context.Background()

	due, err := m.budget.UpcomingBills(ctx, m.cyclePeriod.End())
	if err != nil {
		log.Error("loading bills", "error", err)
		return storeErrorMsg{err: err}
	}

	return getBillsMsg{bills: due}
}

// Message handlers.
func (m model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	h, v := m.styles.docStyle.GetFrameSize()

	takenHeight := 8
	m.reviewList.SetSize(msg.Width-h, msg.Height-v-takenHeight)
	m.billsModel.SetSize(msg.Width-h, msg.Height-v-3)
	m.summaryModel.SetSize(msg.Width-h, msg.Height-v-3)
	m.configModel.SetSize(msg.Width-h, msg.Height-v-3)
	m.help.Width = msg.Width

	return m, nil
}

func (m model) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	if m.sessionState != loading {
		return m, nil
	}

	var cmd tea.Cmd
	m.loadingSpinner, cmd = m.loadingSpinner.Update(msg)
	return m, cmd
}

func (m model) handleGetLedger(msg getLedgerMsg) (tea.Model, tea.Cmd) {
	m.envelopes = msg.envelopes
	m.accounts = msg.accounts
	m.loadingState.set("ledger")
	return m.finishLoading()
}

func (m model) handleGetSettings(msg getSettingsMsg) (tea.Model, tea.Cmd) {
	m.settings = msg.settings
	m.cyclePeriod = payCycle(time.Now(), msg.settings.PayFrequency)
	m.loadingState.set("settings")
	// bills depend on the cycle window
	return m, m.getBills
}

func (m model) handleGetBills(msg getBillsMsg) (tea.Model, tea.Cmd) {
	m.billsDue = msg.bills
	m.loadingState.set("bills")
	return m.finishLoading()
}

// finishLoading transitions out of the loading state once every snapshot
// has arrived, starting the entry form.
func (m model) finishLoading() (tea.Model, tea.Cmd) {
	m.sessionState = m.checkIfLoading()
	if m.sessionState == amountEntry {
		return m, tea.Batch(tea.WindowSize(), m.entryForm.Init())
	}
	return m, tea.WindowSize()
}

// startPipeline hands the session to the stuffing pipeline. The session
// belongs to the pipeline goroutine until pipelineDoneMsg arrives; the
// view renders from exec, which is fed purely by events.
func (m *model) startPipeline() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.pipelineCancel = cancel

	m.pipeline = engine.NewPipeline(m.budget, m.budget, m.cfg.User, engine.WithLogger(log.Default()))
	m.pipelineEvents = m.pipeline.Events()
	m.exec = newExecState(m.session)

	pipeline, session := m.pipeline, m.session
	run := func() tea.Msg {
		return pipelineDoneMsg{err: pipeline.Run(ctx, session)}
	}

	return tea.Batch(run, waitForEvent(m.pipelineEvents))
}

// waitForEvent relays one pipeline event into the message loop. The
// update handler re-issues it until the channel closes.
func waitForEvent(events <-chan engine.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return nil
		}
		return pipelineEventMsg(e)
	}
}

func (m model) handlePipelineEvent(msg pipelineEventMsg) (tea.Model, tea.Cmd) {
	m.exec.apply(engine.Event(msg))
	return m, waitForEvent(m.pipelineEvents)
}

// summaryResults captures the finished run for the recap screen. Safe to
// call only after the pipeline is done and session ownership is back.
func (m model) summaryResults() summary.Results {
	ledger := m.session.Ledger()

	allocated := money.New(0, m.session.Currency())
	deposits := make([]summary.Deposit, 0, len(m.exec.order))
	for _, id := range m.exec.order {
		funded := m.session.Progress(id)
		if !funded.IsPositive() {
			continue
		}
		allocated, _ = allocated.Add(funded)

		e, ok := m.session.Envelope(id)
		if !ok {
			continue
		}
		deposits = append(deposits, summary.Deposit{
			Envelope: e.Name,
			Binder:   e.BinderName,
			Amount:   funded,
		})
	}

	return summary.Results{
		Inflow:      ledger.ExternalInflow(),
		Allocated:   allocated,
		Unallocated: ledger.UnallocatedFuel(),
		FundedCount: m.session.FundedCount(),
		Deposits:    deposits,
		Impacts:     m.session.Impacts(),
	}
}

func (m model) handlePipelineDone(msg pipelineDoneMsg) (tea.Model, tea.Cmd) {
	m.pipelineCancel = nil

	switch {
	case msg.err == nil:
		m.summaryModel.SetResults(m.summaryResults())
		m.sessionState = showSummary
		return m, nil

	case m.session.Err() != nil:
		// store failure: stay on the stuffing screen with the error
		m.statusMsg = m.session.Err().Error()
		return m, nil

	default:
		// cancelled: abandon the run cleanly
		m.session.Reset()
		m.loadingState.unsetAll()
		m.sessionState = loading
		return m, tea.Batch(m.getLedger, m.getSettings, m.loadingSpinner.Tick)
	}
}
