package main

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"

	"github.com/rshep3087/stuffer/engine"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// always check for quit key first
	if msg, ok := msg.(tea.KeyMsg); ok {
		if model, cmd := handleKeyPress(msg, &m); cmd != nil {
			log.Debug("key press handled, cmd returned")
			return model, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)

	case getLedgerMsg:
		return m.handleGetLedger(msg)

	case getSettingsMsg:
		return m.handleGetSettings(msg)

	case getBillsMsg:
		return m.handleGetBills(msg)

	case storeErrorMsg:
		m.sessionState = errorState
		m.errorMsg = msg.err.Error()
		return m, nil

	case pipelineEventMsg:
		return m.handlePipelineEvent(msg)

	case pipelineDoneMsg:
		return m.handlePipelineDone(msg)

	case advisorMsg:
		return m.handleAdvice(msg)
	}

	var cmd tea.Cmd
	switch m.sessionState {
	case amountEntry:
		return updateAmountEntry(msg, m)

	case strategyReview:
		return updateStrategyReview(msg, m)

	case showSummary:
		m.summaryModel, cmd = m.summaryModel.Update(msg)
		return m, cmd

	case billsView:
		m.billsModel, cmd = m.billsModel.Update(msg)
		return m, cmd

	case configView:
		m.configModel, cmd = m.configModel.Update(msg)
		return m, cmd

	case loading:
		m.loadingSpinner, cmd = m.loadingSpinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func updateAmountEntry(msg tea.Msg, m model) (tea.Model, tea.Cmd) {
	form, formCmd := m.entryForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.entryForm = f
	} else {
		log.Debug("entry form did not return a form, returning nil")
		return m, nil
	}

	if m.entryForm.State != huh.StateCompleted {
		return m, formCmd
	}

	amount, account, err := entryFormResult(m.entryForm, m.cfg.Currency, m.accounts)
	if err != nil {
		m.statusMsg = err.Error()
		m.entryForm = newEntryForm(m.cfg.Currency, m.accounts, m.settings)
		return m, m.entryForm.Init()
	}

	// rebuild the session with the chosen landing account
	m.session = engine.NewSession(m.cfg.Currency, m.envelopes, account)
	if err := m.session.BeginReview(amount); err != nil {
		m.statusMsg = err.Error()
		m.entryForm = newEntryForm(m.cfg.Currency, m.accounts, m.settings)
		return m, m.entryForm.Init()
	}

	m.statusMsg = ""
	m.reviewList = m.newReviewList()
	m.previousSessionState = m.sessionState
	m.sessionState = strategyReview
	return m, tea.WindowSize()
}

func updateStrategyReview(msg tea.Msg, m model) (tea.Model, tea.Cmd) {
	if m.editForm != nil {
		return updateEditForm(msg, m)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.reviewList.FilterState() != list.Filtering {
		if model, cmd, handled := handleReviewKeys(keyMsg, &m); handled {
			return model, cmd
		}
	}

	var cmd tea.Cmd
	m.reviewList, cmd = m.reviewList.Update(msg)
	return m, cmd
}

func handleReviewKeys(msg tea.KeyMsg, m *model) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.reviewKeys.toggle):
		if item, ok := m.reviewList.SelectedItem().(envelopeItem); ok {
			m.session.Ledger().Toggle(item.e.ID, item.suggested())
			m.refreshReviewItems()
		}
		return m, nil, true

	case key.Matches(msg, m.reviewKeys.edit):
		if e, ok := m.selectedEnvelope(); ok {
			m.editTarget = e.ID
			m.editBoost = false
			m.editForm = newEditForm(e, false, m.cfg.Currency)
			return m, m.editForm.Init(), true
		}

	case key.Matches(msg, m.reviewKeys.boost):
		if e, ok := m.selectedEnvelope(); ok {
			m.editTarget = e.ID
			m.editBoost = true
			m.editForm = newEditForm(e, true, m.cfg.Currency)
			return m, m.editForm.Init(), true
		}

	case key.Matches(msg, m.reviewKeys.binder):
		if e, ok := m.selectedEnvelope(); ok {
			if e.BinderID == nil {
				m.statusMsg = fmt.Sprintf("%s is not in a binder", e.Name)
				return m, nil, true
			}
			m.session.Ledger().AddBinder(*e.BinderID)
			m.refreshReviewItems()
		}
		return m, nil, true

	case key.Matches(msg, m.reviewKeys.advisor):
		if !m.advisor.IsEnabled() {
			m.statusMsg = "advisor disabled: set an anthropic api key in config"
			return m, nil, true
		}
		m.statusMsg = "asking the advisor..."
		return m, m.requestAdvice(), true

	case key.Matches(msg, m.reviewKeys.execute):
		if err := m.session.BeginExecution(); err != nil {
			m.statusMsg = err.Error()
			return m, nil, true
		}
		m.statusMsg = ""
		m.previousSessionState = m.sessionState
		m.sessionState = stuffing
		return m, m.startPipeline(), true
	}

	return m, nil, false
}

func updateEditForm(msg tea.Msg, m model) (tea.Model, tea.Cmd) {
	form, formCmd := m.editForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.editForm = f
	}

	if m.editForm.State != huh.StateCompleted {
		return m, formCmd
	}

	raw := strings.TrimSpace(m.editForm.GetString("amount"))
	amount := money.New(0, m.cfg.Currency)
	if raw != "" {
		parsed, err := engine.ParseAmount(raw, m.cfg.Currency)
		if err != nil {
			m.statusMsg = err.Error()
			m.editForm = nil
			return m, nil
		}
		amount = parsed
	}

	if m.editBoost {
		m.session.SetBoost(m.editTarget, amount)
	} else {
		m.session.Ledger().SetAmount(m.editTarget, amount)
	}

	m.statusMsg = ""
	m.editForm = nil
	m.refreshReviewItems()
	return m, nil
}
