package main

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
)

type keyMap struct {
	bills     key.Binding
	config    key.Binding
	startOver key.Binding
	escape    key.Binding
	fullHelp  key.Binding
	quit      key.Binding
}

func (km keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		km.bills,
		km.startOver,
		km.quit,
		km.fullHelp,
	}
}

func (km keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{
			km.bills,
			km.config,
			km.startOver,
		},
		{
			km.escape,
			km.quit,
			km.fullHelp,
		},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		bills: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "upcoming bills"),
		),
		config: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "config"),
		),
		startOver: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "start over"),
		),
		escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		fullHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// reviewKeyMap is the extra bindings active in strategy review.
type reviewKeyMap struct {
	toggle  key.Binding
	edit    key.Binding
	boost   key.Binding
	binder  key.Binding
	advisor key.Binding
	execute key.Binding
}

func newReviewKeyMap() *reviewKeyMap {
	return &reviewKeyMap{
		toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle envelope"),
		),
		edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit amount"),
		),
		boost: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "boost (gold stage)"),
		),
		binder: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "add whole binder"),
		),
		advisor: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "suggest allocations"),
		),
		execute: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "stuff envelopes"),
		),
	}
}

func handleKeyPress(msg tea.KeyMsg, m *model) (tea.Model, tea.Cmd) {
	log.Debug("key pressed", "key", msg.String())

	// Handle special keys first
	if model, cmd := handleSpecialKeys(msg, m); cmd != nil {
		return model, cmd
	}

	// Check if input is blocked by active forms
	if isInputBlocked(m) {
		return m, nil
	}

	// Handle session state changes
	if model, cmd := handleSessionStateKeys(msg, m); cmd != nil {
		return model, cmd
	}

	return m, nil
}

func handleSpecialKeys(msg tea.KeyMsg, m *model) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		if m.pipelineCancel != nil {
			m.pipelineCancel()
		}
		return m, tea.Quit
	}

	if key.Matches(msg, m.keys.escape) {
		return handleEscape(msg, m)
	}

	return m, nil
}

func isInputBlocked(m *model) bool {
	if m.sessionState == loading {
		return true
	}

	if m.sessionState == amountEntry && m.entryForm != nil && m.entryForm.State == huh.StateNormal {
		return true
	}

	if m.editForm != nil && m.editForm.State == huh.StateNormal {
		return true
	}

	if m.sessionState == strategyReview && m.reviewList.FilterState() == list.Filtering {
		return true
	}

	return false
}

func handleSessionStateKeys(msg tea.KeyMsg, m *model) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.bills):
		if m.sessionState != billsView && m.sessionState != stuffing {
			m.previousSessionState = m.sessionState
			m.billsModel.SetFocus(true)
			m.sessionState = billsView
			return m, nil
		}

	case key.Matches(msg, m.keys.config):
		if m.sessionState != configView && m.sessionState != stuffing {
			m.previousSessionState = m.sessionState
			m.configModel.SetFocus(true)
			m.sessionState = configView
			return m, nil
		}

	case key.Matches(msg, m.keys.startOver):
		return startOver(m)

	case key.Matches(msg, m.keys.fullHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

// startOver abandons the current run and reloads fresh balances. During
// stuffing it only cancels the pipeline; the done handler performs the
// reset once the run goroutine has stopped writing.
func startOver(m *model) (tea.Model, tea.Cmd) {
	if m.sessionState == stuffing && m.pipelineCancel != nil {
		m.pipelineCancel()
		return m, nil
	}

	m.session.Reset()
	m.statusMsg = ""
	m.editForm = nil
	m.loadingState.unsetAll()
	m.sessionState = loading
	return m, tea.Batch(m.getLedger, m.getSettings, m.loadingSpinner.Tick)
}

// handleEscape backs out of overlays and edit forms.
func handleEscape(msg tea.KeyMsg, m *model) (tea.Model, tea.Cmd) {
	if m.sessionState == billsView {
		m.billsModel.SetFocus(false)
		m.sessionState = m.previousSessionState
		return m, nil
	}

	if m.sessionState == configView {
		m.configModel.SetFocus(false)
		m.sessionState = m.previousSessionState
		return m, nil
	}

	if m.editForm != nil {
		m.editForm.State = huh.StateAborted
		m.editForm = nil
		return m, nil
	}

	// handle if user is filtering envelopes and presses escape
	if m.sessionState == strategyReview && m.reviewList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.reviewList, cmd = m.reviewList.Update(msg)
		return m, cmd
	}

	return m, nil
}
