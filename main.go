package main

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshep3087/stuffer/bills"
	"github.com/rshep3087/stuffer/config"
	"github.com/rshep3087/stuffer/engine"
	"github.com/rshep3087/stuffer/store"
	"github.com/rshep3087/stuffer/summary"
)

func main() {
	Execute()
}

type model struct {
	// loadingSpinner is a spinner model for the initial loading state
	loadingSpinner spinner.Model

	keys       keyMap
	reviewKeys *reviewKeyMap
	help       help.Model
	styles     styles
	theme      Theme

	cfg    config.Config
	budget *store.Store

	// sessionState is the current state of the session
	sessionState sessionState
	// previousSessionState remembers where to return from overlays
	previousSessionState sessionState
	loadingState         loadingState
	errorMsg             string
	// statusMsg carries validation and advisor messages into the footer
	statusMsg string

	// data snapshots loaded from the store
	envelopes   []*engine.Envelope
	accounts    []*engine.Account
	billsDue    []engine.Bill
	settings    engine.Settings
	cyclePeriod Period

	// session is the engine aggregate for the current pay-day run
	session *engine.Session

	pipeline       *engine.Pipeline
	pipelineEvents <-chan engine.Event
	pipelineCancel context.CancelFunc

	entryForm *huh.Form
	// reviewList is a bubbletea list model of envelopes to allocate
	reviewList list.Model
	editForm   *huh.Form
	editTarget int64
	editBoost  bool

	// exec mirrors pipeline events for display while the session is
	// owned by the running pipeline
	exec execState

	advisor *Advisor

	billsModel   bills.Model
	summaryModel summary.Model
	configModel  config.Model

	width, height int
}

func initialModel(cfg config.Config, budget *store.Store) model {
	theme := newTheme(cfg.Colors)

	loadingSpinner := spinner.New()
	loadingSpinner.Spinner = spinner.Dot
	loadingSpinner.Style = lipgloss.NewStyle().Foreground(theme.Primary)

	configModel := config.New()
	configModel.SetConfig(cfg)

	var advisor *Advisor
	if cfg.AnthropicAPIKey != "" {
		advisor = NewAdvisor(NewAnthropicProvider(cfg.AnthropicAPIKey))
	} else {
		advisor = NewAdvisor(nil)
	}

	return model{
		loadingSpinner: loadingSpinner,
		keys:           defaultKeyMap(),
		reviewKeys:     newReviewKeyMap(),
		help:           createHelpModel(theme),
		styles:         createStyles(theme),
		theme:          theme,
		cfg:            cfg,
		budget:         budget,
		sessionState:   loading,
		loadingState:   newLoadingState("ledger", "settings", "bills"),
		advisor:        advisor,
		billsModel:     bills.New(bills.Colors{Primary: string(theme.Primary)}),
		summaryModel:   summary.New(summary.WithCurrency(cfg.Currency)),
		configModel:    configModel,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.getLedger,
		m.getSettings,
		m.loadingSpinner.Tick,
	)
}

// checkIfLoading builds the session and entry form once every snapshot
// has arrived, and reports the state to show meanwhile.
func (m *model) checkIfLoading() sessionState {
	if loaded, _ := m.loadingState.allLoaded(); !loaded {
		return loading
	}

	m.session = engine.NewSession(m.cfg.Currency, m.envelopes, nil)
	m.entryForm = newEntryForm(m.cfg.Currency, m.accounts, m.settings)
	m.billsModel.SetEnvelopes(m.envelopes)
	m.billsModel.SetBills(m.billsDue)
	return amountEntry
}

// rootAction starts the TUI.
func rootAction(ctx context.Context, cfg config.Config, budget *store.Store) error {
	p := tea.NewProgram(
		initialModel(cfg, budget),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
