// Package config holds the application configuration structure and the
// read-only config view.
package config

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Config represents the application configuration structure.
type Config struct {
	// Debug enables debug logging
	Debug bool `toml:"debug"`
	// DBPath is the path to the budget database
	DBPath string `toml:"db_path"`
	// Currency is the ISO currency code used for every amount
	Currency string `toml:"currency"`
	// User selects the settings record for pay-day snapshots
	User string `toml:"user"`
	// AnthropicAPIKey enables the AI allocation advisor when set
	AnthropicAPIKey string `toml:"anthropic_api_key"`
	// Colors overrides the default theme
	Colors Colors `toml:"colors"`
}

// Colors holds the configurable theme colors. Empty values fall back to
// the built-in defaults.
type Colors struct {
	Primary       string `toml:"primary"`
	Error         string `toml:"error"`
	Success       string `toml:"success"`
	Warning       string `toml:"warning"`
	Muted         string `toml:"muted"`
	Silver        string `toml:"silver"`
	Gold          string `toml:"gold"`
	Border        string `toml:"border"`
	Text          string `toml:"text"`
	SecondaryText string `toml:"secondary_text"`
}

// Model represents the config view model.
type Model struct {
	configTable table.Model
}

// New creates a new config view model.
func New() Model {
	configTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "Setting", Width: 30},
			{Title: "Value", Width: 40},
			{Title: "Description", Width: 50},
		}),
	)

	tableStyle := table.DefaultStyles()
	tableStyle.Selected = tableStyle.Selected.
		Foreground(lipgloss.Color("#ffd644"))

	configTable.SetStyles(tableStyle)

	return Model{configTable: configTable}
}

// SetFocus sets the focus state of the config table.
func (m *Model) SetFocus(focus bool) {
	if focus {
		m.configTable.Focus()
	} else {
		m.configTable.Blur()
	}
}

// SetSize sets the size of the config table.
func (m *Model) SetSize(width, height int) {
	m.configTable.SetHeight(height)
	m.configTable.SetWidth(width)
}

func maskSensitiveValue(value string) string {
	if value == "" {
		return "(not set)"
	}

	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}

	return value[:4] + strings.Repeat("*", len(value)-4)
}

// SetConfig sets the configuration data for the view.
func (m *Model) SetConfig(config Config) {
	rows := []table.Row{
		{
			"Debug",
			strconv.FormatBool(config.Debug),
			"Enable debug logging",
		},
		{
			"Database",
			config.DBPath,
			"Path to the budget database",
		},
		{
			"Currency",
			config.Currency,
			"ISO currency code for all amounts",
		},
		{
			"User",
			config.User,
			"Settings record for pay-day snapshots",
		},
		{
			"Anthropic API Key",
			maskSensitiveValue(config.AnthropicAPIKey),
			"Enables the AI allocation advisor",
		},
	}

	m.configTable.SetRows(rows)
}

// Init initializes the config view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles updates to the config view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.configTable, cmd = m.configTable.Update(msg)
	return m, cmd
}

// View renders the config view.
func (m Model) View() string {
	return m.configTable.View()
}
