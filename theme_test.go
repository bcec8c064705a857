package main

import (
	"testing"

	"github.com/carlmjohnson/be"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshep3087/stuffer/config"
)

func TestNewThemeDefaults(t *testing.T) {
	theme := newTheme(config.Colors{})

	be.Equal(t, lipgloss.Color("#ffd644"), theme.Primary)
	be.Equal(t, lipgloss.Color("#c0c0c0"), theme.Silver)
	be.Equal(t, lipgloss.Color("#d29b1d"), theme.Gold)
	be.Equal(t, lipgloss.Color("#ff0000"), theme.Error)
}

func TestNewThemeOverrides(t *testing.T) {
	theme := newTheme(config.Colors{
		Primary: "#123456",
		Gold:    "214",
	})

	be.Equal(t, lipgloss.Color("#123456"), theme.Primary)
	// ANSI codes pass through untouched
	be.Equal(t, lipgloss.Color("214"), theme.Gold)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		defaultColor string
		expected     lipgloss.Color
	}{
		{
			name:         "empty falls back to default",
			input:        "",
			defaultColor: "#ffd644",
			expected:     lipgloss.Color("#ffd644"),
		},
		{
			name:         "hex color",
			input:        "#abcdef",
			defaultColor: "#ffd644",
			expected:     lipgloss.Color("#abcdef"),
		},
		{
			name:         "ansi code",
			input:        "21",
			defaultColor: "#ffd644",
			expected:     lipgloss.Color("21"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, tt.expected, parseColor(tt.input, tt.defaultColor))
		})
	}
}
