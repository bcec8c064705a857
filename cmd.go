package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rshep3087/stuffer/config"
	"github.com/rshep3087/stuffer/store"
)

const (
	jsonOutputFormat  = "json"
	tableOutputFormat = "table"
)

// Global variables for configuration.
var (
	cfgFile  string
	debug    bool
	dbPath   string
	currency string
	userName string

	cfg    config.Config
	budget *store.Store
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "stuffer",
	Short: "A terminal UI and CLI for envelope budgeting",
	Long:  `A pay-day allocation tool: stuff a lump sum into budget envelopes, watch goals move closer, and keep bills covered.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		loaded, path, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = *loaded

		// Setup logging
		log.SetLevel(log.InfoLevel)
		if cfg.Debug {
			log.SetLevel(log.DebugLevel)
		}
		if path != "" {
			log.Debug("using config file", "file", path)
		}

		// The database lives under the user config dir by default; make
		// sure the directory exists before sqlite tries to create the file.
		if mkErr := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); mkErr != nil {
			return fmt.Errorf("failed to create database directory: %w", mkErr)
		}

		budget, err = store.Open(cfg.DBPath, cfg.Currency)
		if err != nil {
			return fmt.Errorf("failed to open budget database: %w", err)
		}

		return nil
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if budget == nil {
			return nil
		}
		return budget.Close()
	},
	RunE: func(c *cobra.Command, _ []string) error {
		// Start TUI when no subcommands are provided
		return rootAction(c.Context(), cfg, budget)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.stuffer.toml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the budget database")
	rootCmd.PersistentFlags().StringVar(&currency, "currency", "", "ISO currency code for new amounts")
	rootCmd.PersistentFlags().StringVar(&userName, "user", "", "settings profile to use")

	// Bind flags to viper
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("db_path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("currency", rootCmd.PersistentFlags().Lookup("currency"))
	_ = viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))

	// Bind environment variables
	_ = viper.BindEnv("db_path", "STUFFER_DB")
	_ = viper.BindEnv("anthropic_api_key", "ANTHROPIC_API_KEY")
	viper.AutomaticEnv()

	// Add subcommands
	rootCmd.AddCommand(envelopesCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(billsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(stuffCmd)
}

// loadConfig resolves the effective configuration: the TOML config file
// first, then viper-bound flags and environment variables on top.
func loadConfig() (*config.Config, string, error) {
	var (
		loaded *config.Config
		path   string
		err    error
	)

	if cfgFile != "" {
		loaded, err = loadConfigFromFile(cfgFile)
		path = cfgFile
	} else {
		loaded, path, err = loadConfigFile()
	}
	if err != nil {
		return nil, path, err
	}

	if viper.GetBool("debug") {
		loaded.Debug = true
	}
	if v := viper.GetString("db_path"); v != "" {
		loaded.DBPath = v
	}
	if v := viper.GetString("currency"); v != "" {
		loaded.Currency = v
	}
	if v := viper.GetString("user"); v != "" {
		loaded.User = v
	}
	if loaded.AnthropicAPIKey == "" {
		loaded.AnthropicAPIKey = viper.GetString("anthropic_api_key")
	}

	applyDefaults(loaded)
	return loaded, path, nil
}

// validateOutputFormat reads the --output flag and rejects unknown values.
func validateOutputFormat(cmd *cobra.Command) (string, error) {
	outputFormat, _ := cmd.Flags().GetString("output")
	if outputFormat != tableOutputFormat && outputFormat != jsonOutputFormat {
		return "", fmt.Errorf("invalid output format: %s (must be %s or %s)",
			outputFormat, tableOutputFormat, jsonOutputFormat)
	}
	return outputFormat, nil
}

// Utility functions for output formatting.
func outputJSON(data any) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Println(string(jsonData))
	return nil
}

func createStyledTable(headers ...string) *table.Table {
	var (
		purple    = lipgloss.Color("99")
		gray      = lipgloss.Color("245")
		lightGray = lipgloss.Color("241")

		headerStyle  = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
		cellStyle    = lipgloss.NewStyle().Padding(0, 1)
		oddRowStyle  = cellStyle.Foreground(gray)
		evenRowStyle = cellStyle.Foreground(lightGray)
	)

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(purple)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return evenRowStyle
			default:
				return oddRowStyle
			}
		}).
		Headers(headers...)
}
