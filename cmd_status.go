package main

import (
	"errors"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/spf13/cobra"

	"github.com/rshep3087/stuffer/store"
)

// statusReport is the CLI-facing budget summary.
type statusReport struct {
	EnvelopeTotal string `json:"envelope_total"`
	AccountTotal  string `json:"account_total"`
	Envelopes     int    `json:"envelopes"`
	Accounts      int    `json:"accounts"`
	Recent        []struct {
		Kind        string `json:"kind"`
		Amount      string `json:"amount"`
		Description string `json:"description"`
		Date        string `json:"date"`
	} `json:"recent"`
}

// statusCmd represents the status command.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show budget totals and recent activity",
	Long:  `Show total money across envelopes and accounts plus the most recent transactions.`,
	RunE:  statusRun,
}

func init() {
	statusCmd.Flags().StringP("output", "o", tableOutputFormat, "Output format: table or json")
}

func statusRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	outputFormat, err := validateOutputFormat(cmd)
	if err != nil {
		return err
	}

	envelopes, err := budget.Envelopes(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch envelopes: %w", err)
	}
	accounts, err := budget.Accounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	history, err := budget.History(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	envelopeTotal := money.New(0, cfg.Currency)
	for _, e := range envelopes {
		envelopeTotal, _ = envelopeTotal.Add(e.Balance)
	}
	accountTotal := money.New(0, cfg.Currency)
	for _, a := range accounts {
		accountTotal, _ = accountTotal.Add(a.Balance)
	}

	report := statusReport{
		EnvelopeTotal: envelopeTotal.Display(),
		AccountTotal:  accountTotal.Display(),
		Envelopes:     len(envelopes),
		Accounts:      len(accounts),
	}
	for _, tr := range history {
		report.Recent = append(report.Recent, struct {
			Kind        string `json:"kind"`
			Amount      string `json:"amount"`
			Description string `json:"description"`
			Date        string `json:"date"`
		}{
			Kind:        tr.Kind,
			Amount:      tr.Amount.Display(),
			Description: tr.Description,
			Date:        tr.CreatedAt.Format("2006-01-02"),
		})
	}

	switch outputFormat {
	case jsonOutputFormat:
		return outputJSON(report)
	case tableOutputFormat:
		return outputStatus(report, history)
	default:
		return errors.New("unsupported output format")
	}
}

func outputStatus(report statusReport, history []store.Transaction) error {
	fmt.Printf("envelopes: %d totaling %s\n", report.Envelopes, report.EnvelopeTotal)
	fmt.Printf("accounts:  %d totaling %s\n\n", report.Accounts, report.AccountTotal)

	if len(history) == 0 {
		fmt.Println("no transactions yet")
		return nil
	}

	t := createStyledTable("DATE", "KIND", "AMOUNT", "DESCRIPTION")
	for _, tr := range history {
		t.Row(tr.CreatedAt.Format("2006-01-02"), tr.Kind, tr.Amount.Display(), tr.Description)
	}
	fmt.Println(t)
	return nil
}
