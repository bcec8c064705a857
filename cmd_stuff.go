package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rshep3087/stuffer/engine"
)

// stuffCmd represents the stuff command: a full pay-day run without the
// TUI, for scripted use.
var stuffCmd = &cobra.Command{
	Use:   "stuff",
	Short: "Run a pay day non-interactively",
	Long: `Distribute a pay amount across envelopes without the TUI. Recurring
envelopes receive their monthly plan automatically; --to adds or overrides
individual envelopes.`,
	RunE: stuffRun,
}

func init() {
	stuffCmd.Flags().String("amount", "", "pay amount to distribute, e.g. 4200.00 (required)")
	stuffCmd.Flags().Int64("account", 0, "holding account id; omit for direct mode")
	stuffCmd.Flags().StringArray("to", nil, "extra allocation as <envelope-id>=<amount>, repeatable")
	_ = stuffCmd.MarkFlagRequired("amount")
}

// noDelaySleeper skips the staging choreography so scripted runs finish
// immediately.
type noDelaySleeper struct{}

func (noDelaySleeper) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func stuffRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	amountStr, _ := cmd.Flags().GetString("amount")
	inflow, err := engine.ParseAmount(amountStr, cfg.Currency)
	if err != nil {
		return fmt.Errorf("invalid pay amount: %w", err)
	}

	envelopes, err := budget.Envelopes(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch envelopes: %w", err)
	}

	var account *engine.Account
	if accountID, _ := cmd.Flags().GetInt64("account"); accountID != 0 {
		accounts, accErr := budget.Accounts(ctx)
		if accErr != nil {
			return fmt.Errorf("failed to fetch accounts: %w", accErr)
		}
		for _, a := range accounts {
			if a.ID == accountID {
				account = a
			}
		}
		if account == nil {
			return fmt.Errorf("account %d not found", accountID)
		}
	}

	session := engine.NewSession(cfg.Currency, envelopes, account)
	if err = session.BeginReview(inflow); err != nil {
		return err
	}

	extras, _ := cmd.Flags().GetStringArray("to")
	if err = applyExtraAllocations(session, extras); err != nil {
		return err
	}

	if err = session.BeginExecution(); err != nil {
		if errors.Is(err, engine.ErrNothingSelected) {
			return errors.New("nothing to stuff: no recurring envelopes and no --to allocations")
		}
		return err
	}

	pipeline := engine.NewPipeline(budget, budget, cfg.User,
		engine.WithSleeper(noDelaySleeper{}),
		engine.WithLogger(log.Default()),
	)

	if err = pipeline.Run(ctx, session); err != nil {
		return fmt.Errorf("stuffing halted: %w", err)
	}

	return printStuffResult(session)
}

// applyExtraAllocations parses the --to flags into the ledger. Every id
// must exist in the session snapshot; the ledger does not guard against
// unknown envelopes, so an unchecked id would be accepted, counted, and
// then never funded at settlement.
func applyExtraAllocations(session *engine.Session, extras []string) error {
	for _, extra := range extras {
		envelopeID, amount, err := parseAllocationFlag(extra)
		if err != nil {
			return err
		}
		if _, ok := session.Envelope(envelopeID); !ok {
			return fmt.Errorf("envelope %d not found", envelopeID)
		}
		session.Ledger().SetAmount(envelopeID, amount)
	}
	return nil
}

// parseAllocationFlag splits one --to value into its envelope id and
// amount.
func parseAllocationFlag(raw string) (int64, *money.Money, error) {
	idStr, amountStr, found := strings.Cut(raw, "=")
	if !found {
		return 0, nil, fmt.Errorf("invalid --to value %q, want <envelope-id>=<amount>", raw)
	}

	var envelopeID int64
	if _, err := fmt.Sscanf(idStr, "%d", &envelopeID); err != nil {
		return 0, nil, fmt.Errorf("invalid envelope id in --to value %q", raw)
	}

	amount, err := engine.ParseAmount(amountStr, cfg.Currency)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid amount in --to value %q: %w", raw, err)
	}
	return envelopeID, amount, nil
}

func printStuffResult(session *engine.Session) error {
	fmt.Printf("stuffed %d envelope(s) from %s\n\n", session.FundedCount(), session.Inflow().Display())

	t := createStyledTable("ENVELOPE", "AMOUNT")
	for _, entry := range session.Ledger().Entries() {
		funded := session.Progress(entry.EnvelopeID)
		if !funded.IsPositive() {
			continue
		}
		name := fmt.Sprintf("%d", entry.EnvelopeID)
		if e, ok := session.Envelope(entry.EnvelopeID); ok {
			name = e.Name
		}
		t.Row(name, funded.Display())
	}
	fmt.Println(t)

	if impacts := session.Impacts(); len(impacts) > 0 {
		fmt.Println("goals moved closer:")
		for _, impact := range impacts {
			fmt.Printf("  %s: %s sooner by %d day(s)\n", impact.Name, impact.Deposit.Display(), impact.DaysSaved)
		}
	}
	return nil
}
