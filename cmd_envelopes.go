package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/spf13/cobra"

	"github.com/rshep3087/stuffer/engine"
)

// envelopeRow is the CLI-facing envelope shape.
type envelopeRow struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Balance    string `json:"balance"`
	Goal       string `json:"goal,omitempty"`
	GoalDate   string `json:"goal_date,omitempty"`
	Velocity   string `json:"velocity,omitempty"`
	Recurring  bool   `json:"recurring"`
	BinderName string `json:"binder,omitempty"`
}

func envelopeToRow(e *engine.Envelope) envelopeRow {
	row := envelopeRow{
		ID:         e.ID,
		Name:       e.Name,
		Balance:    e.Balance.Display(),
		Recurring:  e.RecurringEnabled,
		BinderName: e.BinderName,
	}
	if e.GoalAmount != nil {
		row.Goal = e.GoalAmount.Display()
	}
	if e.GoalDate != nil {
		row.GoalDate = e.GoalDate.Format("2006-01-02")
	}
	if e.Velocity != nil {
		row.Velocity = e.Velocity.Display()
	}
	return row
}

// envelopesCmd represents the envelopes command.
var envelopesCmd = &cobra.Command{
	Use:   "envelopes",
	Short: "Envelope management commands",
	Long:  `Commands for listing and creating budget envelopes.`,
}

var envelopesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all envelopes",
	Long:  `List all envelopes with balances, goals, and recurring plans.`,
	RunE:  envelopesListRun,
}

var envelopesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create an envelope",
	Long:  `Create an envelope, optionally with a goal, a monthly recurring plan, and a binder.`,
	Args:  cobra.ExactArgs(1),
	RunE:  envelopesAddRun,
}

var envelopesSetGoalCmd = &cobra.Command{
	Use:   "set-goal <id>",
	Short: "Set or clear an envelope's goal",
	Long:  `Set an envelope's goal amount and optional target date. Without --goal the goal is cleared.`,
	Args:  cobra.ExactArgs(1),
	RunE:  envelopesSetGoalRun,
}

func init() {
	envelopesCmd.AddCommand(envelopesListCmd)
	envelopesCmd.AddCommand(envelopesAddCmd)
	envelopesCmd.AddCommand(envelopesSetGoalCmd)

	envelopesListCmd.Flags().StringP("output", "o", tableOutputFormat, "Output format: table or json")

	envelopesAddCmd.Flags().String("goal", "", "goal amount, e.g. 1200.00")
	envelopesAddCmd.Flags().String("goal-date", "", "goal date, e.g. 2027-06-01")
	envelopesAddCmd.Flags().String("monthly", "", "monthly recurring amount, e.g. 150.00")
	envelopesAddCmd.Flags().String("binder", "", "binder to group the envelope under")

	envelopesSetGoalCmd.Flags().String("goal", "", "goal amount, e.g. 1200.00")
	envelopesSetGoalCmd.Flags().String("goal-date", "", "goal date, e.g. 2027-06-01")
}

func envelopesListRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	outputFormat, err := validateOutputFormat(cmd)
	if err != nil {
		return err
	}

	envelopes, err := budget.Envelopes(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch envelopes: %w", err)
	}

	rows := make([]envelopeRow, 0, len(envelopes))
	for _, e := range envelopes {
		rows = append(rows, envelopeToRow(e))
	}

	// Sort by name for consistent output
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Name < rows[j].Name
	})

	switch outputFormat {
	case jsonOutputFormat:
		return outputJSON(rows)
	case tableOutputFormat:
		return outputEnvelopesTable(rows)
	default:
		return errors.New("unsupported output format")
	}
}

func outputEnvelopesTable(rows []envelopeRow) error {
	t := createStyledTable("ID", "NAME", "BALANCE", "GOAL", "GOAL DATE", "MONTHLY", "RECURRING", "BINDER")

	for _, row := range rows {
		recurring := "no"
		if row.Recurring {
			recurring = "yes"
		}
		t.Row(
			strconv.FormatInt(row.ID, 10),
			row.Name,
			row.Balance,
			orDash(row.Goal),
			orDash(row.GoalDate),
			orDash(row.Velocity),
			recurring,
			orDash(row.BinderName),
		)
	}

	fmt.Println(t)
	return nil
}

func envelopesAddRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	e := &engine.Envelope{Name: args[0]}

	if goal, _ := cmd.Flags().GetString("goal"); goal != "" {
		amount, err := engine.ParseAmount(goal, cfg.Currency)
		if err != nil {
			return fmt.Errorf("invalid goal amount: %w", err)
		}
		e.GoalAmount = amount
	}

	if goalDate, _ := cmd.Flags().GetString("goal-date"); goalDate != "" {
		d, err := time.Parse("2006-01-02", goalDate)
		if err != nil {
			return fmt.Errorf("invalid goal date: %w", err)
		}
		e.GoalDate = &d
	}

	if monthly, _ := cmd.Flags().GetString("monthly"); monthly != "" {
		amount, err := engine.ParseAmount(monthly, cfg.Currency)
		if err != nil {
			return fmt.Errorf("invalid monthly amount: %w", err)
		}
		e.Velocity = amount
		e.RecurringEnabled = true
	}

	if binder, _ := cmd.Flags().GetString("binder"); binder != "" {
		binderID, err := budget.CreateBinder(ctx, binder)
		if err != nil {
			return fmt.Errorf("failed to create binder: %w", err)
		}
		e.BinderID = &binderID
	}

	id, err := budget.CreateEnvelope(ctx, e)
	if err != nil {
		return fmt.Errorf("failed to create envelope: %w", err)
	}

	fmt.Printf("created envelope %q (id %d)\n", e.Name, id)
	return nil
}

func envelopesSetGoalRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	envelopeID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid envelope id %q", args[0])
	}

	var (
		goalAmount *money.Money
		goalDate   *time.Time
	)
	if goal, _ := cmd.Flags().GetString("goal"); goal != "" {
		goalAmount, err = engine.ParseAmount(goal, cfg.Currency)
		if err != nil {
			return fmt.Errorf("invalid goal amount: %w", err)
		}
	}
	if raw, _ := cmd.Flags().GetString("goal-date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("invalid goal date: %w", err)
		}
		goalDate = &d
	}

	if err := budget.SetEnvelopeGoal(ctx, envelopeID, goalAmount, goalDate); err != nil {
		return fmt.Errorf("failed to set goal: %w", err)
	}

	if goalAmount == nil {
		fmt.Printf("cleared goal on envelope %d\n", envelopeID)
		return nil
	}
	fmt.Printf("set goal %s on envelope %d\n", goalAmount.Display(), envelopeID)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
