package main

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshep3087/stuffer/engine"
)

// billRow is the CLI-facing bill shape.
type billRow struct {
	Name       string `json:"name"`
	Amount     string `json:"amount"`
	DueDate    string `json:"due_date"`
	EnvelopeID *int64 `json:"envelope_id,omitempty"`
}

// billsCmd represents the bills command.
var billsCmd = &cobra.Command{
	Use:   "bills",
	Short: "Upcoming bill commands",
	Long:  `Commands for listing and recording upcoming bills.`,
}

var billsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List upcoming bills",
	Long:  `List bills due within the given number of days.`,
	RunE:  billsListRun,
}

var billsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Record an upcoming bill",
	Long:  `Record a bill so thin allocations can be flagged before execution.`,
	Args:  cobra.ExactArgs(1),
	RunE:  billsAddRun,
}

func init() {
	billsCmd.AddCommand(billsListCmd)
	billsCmd.AddCommand(billsAddCmd)

	billsListCmd.Flags().StringP("output", "o", tableOutputFormat, "Output format: table or json")
	billsListCmd.Flags().Int("days", 30, "how many days ahead to look")

	billsAddCmd.Flags().String("amount", "", "bill amount, e.g. 95.00 (required)")
	billsAddCmd.Flags().String("due", "", "due date, e.g. 2026-09-01 (required)")
	billsAddCmd.Flags().Int64("envelope", 0, "envelope the bill draws from")
	_ = billsAddCmd.MarkFlagRequired("amount")
	_ = billsAddCmd.MarkFlagRequired("due")
}

func billsListRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	outputFormat, err := validateOutputFormat(cmd)
	if err != nil {
		return err
	}

	days, _ := cmd.Flags().GetInt("days")
	until := time.Now().AddDate(0, 0, days)

	bills, err := budget.UpcomingBills(ctx, until)
	if err != nil {
		return fmt.Errorf("failed to fetch bills: %w", err)
	}

	rows := make([]billRow, 0, len(bills))
	for _, b := range bills {
		rows = append(rows, billRow{
			Name:       b.Name,
			Amount:     b.Amount.Display(),
			DueDate:    b.DueDate.Format("2006-01-02"),
			EnvelopeID: b.EnvelopeID,
		})
	}

	// Sort by due date, soonest first
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].DueDate < rows[j].DueDate
	})

	switch outputFormat {
	case jsonOutputFormat:
		return outputJSON(rows)
	case tableOutputFormat:
		return outputBillsTable(rows)
	default:
		return errors.New("unsupported output format")
	}
}

func outputBillsTable(rows []billRow) error {
	t := createStyledTable("NAME", "AMOUNT", "DUE", "ENVELOPE")

	for _, row := range rows {
		envelope := "-"
		if row.EnvelopeID != nil {
			envelope = fmt.Sprintf("%d", *row.EnvelopeID)
		}
		t.Row(row.Name, row.Amount, row.DueDate, envelope)
	}

	fmt.Println(t)
	return nil
}

func billsAddRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	amountStr, _ := cmd.Flags().GetString("amount")
	amount, err := engine.ParseAmount(amountStr, cfg.Currency)
	if err != nil {
		return fmt.Errorf("invalid bill amount: %w", err)
	}

	dueStr, _ := cmd.Flags().GetString("due")
	due, err := time.Parse("2006-01-02", dueStr)
	if err != nil {
		return fmt.Errorf("invalid due date: %w", err)
	}

	b := &engine.Bill{Name: args[0], Amount: amount, DueDate: due}
	if envelopeID, _ := cmd.Flags().GetInt64("envelope"); envelopeID != 0 {
		b.EnvelopeID = &envelopeID
	}

	id, err := budget.CreateBill(ctx, b)
	if err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}

	fmt.Printf("created bill %q (id %d)\n", b.Name, id)
	return nil
}
