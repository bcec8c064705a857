package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshep3087/stuffer/engine"
)

// accountRow is the CLI-facing account shape.
type accountRow struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Balance   string `json:"balance"`
	IsDefault bool   `json:"is_default"`
}

// accountsCmd represents the accounts command.
var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Account management commands",
	Long:  `Commands for listing and creating holding accounts.`,
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	Long:  `List all holding accounts with their balances.`,
	RunE:  accountsListRun,
}

var accountsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create an account",
	Long:  `Create a holding account money lands in before being stuffed into envelopes.`,
	Args:  cobra.ExactArgs(1),
	RunE:  accountsAddRun,
}

func init() {
	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsAddCmd)

	accountsListCmd.Flags().StringP("output", "o", tableOutputFormat, "Output format: table or json")

	accountsAddCmd.Flags().Bool("default", false, "preselect this account on pay day")
}

func accountsListRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	outputFormat, err := validateOutputFormat(cmd)
	if err != nil {
		return err
	}

	accounts, err := budget.Accounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}

	rows := make([]accountRow, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, accountRow{
			ID:        a.ID,
			Name:      a.Name,
			Balance:   a.Balance.Display(),
			IsDefault: a.IsDefault,
		})
	}

	// Sort by name for consistent output
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Name < rows[j].Name
	})

	switch outputFormat {
	case jsonOutputFormat:
		return outputJSON(rows)
	case tableOutputFormat:
		return outputAccountsTable(rows)
	default:
		return errors.New("unsupported output format")
	}
}

func outputAccountsTable(rows []accountRow) error {
	t := createStyledTable("ID", "NAME", "BALANCE", "DEFAULT")

	for _, row := range rows {
		isDefault := "no"
		if row.IsDefault {
			isDefault = "yes"
		}
		t.Row(
			strconv.FormatInt(row.ID, 10),
			row.Name,
			row.Balance,
			isDefault,
		)
	}

	fmt.Println(t)
	return nil
}

func accountsAddRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	isDefault, _ := cmd.Flags().GetBool("default")
	a := &engine.Account{Name: args[0], IsDefault: isDefault}

	id, err := budget.CreateAccount(ctx, a)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	fmt.Printf("created account %q (id %d)\n", a.Name, id)
	return nil
}
