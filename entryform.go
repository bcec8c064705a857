package main

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/huh"

	"github.com/rshep3087/stuffer/engine"
)

// directMode is the account option for money that goes straight into
// envelopes without landing in an account first.
const directMode int64 = 0

// newEntryForm builds the amount-entry form. When accounts exist the
// user also picks where the money lands; the default account (or the one
// remembered from the last pay day) is preselected.
func newEntryForm(currency string, accounts []*engine.Account, settings engine.Settings) *huh.Form {
	placeholder := "Enter amount (e.g., 4200.00)..."
	if settings.LastPayAmount != nil {
		placeholder = fmt.Sprintf("Last pay day was %s...", settings.LastPayAmount.Display())
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Pay amount").
			Description("The lump sum to distribute across envelopes").
			Key("amount").
			Placeholder(placeholder).
			Validate(func(s string) error {
				amount, err := engine.ParseAmount(s, currency)
				if err != nil {
					return fmt.Errorf("amount must be a valid number")
				}
				if !amount.IsPositive() {
					return fmt.Errorf("enter a valid amount")
				}
				return nil
			}),
	}

	if len(accounts) > 0 {
		selected := directMode
		for _, a := range accounts {
			if a.IsDefault {
				selected = a.ID
			}
		}
		if settings.DefaultAccountID != nil {
			selected = *settings.DefaultAccountID
		}

		accountOpts := make([]huh.Option[int64], 0, len(accounts)+1)
		for _, a := range accounts {
			accountOpts = append(accountOpts, huh.NewOption(fmt.Sprintf("%s (%s)", a.Name, a.Balance.Display()), a.ID))
		}
		accountOpts = append(accountOpts, huh.NewOption("Direct to envelopes", directMode))

		fields = append(fields, huh.NewSelect[int64]().
			Title("Deposit into").
			Key("account").
			Options(accountOpts...).
			Value(&selected),
		)
	}

	return huh.NewForm(huh.NewGroup(fields...))
}

// entryFormResult reads the completed form back out.
func entryFormResult(form *huh.Form, currency string, accounts []*engine.Account) (amount *money.Money, account *engine.Account, err error) {
	amount, err = engine.ParseAmount(form.GetString("amount"), currency)
	if err != nil {
		return nil, nil, err
	}

	accountID, ok := form.Get("account").(int64)
	if !ok || accountID == directMode {
		return amount, nil, nil
	}
	for _, a := range accounts {
		if a.ID == accountID {
			return amount, a, nil
		}
	}
	return amount, nil, nil
}
