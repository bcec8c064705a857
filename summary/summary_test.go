package summary

import (
	"strings"
	"testing"

	"github.com/Rhymond/go-money"
	"github.com/carlmjohnson/be"

	"github.com/rshep3087/stuffer/engine"
)

func usd(amount int64) *money.Money {
	return money.New(amount, "USD")
}

func TestSetResultsGroupsDepositsByBinder(t *testing.T) {
	m := New(WithCurrency("USD"))

	m.SetResults(Results{
		Inflow:      usd(420000),
		Allocated:   usd(300000),
		Unallocated: usd(120000),
		FundedCount: 3,
		Deposits: []Deposit{
			{Envelope: "rent", Amount: usd(150000)},
			{Envelope: "car payment", Binder: "car", Amount: usd(40000)},
			{Envelope: "gas", Binder: "car", Amount: usd(10000)},
		},
	})

	treeString := m.depositTree.String()

	be.True(t, strings.Contains(treeString, "Rent"))
	be.True(t, strings.Contains(treeString, "Car Payment"))

	// both car envelopes sit under a single binder node
	binderNodes := 0
	for _, line := range strings.Split(treeString, "\n") {
		if (strings.Contains(line, "├── Car") || strings.Contains(line, "└── Car")) &&
			!strings.Contains(line, "(") {
			binderNodes++
		}
	}
	be.Equal(t, 1, binderNodes)
}

func TestViewShowsTotalsAndImpacts(t *testing.T) {
	m := New(WithCurrency("USD"))
	m.SetSize(120, 30)

	m.SetResults(Results{
		Inflow:      usd(420000),
		Allocated:   usd(420000),
		Unallocated: usd(0),
		FundedCount: 2,
		Deposits: []Deposit{
			{Envelope: "vacation", Amount: usd(30000)},
		},
		Impacts: []engine.Impact{
			{EnvelopeID: 3, Name: "vacation", Deposit: usd(30000), DaysSaved: 46},
		},
	})

	view := m.View()
	be.True(t, strings.Contains(view, "Pay Day Recap"))
	be.True(t, strings.Contains(view, "Vacation"))
	be.True(t, strings.Contains(view, "46"))
	be.True(t, strings.Contains(view, "Envelopes funded: 2"))
}

func TestNewStartsEmpty(t *testing.T) {
	m := New()

	be.Equal(t, "USD", m.currency)
	be.Zero(t, m.results.FundedCount)
	be.True(t, strings.Contains(m.View(), "Pay Day Recap"))
}
