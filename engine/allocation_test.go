package engine

import (
	"testing"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/carlmjohnson/be"
)

func usd(cents int64) *money.Money { return money.New(cents, money.USD) }

func ptrInt64(v int64) *int64 { return &v }

func testEnvelopes() []*Envelope {
	return []*Envelope{
		{ID: 1, Name: "Rent", Balance: usd(0), Velocity: usd(50000), RecurringEnabled: true},
		{ID: 2, Name: "Groceries", Balance: usd(0), Velocity: usd(30000), RecurringEnabled: true},
		{ID: 3, Name: "Vacation", Balance: usd(10000), GoalAmount: usd(120000), Velocity: usd(20000)},
		{ID: 4, Name: "Car", Balance: usd(0), BinderID: ptrInt64(7), BinderName: "Transport", Velocity: usd(15000), RecurringEnabled: true},
		{ID: 5, Name: "Gas", Balance: usd(0), BinderID: ptrInt64(7), BinderName: "Transport"},
	}
}

// checkTotals asserts the derived-total invariants that must hold after
// every mutation: the buckets match the entries and unallocated fuel is
// inflow minus both buckets.
func checkTotals(t *testing.T, l *Ledger) {
	t.Helper()

	auto, manual := int64(0), int64(0)
	for _, entry := range l.Entries() {
		if entry.Class == ClassAutomatic {
			auto += entry.Amount.Amount()
		} else {
			manual += entry.Amount.Amount()
		}
	}

	be.Equal(t, auto, l.AutopilotReserve().Amount())
	be.Equal(t, manual, l.ManualAllocations().Amount())
	be.Equal(t, l.ExternalInflow().Amount()-auto, l.AvailableFuel().Amount())
	be.Equal(t, l.ExternalInflow().Amount()-auto-manual, l.UnallocatedFuel().Amount())
	be.Equal(t, l.UnallocatedFuel().IsNegative(), l.IsOverAllocated())
}

func TestLedgerInvariantsUnderMutation(t *testing.T) {
	l := NewLedger(usd(420000), testEnvelopes())

	steps := []func(){
		func() { l.Toggle(1, usd(50000)) },
		func() { l.Toggle(3, nil) },
		func() { l.SetAmount(3, usd(20000)) },
		func() { l.SetAmount(3, usd(35000)) },
		func() { l.AddBinder(7) },
		func() { l.Toggle(1, usd(50000)) },
		func() { l.SetAmount(2, usd(30000)) },
		func() { l.SetAmount(3, usd(0)) },
		func() { l.Toggle(5, usd(500000)) },
	}

	for _, step := range steps {
		step()
		checkTotals(t, l)
	}
}

func TestLedgerScenarioA(t *testing.T) {
	// externalInflow 4200; X and Y recurring at 500 and 300 auto-populate;
	// manual Z 200 on top.
	envelopes := []*Envelope{
		{ID: 1, Name: "X", Balance: usd(0), Velocity: usd(50000), RecurringEnabled: true},
		{ID: 2, Name: "Y", Balance: usd(0), Velocity: usd(30000), RecurringEnabled: true},
		{ID: 3, Name: "Z", Balance: usd(0)},
	}

	l := NewLedger(usd(420000), envelopes)
	l.SeedAutomatic(envelopes)

	be.Equal(t, int64(80000), l.AutopilotReserve().Amount())
	be.Equal(t, int64(340000), l.AvailableFuel().Amount())

	l.SetAmount(3, usd(20000))

	be.Equal(t, int64(20000), l.ManualAllocations().Amount())
	be.Equal(t, int64(320000), l.UnallocatedFuel().Amount())
	be.Equal(t, false, l.IsOverAllocated())
}

func TestLedgerToggle(t *testing.T) {
	l := NewLedger(usd(100000), testEnvelopes())

	l.Toggle(1, usd(50000))
	amount, ok := l.Amount(1)
	be.True(t, ok)
	be.Equal(t, int64(50000), amount.Amount())
	be.Equal(t, int64(50000), l.AutopilotReserve().Amount())

	// toggling again removes the entry and restores the bucket
	l.Toggle(1, usd(50000))
	_, ok = l.Amount(1)
	be.Equal(t, false, ok)
	be.Equal(t, int64(0), l.AutopilotReserve().Amount())

	// nil suggestion selects the envelope at zero
	l.Toggle(3, nil)
	amount, ok = l.Amount(3)
	be.True(t, ok)
	be.Equal(t, int64(0), amount.Amount())
	be.True(t, l.CanExecute())
}

func TestLedgerSetAmountZeroRemoves(t *testing.T) {
	l := NewLedger(usd(100000), testEnvelopes())

	l.SetAmount(3, usd(25000))
	be.Equal(t, int64(25000), l.ManualAllocations().Amount())

	l.SetAmount(3, usd(0))

	_, ok := l.Amount(3)
	be.Equal(t, false, ok)
	be.Equal(t, int64(0), l.ManualAllocations().Amount())
	be.Equal(t, int64(100000), l.UnallocatedFuel().Amount())
	be.Equal(t, false, l.CanExecute())
}

func TestLedgerOverAllocationIsWarningOnly(t *testing.T) {
	l := NewLedger(usd(10000), testEnvelopes())

	l.SetAmount(3, usd(25000))

	be.True(t, l.IsOverAllocated())
	be.Equal(t, int64(-15000), l.UnallocatedFuel().Amount())
	be.True(t, l.CanExecute())
}

func TestLedgerAddBinder(t *testing.T) {
	l := NewLedger(usd(100000), testEnvelopes())

	l.AddBinder(7)

	// only the recurring member with positive velocity joins
	amount, ok := l.Amount(4)
	be.True(t, ok)
	be.Equal(t, int64(15000), amount.Amount())
	_, ok = l.Amount(5)
	be.Equal(t, false, ok)
	be.Equal(t, int64(15000), l.AutopilotReserve().Amount())
}

func TestLedgerEntriesKeepInsertionOrder(t *testing.T) {
	l := NewLedger(usd(100000), testEnvelopes())

	l.SetAmount(3, usd(7500))
	l.SetAmount(1, usd(10000))
	l.SetAmount(2, usd(5000))

	entries := l.Entries()
	be.Equal(t, 3, len(entries))
	be.Equal(t, int64(3), entries[0].EnvelopeID)
	be.Equal(t, int64(1), entries[1].EnvelopeID)
	be.Equal(t, int64(2), entries[2].EnvelopeID)
}

func TestReserveShortfall(t *testing.T) {
	until := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	bills := []Bill{
		{Name: "Rent", Amount: usd(120000), DueDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
		{Name: "Insurance", Amount: usd(20000), DueDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
	}

	l := NewLedger(usd(200000), testEnvelopes())
	l.SetAmount(3, usd(50000))

	shortfall, insufficient := ReserveShortfall(l, bills, until)
	be.True(t, insufficient)
	// only the rent bill is due inside the window
	be.Equal(t, int64(70000), shortfall.Amount())

	l.SetAmount(3, usd(150000))
	_, insufficient = ReserveShortfall(l, bills, until)
	be.Equal(t, false, insufficient)
}
