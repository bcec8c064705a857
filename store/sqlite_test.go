package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/carlmjohnson/be"

	"github.com/rshep3087/stuffer/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "stuffer.db"), "USD")
	be.NilErr(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func usd(cents int64) *money.Money { return money.New(cents, money.USD) }

func TestEnvelopeRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	binderID, err := s.CreateBinder(ctx, "Transport")
	be.NilErr(t, err)

	goalDate := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	id, err := s.CreateEnvelope(ctx, &engine.Envelope{
		Name:             "Car",
		Balance:          usd(12500),
		GoalAmount:       usd(500000),
		GoalDate:         &goalDate,
		Velocity:         usd(20000),
		RecurringEnabled: true,
		BinderID:         &binderID,
	})
	be.NilErr(t, err)

	envelopes, err := s.Envelopes(ctx)
	be.NilErr(t, err)
	be.Equal(t, 1, len(envelopes))

	e := envelopes[0]
	be.Equal(t, id, e.ID)
	be.Equal(t, "Car", e.Name)
	be.Equal(t, int64(12500), e.Balance.Amount())
	be.Equal(t, int64(500000), e.GoalAmount.Amount())
	be.True(t, goalDate.Equal(*e.GoalDate))
	be.Equal(t, int64(20000), e.Velocity.Amount())
	be.True(t, e.RecurringEnabled)
	be.Equal(t, binderID, *e.BinderID)
	be.Equal(t, "Transport", e.BinderName)
}

func TestSetEnvelopeGoal(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.CreateEnvelope(ctx, &engine.Envelope{Name: "Vacation", Balance: usd(0)})
	be.NilErr(t, err)

	goalDate := time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC)
	be.NilErr(t, s.SetEnvelopeGoal(ctx, id, usd(250000), &goalDate))

	envelopes, err := s.Envelopes(ctx)
	be.NilErr(t, err)
	be.Equal(t, int64(250000), envelopes[0].GoalAmount.Amount())
	be.True(t, goalDate.Equal(*envelopes[0].GoalDate))

	t.Run("clear", func(t *testing.T) {
		be.NilErr(t, s.SetEnvelopeGoal(ctx, id, nil, nil))

		envelopes, err := s.Envelopes(ctx)
		be.NilErr(t, err)
		be.True(t, envelopes[0].GoalAmount == nil)
		be.True(t, envelopes[0].GoalDate == nil)
	})

	t.Run("unknown envelope", func(t *testing.T) {
		err := s.SetEnvelopeGoal(ctx, 999, usd(100), nil)
		be.Nonzero(t, err)
	})
}

func TestCreateBinderReusesExisting(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.CreateBinder(ctx, "Household")
	be.NilErr(t, err)
	second, err := s.CreateBinder(ctx, "Household")
	be.NilErr(t, err)
	be.Equal(t, first, second)
}

func TestDeposits(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	envelopeID, err := s.CreateEnvelope(ctx, &engine.Envelope{Name: "Rent"})
	be.NilErr(t, err)
	accountID, err := s.CreateAccount(ctx, &engine.Account{Name: "Checking", IsDefault: true})
	be.NilErr(t, err)

	be.NilErr(t, s.DepositToEnvelope(ctx, envelopeID, usd(5000), "test", now))
	be.NilErr(t, s.DepositToAccount(ctx, accountID, usd(42000), "payday", now))

	envelopes, err := s.Envelopes(ctx)
	be.NilErr(t, err)
	be.Equal(t, int64(5000), envelopes[0].Balance.Amount())

	accounts, err := s.Accounts(ctx)
	be.NilErr(t, err)
	be.Equal(t, int64(42000), accounts[0].Balance.Amount())
	be.True(t, accounts[0].IsDefault)

	history, err := s.History(ctx, 10)
	be.NilErr(t, err)
	be.Equal(t, 2, len(history))
	// newest first
	be.Equal(t, "payday", history[0].Description)
	be.Equal(t, int64(42000), history[0].Amount.Amount())
}

func TestDepositToUnknownEnvelope(t *testing.T) {
	s := openTestStore(t)
	err := s.DepositToEnvelope(context.Background(), 99, usd(5000), "test", time.Now())
	be.Nonzero(t, err)
}

func TestTransferToEnvelopeIsAtomic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	envelopeID, err := s.CreateEnvelope(ctx, &engine.Envelope{Name: "Rent"})
	be.NilErr(t, err)
	accountID, err := s.CreateAccount(ctx, &engine.Account{Name: "Checking", Balance: usd(100000)})
	be.NilErr(t, err)

	be.NilErr(t, s.TransferToEnvelope(ctx, accountID, envelopeID, usd(30000), "stuffing", now))

	envelopes, err := s.Envelopes(ctx)
	be.NilErr(t, err)
	accounts, err := s.Accounts(ctx)
	be.NilErr(t, err)
	be.Equal(t, int64(30000), envelopes[0].Balance.Amount())
	be.Equal(t, int64(70000), accounts[0].Balance.Amount())

	// a transfer against a missing envelope must roll the debit back
	err = s.TransferToEnvelope(ctx, accountID, 99, usd(30000), "stuffing", now)
	be.Nonzero(t, err)

	accounts, err = s.Accounts(ctx)
	be.NilErr(t, err)
	be.Equal(t, int64(70000), accounts[0].Balance.Amount())
}

func TestUpcomingBills(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	envelopeID, err := s.CreateEnvelope(ctx, &engine.Envelope{Name: "Rent"})
	be.NilErr(t, err)

	soon := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	later := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	_, err = s.CreateBill(ctx, &engine.Bill{EnvelopeID: &envelopeID, Name: "Rent", Amount: usd(120000), DueDate: soon})
	be.NilErr(t, err)
	_, err = s.CreateBill(ctx, &engine.Bill{Name: "Insurance", Amount: usd(20000), DueDate: later})
	be.NilErr(t, err)

	bills, err := s.UpcomingBills(ctx, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC))
	be.NilErr(t, err)
	be.Equal(t, 1, len(bills))
	be.Equal(t, "Rent", bills[0].Name)
	be.Equal(t, envelopeID, *bills[0].EnvelopeID)
}

func TestSettingsMerge(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// missing row returns defaults
	record, err := s.Settings(ctx, "casey")
	be.NilErr(t, err)
	be.Equal(t, engine.PayMonthly, record.PayFrequency)

	// first save sets frequency; later saves with nil fields keep it
	be.NilErr(t, s.SaveSettings(ctx, "casey", engine.Settings{PayFrequency: engine.PayBiweekly}))

	accountID := int64(4)
	payDate := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	be.NilErr(t, s.SaveSettings(ctx, "casey", engine.Settings{
		LastPayAmount:    usd(420000),
		LastPayDate:      &payDate,
		DefaultAccountID: &accountID,
	}))

	record, err = s.Settings(ctx, "casey")
	be.NilErr(t, err)
	be.Equal(t, engine.PayBiweekly, record.PayFrequency)
	be.Equal(t, int64(420000), record.LastPayAmount.Amount())
	be.True(t, payDate.Equal(*record.LastPayDate))
	be.Equal(t, accountID, *record.DefaultAccountID)

	// amount-only update keeps the previous date and account
	be.NilErr(t, s.SaveSettings(ctx, "casey", engine.Settings{LastPayAmount: usd(100000)}))
	record, err = s.Settings(ctx, "casey")
	be.NilErr(t, err)
	be.Equal(t, int64(100000), record.LastPayAmount.Amount())
	be.True(t, payDate.Equal(*record.LastPayDate))
	be.Equal(t, accountID, *record.DefaultAccountID)
}
