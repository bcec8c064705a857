package engine

import (
	"context"
	"time"

	"github.com/Rhymond/go-money"
)

// LedgerStore is the engine's view of the envelope/account ledger. Writes
// are atomic from the engine's perspective; a transfer debits the account
// and credits the envelope as one operation.
type LedgerStore interface {
	Envelopes(ctx context.Context) ([]*Envelope, error)
	Accounts(ctx context.Context) ([]*Account, error)
	DepositToEnvelope(ctx context.Context, envelopeID int64, amount *money.Money, description string, date time.Time) error
	DepositToAccount(ctx context.Context, accountID int64, amount *money.Money, description string, date time.Time) error
	TransferToEnvelope(ctx context.Context, accountID, envelopeID int64, amount *money.Money, description string, date time.Time) error
}

// ScheduleStore feeds upcoming recurring obligations. The engine never
// mutates the schedule.
type ScheduleStore interface {
	UpcomingBills(ctx context.Context, until time.Time) ([]Bill, error)
}

// SettingsStore persists the pay-day snapshot per user. SaveSettings
// merges: nil fields in the record keep their stored values.
type SettingsStore interface {
	Settings(ctx context.Context, userID string) (Settings, error)
	SaveSettings(ctx context.Context, userID string, record Settings) error
}
