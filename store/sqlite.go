// Package store persists envelopes, accounts, bills, transaction history,
// and pay-day settings in a local SQLite database. It implements the
// engine's LedgerStore, ScheduleStore, and SettingsStore interfaces.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Rhymond/go-money"

	"github.com/rshep3087/stuffer/engine"

	_ "modernc.org/sqlite" // register sqlite driver
)

const dateFormat = time.RFC3339

// Store is a SQLite-backed budget store. One Store serves all three
// engine store interfaces.
type Store struct {
	db       *sql.DB
	currency string
}

var (
	_ engine.LedgerStore   = (*Store)(nil)
	_ engine.ScheduleStore = (*Store)(nil)
	_ engine.SettingsStore = (*Store)(nil)
)

// Open opens or creates the database at path. All amounts read and
// written use the given ISO currency code.
func Open(path, currency string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening budget db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, currency: currency}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) amount(minor int64) *money.Money {
	return money.New(minor, s.currency)
}

// Envelopes returns every envelope, ordered by id.
func (s *Store) Envelopes(ctx context.Context) ([]*engine.Envelope, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.name, e.balance, e.goal_amount, e.goal_date,
		       e.velocity, e.recurring, e.binder_id, COALESCE(b.name, '')
		FROM envelopes e
		LEFT JOIN binders b ON b.id = e.binder_id
		ORDER BY e.id`)
	if err != nil {
		return nil, fmt.Errorf("listing envelopes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var envelopes []*engine.Envelope
	for rows.Next() {
		var (
			e          engine.Envelope
			balance    int64
			goalAmount sql.NullInt64
			goalDate   sql.NullString
			velocity   sql.NullInt64
			recurring  bool
			binderID   sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.Name, &balance, &goalAmount, &goalDate,
			&velocity, &recurring, &binderID, &e.BinderName); err != nil {
			return nil, fmt.Errorf("scanning envelope: %w", err)
		}

		e.Balance = s.amount(balance)
		e.RecurringEnabled = recurring
		if goalAmount.Valid {
			e.GoalAmount = s.amount(goalAmount.Int64)
		}
		if goalDate.Valid {
			if d, perr := time.Parse(dateFormat, goalDate.String); perr == nil {
				e.GoalDate = &d
			}
		}
		if velocity.Valid {
			e.Velocity = s.amount(velocity.Int64)
		}
		if binderID.Valid {
			id := binderID.Int64
			e.BinderID = &id
		}
		envelopes = append(envelopes, &e)
	}
	return envelopes, rows.Err()
}

// Accounts returns every account, ordered by id.
func (s *Store) Accounts(ctx context.Context) ([]*engine.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, balance, is_default FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []*engine.Account
	for rows.Next() {
		var (
			a       engine.Account
			balance int64
		)
		if err := rows.Scan(&a.ID, &a.Name, &balance, &a.IsDefault); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		a.Balance = s.amount(balance)
		accounts = append(accounts, &a)
	}
	return accounts, rows.Err()
}

// DepositToEnvelope credits an envelope from an external source and
// records the transaction.
func (s *Store) DepositToEnvelope(ctx context.Context, envelopeID int64, amount *money.Money, description string, date time.Time) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE envelopes SET balance = balance + ? WHERE id = ?`, amount.Amount(), envelopeID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("envelope %d not found", envelopeID)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO transactions (kind, envelope_id, amount, description, created_at) VALUES ('deposit', ?, ?, ?, ?)`,
			envelopeID, amount.Amount(), description, date.Format(dateFormat))
		return err
	})
}

// DepositToAccount credits an account from an external source and records
// the transaction.
func (s *Store) DepositToAccount(ctx context.Context, accountID int64, amount *money.Money, description string, date time.Time) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE accounts SET balance = balance + ? WHERE id = ?`, amount.Amount(), accountID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("account %d not found", accountID)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO transactions (kind, account_id, amount, description, created_at) VALUES ('deposit', ?, ?, ?, ?)`,
			accountID, amount.Amount(), description, date.Format(dateFormat))
		return err
	})
}

// TransferToEnvelope moves money from an account into an envelope as one
// transaction: the debit, the credit, and the history row commit or roll
// back together.
func (s *Store) TransferToEnvelope(ctx context.Context, accountID, envelopeID int64, amount *money.Money, description string, date time.Time) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE accounts SET balance = balance - ? WHERE id = ?`, amount.Amount(), accountID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("account %d not found", accountID)
		}

		res, err = tx.ExecContext(ctx, `UPDATE envelopes SET balance = balance + ? WHERE id = ?`, amount.Amount(), envelopeID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("envelope %d not found", envelopeID)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO transactions (kind, account_id, envelope_id, amount, description, created_at) VALUES ('transfer', ?, ?, ?, ?, ?)`,
			accountID, envelopeID, amount.Amount(), description, date.Format(dateFormat))
		return err
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// UpcomingBills returns bills due on or before until, soonest first.
func (s *Store) UpcomingBills(ctx context.Context, until time.Time) ([]engine.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT envelope_id, name, amount, due_date FROM bills WHERE due_date <= ? ORDER BY due_date`,
		until.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var bills []engine.Bill
	for rows.Next() {
		var (
			b          engine.Bill
			envelopeID sql.NullInt64
			amount     int64
			due        string
		)
		if err := rows.Scan(&envelopeID, &b.Name, &amount, &due); err != nil {
			return nil, fmt.Errorf("scanning bill: %w", err)
		}
		if envelopeID.Valid {
			id := envelopeID.Int64
			b.EnvelopeID = &id
		}
		b.Amount = s.amount(amount)
		if d, perr := time.Parse(dateFormat, due); perr == nil {
			b.DueDate = d
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// Settings returns the pay-day snapshot for a user. A user with no row
// gets the defaults.
func (s *Store) Settings(ctx context.Context, userID string) (engine.Settings, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT last_pay_amount, last_pay_date, default_account_id, pay_frequency FROM settings WHERE user_id = ?`,
		userID)

	var (
		record    engine.Settings
		payAmount sql.NullInt64
		payDate   sql.NullString
		accountID sql.NullInt64
	)
	err := row.Scan(&payAmount, &payDate, &accountID, &record.PayFrequency)
	if err == sql.ErrNoRows {
		return engine.Settings{PayFrequency: engine.PayMonthly}, nil
	}
	if err != nil {
		return engine.Settings{}, fmt.Errorf("reading settings: %w", err)
	}

	if payAmount.Valid {
		record.LastPayAmount = s.amount(payAmount.Int64)
	}
	if payDate.Valid {
		if d, perr := time.Parse(dateFormat, payDate.String); perr == nil {
			record.LastPayDate = &d
		}
	}
	if accountID.Valid {
		id := accountID.Int64
		record.DefaultAccountID = &id
	}
	return record, nil
}

// SaveSettings merges the record into the stored row: nil fields and an
// empty pay frequency leave the stored values untouched.
func (s *Store) SaveSettings(ctx context.Context, userID string, record engine.Settings) error {
	var (
		payAmount sql.NullInt64
		payDate   sql.NullString
		accountID sql.NullInt64
		frequency sql.NullString
	)
	if record.LastPayAmount != nil {
		payAmount = sql.NullInt64{Int64: record.LastPayAmount.Amount(), Valid: true}
	}
	if record.LastPayDate != nil {
		payDate = sql.NullString{String: record.LastPayDate.Format(dateFormat), Valid: true}
	}
	if record.DefaultAccountID != nil {
		accountID = sql.NullInt64{Int64: *record.DefaultAccountID, Valid: true}
	}
	if record.PayFrequency != "" {
		frequency = sql.NullString{String: record.PayFrequency, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (user_id, last_pay_amount, last_pay_date, default_account_id, pay_frequency)
		VALUES (?, ?, ?, ?, COALESCE(?, 'monthly'))
		ON CONFLICT(user_id) DO UPDATE SET
			last_pay_amount    = COALESCE(excluded.last_pay_amount, settings.last_pay_amount),
			last_pay_date      = COALESCE(excluded.last_pay_date, settings.last_pay_date),
			default_account_id = COALESCE(excluded.default_account_id, settings.default_account_id),
			pay_frequency      = COALESCE(?, settings.pay_frequency)`,
		userID, payAmount, payDate, accountID, frequency, frequency)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// CreateBinder inserts a binder, returning its id. Existing binders with
// the same name are reused.
func (s *Store) CreateBinder(ctx context.Context, name string) (int64, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id FROM binders WHERE name = ?`, name)
	var id int64
	if err := row.Scan(&id); err == nil {
		return id, nil
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO binders (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("creating binder: %w", err)
	}
	return res.LastInsertId()
}

// CreateEnvelope inserts an envelope, returning its id.
func (s *Store) CreateEnvelope(ctx context.Context, e *engine.Envelope) (int64, error) {
	var (
		balance    int64
		goalAmount sql.NullInt64
		goalDate   sql.NullString
		velocity   sql.NullInt64
		binderID   sql.NullInt64
	)
	if e.Balance != nil {
		balance = e.Balance.Amount()
	}
	if e.GoalAmount != nil {
		goalAmount = sql.NullInt64{Int64: e.GoalAmount.Amount(), Valid: true}
	}
	if e.GoalDate != nil {
		goalDate = sql.NullString{String: e.GoalDate.Format(dateFormat), Valid: true}
	}
	if e.Velocity != nil {
		velocity = sql.NullInt64{Int64: e.Velocity.Amount(), Valid: true}
	}
	if e.BinderID != nil {
		binderID = sql.NullInt64{Int64: *e.BinderID, Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO envelopes (name, balance, goal_amount, goal_date, velocity, recurring, binder_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Name, balance, goalAmount, goalDate, velocity, e.RecurringEnabled, binderID)
	if err != nil {
		return 0, fmt.Errorf("creating envelope: %w", err)
	}
	return res.LastInsertId()
}

// SetEnvelopeGoal replaces an envelope's goal. A nil amount clears the
// goal, date included.
func (s *Store) SetEnvelopeGoal(ctx context.Context, envelopeID int64, goalAmount *money.Money, goalDate *time.Time) error {
	var (
		amount sql.NullInt64
		date   sql.NullString
	)
	if goalAmount != nil {
		amount = sql.NullInt64{Int64: goalAmount.Amount(), Valid: true}
	}
	if goalDate != nil {
		date = sql.NullString{String: goalDate.Format(dateFormat), Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE envelopes SET goal_amount = ?, goal_date = ? WHERE id = ?`,
		amount, date, envelopeID)
	if err != nil {
		return fmt.Errorf("setting goal on envelope %d: %w", envelopeID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting goal on envelope %d: %w", envelopeID, err)
	}
	if affected == 0 {
		return fmt.Errorf("envelope %d not found", envelopeID)
	}
	return nil
}

// CreateAccount inserts an account, returning its id.
func (s *Store) CreateAccount(ctx context.Context, a *engine.Account) (int64, error) {
	var balance int64
	if a.Balance != nil {
		balance = a.Balance.Amount()
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO accounts (name, balance, is_default) VALUES (?, ?, ?)`,
		a.Name, balance, a.IsDefault)
	if err != nil {
		return 0, fmt.Errorf("creating account: %w", err)
	}
	return res.LastInsertId()
}

// CreateBill inserts an upcoming obligation, returning its id.
func (s *Store) CreateBill(ctx context.Context, b *engine.Bill) (int64, error) {
	var envelopeID sql.NullInt64
	if b.EnvelopeID != nil {
		envelopeID = sql.NullInt64{Int64: *b.EnvelopeID, Valid: true}
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO bills (envelope_id, name, amount, due_date) VALUES (?, ?, ?, ?)`,
		envelopeID, b.Name, b.Amount.Amount(), b.DueDate.Format(dateFormat))
	if err != nil {
		return 0, fmt.Errorf("creating bill: %w", err)
	}
	return res.LastInsertId()
}

// Transaction is one history row.
type Transaction struct {
	ID          int64
	Kind        string
	AccountID   *int64
	EnvelopeID  *int64
	Amount      *money.Money
	Description string
	CreatedAt   time.Time
}

// History returns the most recent transactions, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, account_id, envelope_id, amount, description, created_at
		FROM transactions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Transaction
	for rows.Next() {
		var (
			tr         Transaction
			accountID  sql.NullInt64
			envelopeID sql.NullInt64
			amount     int64
			created    string
		)
		if err := rows.Scan(&tr.ID, &tr.Kind, &accountID, &envelopeID, &amount, &tr.Description, &created); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		if accountID.Valid {
			id := accountID.Int64
			tr.AccountID = &id
		}
		if envelopeID.Valid {
			id := envelopeID.Int64
			tr.EnvelopeID = &id
		}
		tr.Amount = s.amount(amount)
		if d, perr := time.Parse(dateFormat, created); perr == nil {
			tr.CreatedAt = d
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}
