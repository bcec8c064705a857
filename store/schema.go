package store

// Amounts are stored as integer minor units in the store's currency.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS binders (
    id    INTEGER PRIMARY KEY AUTOINCREMENT,
    name  TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS envelopes (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL,
    balance     INTEGER NOT NULL DEFAULT 0,
    goal_amount INTEGER,
    goal_date   TEXT,
    velocity    INTEGER,
    recurring   INTEGER NOT NULL DEFAULT 0,
    binder_id   INTEGER REFERENCES binders(id)
);

CREATE TABLE IF NOT EXISTS accounts (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    name       TEXT NOT NULL,
    balance    INTEGER NOT NULL DEFAULT 0,
    is_default INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS bills (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    envelope_id INTEGER REFERENCES envelopes(id),
    name        TEXT NOT NULL,
    amount      INTEGER NOT NULL,
    due_date    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    kind        TEXT NOT NULL,
    account_id  INTEGER,
    envelope_id INTEGER,
    amount      INTEGER NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    user_id            TEXT PRIMARY KEY,
    last_pay_amount    INTEGER,
    last_pay_date      TEXT,
    default_account_id INTEGER,
    pay_frequency      TEXT NOT NULL DEFAULT 'monthly'
);

CREATE INDEX IF NOT EXISTS idx_bills_due ON bills(due_date);
CREATE INDEX IF NOT EXISTS idx_transactions_created ON transactions(created_at);
`
