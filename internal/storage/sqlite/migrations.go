package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: installment_plans must be created BEFORE expenses due to the
// foreign key constraint.
// User ids are opaque identities from the chat platform and are stored as
// plain integers, not foreign keys.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY,
    username TEXT,
    first_name TEXT,
    full_name TEXT,
    email TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    keywords TEXT NOT NULL,
    glyph TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS installment_plans (
    id TEXT PRIMARY KEY,
    user_id INTEGER NOT NULL,
    total_amount TEXT NOT NULL,
    description TEXT NOT NULL,
    category TEXT NOT NULL,
    installment_count INTEGER NOT NULL,
    start_date TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    user_id INTEGER NOT NULL,
    amount TEXT NOT NULL,
    description TEXT NOT NULL,
    category TEXT NOT NULL,
    date TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    installment_id TEXT,
    FOREIGN KEY (installment_id) REFERENCES installment_plans(id)
);

CREATE TABLE IF NOT EXISTS recurring_plans (
    id TEXT PRIMARY KEY,
    user_id INTEGER NOT NULL,
    description TEXT NOT NULL,
    amount TEXT NOT NULL,
    category TEXT NOT NULL,
    day_of_month INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    UNIQUE (user_id, description)
);

CREATE TABLE IF NOT EXISTS challenges (
    id TEXT PRIMARY KEY,
    user_id INTEGER NOT NULL,
    challenge_type TEXT NOT NULL,
    target_category TEXT NOT NULL,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    status TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS shared_bills (
    id TEXT PRIMARY KEY,
    creator_user_id INTEGER NOT NULL,
    creator_username TEXT,
    group_ref INTEGER NOT NULL,
    summary_ref INTEGER,
    description TEXT NOT NULL,
    total_amount TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'open',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bill_participants (
    id TEXT PRIMARY KEY,
    bill_id TEXT NOT NULL,
    user_id INTEGER,
    username TEXT NOT NULL,
    amount_due TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    FOREIGN KEY (bill_id) REFERENCES shared_bills(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_expenses_user_date ON expenses(user_id, date);
CREATE INDEX IF NOT EXISTS idx_expenses_installment_id ON expenses(installment_id);
CREATE INDEX IF NOT EXISTS idx_installment_plans_user_id ON installment_plans(user_id);
CREATE INDEX IF NOT EXISTS idx_recurring_plans_day ON recurring_plans(day_of_month);
CREATE INDEX IF NOT EXISTS idx_challenges_user_status ON challenges(user_id, status);
CREATE INDEX IF NOT EXISTS idx_bill_participants_bill_id ON bill_participants(bill_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
