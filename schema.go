package main

import (
	"database/sql"
	"fmt"
)

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS income (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id),
		amount DECIMAL(10,2) NOT NULL,
		source VARCHAR(100) NOT NULL,
		income_date DATE NOT NULL
	);

	CREATE TABLE IF NOT EXISTS expense (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id),
		amount DECIMAL(10,2) NOT NULL,
		category VARCHAR(100) NOT NULL,
		expense_date DATE NOT NULL
	);

	CREATE TABLE IF NOT EXISTS savings (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id),
		amount DECIMAL(10,2) NOT NULL,
		saving_date DATE NOT NULL
	);

	CREATE TABLE IF NOT EXISTS budget (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id),
		monthly_budget DECIMAL(10,2) NOT NULL,
		month VARCHAR(20) NOT NULL,
		year INTEGER NOT NULL
	);

	-- Remove duplicates before enforcing uniqueness
	DO $$
	BEGIN
		IF EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = 'budget'
		) THEN
			WITH d AS (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY user_id, month, year ORDER BY id) rn
				FROM budget
			)
			DELETE FROM budget WHERE id IN (SELECT id FROM d WHERE rn > 1);
		END IF;
	END $$;

	-- Ensure one budget row per user per calendar month
	CREATE UNIQUE INDEX IF NOT EXISTS idx_budget_user_month_year ON budget(user_id, month, year);

	CREATE INDEX IF NOT EXISTS idx_income_user ON income(user_id);
	CREATE INDEX IF NOT EXISTS idx_expense_user ON expense(user_id);
	CREATE INDEX IF NOT EXISTS idx_savings_user ON savings(user_id);
`

func ensureSchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Seed a demo user with a month of ledger activity for presentations.
// Idempotent: will only run if the demo user is not present yet.
func seedDemoData(db *sql.DB) error {
	var cnt int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = 'demo@example.com'`).Scan(&cnt); err != nil {
		return fmt.Errorf("checking demo user: %w", err)
	}
	if cnt > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// bcrypt hash of "demo1234"
	var userID int
	const demoUser = `
	INSERT INTO users (name, email, password)
	VALUES ('Demo User', 'demo@example.com', '$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy')
	RETURNING id`
	if err := tx.QueryRow(demoUser).Scan(&userID); err != nil {
		return fmt.Errorf("seeding demo user: %w", err)
	}

	const demoIncome = `
	INSERT INTO income (user_id, amount, source, income_date) VALUES
	($1, 3200.00, 'Salary', CURRENT_DATE - INTERVAL '28 days'),
	($1, 850.00, 'Freelance', CURRENT_DATE - INTERVAL '25 days'),
	($1, 600.00, 'Freelance', CURRENT_DATE - INTERVAL '13 days')
	`
	if _, err := tx.Exec(demoIncome, userID); err != nil {
		return fmt.Errorf("seeding demo income: %w", err)
	}

	const demoExpense = `
	INSERT INTO expense (user_id, amount, category, expense_date) VALUES
	($1, 1500.00, 'Rent', CURRENT_DATE - INTERVAL '24 days'),
	($1, 120.45, 'Utilities', CURRENT_DATE - INTERVAL '22 days'),
	($1, 96.72, 'Groceries', CURRENT_DATE - INTERVAL '20 days'),
	($1, 45.00, 'Transportation', CURRENT_DATE - INTERVAL '19 days'),
	($1, 28.50, 'Entertainment', CURRENT_DATE - INTERVAL '16 days'),
	($1, 64.11, 'Groceries', CURRENT_DATE - INTERVAL '14 days'),
	($1, 60.00, 'Utilities', CURRENT_DATE - INTERVAL '11 days'),
	($1, 140.00, 'Entertainment', CURRENT_DATE - INTERVAL '8 days'),
	($1, 132.39, 'Groceries', CURRENT_DATE - INTERVAL '6 days'),
	($1, 22.30, 'Transportation', CURRENT_DATE - INTERVAL '4 days')
	`
	if _, err := tx.Exec(demoExpense, userID); err != nil {
		return fmt.Errorf("seeding demo expenses: %w", err)
	}

	const demoSavings = `
	INSERT INTO savings (user_id, amount, saving_date) VALUES
	($1, 400.00, CURRENT_DATE - INTERVAL '27 days'),
	($1, 250.00, CURRENT_DATE - INTERVAL '10 days')
	`
	if _, err := tx.Exec(demoSavings, userID); err != nil {
		return fmt.Errorf("seeding demo savings: %w", err)
	}

	const demoBudget = `
	INSERT INTO budget (user_id, monthly_budget, month, year)
	VALUES ($1, 2500.00, TRIM(TO_CHAR(CURRENT_DATE, 'Month')), EXTRACT(YEAR FROM CURRENT_DATE))
	ON CONFLICT (user_id, month, year) DO NOTHING
	`
	if _, err := tx.Exec(demoBudget, userID); err != nil {
		return fmt.Errorf("seeding demo budget: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}
