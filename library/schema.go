package library

import (
	"context"
	"fmt"
)

// Tables in creation order: reference tables first, then the tables whose
// foreign keys point at them.
var schema = []struct {
	name string
	ddl  string
}{
	{"categories", `CREATE TABLE IF NOT EXISTS categories (
            category_id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            description TEXT
        );`},
	{"membership_types", `CREATE TABLE IF NOT EXISTS membership_types (
            membership_type_id INTEGER PRIMARY KEY AUTOINCREMENT,
            membership_name TEXT NOT NULL UNIQUE,
            duration_days INTEGER NOT NULL,
            price REAL NOT NULL,
            max_borrowing_limit INTEGER NOT NULL DEFAULT 2,
            borrowing_duration_days INTEGER NOT NULL DEFAULT 14,
            fine_per_day REAL NOT NULL DEFAULT 5.00,
            description TEXT
        );`},
	{"administrators", `CREATE TABLE IF NOT EXISTS administrators (
            admin_id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            first_name TEXT NOT NULL,
            last_name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            created_date TEXT NOT NULL,
            is_active INTEGER NOT NULL DEFAULT 1
        );`},
	{"resource_types", `CREATE TABLE IF NOT EXISTS resource_types (
            resource_type_id INTEGER PRIMARY KEY AUTOINCREMENT,
            type_name TEXT NOT NULL UNIQUE,
            borrowing_duration_days INTEGER NOT NULL DEFAULT 14,
            max_renewals INTEGER NOT NULL DEFAULT 2,
            fine_per_day REAL NOT NULL DEFAULT 5.00,
            description TEXT
        );`},
	{"users", `CREATE TABLE IF NOT EXISTS users (
            user_id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            first_name TEXT NOT NULL,
            last_name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            address TEXT NOT NULL,
            phone TEXT NOT NULL,
            balance REAL NOT NULL DEFAULT 0.0,
            membership_type_id INTEGER NOT NULL,
            registration_date TEXT NOT NULL,
            is_active INTEGER NOT NULL DEFAULT 1,
            FOREIGN KEY(membership_type_id) REFERENCES membership_types(membership_type_id) ON DELETE RESTRICT
        );`},
	{"resources", `CREATE TABLE IF NOT EXISTS resources (
            resource_id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            publisher TEXT NOT NULL,
            publication_year INTEGER NOT NULL,
            isbn TEXT NOT NULL,
            category_id INTEGER NOT NULL,
            resource_type_id INTEGER NOT NULL,
            total_copies INTEGER NOT NULL DEFAULT 1,
            available_copies INTEGER NOT NULL DEFAULT 1,
            description TEXT,
            added_date TEXT NOT NULL,
            is_active INTEGER NOT NULL DEFAULT 1,
            FOREIGN KEY(category_id) REFERENCES categories(category_id) ON DELETE RESTRICT,
            FOREIGN KEY(resource_type_id) REFERENCES resource_types(resource_type_id) ON DELETE RESTRICT
        );`},
	{"transactions", `CREATE TABLE IF NOT EXISTS transactions (
            transaction_id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER,
            resource_id INTEGER,
            issue_date TEXT,
            due_date TEXT,
            return_date TEXT,
            fine_amount REAL DEFAULT 0.0,
            is_returned INTEGER DEFAULT 0,
            is_overdue INTEGER DEFAULT 0,
            renewal_count INTEGER DEFAULT 0,
            transaction_status TEXT DEFAULT 'ACTIVE',
            FOREIGN KEY(user_id) REFERENCES users(user_id) ON DELETE CASCADE,
            FOREIGN KEY(resource_id) REFERENCES resources(resource_id) ON DELETE CASCADE
        );`},
	{"fines", `CREATE TABLE IF NOT EXISTS fines (
            fine_id INTEGER PRIMARY KEY AUTOINCREMENT,
            transaction_id INTEGER NOT NULL,
            user_id INTEGER NOT NULL,
            days_overdue INTEGER NOT NULL,
            fine_amount REAL NOT NULL,
            fine_date TEXT NOT NULL,
            is_paid INTEGER NOT NULL DEFAULT 0,
            payment_date TEXT,
            FOREIGN KEY(transaction_id) REFERENCES transactions(transaction_id) ON DELETE CASCADE,
            FOREIGN KEY(user_id) REFERENCES users(user_id) ON DELETE CASCADE
        );`},
	{"fund_requests", `CREATE TABLE IF NOT EXISTS fund_requests (
            request_id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL,
            requested_amount REAL NOT NULL,
            request_date TEXT NOT NULL,
            status TEXT NOT NULL,
            admin_id INTEGER,
            approval_date TEXT,
            admin_notes TEXT,
            FOREIGN KEY(user_id) REFERENCES users(user_id) ON DELETE CASCADE,
            FOREIGN KEY(admin_id) REFERENCES administrators(admin_id) ON DELETE SET NULL
        );`},
	{"reservations", `CREATE TABLE IF NOT EXISTS reservations (
            reservation_id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL,
            resource_id INTEGER NOT NULL,
            reservation_date TEXT NOT NULL,
            expiry_date TEXT NOT NULL,
            is_fulfilled INTEGER NOT NULL DEFAULT 0,
            is_cancelled INTEGER NOT NULL DEFAULT 0,
            status TEXT NOT NULL DEFAULT 'PENDING',
            FOREIGN KEY(user_id) REFERENCES users(user_id) ON DELETE CASCADE,
            FOREIGN KEY(resource_id) REFERENCES resources(resource_id) ON DELETE CASCADE
        );`},
	{"borrowing_history", `CREATE TABLE IF NOT EXISTS borrowing_history (
            history_id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL,
            resource_id INTEGER NOT NULL,
            issue_date TEXT NOT NULL,
            due_date TEXT NOT NULL,
            return_date TEXT,
            fine_amount REAL DEFAULT 0.0,
            FOREIGN KEY(user_id) REFERENCES users(user_id) ON DELETE CASCADE,
            FOREIGN KEY(resource_id) REFERENCES resources(resource_id) ON DELETE CASCADE
        );`},
}

// TableNames lists the tables CreateTables creates, in creation order.
func TableNames() []string {
	names := make([]string, len(schema))
	for i, s := range schema {
		names[i] = s.name
	}
	return names
}

// CreateTables creates every missing table. It is safe to call on every start.
func (d *Database) CreateTables(ctx context.Context) error {
	if d.path != MemoryPath && d.path != "" {
		// WAL improves write concurrency.
		if _, err := d.db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
			return fmt.Errorf("enable WAL: %w", err)
		}
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, s := range schema {
		if _, err := tx.ExecContext(ctx, s.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", s.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	d.log.Debug().Int("tables", len(schema)).Msg("schema ready")
	return nil
}
