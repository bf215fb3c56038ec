// Package database provides schema instantiation
package database

import (
	"database/sql"
	"fmt"
)

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the tables and indexes.
// Every statement is idempotent so a restart against an existing database file
// is safe.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// SeedInitialAdmin idempotently creates the first admin account when the
// admins table is empty. The account is flagged to require a password change
// on first login.
func (tc *TableCreator) SeedInitialAdmin(db *sql.DB, username, passwordHash string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM admins").Scan(&count); err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err := db.Exec(
		`INSERT INTO admins (username, password_hash, requires_password_change) VALUES (?, ?, 1)`,
		username, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to seed initial admin: %w", err)
	}
	return nil
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		requires_password_change INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS visitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		visitor_id TEXT NOT NULL UNIQUE,
		ip_address TEXT,
		country TEXT,
		city TEXT,
		region TEXT,
		user_agent TEXT,
		device_type TEXT,
		browser TEXT,
		os TEXT,
		referrer TEXT,
		landing_page TEXT,
		first_visit DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_visit DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		total_visits INTEGER NOT NULL DEFAULT 1,
		age_range TEXT,
		gender TEXT,
		interests TEXT,
		occupation TEXT,
		education_level TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS visitor_signals (
		id TEXT PRIMARY KEY,
		visitor_id TEXT NOT NULL,
		fingerprint_id TEXT,
		timezone TEXT,
		language TEXT,
		languages TEXT,
		screen_resolution TEXT,
		color_depth INTEGER NOT NULL DEFAULT 0,
		hardware_concurrency INTEGER NOT NULL DEFAULT 0,
		device_memory REAL,
		platform TEXT,
		touch_support INTEGER NOT NULL DEFAULT 0,
		cookie_enabled INTEGER NOT NULL DEFAULT 0,
		do_not_track TEXT,
		hour_of_day INTEGER NOT NULL DEFAULT 0,
		day_of_week INTEGER NOT NULL DEFAULT 0,
		is_weekday INTEGER NOT NULL DEFAULT 0,
		is_business_hours INTEGER NOT NULL DEFAULT 0,
		referrer TEXT,
		landing_page TEXT,
		collected_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS inferred_demographics (
		id TEXT PRIMARY KEY,
		visitor_id TEXT NOT NULL,
		age_range TEXT,
		gender TEXT,
		occupation TEXT,
		education_level TEXT,
		interests TEXT,
		confidence_score REAL NOT NULL DEFAULT 0,
		algorithm_version TEXT NOT NULL,
		inferred_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		visitor_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		event_data TEXT,
		page_url TEXT,
		session_id TEXT,
		timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS page_views (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		visitor_id TEXT NOT NULL,
		page_url TEXT,
		page_title TEXT,
		session_id TEXT,
		time_spent INTEGER NOT NULL DEFAULT 0,
		scroll_depth INTEGER NOT NULL DEFAULT 0,
		viewed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS registrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		visitor_id TEXT NOT NULL,
		email TEXT,
		name TEXT,
		phone TEXT,
		registration_data TEXT,
		registered_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS video_config (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		video_url TEXT NOT NULL,
		video_type TEXT NOT NULL DEFAULT 'youtube',
		button_delay_seconds INTEGER NOT NULL DEFAULT 90,
		is_active INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS chart_configs (
		username TEXT PRIMARY KEY,
		configs TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_visitors_last_visit ON visitors(last_visit)`,
	`CREATE INDEX IF NOT EXISTS idx_visitor_signals_visitor_id ON visitor_signals(visitor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_inferred_demographics_visitor_id ON inferred_demographics(visitor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_visitor_id ON events(visitor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_page_views_visitor_id ON page_views(visitor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_registrations_visitor_id ON registrations(visitor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_registrations_registered_at ON registrations(registered_at)`,
	`CREATE INDEX IF NOT EXISTS idx_video_config_is_active ON video_config(is_active)`,
}
