// Package admin provides the concrete SQL-based implementations of the
// dashboard operator repositories (User, VideoConfig, ChartConfig).
package admin

import (
	"database/sql"
	"time"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/admin"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/database"
)

// SQLUserRepository is the SQL-based implementation of the UserRepository.
type SQLUserRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLUserRepository creates a new instance of the repository.
func NewSQLUserRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLUserRepository {
	return &SQLUserRepository{
		db:     db,
		logger: logger,
	}
}

// FindByUsername retrieves an admin account, or nil when none exists.
func (r *SQLUserRepository) FindByUsername(username string) (*admin.User, error) {
	const query = `
		SELECT id, username, password_hash, requires_password_change, created_at
		FROM admins
		WHERE username = ?`

	var u admin.User
	var requiresChange int
	var createdAtStr string
	err := r.db.QueryRow(query, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &requiresChange, &createdAtStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Admin lookup failed", "error", err.Error(), "username", username)
		return nil, err
	}

	u.RequiresPasswordChange = requiresChange == 1
	if u.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create saves a new admin account.
func (r *SQLUserRepository) Create(username, passwordHash string, requiresPasswordChange bool) error {
	const query = `INSERT INTO admins (username, password_hash, requires_password_change) VALUES (?, ?, ?)`

	start := time.Now()
	requiresChange := 0
	if requiresPasswordChange {
		requiresChange = 1
	}

	_, err := r.db.Exec(query, username, passwordHash, requiresChange)
	if err != nil {
		r.logger.Database().Error("Admin insert failed", "error", err.Error(), "username", username)
		return err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// UpdatePassword replaces the password hash and clears the change-required flag.
func (r *SQLUserRepository) UpdatePassword(username, passwordHash string) error {
	const query = `UPDATE admins SET password_hash = ?, requires_password_change = 0 WHERE username = ?`

	start := time.Now()
	_, err := r.db.Exec(query, passwordHash, username)
	if err != nil {
		r.logger.Database().Error("Admin password update failed", "error", err.Error(), "username", username)
		return err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// Count returns the number of admin accounts.
func (r *SQLUserRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM admins`).Scan(&count)
	return count, err
}

// parseTimestamp handles both RFC3339 and the SQLite CURRENT_TIMESTAMP format.
func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
