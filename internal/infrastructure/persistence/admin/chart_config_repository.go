package admin

import (
	"database/sql"
	"time"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/admin"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/database"
)

// SQLChartConfigRepository is the SQL-based implementation of the
// ChartConfigRepository.
type SQLChartConfigRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLChartConfigRepository creates a new instance of the repository.
func NewSQLChartConfigRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLChartConfigRepository {
	return &SQLChartConfigRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert replaces the stored chart layout for an admin.
func (r *SQLChartConfigRepository) Upsert(username, configs string) error {
	const query = `
		INSERT INTO chart_configs (username, configs, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET configs = excluded.configs, updated_at = excluded.updated_at`

	start := time.Now()
	_, err := r.db.Exec(query, username, configs, time.Now().UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		r.logger.Database().Error("Chart config upsert failed", "error", err.Error(), "username", username)
		return err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// FindByUsername retrieves the stored chart layout, or nil when none exists.
func (r *SQLChartConfigRepository) FindByUsername(username string) (*admin.ChartConfig, error) {
	const query = `SELECT username, configs, updated_at FROM chart_configs WHERE username = ?`

	var cfg admin.ChartConfig
	var updatedAtStr string
	err := r.db.QueryRow(query, username).Scan(&cfg.Username, &cfg.Configs, &updatedAtStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Chart config query failed", "error", err.Error(), "username", username)
		return nil, err
	}

	if cfg.UpdatedAt, err = parseTimestamp(updatedAtStr); err != nil {
		return nil, err
	}
	return &cfg, nil
}
