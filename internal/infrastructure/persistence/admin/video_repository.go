package admin

import (
	"database/sql"
	"time"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/admin"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/database"
)

// SQLVideoRepository is the SQL-based implementation of the VideoRepository.
type SQLVideoRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLVideoRepository creates a new instance of the repository.
func NewSQLVideoRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLVideoRepository {
	return &SQLVideoRepository{
		db:     db,
		logger: logger,
	}
}

const videoColumns = `id, video_url, video_type, button_delay_seconds, is_active, created_at`

// FindActive retrieves the single active configuration, or nil when none is set.
func (r *SQLVideoRepository) FindActive() (*admin.VideoConfig, error) {
	query := `SELECT ` + videoColumns + ` FROM video_config WHERE is_active = 1 ORDER BY created_at DESC LIMIT 1`
	return r.queryOne(query)
}

// FindLatest retrieves the most recently created configuration regardless of
// its active flag.
func (r *SQLVideoRepository) FindLatest() (*admin.VideoConfig, error) {
	query := `SELECT ` + videoColumns + ` FROM video_config ORDER BY created_at DESC, id DESC LIMIT 1`
	return r.queryOne(query)
}

// Activate deactivates every existing row and inserts the new active row in a
// single transaction, so at most one configuration is ever active.
func (r *SQLVideoRepository) Activate(videoURL, videoType string, buttonDelaySeconds int) (*admin.VideoConfig, error) {
	start := time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE video_config SET is_active = 0 WHERE is_active = 1`); err != nil {
		r.logger.Database().Error("Video deactivation failed", "error", err.Error())
		return nil, err
	}

	result, err := tx.Exec(
		`INSERT INTO video_config (video_url, video_type, button_delay_seconds, is_active) VALUES (?, ?, ?, 1)`,
		videoURL, videoType, buttonDelaySeconds,
	)
	if err != nil {
		r.logger.Database().Error("Video insert failed", "error", err.Error())
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	var cfg admin.VideoConfig
	var isActive int
	var createdAtStr string
	err = tx.QueryRow(`SELECT `+videoColumns+` FROM video_config WHERE id = ?`, id).Scan(
		&cfg.ID, &cfg.VideoURL, &cfg.VideoType, &cfg.ButtonDelaySeconds, &isActive, &createdAtStr,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	cfg.IsActive = isActive == 1
	if cfg.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return nil, err
	}

	database.CheckAndLogSlowQuery(r.logger, "video_config activate transaction", time.Since(start))
	return &cfg, nil
}

// Delete removes a configuration row by ID.
func (r *SQLVideoRepository) Delete(id int64) error {
	const query = `DELETE FROM video_config WHERE id = ?`

	start := time.Now()
	_, err := r.db.Exec(query, id)
	if err != nil {
		r.logger.Database().Error("Video delete failed", "error", err.Error(), "id", id)
		return err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// CountActive returns the number of active configurations (at most one when
// all writes go through Activate).
func (r *SQLVideoRepository) CountActive() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM video_config WHERE is_active = 1`).Scan(&count)
	return count, err
}

func (r *SQLVideoRepository) queryOne(query string) (*admin.VideoConfig, error) {
	var cfg admin.VideoConfig
	var isActive int
	var createdAtStr string

	err := r.db.QueryRow(query).Scan(
		&cfg.ID, &cfg.VideoURL, &cfg.VideoType, &cfg.ButtonDelaySeconds, &isActive, &createdAtStr,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Video config query failed", "error", err.Error())
		return nil, err
	}

	cfg.IsActive = isActive == 1
	if cfg.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return nil, err
	}
	return &cfg, nil
}
