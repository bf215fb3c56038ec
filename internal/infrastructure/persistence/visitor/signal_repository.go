package visitor

import (
	"time"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/visitor"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/database"
)

// SQLSignalRepository is the SQL-based implementation of the SignalRepository.
// Signal rows are append-only: inserted on submission, bulk-deleted on opt-out.
type SQLSignalRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLSignalRepository creates a new instance of the repository.
func NewSQLSignalRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLSignalRepository {
	return &SQLSignalRepository{
		db:     db,
		logger: logger,
	}
}

// Create saves a new raw signal row.
func (r *SQLSignalRepository) Create(record *visitor.SignalRecord) error {
	const query = `
		INSERT INTO visitor_signals (
			id, visitor_id, fingerprint_id, timezone, language, languages,
			screen_resolution, color_depth, hardware_concurrency, device_memory,
			platform, touch_support, cookie_enabled, do_not_track,
			hour_of_day, day_of_week, is_weekday, is_business_hours,
			referrer, landing_page, collected_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing signal insert", "visitorId", logging.SanitizeVisitorID(record.VisitorID))

	_, err := r.db.Exec(
		query,
		record.ID,
		record.VisitorID,
		record.FingerprintID,
		record.Timezone,
		record.Language,
		record.Languages,
		record.ScreenResolution,
		record.ColorDepth,
		record.HardwareConcurrency,
		record.DeviceMemory,
		record.Platform,
		boolToInt(record.TouchSupport),
		boolToInt(record.CookieEnabled),
		record.DoNotTrack,
		record.HourOfDay,
		record.DayOfWeek,
		boolToInt(record.IsWeekday),
		boolToInt(record.IsBusinessHours),
		record.Referrer,
		record.LandingPage,
		record.CollectedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		r.logger.Database().Error("Signal insert failed", "error", err.Error(), "visitorId", logging.SanitizeVisitorID(record.VisitorID))
		return err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// FindByVisitorID retrieves all signal rows for a visitor, newest first.
func (r *SQLSignalRepository) FindByVisitorID(visitorID string) ([]*visitor.SignalRecord, error) {
	const query = `
		SELECT id, visitor_id, fingerprint_id, timezone, language, languages,
			screen_resolution, color_depth, hardware_concurrency, device_memory,
			platform, touch_support, cookie_enabled, do_not_track,
			hour_of_day, day_of_week, is_weekday, is_business_hours,
			referrer, landing_page, collected_at
		FROM visitor_signals
		WHERE visitor_id = ?
		ORDER BY collected_at DESC`

	start := time.Now()
	rows, err := r.db.Query(query, visitorID)
	if err != nil {
		r.logger.Database().Error("Signal query failed", "error", err.Error(), "visitorId", logging.SanitizeVisitorID(visitorID))
		return nil, err
	}
	defer rows.Close()

	var records []*visitor.SignalRecord
	for rows.Next() {
		var record visitor.SignalRecord
		var touchSupport, cookieEnabled, isWeekday, isBusinessHours int
		var collectedAtStr string

		err := rows.Scan(
			&record.ID,
			&record.VisitorID,
			&record.FingerprintID,
			&record.Timezone,
			&record.Language,
			&record.Languages,
			&record.ScreenResolution,
			&record.ColorDepth,
			&record.HardwareConcurrency,
			&record.DeviceMemory,
			&record.Platform,
			&touchSupport,
			&cookieEnabled,
			&record.DoNotTrack,
			&record.HourOfDay,
			&record.DayOfWeek,
			&isWeekday,
			&isBusinessHours,
			&record.Referrer,
			&record.LandingPage,
			&collectedAtStr,
		)
		if err != nil {
			return nil, err
		}

		record.TouchSupport = touchSupport == 1
		record.CookieEnabled = cookieEnabled == 1
		record.IsWeekday = isWeekday == 1
		record.IsBusinessHours = isBusinessHours == 1
		if record.CollectedAt, err = parseTimestamp(collectedAtStr); err != nil {
			return nil, err
		}

		records = append(records, &record)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return records, rows.Err()
}

// DeleteByVisitorID removes every signal row for a visitor (opt-out purge).
func (r *SQLSignalRepository) DeleteByVisitorID(visitorID string) error {
	const query = `DELETE FROM visitor_signals WHERE visitor_id = ?`

	start := time.Now()
	_, err := r.db.Exec(query, visitorID)
	if err != nil {
		r.logger.Database().Error("Signal delete failed", "error", err.Error(), "visitorId", logging.SanitizeVisitorID(visitorID))
		return err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
