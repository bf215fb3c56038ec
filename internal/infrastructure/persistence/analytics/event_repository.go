// Package analytics provides the concrete SQL-based implementations of the
// analytics domain repositories (Event, PageView, Registration).
package analytics

import (
	"time"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/analytics"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/database"
)

// SQLEventRepository is the SQL-based implementation of the EventRepository.
type SQLEventRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLEventRepository creates a new instance of the repository.
func NewSQLEventRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLEventRepository {
	return &SQLEventRepository{
		db:     db,
		logger: logger,
	}
}

// Create saves a new event row. The timestamp is assigned by the database.
func (r *SQLEventRepository) Create(event *analytics.Event) error {
	const query = `
		INSERT INTO events (visitor_id, event_type, event_data, page_url, session_id)
		VALUES (?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Analytics().Debug("Recording event", "visitorId", logging.SanitizeVisitorID(event.VisitorID), "eventType", event.EventType)

	result, err := r.db.Exec(query, event.VisitorID, event.EventType, event.EventData, event.PageURL, event.SessionID)
	if err != nil {
		r.logger.Database().Error("Event insert failed", "error", err.Error(), "visitorId", logging.SanitizeVisitorID(event.VisitorID))
		return err
	}
	if id, err := result.LastInsertId(); err == nil {
		event.ID = id
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// FindByVisitorID retrieves all events for a visitor, newest first.
func (r *SQLEventRepository) FindByVisitorID(visitorID string) ([]*analytics.Event, error) {
	const query = `
		SELECT id, visitor_id, event_type, event_data, page_url, session_id, timestamp
		FROM events
		WHERE visitor_id = ?
		ORDER BY timestamp DESC`

	start := time.Now()
	rows, err := r.db.Query(query, visitorID)
	if err != nil {
		r.logger.Database().Error("Event query failed", "error", err.Error(), "visitorId", logging.SanitizeVisitorID(visitorID))
		return nil, err
	}
	defer rows.Close()

	var events []*analytics.Event
	for rows.Next() {
		var e analytics.Event
		var timestampStr string
		if err := rows.Scan(&e.ID, &e.VisitorID, &e.EventType, &e.EventData, &e.PageURL, &e.SessionID, &timestampStr); err != nil {
			return nil, err
		}
		if e.Timestamp, err = parseTimestamp(timestampStr); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return events, rows.Err()
}

// ListRecent retrieves the newest events joined with visitor geo columns for
// the admin dashboard.
func (r *SQLEventRepository) ListRecent(limit int) ([]*analytics.EventWithVisitor, error) {
	const query = `
		SELECT e.id, e.visitor_id, e.event_type, e.event_data, e.page_url, e.session_id, e.timestamp,
			v.ip_address, v.city, v.country
		FROM events e
		LEFT JOIN visitors v ON e.visitor_id = v.visitor_id
		ORDER BY e.timestamp DESC
		LIMIT ?`

	start := time.Now()
	rows, err := r.db.Query(query, limit)
	if err != nil {
		r.logger.Database().Error("Recent events query failed", "error", err.Error())
		return nil, err
	}
	defer rows.Close()

	var events []*analytics.EventWithVisitor
	for rows.Next() {
		var e analytics.EventWithVisitor
		var timestampStr string
		err := rows.Scan(
			&e.ID, &e.VisitorID, &e.EventType, &e.EventData, &e.PageURL, &e.SessionID, &timestampStr,
			&e.IPAddress, &e.City, &e.Country,
		)
		if err != nil {
			return nil, err
		}
		if e.Timestamp, err = parseTimestamp(timestampStr); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return events, rows.Err()
}

// Count returns the total event count.
func (r *SQLEventRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&count)
	return count, err
}

// DeleteByVisitorID removes every event for a visitor.
func (r *SQLEventRepository) DeleteByVisitorID(visitorID string) error {
	const query = `DELETE FROM events WHERE visitor_id = ?`

	start := time.Now()
	_, err := r.db.Exec(query, visitorID)
	if err != nil {
		r.logger.Database().Error("Event delete failed", "error", err.Error(), "visitorId", logging.SanitizeVisitorID(visitorID))
		return err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// parseTimestamp handles both RFC3339 and the SQLite CURRENT_TIMESTAMP format.
func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
