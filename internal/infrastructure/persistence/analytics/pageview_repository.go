package analytics

import (
	"time"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/analytics"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/database"
)

// SQLPageViewRepository is the SQL-based implementation of the PageViewRepository.
type SQLPageViewRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLPageViewRepository creates a new instance of the repository.
func NewSQLPageViewRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLPageViewRepository {
	return &SQLPageViewRepository{
		db:     db,
		logger: logger,
	}
}

// Create saves a new page view row. viewed_at is assigned by the database.
func (r *SQLPageViewRepository) Create(view *analytics.PageView) error {
	const query = `
		INSERT INTO page_views (visitor_id, page_url, page_title, session_id, time_spent, scroll_depth)
		VALUES (?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Analytics().Debug("Recording page view", "visitorId", logging.SanitizeVisitorID(view.VisitorID))

	result, err := r.db.Exec(query, view.VisitorID, view.PageURL, view.PageTitle, view.SessionID, view.TimeSpent, view.ScrollDepth)
	if err != nil {
		r.logger.Database().Error("Page view insert failed", "error", err.Error(), "visitorId", logging.SanitizeVisitorID(view.VisitorID))
		return err
	}
	if id, err := result.LastInsertId(); err == nil {
		view.ID = id
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// FindByVisitorID retrieves all page views for a visitor, newest first.
func (r *SQLPageViewRepository) FindByVisitorID(visitorID string) ([]*analytics.PageView, error) {
	const query = `
		SELECT id, visitor_id, page_url, page_title, session_id, time_spent, scroll_depth, viewed_at
		FROM page_views
		WHERE visitor_id = ?
		ORDER BY viewed_at DESC`

	start := time.Now()
	rows, err := r.db.Query(query, visitorID)
	if err != nil {
		r.logger.Database().Error("Page view query failed", "error", err.Error(), "visitorId", logging.SanitizeVisitorID(visitorID))
		return nil, err
	}
	defer rows.Close()

	var views []*analytics.PageView
	for rows.Next() {
		var v analytics.PageView
		var viewedAtStr string
		if err := rows.Scan(&v.ID, &v.VisitorID, &v.PageURL, &v.PageTitle, &v.SessionID, &v.TimeSpent, &v.ScrollDepth, &viewedAtStr); err != nil {
			return nil, err
		}
		if v.ViewedAt, err = parseTimestamp(viewedAtStr); err != nil {
			return nil, err
		}
		views = append(views, &v)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return views, rows.Err()
}

// Count returns the total page view count.
func (r *SQLPageViewRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM page_views`).Scan(&count)
	return count, err
}

// DeleteByVisitorID removes every page view for a visitor.
func (r *SQLPageViewRepository) DeleteByVisitorID(visitorID string) error {
	const query = `DELETE FROM page_views WHERE visitor_id = ?`

	start := time.Now()
	_, err := r.db.Exec(query, visitorID)
	if err != nil {
		r.logger.Database().Error("Page view delete failed", "error", err.Error(), "visitorId", logging.SanitizeVisitorID(visitorID))
		return err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}
