// Package visitor provides the concrete SQL-based implementations of
// the visitor domain repositories (Visitor, SignalRecord, InferredDemographic).
package visitor

import (
	"database/sql"
	"time"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/visitor"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/database"
)

// SQLVisitorRepository is the SQL-based implementation of the visitor Repository.
type SQLVisitorRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLVisitorRepository creates a new instance of the repository.
func NewSQLVisitorRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLVisitorRepository {
	return &SQLVisitorRepository{
		db:     db,
		logger: logger,
	}
}

const visitorColumns = `id, visitor_id, ip_address, country, city, region, user_agent,
	device_type, browser, os, referrer, landing_page, first_visit, last_visit,
	total_visits, age_range, gender, interests, occupation, education_level`

// FindByVisitorID retrieves a Visitor by its opaque client-generated ID.
func (r *SQLVisitorRepository) FindByVisitorID(visitorID string) (*visitor.Visitor, error) {
	query := `SELECT ` + visitorColumns + ` FROM visitors WHERE visitor_id = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading visitor", "visitorId", logging.SanitizeVisitorID(visitorID))

	row := r.db.QueryRow(query, visitorID)
	v, err := scanVisitor(row)
	if err != nil {
		r.logger.Database().Error("Failed to load visitor", "error", err.Error(), "visitorId", logging.SanitizeVisitorID(visitorID))
		return nil, err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return v, nil
}

// Create saves a new Visitor row with the submitted attributes.
func (r *SQLVisitorRepository) Create(visitorID string, data visitor.UserData) error {
	const query = `
		INSERT INTO visitors
		(visitor_id, ip_address, country, city, region, user_agent, device_type, browser, os, referrer, landing_page)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing visitor insert", "visitorId", logging.SanitizeVisitorID(visitorID))

	_, err := r.db.Exec(
		query,
		visitorID,
		data.IP,
		data.Country,
		data.City,
		data.Region,
		data.UserAgent,
		data.DeviceType,
		data.Browser,
		data.OS,
		data.Referrer,
		data.LandingPage,
	)
	if err != nil {
		r.logger.Database().Error("Visitor insert failed", "error", err.Error(), "visitorId", logging.SanitizeVisitorID(visitorID))
		return err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// Touch refreshes last_visit, increments the visit counter, and keeps the old
// IP/user-agent when the new values are nil (COALESCE semantics).
func (r *SQLVisitorRepository) Touch(visitorID string, ip, userAgent *string) error {
	const query = `
		UPDATE visitors SET
			last_visit = ?,
			total_visits = total_visits + 1,
			ip_address = COALESCE(?, ip_address),
			user_agent = COALESCE(?, user_agent)
		WHERE visitor_id = ?`

	start := time.Now()
	_, err := r.db.Exec(query, time.Now().UTC().Format("2006-01-02 15:04:05"), ip, userAgent, visitorID)
	if err != nil {
		r.logger.Database().Error("Visitor touch failed", "error", err.Error(), "visitorId", logging.SanitizeVisitorID(visitorID))
		return err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// UpdateDemographics overwrites the denormalized demographic columns.
func (r *SQLVisitorRepository) UpdateDemographics(visitorID string, d visitor.Demographics) error {
	const query = `
		UPDATE visitors SET
			age_range = ?,
			gender = ?,
			interests = ?,
			occupation = ?,
			education_level = ?
		WHERE visitor_id = ?`

	start := time.Now()
	_, err := r.db.Exec(query, d.AgeRange, d.Gender, d.Interests, d.Occupation, d.EducationLevel, visitorID)
	if err != nil {
		r.logger.Database().Error("Visitor demographics update failed", "error", err.Error(), "visitorId", logging.SanitizeVisitorID(visitorID))
		return err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// ClearDemographics nulls the five demographic columns (DNT opt-out path).
func (r *SQLVisitorRepository) ClearDemographics(visitorID string) error {
	const query = `
		UPDATE visitors SET
			age_range = NULL,
			gender = NULL,
			interests = NULL,
			occupation = NULL,
			education_level = NULL
		WHERE visitor_id = ?`

	start := time.Now()
	_, err := r.db.Exec(query, visitorID)
	if err != nil {
		r.logger.Database().Error("Visitor demographics clear failed", "error", err.Error(), "visitorId", logging.SanitizeVisitorID(visitorID))
		return err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// List returns visitors ordered by most recent visit.
func (r *SQLVisitorRepository) List(limit, offset int) ([]*visitor.Visitor, error) {
	query := `SELECT ` + visitorColumns + ` FROM visitors ORDER BY last_visit DESC LIMIT ? OFFSET ?`

	start := time.Now()
	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		r.logger.Database().Error("Visitor list query failed", "error", err.Error())
		return nil, err
	}
	defer rows.Close()

	var visitors []*visitor.Visitor
	for rows.Next() {
		v, err := scanVisitorFromRows(rows)
		if err != nil {
			return nil, err
		}
		visitors = append(visitors, v)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return visitors, rows.Err()
}

// Count returns the total visitor count.
func (r *SQLVisitorRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM visitors`).Scan(&count)
	return count, err
}

// CountSince returns the number of visitors whose last visit is after the
// given instant.
func (r *SQLVisitorRepository) CountSince(since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM visitors WHERE last_visit > ?`,
		since.UTC().Format("2006-01-02 15:04:05"),
	).Scan(&count)
	return count, err
}

// Delete removes the visitor row itself; dependent rows are removed first by
// the privacy service cascade.
func (r *SQLVisitorRepository) Delete(visitorID string) error {
	const query = `DELETE FROM visitors WHERE visitor_id = ?`

	start := time.Now()
	_, err := r.db.Exec(query, visitorID)
	if err != nil {
		r.logger.Database().Error("Visitor delete failed", "error", err.Error(), "visitorId", logging.SanitizeVisitorID(visitorID))
		return err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVisitorInto(s rowScanner) (*visitor.Visitor, error) {
	var v visitor.Visitor
	var firstVisitStr, lastVisitStr string

	err := s.Scan(
		&v.ID,
		&v.VisitorID,
		&v.IPAddress,
		&v.Country,
		&v.City,
		&v.Region,
		&v.UserAgent,
		&v.DeviceType,
		&v.Browser,
		&v.OS,
		&v.Referrer,
		&v.LandingPage,
		&firstVisitStr,
		&lastVisitStr,
		&v.TotalVisits,
		&v.AgeRange,
		&v.Gender,
		&v.Interests,
		&v.Occupation,
		&v.EducationLevel,
	)
	if err != nil {
		return nil, err
	}

	if v.FirstVisit, err = parseTimestamp(firstVisitStr); err != nil {
		return nil, err
	}
	if v.LastVisit, err = parseTimestamp(lastVisitStr); err != nil {
		return nil, err
	}

	return &v, nil
}

// scanVisitor is a helper function to scan a sql.Row into a Visitor struct.
func scanVisitor(row *sql.Row) (*visitor.Visitor, error) {
	v, err := scanVisitorInto(row)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	return v, err
}

// scanVisitorFromRows is a helper function to scan from sql.Rows into a Visitor struct.
func scanVisitorFromRows(rows *sql.Rows) (*visitor.Visitor, error) {
	return scanVisitorInto(rows)
}

// parseTimestamp handles both RFC3339 and the SQLite CURRENT_TIMESTAMP format.
func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
