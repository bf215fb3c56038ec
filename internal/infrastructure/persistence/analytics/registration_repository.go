package analytics

import (
	"database/sql"
	"time"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/analytics"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/database"
)

// SQLRegistrationRepository is the SQL-based implementation of the
// RegistrationRepository.
type SQLRegistrationRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLRegistrationRepository creates a new instance of the repository.
func NewSQLRegistrationRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLRegistrationRepository {
	return &SQLRegistrationRepository{
		db:     db,
		logger: logger,
	}
}

// Create saves a new registration row. registered_at is assigned by the database.
func (r *SQLRegistrationRepository) Create(registration *analytics.Registration) error {
	const query = `
		INSERT INTO registrations (visitor_id, email, name, phone, registration_data)
		VALUES (?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Analytics().Debug("Recording registration", "visitorId", logging.SanitizeVisitorID(registration.VisitorID))

	result, err := r.db.Exec(query, registration.VisitorID, registration.Email, registration.Name, registration.Phone, registration.RegistrationData)
	if err != nil {
		r.logger.Database().Error("Registration insert failed", "error", err.Error(), "visitorId", logging.SanitizeVisitorID(registration.VisitorID))
		return err
	}
	if id, err := result.LastInsertId(); err == nil {
		registration.ID = id
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// FindLatestByVisitorID retrieves the most recent registration for a visitor,
// or nil when none exists.
func (r *SQLRegistrationRepository) FindLatestByVisitorID(visitorID string) (*analytics.Registration, error) {
	const query = `
		SELECT id, visitor_id, email, name, phone, registration_data, registered_at
		FROM registrations
		WHERE visitor_id = ?
		ORDER BY registered_at DESC
		LIMIT 1`

	var reg analytics.Registration
	var registeredAtStr string
	err := r.db.QueryRow(query, visitorID).Scan(
		&reg.ID, &reg.VisitorID, &reg.Email, &reg.Name, &reg.Phone, &reg.RegistrationData, &registeredAtStr,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if reg.RegisteredAt, err = parseTimestamp(registeredAtStr); err != nil {
		return nil, err
	}
	return &reg, nil
}

// List retrieves registrations joined with visitor columns, newest first.
func (r *SQLRegistrationRepository) List(limit, offset int) ([]*analytics.RegistrationWithVisitor, error) {
	const query = `
		SELECT r.id, r.visitor_id, r.email, r.name, r.phone, r.registration_data, r.registered_at,
			v.ip_address, v.city, v.country, v.device_type
		FROM registrations r
		LEFT JOIN visitors v ON r.visitor_id = v.visitor_id
		ORDER BY r.registered_at DESC
		LIMIT ? OFFSET ?`

	start := time.Now()
	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		r.logger.Database().Error("Registration list query failed", "error", err.Error())
		return nil, err
	}
	defer rows.Close()

	var registrations []*analytics.RegistrationWithVisitor
	for rows.Next() {
		var reg analytics.RegistrationWithVisitor
		var registeredAtStr string
		err := rows.Scan(
			&reg.ID, &reg.VisitorID, &reg.Email, &reg.Name, &reg.Phone, &reg.RegistrationData, &registeredAtStr,
			&reg.IPAddress, &reg.City, &reg.Country, &reg.DeviceType,
		)
		if err != nil {
			return nil, err
		}
		if reg.RegisteredAt, err = parseTimestamp(registeredAtStr); err != nil {
			return nil, err
		}
		registrations = append(registrations, &reg)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return registrations, rows.Err()
}

// Count returns the total registration count.
func (r *SQLRegistrationRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM registrations`).Scan(&count)
	return count, err
}

// DeleteByVisitorID removes every registration for a visitor.
func (r *SQLRegistrationRepository) DeleteByVisitorID(visitorID string) error {
	const query = `DELETE FROM registrations WHERE visitor_id = ?`

	start := time.Now()
	_, err := r.db.Exec(query, visitorID)
	if err != nil {
		r.logger.Database().Error("Registration delete failed", "error", err.Error(), "visitorId", logging.SanitizeVisitorID(visitorID))
		return err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}
