package visitor

import (
	"time"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/visitor"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/database"
)

// SQLDemographicRepository is the SQL-based implementation of the
// DemographicRepository. Inference runs are append-only history; only the
// newest is reflected on the visitor row.
type SQLDemographicRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLDemographicRepository creates a new instance of the repository.
func NewSQLDemographicRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLDemographicRepository {
	return &SQLDemographicRepository{
		db:     db,
		logger: logger,
	}
}

// Create saves a new inference run.
func (r *SQLDemographicRepository) Create(d *visitor.InferredDemographic) error {
	const query = `
		INSERT INTO inferred_demographics (
			id, visitor_id, age_range, gender, occupation, education_level,
			interests, confidence_score, algorithm_version, inferred_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing demographic insert", "visitorId", logging.SanitizeVisitorID(d.VisitorID), "confidence", d.ConfidenceScore)

	_, err := r.db.Exec(
		query,
		d.ID,
		d.VisitorID,
		d.AgeRange,
		d.Gender,
		d.Occupation,
		d.EducationLevel,
		d.Interests,
		d.ConfidenceScore,
		d.AlgorithmVersion,
		d.InferredAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		r.logger.Database().Error("Demographic insert failed", "error", err.Error(), "visitorId", logging.SanitizeVisitorID(d.VisitorID))
		return err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// FindByVisitorID retrieves the inference history for a visitor, newest first.
func (r *SQLDemographicRepository) FindByVisitorID(visitorID string) ([]*visitor.InferredDemographic, error) {
	const query = `
		SELECT id, visitor_id, age_range, gender, occupation, education_level,
			interests, confidence_score, algorithm_version, inferred_at
		FROM inferred_demographics
		WHERE visitor_id = ?
		ORDER BY inferred_at DESC`

	start := time.Now()
	rows, err := r.db.Query(query, visitorID)
	if err != nil {
		r.logger.Database().Error("Demographic query failed", "error", err.Error(), "visitorId", logging.SanitizeVisitorID(visitorID))
		return nil, err
	}
	defer rows.Close()

	var runs []*visitor.InferredDemographic
	for rows.Next() {
		var d visitor.InferredDemographic
		var inferredAtStr string

		err := rows.Scan(
			&d.ID,
			&d.VisitorID,
			&d.AgeRange,
			&d.Gender,
			&d.Occupation,
			&d.EducationLevel,
			&d.Interests,
			&d.ConfidenceScore,
			&d.AlgorithmVersion,
			&inferredAtStr,
		)
		if err != nil {
			return nil, err
		}

		if d.InferredAt, err = parseTimestamp(inferredAtStr); err != nil {
			return nil, err
		}

		runs = append(runs, &d)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return runs, rows.Err()
}

// DeleteByVisitorID removes every inference row for a visitor.
func (r *SQLDemographicRepository) DeleteByVisitorID(visitorID string) error {
	const query = `DELETE FROM inferred_demographics WHERE visitor_id = ?`

	start := time.Now()
	_, err := r.db.Exec(query, visitorID)
	if err != nil {
		r.logger.Database().Error("Demographic delete failed", "error", err.Error(), "visitorId", logging.SanitizeVisitorID(visitorID))
		return err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}
