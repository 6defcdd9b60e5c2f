package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/healthshield-server/internal/domain"
)

// PostgresStore implements the Store interface using PostgreSQL. It
// expects the schema to already exist (created via migrations at startup).
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *logrus.Logger
}

// NewPostgresStore creates a new PostgreSQL report store.
func NewPostgresStore(pool *pgxpool.Pool, logger *logrus.Logger) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("database connection pool is required")
	}
	return &PostgresStore{pool: pool, log: logger}, nil
}

// Create persists a new report and assigns its ID and timestamps.
func (s *PostgresStore) Create(ctx context.Context, report *domain.Report) error {
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now

	query := `
		INSERT INTO reports (
			name, age, gender, village, mobile, email,
			symptoms, risk_level, detected_diseases, risk_score,
			sms_sent, sms_timestamp, sms_recipient,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		) RETURNING id`

	err := s.pool.QueryRow(ctx, query,
		report.Name, report.Age, report.Gender, report.Village,
		report.Mobile, report.Email,
		report.Symptoms, string(report.RiskLevel), report.DetectedDiseases,
		report.RiskScore,
		report.SMSSent, report.SMSTimestamp, report.SMSRecipient,
		now, now,
	).Scan(&report.ID)

	if err != nil {
		s.log.WithFields(logrus.Fields{
			"village":    report.Village,
			"risk_level": report.RiskLevel,
			"error":      err,
		}).Error("Failed to create report")
		return fmt.Errorf("creating report: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"report_id":  report.ID,
		"village":    report.Village,
		"risk_level": report.RiskLevel,
	}).Info("Report created successfully")

	return nil
}

// List returns one page of reports, newest first.
func (s *PostgresStore) List(ctx context.Context, page, perPage int) (*ReportPage, error) {
	total, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * perPage
	query := `
		SELECT id, name, age, gender, village, mobile, email,
			symptoms, risk_level, detected_diseases, risk_score,
			sms_sent, sms_timestamp, sms_recipient,
			created_at, updated_at
		FROM reports
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := s.pool.Query(ctx, query, perPage, offset)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.Report, 0, perPage)
	for rows.Next() {
		r := &domain.Report{}
		var riskLevel string
		err := rows.Scan(
			&r.ID, &r.Name, &r.Age, &r.Gender, &r.Village, &r.Mobile, &r.Email,
			&r.Symptoms, &riskLevel, &r.DetectedDiseases, &r.RiskScore,
			&r.SMSSent, &r.SMSTimestamp, &r.SMSRecipient,
			&r.CreatedAt, &r.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		r.RiskLevel = domain.RiskTier(riskLevel)
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &ReportPage{
		Items: items,
		Total: total,
		Pages: pageCount(total, perPage),
		Page:  page,
	}, nil
}

// Count returns the total number of stored reports.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM reports").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting reports: %w", err)
	}
	return count, nil
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
