package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/healthshield-server/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite. It is the
// default backend for single-node deployments.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite report store.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	// Create schema
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// createSchema creates the database tables and indexes.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		age INTEGER NOT NULL,
		gender TEXT NOT NULL,
		village TEXT NOT NULL,
		mobile TEXT NOT NULL,
		email TEXT DEFAULT '',
		symptoms TEXT NOT NULL,
		risk_level TEXT NOT NULL,
		detected_diseases TEXT DEFAULT '',
		risk_score REAL NOT NULL,
		sms_sent INTEGER NOT NULL DEFAULT 0,
		sms_timestamp DATETIME,
		sms_recipient TEXT DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
	CREATE INDEX IF NOT EXISTS idx_reports_risk_level ON reports(risk_level);
	`

	_, err := db.Exec(schema)
	return err
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanReport scans a row into a Report struct.
func scanReport(s scanner) (*domain.Report, error) {
	r := &domain.Report{}
	var riskLevel string

	err := s.Scan(
		&r.ID, &r.Name, &r.Age, &r.Gender, &r.Village, &r.Mobile, &r.Email,
		&r.Symptoms, &riskLevel, &r.DetectedDiseases, &r.RiskScore,
		&r.SMSSent, &r.SMSTimestamp, &r.SMSRecipient,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.RiskLevel = domain.RiskTier(riskLevel)
	return r, nil
}

// Create persists a new report and assigns its ID and timestamps.
func (s *SQLiteStore) Create(ctx context.Context, report *domain.Report) error {
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (
			name, age, gender, village, mobile, email,
			symptoms, risk_level, detected_diseases, risk_score,
			sms_sent, sms_timestamp, sms_recipient,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.Name, report.Age, report.Gender, report.Village,
		report.Mobile, report.Email,
		report.Symptoms, string(report.RiskLevel), report.DetectedDiseases,
		report.RiskScore,
		report.SMSSent, report.SMSTimestamp, report.SMSRecipient,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert ID: %w", err)
	}
	report.ID = id

	return nil
}

// List returns one page of reports, newest first.
func (s *SQLiteStore) List(ctx context.Context, page, perPage int) (*ReportPage, error) {
	total, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * perPage
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, age, gender, village, mobile, email,
			symptoms, risk_level, detected_diseases, risk_score,
			sms_sent, sms_timestamp, sms_recipient,
			created_at, updated_at
		FROM reports
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, perPage, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.Report, 0, perPage)
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
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
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
