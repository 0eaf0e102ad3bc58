package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"woo-analytics/models"
	"woo-analytics/utils"
)

// ArchiveWriter persists per-run report summaries to PostgreSQL. Only
// derived rollups are stored — never the fetched order data itself.
type ArchiveWriter struct {
	db *sql.DB
}

// NewArchiveWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use ArchiveWriter.
func NewArchiveWriter(dsn string, logger *utils.Logger) (*ArchiveWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: 5, BaseDelay: 2 * time.Second, Logger: logger}
	if err := retry.Do("postgres ping", db.Ping); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	aw := &ArchiveWriter{db: db}
	if err := aw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return aw, nil
}

func (aw *ArchiveWriter) migrate() error {
	_, err := aw.db.Exec(`
		CREATE TABLE IF NOT EXISTS report_runs (
			run_id        TEXT PRIMARY KEY,
			period_start  DATE          NOT NULL,
			period_end    DATE          NOT NULL,
			status_filter VARCHAR(50)   NOT NULL,
			order_count   INT           NOT NULL,
			product_rows  INT           NOT NULL,
			revenue       NUMERIC(12,2) NOT NULL DEFAULT 0,
			generated_at  TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS report_bands (
			id      SERIAL PRIMARY KEY,
			run_id  TEXT          NOT NULL REFERENCES report_runs(run_id) ON DELETE CASCADE,
			scheme  VARCHAR(50)   NOT NULL,
			label   TEXT          NOT NULL,
			orders  INT           NOT NULL,
			total   NUMERIC(12,2) NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_report_bands_run ON report_bands(run_id);
	`)
	return err
}

// Archive stores the run's metadata and its band rollups.
func (aw *ArchiveWriter) Archive(report *models.Report) error {
	revenue := decimal.Zero
	for _, d := range report.Daily {
		revenue = revenue.Add(d.Total)
	}

	_, err := aw.db.Exec(`
		INSERT INTO report_runs (run_id, period_start, period_end, status_filter,
			order_count, product_rows, revenue, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, report.RunID, report.PeriodStart, report.PeriodEnd, report.StatusFilter,
		len(report.Orders), len(report.Products), revenue, report.GeneratedAt)
	if err != nil {
		return fmt.Errorf("postgres: insert run: %w", err)
	}

	if err := aw.insertBands(report.RunID, "spending", report.SpendingRanges); err != nil {
		return err
	}
	return aw.insertBands(report.RunID, "age", report.AgeRanges)
}

func (aw *ArchiveWriter) insertBands(runID, scheme string, rows []models.BucketRow) error {
	if len(rows) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(rows))
	valueArgs := make([]interface{}, 0, len(rows)*5)

	for idx, b := range rows {
		base := idx * 5
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4, base+5))
		valueArgs = append(valueArgs, runID, scheme, b.Label, b.Orders, b.Total)
	}

	query := fmt.Sprintf(`
		INSERT INTO report_bands (run_id, scheme, label, orders, total)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	if _, err := aw.db.Exec(query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert %s bands: %w", scheme, err)
	}
	return nil
}

// RecentRuns returns the most recent archived run summaries, newest first.
func (aw *ArchiveWriter) RecentRuns(limit int) ([]models.Report, error) {
	rows, err := aw.db.Query(`
		SELECT run_id, period_start, period_end, status_filter, generated_at
		FROM report_runs
		ORDER BY generated_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: recent runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Report
	for rows.Next() {
		var r models.Report
		if err := rows.Scan(&r.RunID, &r.PeriodStart, &r.PeriodEnd, &r.StatusFilter, &r.GeneratedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (aw *ArchiveWriter) Close() error {
	return aw.db.Close()
}
