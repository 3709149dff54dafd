package store

import (
	"context"
	"database/sql"
	"errors"
)

// DailyReport is one saved daily log, keyed by its calendar date.
type DailyReport struct {
	EntryDate string `json:"entry_date"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// SaveDailyReport inserts or replaces the report for entryDate.
func (s *Store) SaveDailyReport(ctx context.Context, entryDate, content string) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO daily_reports (entry_date, content, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(entry_date) DO UPDATE SET
			content = excluded.content,
			updated_at = CURRENT_TIMESTAMP`,
		entryDate, content,
	)
	return err
}

// GetDailyReport returns the report for entryDate, or nil when none exists.
func (s *Store) GetDailyReport(ctx context.Context, entryDate string) (*DailyReport, error) {
	r := &DailyReport{}
	err := s.DB.QueryRowContext(ctx, `
		SELECT entry_date, content, created_at, updated_at
		FROM daily_reports WHERE entry_date = ?`, entryDate).Scan(
		&r.EntryDate, &r.Content, &r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// DailyReportsInRange returns the reports with startDate <= entry_date <=
// endDate, ordered by date ascending.
func (s *Store) DailyReportsInRange(ctx context.Context, startDate, endDate string) ([]*DailyReport, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT entry_date, content, created_at, updated_at
		FROM daily_reports
		WHERE entry_date >= ? AND entry_date <= ?
		ORDER BY entry_date`, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*DailyReport
	for rows.Next() {
		r := &DailyReport{}
		if err := rows.Scan(&r.EntryDate, &r.Content, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// DailyReportDates returns every date that has a saved report, newest first.
func (s *Store) DailyReportDates(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT entry_date FROM daily_reports ORDER BY entry_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// DeleteDailyReport removes the report for entryDate. It reports whether a
// row was actually deleted.
func (s *Store) DeleteDailyReport(ctx context.Context, entryDate string) (bool, error) {
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM daily_reports WHERE entry_date = ?`, entryDate)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
