package store

import (
	"context"
	"database/sql"
	"errors"
)

// WeeklyReport is one saved weekly report, keyed by its Monday-Friday pair.
type WeeklyReport struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// SaveWeeklyReport inserts or replaces the report for the week.
func (s *Store) SaveWeeklyReport(ctx context.Context, startDate, endDate, content string) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO weekly_reports (start_date, end_date, content, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(start_date, end_date) DO UPDATE SET
			content = excluded.content,
			updated_at = CURRENT_TIMESTAMP`,
		startDate, endDate, content,
	)
	return err
}

// GetWeeklyReport returns the report for the exact week, or nil when none
// exists.
func (s *Store) GetWeeklyReport(ctx context.Context, startDate, endDate string) (*WeeklyReport, error) {
	r := &WeeklyReport{}
	err := s.DB.QueryRowContext(ctx, `
		SELECT start_date, end_date, content, created_at, updated_at
		FROM weekly_reports
		WHERE start_date = ? AND end_date = ?`, startDate, endDate).Scan(
		&r.StartDate, &r.EndDate, &r.Content, &r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// LatestWeeklyReport returns the report whose end date is closest to today
// (a YYYY-MM-DD string), or nil when the table is empty.
func (s *Store) LatestWeeklyReport(ctx context.Context, today string) (*WeeklyReport, error) {
	r := &WeeklyReport{}
	err := s.DB.QueryRowContext(ctx, `
		SELECT start_date, end_date, content, created_at, updated_at
		FROM weekly_reports
		ORDER BY ABS(julianday(end_date) - julianday(?))
		LIMIT 1`, today).Scan(
		&r.StartDate, &r.EndDate, &r.Content, &r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// SearchWeeklyReports returns the reports matching the given filters, newest
// week first. Empty filter strings match everything.
func (s *Store) SearchWeeklyReports(ctx context.Context, startDate, endDate string) ([]*WeeklyReport, error) {
	query := `SELECT start_date, end_date, content, created_at, updated_at
	          FROM weekly_reports WHERE 1=1`
	var args []any
	if startDate != "" {
		query += ` AND start_date = ?`
		args = append(args, startDate)
	}
	if endDate != "" {
		query += ` AND end_date = ?`
		args = append(args, endDate)
	}
	query += ` ORDER BY end_date DESC`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*WeeklyReport
	for rows.Next() {
		r := &WeeklyReport{}
		if err := rows.Scan(&r.StartDate, &r.EndDate, &r.Content, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// AllWeeklyReports returns every saved weekly report, newest week first.
func (s *Store) AllWeeklyReports(ctx context.Context) ([]*WeeklyReport, error) {
	return s.SearchWeeklyReports(ctx, "", "")
}

// DeleteWeeklyReport removes the report for the exact week. It reports
// whether a row was actually deleted.
func (s *Store) DeleteWeeklyReport(ctx context.Context, startDate, endDate string) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `
		DELETE FROM weekly_reports
		WHERE start_date = ? AND end_date = ?`, startDate, endDate)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
