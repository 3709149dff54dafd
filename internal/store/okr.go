package store

import (
	"context"
	"database/sql"
	"errors"
)

// OKRReport is one saved OKR document, keyed by its creation date.
type OKRReport struct {
	CreationDate string `json:"creation_date"`
	Content      string `json:"content"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// SaveOKRReport inserts or replaces the OKR document for creationDate.
func (s *Store) SaveOKRReport(ctx context.Context, creationDate, content string) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO okr_reports (creation_date, content, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(creation_date) DO UPDATE SET
			content = excluded.content,
			updated_at = CURRENT_TIMESTAMP`,
		creationDate, content,
	)
	return err
}

// GetOKRReport returns the OKR document for creationDate, or nil when none
// exists.
func (s *Store) GetOKRReport(ctx context.Context, creationDate string) (*OKRReport, error) {
	r := &OKRReport{}
	err := s.DB.QueryRowContext(ctx, `
		SELECT creation_date, content, created_at, updated_at
		FROM okr_reports WHERE creation_date = ?`, creationDate).Scan(
		&r.CreationDate, &r.Content, &r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// LatestOKRReport returns the most recently dated OKR document, or nil when
// the table is empty.
func (s *Store) LatestOKRReport(ctx context.Context) (*OKRReport, error) {
	r := &OKRReport{}
	err := s.DB.QueryRowContext(ctx, `
		SELECT creation_date, content, created_at, updated_at
		FROM okr_reports
		ORDER BY creation_date DESC
		LIMIT 1`).Scan(
		&r.CreationDate, &r.Content, &r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// AllOKRReports returns every saved OKR document, newest first.
func (s *Store) AllOKRReports(ctx context.Context) ([]*OKRReport, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT creation_date, content, created_at, updated_at
		FROM okr_reports
		ORDER BY creation_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*OKRReport
	for rows.Next() {
		r := &OKRReport{}
		if err := rows.Scan(&r.CreationDate, &r.Content, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// DeleteOKRReport removes the OKR document for creationDate. It reports
// whether a row was actually deleted.
func (s *Store) DeleteOKRReport(ctx context.Context, creationDate string) (bool, error) {
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM okr_reports WHERE creation_date = ?`, creationDate)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
