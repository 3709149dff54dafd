package store

import (
	"context"
	"database/sql"
	"errors"
)

// TodoItem is one entry on the user's TODO list.
type TodoItem struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// TodoItems returns every TODO item in insertion order.
func (s *Store) TodoItems(ctx context.Context) ([]*TodoItem, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, content, completed, created_at, updated_at
		FROM todo_items
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*TodoItem
	for rows.Next() {
		it := &TodoItem{}
		var completed int
		if err := rows.Scan(&it.ID, &it.Content, &completed, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		it.Completed = completed != 0
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetTodoItem returns the item with the given id, or nil when none exists.
func (s *Store) GetTodoItem(ctx context.Context, id int64) (*TodoItem, error) {
	it := &TodoItem{}
	var completed int
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, content, completed, created_at, updated_at
		FROM todo_items WHERE id = ?`, id).Scan(
		&it.ID, &it.Content, &completed, &it.CreatedAt, &it.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	it.Completed = completed != 0
	return it, nil
}

// CreateTodoItem inserts a new pending item and returns it with its assigned
// id and timestamps.
func (s *Store) CreateTodoItem(ctx context.Context, content string) (*TodoItem, error) {
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO todo_items (content) VALUES (?)`, content)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetTodoItem(ctx, id)
}

// UpdateTodoItem applies a partial update: nil fields are left unchanged.
// It returns the updated item, or nil when no item has the given id.
func (s *Store) UpdateTodoItem(ctx context.Context, id int64, content *string, completed *bool) (*TodoItem, error) {
	query := `UPDATE todo_items SET updated_at = CURRENT_TIMESTAMP`
	var args []any
	if content != nil {
		query += `, content = ?`
		args = append(args, *content)
	}
	if completed != nil {
		query += `, completed = ?`
		args = append(args, boolInt(*completed))
	}
	query += ` WHERE id = ?`
	args = append(args, id)

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return s.GetTodoItem(ctx, id)
}

// DeleteTodoItem removes the item with the given id. It reports whether a
// row was actually deleted.
func (s *Store) DeleteTodoItem(ctx context.Context, id int64) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM todo_items WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
