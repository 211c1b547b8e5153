package repository

import (
	"context"
	"database/sql"
)

// JournalRepo persists confirmed orders.
type JournalRepo struct{ db *sql.DB }

func NewJournalRepo(db *sql.DB) *JournalRepo { return &JournalRepo{db: db} }

func (r *JournalRepo) Add(ctx context.Context, co ConfirmedOrder) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO confirmed_orders(
	 id, process_id, process_order_id, order_id, products, started_at, finished_at, duration_seconds, label_url, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, co.ID, co.ProcessID, co.ProcessOrderID, co.OrderID, co.Products, co.StartedAt, co.FinishedAt, co.DurationSeconds, co.LabelURL)
	return err
}

// ListByProcess returns the journal for one process, newest first.
func (r *JournalRepo) ListByProcess(ctx context.Context, processID int64) ([]ConfirmedOrder, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, process_id, process_order_id, order_id, products, started_at, finished_at, duration_seconds, label_url, created_at
	FROM confirmed_orders WHERE process_id = ? ORDER BY finished_at DESC`, processID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ConfirmedOrder
	for rows.Next() {
		var co ConfirmedOrder
		if err := rows.Scan(&co.ID, &co.ProcessID, &co.ProcessOrderID, &co.OrderID, &co.Products, &co.StartedAt, &co.FinishedAt, &co.DurationSeconds, &co.LabelURL, &co.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, co)
	}
	return out, rows.Err()
}

// CountByProcess returns how many orders this operator confirmed for a
// process.
func (r *JournalRepo) CountByProcess(ctx context.Context, processID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM confirmed_orders WHERE process_id = ?`, processID).Scan(&n)
	return n, err
}
