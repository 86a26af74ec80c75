package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"homecafe/order-svc/internal/domain"
)

const orderColumns = `order_id, order_date, order_time, customer_name, customer_handle, customer_id, items_summary, total, status`

// PostgresOrderStore is the order log kept in a database table. The serial
// id column preserves append order.
type PostgresOrderStore struct {
	DB *sql.DB
}

func NewPostgresOrderStore(db *sql.DB) *PostgresOrderStore {
	return &PostgresOrderStore{DB: db}
}

func (r *PostgresOrderStore) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS cafe_orders (
			id SERIAL PRIMARY KEY,
			order_id TEXT NOT NULL,
			order_date TEXT NOT NULL,
			order_time TEXT NOT NULL,
			customer_name TEXT NOT NULL,
			customer_handle TEXT NOT NULL,
			customer_id BIGINT NOT NULL,
			items_summary TEXT NOT NULL,
			total NUMERIC(10, 2) NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending'
		)`,
		"CREATE INDEX IF NOT EXISTS cafe_orders_status_idx ON cafe_orders (status)",
		"CREATE INDEX IF NOT EXISTS cafe_orders_date_idx ON cafe_orders (order_date)",
	}
	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row scanner) (domain.OrderRecord, error) {
	var rec domain.OrderRecord
	var status string
	if err := row.Scan(&rec.OrderID, &rec.Date, &rec.Time, &rec.CustomerName, &rec.CustomerHandle,
		&rec.CustomerID, &rec.ItemsSummary, &rec.Total, &status); err != nil {
		return domain.OrderRecord{}, err
	}
	rec.Status = domain.OrderStatus(status)
	return rec, nil
}

func (r *PostgresOrderStore) Append(ctx context.Context, rec domain.OrderRecord) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO cafe_orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rec.OrderID, rec.Date, rec.Time, rec.CustomerName, rec.CustomerHandle,
		rec.CustomerID, rec.ItemsSummary, rec.Total.StringFixed(2), string(rec.Status))
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// MarkStatus relies on the row lock taken by UPDATE: a second concurrent
// caller re-checks `status = $3` after the first commits and matches nothing.
func (r *PostgresOrderStore) MarkStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (domain.OrderRecord, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE cafe_orders SET status = $1
		WHERE id = (
			SELECT id FROM cafe_orders
			WHERE lower(order_id) = lower($2) AND status = $3
			ORDER BY id
			LIMIT 1
		) AND status = $3
		RETURNING `+orderColumns, string(to), orderID, string(from))

	rec, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.OrderRecord{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.OrderRecord{}, fmt.Errorf("update order status: %w", err)
	}
	return rec, nil
}

func (r *PostgresOrderStore) query(ctx context.Context, q string, args ...interface{}) ([]domain.OrderRecord, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.OrderRecord{}
	for rows.Next() {
		rec, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Recent returns the last n records, newest first. n <= 0 returns them all,
// as LIMIT NULL does.
func (r *PostgresOrderStore) Recent(ctx context.Context, n int) ([]domain.OrderRecord, error) {
	var limit interface{}
	if n > 0 {
		limit = n
	}
	return r.query(ctx, `
		SELECT `+orderColumns+`
		FROM cafe_orders
		ORDER BY id DESC
		LIMIT $1
	`, limit)
}

func (r *PostgresOrderStore) ByDate(ctx context.Context, date string) ([]domain.OrderRecord, error) {
	return r.query(ctx, `
		SELECT `+orderColumns+`
		FROM cafe_orders
		WHERE order_date = $1
		ORDER BY id
	`, date)
}

func (r *PostgresOrderStore) ByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.OrderRecord, error) {
	return r.query(ctx, `
		SELECT `+orderColumns+`
		FROM cafe_orders
		WHERE status = $1
		ORDER BY id
	`, string(status))
}

func (r *PostgresOrderStore) Exists(ctx context.Context, orderID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM cafe_orders WHERE lower(order_id) = lower($1)
		)
	`, orderID).Scan(&exists)
	return exists, err
}
