// Package postgres stores orders, accounts and feedback through database/sql
// with the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"canteen/internal/model"
	"canteen/internal/repository"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o model.Order) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, customer_name, phone, address, instructions,
			status, delivery_fee, total, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		o.ID, o.Customer.ID, o.Customer.Name, o.Customer.Phone, o.Customer.Address, o.Customer.Instructions,
		o.Status, o.DeliveryFee, o.Total, o.PaymentMethod, o.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return fmt.Errorf("order %s: %w", o.ID, repository.ErrDuplicate)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for i, it := range o.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, position, menu_id, name, unit_price, quantity) VALUES ($1, $2, $3, $4, $5, $6)`,
			o.ID, i, it.MenuID, it.Name, it.UnitPrice, it.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	for i, h := range o.History {
		if err = insertHistory(ctx, tx, o.ID, i, h); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (model.Order, error) {
	return getOrder(ctx, r.db, id)
}

func getOrder(ctx context.Context, q querier, id string) (model.Order, error) {
	o, err := scanOrder(q.QueryRowContext(ctx, selectOrder+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Order{}, repository.ErrNotFound
		}
		return model.Order{}, fmt.Errorf("get order: %w", err)
	}
	if err := loadDetails(ctx, q, &o); err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	query := selectOrder + ` WHERE ($1 = '' OR status = $1) AND ($2 = '' OR customer_id = $2)`
	rows, err := r.db.QueryContext(ctx, query, string(filter.Status), filter.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	for i := range orders {
		if err := loadDetails(ctx, r.db, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepository) AppendTransition(ctx context.Context, id string, from model.Status, entry model.HistoryEntry) (model.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var current model.Status
	err = tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Order{}, repository.ErrNotFound
		}
		return model.Order{}, fmt.Errorf("lock order: %w", err)
	}
	if current != from {
		return model.Order{}, repository.ErrStaleStatus
	}

	var seq int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM order_status_history WHERE order_id = $1`, id).Scan(&seq)
	if err != nil {
		return model.Order{}, fmt.Errorf("count history: %w", err)
	}
	if err = insertHistory(ctx, tx, id, seq, entry); err != nil {
		return model.Order{}, err
	}
	if _, err = tx.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, entry.Status, id); err != nil {
		return model.Order{}, fmt.Errorf("update order: %w", err)
	}

	// Read back under the row lock so the result is exactly this transition.
	updated, err := getOrder(ctx, tx, id)
	if err != nil {
		return model.Order{}, err
	}
	if err = tx.Commit(); err != nil {
		return model.Order{}, fmt.Errorf("commit tx: %w", err)
	}
	return updated, nil
}

const selectOrder = `
	SELECT id, customer_id, customer_name, phone, address, instructions,
		status, delivery_fee, total, payment_method, created_at
	FROM orders`

type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanOrder(s scanner) (model.Order, error) {
	var o model.Order
	err := s.Scan(&o.ID, &o.Customer.ID, &o.Customer.Name, &o.Customer.Phone, &o.Customer.Address,
		&o.Customer.Instructions, &o.Status, &o.DeliveryFee, &o.Total, &o.PaymentMethod, &o.CreatedAt)
	return o, err
}

func loadDetails(ctx context.Context, q querier, o *model.Order) error {
	rows, err := q.QueryContext(ctx,
		`SELECT menu_id, name, unit_price, quantity FROM order_items WHERE order_id = $1 ORDER BY position`, o.ID)
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.MenuID, &it.Name, &it.UnitPrice, &it.Quantity); err != nil {
			rows.Close()
			return fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration failed: %w", err)
	}

	rows, err = q.QueryContext(ctx,
		`SELECT status, actor, forced, changed_at FROM order_status_history WHERE order_id = $1 ORDER BY seq`, o.ID)
	if err != nil {
		return fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var h model.HistoryEntry
		if err := rows.Scan(&h.Status, &h.Actor, &h.Forced, &h.At); err != nil {
			return fmt.Errorf("scan history: %w", err)
		}
		o.History = append(o.History, h)
	}
	return rows.Err()
}

func insertHistory(ctx context.Context, tx *sql.Tx, orderID string, seq int, h model.HistoryEntry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO order_status_history (order_id, seq, status, actor, forced, changed_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		orderID, seq, h.Status, h.Actor, h.Forced, h.At,
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}
