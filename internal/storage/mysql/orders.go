package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tubeworks/internal/pipeline"
	"tubeworks/internal/storage"
)

// GetOrdersMonth lists order headers for one calendar month. A non-empty
// search overrides the month filter and matches on order number or client
// name instead.
func (s *Storage) GetOrdersMonth(ctx context.Context, year int, month int, search string) ([]*storage.Order, error) {
	const op = "storage.orders.GetOrdersMonth.sql"

	var stmt string
	var args []interface{}

	if search != "" {
		stmt = `
			SELECT o.id, o.order_num, o.client_id, c.name, o.order_date, o.due_date, o.notes
			FROM tube_orders o
			JOIN tube_clients c ON c.id = o.client_id
			WHERE o.order_num LIKE ? OR c.name LIKE ?
		`
		args = append(args, "%"+search+"%", "%"+search+"%")
	} else {
		startOfMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		endOfMonth := startOfMonth.AddDate(0, 1, 0)

		stmt = `
			SELECT o.id, o.order_num, o.client_id, c.name, o.order_date, o.due_date, o.notes
			FROM tube_orders o
			JOIN tube_clients c ON c.id = o.client_id
			WHERE o.order_date >= ? AND o.order_date < ?
		`
		args = []interface{}{startOfMonth, endOfMonth}
	}

	stmt += ` ORDER BY o.order_date DESC, o.order_num DESC`

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query orders: %w", op, err)
	}
	defer rows.Close()

	var orders []*storage.Order
	for rows.Next() {
		var order storage.Order
		var notes sql.NullString

		err := rows.Scan(&order.ID, &order.OrderNum, &order.ClientID, &order.Customer,
			&order.OrderDate, &order.DueDate, &notes)
		if err != nil {
			return nil, fmt.Errorf("%s: scan order row: %w", op, err)
		}

		if notes.Valid {
			order.Notes = &notes.String
		}

		orders = append(orders, &order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return orders, nil
}

// GetOrder returns one order with its line items.
func (s *Storage) GetOrder(ctx context.Context, orderNum string) (*storage.Order, error) {
	const op = "storage.orders.GetOrder.sql"

	stmt := `
		SELECT o.id, o.order_num, o.client_id, c.name, o.order_date, o.due_date, o.notes
		FROM tube_orders o
		JOIN tube_clients c ON c.id = o.client_id
		WHERE o.order_num = ?
	`

	var order storage.Order
	var notes sql.NullString

	err := s.db.QueryRowContext(ctx, stmt, orderNum).Scan(
		&order.ID, &order.OrderNum, &order.ClientID, &order.Customer,
		&order.OrderDate, &order.DueDate, &notes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: order %s: %w", op, orderNum, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: query order: %w", op, err)
	}

	if notes.Valid {
		order.Notes = &notes.String
	}

	items, err := s.getOrderItems(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	order.Items = items

	return &order, nil
}

// GetOrderItem returns a single order line by order number and position.
func (s *Storage) GetOrderItem(ctx context.Context, orderNum string, position int) (*storage.OrderItem, error) {
	const op = "storage.orders.GetOrderItem.sql"

	stmt := `
		SELECT i.id, i.position, i.product_code, i.product_name, i.quantity, i.unit_price, i.done
		FROM tube_order_items i
		JOIN tube_orders o ON o.id = i.order_id
		WHERE o.order_num = ? AND i.position = ?
	`

	var item storage.OrderItem
	err := s.db.QueryRowContext(ctx, stmt, orderNum, position).Scan(
		&item.ID, &item.Position, &item.ProductCode, &item.ProductName,
		&item.Quantity, &item.UnitPrice, &item.Done,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: order %s position %d: %w", op, orderNum, position, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: query order item: %w", op, err)
	}

	return &item, nil
}

func (s *Storage) getOrderItems(ctx context.Context, orderID int64) ([]storage.OrderItem, error) {
	const op = "storage.orders.getOrderItems.sql"

	stmt := `
		SELECT id, position, product_code, product_name, quantity, unit_price, done
		FROM tube_order_items
		WHERE order_id = ?
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, stmt, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: query items: %w", op, err)
	}
	defer rows.Close()

	var items []storage.OrderItem
	for rows.Next() {
		var item storage.OrderItem

		err := rows.Scan(&item.ID, &item.Position, &item.ProductCode, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.Done)
		if err != nil {
			return nil, fmt.Errorf("%s: scan item row: %w", op, err)
		}

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return items, nil
}

// SaveOrder creates the order, its line items and the board job in one
// transaction. New jobs always start at the first stage.
func (s *Storage) SaveOrder(ctx context.Context, req storage.SaveOrder) (int64, error) {
	const op = "storage.orders.SaveOrder.sql"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO tube_orders (order_num, client_id, order_date, due_date, notes)
		VALUES (?, ?, ?, ?, ?)
	`, req.OrderNum, req.ClientID, req.OrderDate, req.DueDate, nullable(req.Notes))
	if err != nil {
		return 0, fmt.Errorf("%s: insert order %s: %w", op, req.OrderNum, err)
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: last insert id: %w", op, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tube_order_items (order_id, position, product_code, product_name, quantity, unit_price, done)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("%s: prepare item insert: %w", op, err)
	}
	defer stmt.Close()

	for _, item := range req.Items {
		_, err := stmt.Exec(orderID, item.Position, item.ProductCode, item.ProductName,
			item.Quantity, item.UnitPrice, item.Done)
		if err != nil {
			return 0, fmt.Errorf("%s: insert item pos=%d: %w", op, item.Position, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tube_jobs (order_id, stage, materials_ready)
		VALUES (?, ?, FALSE)
	`, orderID, string(pipeline.First()))
	if err != nil {
		return 0, fmt.Errorf("%s: insert job for order %s: %w", op, req.OrderNum, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return orderID, nil
}

// UpdateOrder rewrites the order header and replaces the line items.
func (s *Storage) UpdateOrder(ctx context.Context, orderNum string, req storage.SaveOrder) error {
	const op = "storage.orders.UpdateOrder.sql"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	var orderID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM tube_orders WHERE order_num = ?`, orderNum).Scan(&orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: order %s: %w", op, orderNum, storage.ErrNotFound)
		}
		return fmt.Errorf("%s: query order id: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE tube_orders
		SET client_id = ?, order_date = ?, due_date = ?, notes = ?
		WHERE id = ?
	`, req.ClientID, req.OrderDate, req.DueDate, nullable(req.Notes), orderID)
	if err != nil {
		return fmt.Errorf("%s: update order %s: %w", op, orderNum, err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM tube_order_items WHERE order_id = ?`, orderID)
	if err != nil {
		return fmt.Errorf("%s: delete old items for %s: %w", op, orderNum, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tube_order_items (order_id, position, product_code, product_name, quantity, unit_price, done)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%s: prepare item insert: %w", op, err)
	}
	defer stmt.Close()

	for _, item := range req.Items {
		_, err := stmt.Exec(orderID, item.Position, item.ProductCode, item.ProductName,
			item.Quantity, item.UnitPrice, item.Done)
		if err != nil {
			return fmt.Errorf("%s: insert item pos=%d: %w", op, item.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}
