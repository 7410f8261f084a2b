package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/bakery/internal/models"
	"github.com/mmynk/bakery/internal/storage"
)

const orderColumns = `id, user_id, status, payment_status, subtotal, tax, delivery_fee, total,
	method, contact_name, phone, street, city, postal_code, pickup_time, instructions,
	notes, created_at, updated_at`

func scanOrder(row rowScanner) (*models.Order, error) {
	o := &models.Order{}
	var status, paymentStatus, method string
	f := &o.Fulfillment
	if err := row.Scan(
		&o.ID, &o.UserID, &status, &paymentStatus,
		&o.Subtotal, &o.Tax, &o.DeliveryFee, &o.Total,
		&method, &f.ContactName, &f.Phone, &f.Street, &f.City, &f.PostalCode, &f.PickupTime, &f.Instructions,
		&o.Notes, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	o.Status = models.OrderStatus(status)
	o.PaymentStatus = models.PaymentStatus(paymentStatus)
	f.Method = models.FulfillmentMethod(method)
	return o, nil
}

// CreateOrder inserts an order with its items, status history and payments
// in one transaction.
func (s *SQLiteStore) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if order.CreatedAt == 0 {
		order.CreatedAt = now
	}
	if order.UpdatedAt == 0 {
		order.UpdatedAt = order.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	f := order.Fulfillment
	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (`+orderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserID, string(order.Status), string(order.PaymentStatus),
		order.Subtotal, order.Tax, order.DeliveryFee, order.Total,
		string(f.Method), f.ContactName, f.Phone, f.Street, f.City, f.PostalCode, f.PickupTime, f.Instructions,
		order.Notes, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i, item := range order.Items {
		var customizations sql.NullString
		if !item.Customizations.IsZero() {
			data, err := json.Marshal(item.Customizations)
			if err != nil {
				return fmt.Errorf("failed to encode customizations: %w", err)
			}
			customizations = sql.NullString{String: string(data), Valid: true}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, position, cake_id, name, size_label, size_servings, size_price,
			 quantity, price, special_instructions, customizations, image_url)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			order.ID, i, item.CakeID, item.Name, item.Size.Label, item.Size.Servings, item.Size.Price,
			item.Quantity, item.Price, item.SpecialInstructions, customizations, item.ImageURL,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := writeOrderHistory(ctx, tx, order); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// writeOrderHistory replaces the status history and payments of an order.
func writeOrderHistory(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM order_status_history WHERE order_id = ?", order.ID); err != nil {
		return fmt.Errorf("failed to delete status history: %w", err)
	}
	for i, change := range order.StatusHistory {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO order_status_history (order_id, position, status, changed_by, note, changed_at) VALUES (?, ?, ?, ?, ?, ?)",
			order.ID, i, string(change.Status), change.ChangedBy, change.Note, change.ChangedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert status change: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM payment_transactions WHERE order_id = ?", order.ID); err != nil {
		return fmt.Errorf("failed to delete payments: %w", err)
	}
	for i := range order.Payments {
		p := &order.Payments[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO payment_transactions (id, order_id, amount, method, status, reference, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			p.ID, order.ID, p.Amount, p.Method, string(p.Status), p.Reference, p.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}
	}
	return nil
}

// GetOrder retrieves an order with all of its child rows.
func (s *SQLiteStore) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, orderID)
	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %s: %w", orderID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if err := s.loadOrderChildren(ctx, []*models.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateOrder saves the mutable parts of an order.
func (s *SQLiteStore) UpdateOrder(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = ?, payment_status = ?, updated_at = ? WHERE id = ?",
		string(order.Status), string(order.PaymentStatus), order.UpdatedAt, order.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if err := requireRow(res, "order", order.ID); err != nil {
		return err
	}

	if err := writeOrderHistory(ctx, tx, order); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListOrders returns orders matching filter, newest first.
func (s *SQLiteStore) ListOrders(ctx context.Context, filter storage.OrderFilter) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1 = 1`
	var args []any
	if filter.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filter.UserID)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	query += " ORDER BY created_at DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	if err := s.loadOrderChildren(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// loadOrderChildren fills items, history and payments for orders.
func (s *SQLiteStore) loadOrderChildren(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*models.Order, len(orders))
	args := make([]any, len(orders))
	for i, o := range orders {
		byID[o.ID] = o
		args[i] = o.ID
	}
	in := "(" + placeholders(len(orders)) + ")"

	err := s.eachRow(ctx,
		`SELECT order_id, cake_id, name, size_label, size_servings, size_price, quantity, price,
		 special_instructions, customizations, image_url
		 FROM order_items WHERE order_id IN `+in+` ORDER BY order_id, position`,
		args,
		func(rows *sql.Rows) error {
			var orderID string
			var item models.OrderItem
			var customizations sql.NullString
			if err := rows.Scan(
				&orderID, &item.CakeID, &item.Name, &item.Size.Label, &item.Size.Servings, &item.Size.Price,
				&item.Quantity, &item.Price, &item.SpecialInstructions, &customizations, &item.ImageURL,
			); err != nil {
				return fmt.Errorf("failed to scan order item: %w", err)
			}
			if customizations.Valid {
				item.Customizations = &models.Customizations{}
				if err := json.Unmarshal([]byte(customizations.String), item.Customizations); err != nil {
					return fmt.Errorf("failed to decode customizations: %w", err)
				}
			}
			byID[orderID].Items = append(byID[orderID].Items, item)
			return nil
		},
	)
	if err != nil {
		return err
	}

	err = s.eachRow(ctx,
		`SELECT order_id, status, changed_by, note, changed_at
		 FROM order_status_history WHERE order_id IN `+in+` ORDER BY order_id, position`,
		args,
		func(rows *sql.Rows) error {
			var orderID, status string
			var change models.StatusChange
			if err := rows.Scan(&orderID, &status, &change.ChangedBy, &change.Note, &change.ChangedAt); err != nil {
				return fmt.Errorf("failed to scan status change: %w", err)
			}
			change.Status = models.OrderStatus(status)
			byID[orderID].StatusHistory = append(byID[orderID].StatusHistory, change)
			return nil
		},
	)
	if err != nil {
		return err
	}

	return s.eachRow(ctx,
		`SELECT order_id, id, amount, method, status, reference, created_at
		 FROM payment_transactions WHERE order_id IN `+in+` ORDER BY order_id, created_at, rowid`,
		args,
		func(rows *sql.Rows) error {
			var orderID, status string
			var p models.PaymentTransaction
			if err := rows.Scan(&orderID, &p.ID, &p.Amount, &p.Method, &status, &p.Reference, &p.CreatedAt); err != nil {
				return fmt.Errorf("failed to scan payment: %w", err)
			}
			p.Status = models.PaymentStatus(status)
			byID[orderID].Payments = append(byID[orderID].Payments, p)
			return nil
		},
	)
}

func (s *SQLiteStore) eachRow(ctx context.Context, query string, args []any, fn func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
