package store

import (
	"database/sql"
	"fmt"

	"github.com/WB2302103/backend/internal/models"
	"github.com/shopspring/decimal"
)

// CreateOrderFromCart converts the user's cart into a PENDING order in one
// transaction: the order row, one immutable order_item per cart line with the
// product's current price frozen on, and the cart drained. Either all of it
// happens or none of it does.
//
// A non-empty idempotencyKey makes the operation replay-safe: a repeated call
// with the same key returns the order the first call created instead of
// spawning another PENDING order.
func (s *Store) CreateOrderFromCart(userID int64, tranID, idempotencyKey string) (*models.Order, error) {
	if idempotencyKey != "" {
		existing, err := s.orderByIdempotencyKey(userID, idempotencyKey)
		if err != nil && err != ErrNotFound {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var cartID int64
	err = tx.QueryRow(`SELECT id FROM carts WHERE user_id = ?`, userID).Scan(&cartID)
	if err == sql.ErrNoRows {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(`SELECT ci.product_id, ci.quantity, p.price
		FROM cart_items ci JOIN products p ON ci.product_id = p.id
		WHERE ci.cart_id = ? ORDER BY ci.id`, cartID)
	if err != nil {
		return nil, err
	}
	var items []models.OrderItem
	total := decimal.Zero
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			rows.Close()
			return nil, err
		}
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		items = append(items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	var key any // NULL when absent so the UNIQUE index ignores it
	if idempotencyKey != "" {
		key = idempotencyKey
	}
	res, err := tx.Exec(`INSERT INTO orders (user_id, status, total_amount, tran_id, idempotency_key)
		VALUES (?, ?, ?, ?, ?)`,
		userID, models.OrderStatusPending, total, tranID, key)
	if err != nil {
		return nil, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	for i := range items {
		res, err := tx.Exec(`INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES (?, ?, ?, ?)`,
			orderID, items[i].ProductID, items[i].Quantity, items[i].UnitPrice)
		if err != nil {
			return nil, err
		}
		items[i].OrderID = orderID
		items[i].ID, err = res.LastInsertId()
		if err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Store) orderByIdempotencyKey(userID int64, key string) (*models.Order, error) {
	var id int64
	err := s.DB.QueryRow(`SELECT id FROM orders WHERE user_id = ? AND idempotency_key = ?`, userID, key).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetOrderByID(id)
}

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	if err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.TranID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

const orderColumns = `id, user_id, status, total_amount, tran_id, created_at, updated_at`

func (s *Store) GetOrderByID(id int64) (*models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = ?`, orderColumns)
	o, err := scanOrder(s.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.loadOrderItems(o); err != nil {
		return nil, err
	}
	return o, nil
}

// GetOrderByTranID correlates a gateway callback to its order.
func (s *Store) GetOrderByTranID(tranID string) (*models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE tran_id = ?`, orderColumns)
	o, err := scanOrder(s.DB.QueryRow(query, tranID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUnknownTransaction
		}
		return nil, err
	}
	if err := s.loadOrderItems(o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Store) loadOrderItems(o *models.Order) error {
	query := fmt.Sprintf(`SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price, %s
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		WHERE oi.order_id = ? ORDER BY oi.id`, productColumns)
	rows, err := s.DB.Query(query, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	o.Items = []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		var p models.Product
		var c models.Category
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice,
			&p.ID, &p.Title, &p.Description, &p.Price, &p.StockQuantity, &p.ImageURL, &p.CategoryID, &p.CreatedAt, &c.ID, &c.Name); err != nil {
			return err
		}
		p.Category = &c
		item.Product = &p
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}

// OrdersByUser lists the user's orders, newest first, with items and product
// details resolved.
func (s *Store) OrdersByUser(userID int64) ([]models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC`, orderColumns)
	rows, err := s.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	orders, err := s.collectOrders(rows)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// AllOrders is the admin listing: every order with its owning user's id,
// name and email.
func (s *Store) AllOrders() ([]models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders ORDER BY created_at DESC, id DESC`, orderColumns)
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, err
	}
	orders, err := s.collectOrders(rows)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		var u models.User
		err := s.DB.QueryRow(`SELECT id, name, email FROM users WHERE id = ?`, orders[i].UserID).
			Scan(&u.ID, &u.Name, &u.Email)
		if err != nil {
			return nil, err
		}
		orders[i].User = &u
	}
	return orders, nil
}

func (s *Store) collectOrders(rows *sql.Rows) ([]models.Order, error) {
	defer rows.Close()
	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		if err := s.loadOrderItems(&orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateOrderStatus is the administrative override. It does not enforce the
// automatic state machine; validation of the status value happens at the
// handler.
func (s *Store) UpdateOrderStatus(id int64, status string) (*models.Order, error) {
	res, err := s.DB.Exec(`UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.GetOrderByID(id)
}
