package store

import (
	"database/sql"

	"github.com/WB2302103/backend/internal/models"
)

// ApplyPaymentResult records one gateway callback in a single transaction:
// the order (looked up by its transaction correlation id) moves to
// orderStatus, and a Payment row is inserted.
//
// The status update only fires while the order is still PENDING, keeping
// transitions monotonic: a replayed success callback against an already-PAID
// order records another Payment row but never rewinds or re-applies the
// transition, and a late fail callback cannot cancel a paid order.
func (s *Store) ApplyPaymentResult(tranID, orderStatus string, payment *models.Payment) (*models.Order, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var orderID int64
	err = tx.QueryRow(`SELECT id FROM orders WHERE tran_id = ?`, tranID).Scan(&orderID)
	if err == sql.ErrNoRows {
		return nil, ErrUnknownTransaction
	}
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(`UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?`, orderStatus, orderID, models.OrderStatusPending)
	if err != nil {
		return nil, err
	}

	res, err := tx.Exec(`INSERT INTO payments (order_id, provider, status, amount, transaction_id, paid_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		orderID, payment.Provider, payment.Status, payment.Amount, payment.TransactionID, payment.PaidAt)
	if err != nil {
		return nil, err
	}
	payment.OrderID = orderID
	payment.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetOrderByID(orderID)
}

func (s *Store) PaymentsByOrder(orderID int64) ([]models.Payment, error) {
	rows, err := s.DB.Query(`SELECT id, order_id, provider, status, amount, transaction_id, paid_at
		FROM payments WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Provider, &p.Status, &p.Amount, &p.TransactionID, &p.PaidAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
