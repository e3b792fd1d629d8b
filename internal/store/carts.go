package store

import (
	"database/sql"
	"fmt"

	"github.com/WB2302103/backend/internal/models"
)

// GetCartForUser loads the user's cart with resolved product details. A user
// with no cart yet gets an empty-items cart, never an error: absence is
// normal state.
func (s *Store) GetCartForUser(userID int64) (*models.Cart, error) {
	cart := &models.Cart{UserID: userID, Items: []models.CartItem{}}

	err := s.DB.QueryRow(`SELECT id FROM carts WHERE user_id = ?`, userID).Scan(&cart.ID)
	if err == sql.ErrNoRows {
		return cart, nil
	}
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, %s
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		WHERE ci.cart_id = ?
		ORDER BY ci.id`, productColumns)
	rows, err := s.DB.Query(query, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.CartItem
		var p models.Product
		var c models.Category
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity,
			&p.ID, &p.Title, &p.Description, &p.Price, &p.StockQuantity, &p.ImageURL, &p.CategoryID, &p.CreatedAt, &c.ID, &c.Name); err != nil {
			return nil, err
		}
		p.Category = &c
		item.Product = &p
		cart.Items = append(cart.Items, item)
	}
	return cart, rows.Err()
}

// AddCartItem puts quantity of a product into the user's cart, creating the
// cart on first use. Adding a product already in the cart increments the
// existing line instead of duplicating it.
func (s *Store) AddCartItem(userID, productID int64, quantity int) (*models.CartItem, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow(`SELECT 1 FROM products WHERE id = ?`, productID).Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if _, err := tx.Exec(`INSERT INTO carts (user_id) VALUES (?) ON CONFLICT(user_id) DO NOTHING`, userID); err != nil {
		return nil, err
	}
	var cartID int64
	if err := tx.QueryRow(`SELECT id FROM carts WHERE user_id = ?`, userID).Scan(&cartID); err != nil {
		return nil, err
	}

	_, err = tx.Exec(`INSERT INTO cart_items (cart_id, product_id, quantity) VALUES (?, ?, ?)
		ON CONFLICT(cart_id, product_id) DO UPDATE SET quantity = quantity + excluded.quantity`,
		cartID, productID, quantity)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = tx.QueryRow(`SELECT id, cart_id, product_id, quantity FROM cart_items WHERE cart_id = ? AND product_id = ?`, cartID, productID).
		Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateCartItem sets the quantity of a line in the caller's own cart.
// Lines in other users' carts are unreachable and report ErrNotFound.
func (s *Store) UpdateCartItem(userID, itemID int64, quantity int) (*models.CartItem, error) {
	res, err := s.DB.Exec(`UPDATE cart_items SET quantity = ?
		WHERE id = ? AND cart_id IN (SELECT id FROM carts WHERE user_id = ?)`,
		quantity, itemID, userID)
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

	var item models.CartItem
	err = s.DB.QueryRow(`SELECT id, cart_id, product_id, quantity FROM cart_items WHERE id = ?`, itemID).
		Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveCartItem deletes a line from the caller's own cart.
func (s *Store) RemoveCartItem(userID, itemID int64) error {
	res, err := s.DB.Exec(`DELETE FROM cart_items
		WHERE id = ? AND cart_id IN (SELECT id FROM carts WHERE user_id = ?)`,
		itemID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearCartForUser drains whatever cart the user currently has. Used by the
// payment success callback; see DESIGN.md for the scoping caveat.
func (s *Store) ClearCartForUser(userID int64) error {
	_, err := s.DB.Exec(`DELETE FROM cart_items WHERE cart_id IN (SELECT id FROM carts WHERE user_id = ?)`, userID)
	return err
}
