package store

import (
	"database/sql"
	"fmt"

	"github.com/WB2302103/backend/internal/models"
	"github.com/shopspring/decimal"
)

const productColumns = `p.id, p.title, p.description, p.price, p.stock_quantity, p.image_url, p.category_id, p.created_at, c.id, c.name`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	var c models.Category
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.StockQuantity, &p.ImageURL, &p.CategoryID, &p.CreatedAt, &c.ID, &c.Name); err != nil {
		return nil, err
	}
	p.Category = &c
	return &p, nil
}

func (s *Store) collectProducts(rows *sql.Rows) ([]models.Product, error) {
	defer rows.Close()
	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// GetOrCreateCategory resolves a category by name, creating it on first use.
func (s *Store) GetOrCreateCategory(name string) (*models.Category, error) {
	_, err := s.DB.Exec(`INSERT INTO categories (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name)
	if err != nil {
		return nil, err
	}
	return s.GetCategoryByName(name)
}

func (s *Store) GetCategoryByName(name string) (*models.Category, error) {
	var c models.Category
	err := s.DB.QueryRow(`SELECT id, name FROM categories WHERE name = ?`, name).Scan(&c.ID, &c.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// CreateProduct inserts a product, resolving its category by name first.
func (s *Store) CreateProduct(p *models.Product, categoryName string) error {
	category, err := s.GetOrCreateCategory(categoryName)
	if err != nil {
		return err
	}
	p.CategoryID = category.ID
	p.Category = category

	res, err := s.DB.Exec(
		`INSERT INTO products (title, description, price, stock_quantity, image_url, category_id) VALUES (?, ?, ?, ?, ?, ?)`,
		p.Title, p.Description, p.Price, p.StockQuantity, p.ImageURL, p.CategoryID,
	)
	if err != nil {
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

func (s *Store) UpdateProduct(p *models.Product, categoryName string) error {
	category, err := s.GetOrCreateCategory(categoryName)
	if err != nil {
		return err
	}
	p.CategoryID = category.ID
	p.Category = category

	res, err := s.DB.Exec(
		`UPDATE products SET title = ?, description = ?, price = ?, stock_quantity = ?, image_url = ?, category_id = ? WHERE id = ?`,
		p.Title, p.Description, p.Price, p.StockQuantity, p.ImageURL, p.CategoryID, p.ID,
	)
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

func (s *Store) UpdateProductImage(id int64, imageURL string) error {
	res, err := s.DB.Exec(`UPDATE products SET image_url = ? WHERE id = ?`, imageURL, id)
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

func (s *Store) DeleteProduct(id int64) error {
	res, err := s.DB.Exec(`DELETE FROM products WHERE id = ?`, id)
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

func (s *Store) GetProductByID(id int64) (*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products p JOIN categories c ON p.category_id = c.id WHERE p.id = ?`, productColumns)
	p, err := scanProduct(s.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Store) ListProducts(limit, offset int) ([]models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products p JOIN categories c ON p.category_id = c.id ORDER BY p.id LIMIT ? OFFSET ?`, productColumns)
	rows, err := s.DB.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.collectProducts(rows)
}

func (s *Store) CountProducts() (int, error) {
	var count int
	err := s.DB.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}

// SearchProducts matches a case-insensitive substring over title and
// description.
func (s *Store) SearchProducts(term string) ([]models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products p JOIN categories c ON p.category_id = c.id
		WHERE LOWER(p.title) LIKE LOWER(?) OR LOWER(p.description) LIKE LOWER(?)
		ORDER BY p.id`, productColumns)
	pattern := "%" + term + "%"
	rows, err := s.DB.Query(query, pattern, pattern)
	if err != nil {
		return nil, err
	}
	return s.collectProducts(rows)
}

// ProductFilter holds the optional, conjunctive filter criteria.
type ProductFilter struct {
	CategoryID *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

func (s *Store) FilterProducts(f ProductFilter) ([]models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products p JOIN categories c ON p.category_id = c.id WHERE 1=1`, productColumns)
	var args []any
	if f.CategoryID != nil {
		query += ` AND p.category_id = ?`
		args = append(args, *f.CategoryID)
	}
	if f.MinPrice != nil {
		query += ` AND p.price >= ?`
		args = append(args, f.MinPrice.InexactFloat64())
	}
	if f.MaxPrice != nil {
		query += ` AND p.price <= ?`
		args = append(args, f.MaxPrice.InexactFloat64())
	}
	query += ` ORDER BY p.id`

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	return s.collectProducts(rows)
}

func (s *Store) ProductsByCategory(categoryID int64) ([]models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products p JOIN categories c ON p.category_id = c.id WHERE p.category_id = ? ORDER BY p.id`, productColumns)
	rows, err := s.DB.Query(query, categoryID)
	if err != nil {
		return nil, err
	}
	return s.collectProducts(rows)
}

// AllProducts is the unpaginated admin listing.
func (s *Store) AllProducts() ([]models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products p JOIN categories c ON p.category_id = c.id ORDER BY p.id`, productColumns)
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, err
	}
	return s.collectProducts(rows)
}
