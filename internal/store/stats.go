package store

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	TotalProducts  int             `json:"totalProducts"`
	TotalOrders    int             `json:"totalOrders"`
	PaidRevenue    decimal.Decimal `json:"paidRevenue"`
	OrdersByStatus map[string]int  `json:"ordersByStatus"`
	TopProducts    []ProductSales  `json:"topProducts"`
}

type ProductSales struct {
	ProductID int64  `json:"productId"`
	Title     string `json:"title"`
	UnitsSold int    `json:"unitsSold"`
}

// GetDashboardStats aggregates the counters shown on the admin dashboard.
func (s *Store) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{
		OrdersByStatus: make(map[string]int),
		PaidRevenue:    decimal.Zero,
	}

	if err := s.DB.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&stats.TotalProducts); err != nil {
		return nil, err
	}
	if err := s.DB.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&stats.TotalOrders); err != nil {
		return nil, err
	}

	var revenue sql.NullFloat64
	err := s.DB.QueryRow(`SELECT SUM(total_amount) FROM orders WHERE status IN ('PAID', 'SHIPPED')`).Scan(&revenue)
	if err != nil {
		return nil, err
	}
	if revenue.Valid {
		stats.PaidRevenue = decimal.NewFromFloat(revenue.Float64)
	}

	rows, err := s.DB.Query(`SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.OrdersByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	productRows, err := s.DB.Query(`
		SELECT p.id, p.title, COALESCE(SUM(oi.quantity), 0) AS units
		FROM products p
		LEFT JOIN order_items oi ON oi.product_id = p.id
		GROUP BY p.id
		ORDER BY units DESC, p.id
		LIMIT 10
	`)
	if err != nil {
		return nil, err
	}
	defer productRows.Close()
	for productRows.Next() {
		var ps ProductSales
		if err := productRows.Scan(&ps.ProductID, &ps.Title, &ps.UnitsSold); err != nil {
			return nil, err
		}
		stats.TopProducts = append(stats.TopProducts, ps)
	}
	return stats, productRows.Err()
}
