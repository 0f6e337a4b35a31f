package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"analytics-dashboard/internal/domain"
)

// MySQLAnalyticsRepository derives dashboard aggregates from the sales,
// orders and users tables.
type MySQLAnalyticsRepository struct {
	db *sql.DB
}

func NewMySQLAnalyticsRepository(db *sql.DB) *MySQLAnalyticsRepository {
	return &MySQLAnalyticsRepository{db: db}
}

func (r *MySQLAnalyticsRepository) GetKPIs(ctx context.Context, periodDays int) (*domain.KPISnapshot, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -periodDays)
	previousStart := start.AddDate(0, 0, -periodDays)

	kpis := &domain.KPISnapshot{
		PeriodDays:  periodDays,
		GeneratedAt: now,
	}

	salesQuery := `
        SELECT COUNT(*), COALESCE(SUM(total_amount), 0)
        FROM sales WHERE sale_date >= ? AND sale_date < ? AND payment_status = ?
    `
	err := r.db.QueryRowContext(ctx, salesQuery, start, now, string(domain.PaymentCompleted)).
		Scan(&kpis.TotalSales, &kpis.TotalRevenue)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, salesQuery, previousStart, start, string(domain.PaymentCompleted)).
		Scan(&kpis.PreviousSales, &kpis.PreviousRevenue)
	if err != nil {
		return nil, err
	}

	ordersQuery := `SELECT COUNT(*) FROM orders WHERE order_date >= ? AND order_date < ?`
	if err := r.db.QueryRowContext(ctx, ordersQuery, start, now).Scan(&kpis.TotalOrders); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx, ordersQuery, previousStart, start).Scan(&kpis.PreviousOrders); err != nil {
		return nil, err
	}

	usersQuery := `SELECT COUNT(*) FROM users WHERE is_active = 1 AND created_at >= ?`
	if err := r.db.QueryRowContext(ctx, usersQuery, start).Scan(&kpis.NewUsers); err != nil {
		return nil, err
	}

	return kpis, nil
}

func (r *MySQLAnalyticsRepository) GetCategoryBreakdown(ctx context.Context, periodDays int) ([]domain.CategorySlice, error) {
	start := time.Now().AddDate(0, 0, -periodDays)

	query := `
        SELECT product_category, COALESCE(SUM(total_amount), 0), COUNT(*)
        FROM sales
        WHERE sale_date >= ? AND payment_status = ?
        GROUP BY product_category
        ORDER BY SUM(total_amount) DESC
    `

	rows, err := r.db.QueryContext(ctx, query, start, string(domain.PaymentCompleted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slices []domain.CategorySlice
	for rows.Next() {
		var slice domain.CategorySlice
		if err := rows.Scan(&slice.Category, &slice.Revenue, &slice.Count); err != nil {
			return nil, err
		}
		slices = append(slices, slice)
	}

	return slices, rows.Err()
}

func (r *MySQLAnalyticsRepository) GetRevenueTrend(ctx context.Context, periodDays int) ([]domain.RevenuePoint, error) {
	start := time.Now().AddDate(0, 0, -periodDays)

	query := `
        SELECT DATE_FORMAT(sale_date, '%Y-%m-%d'), COALESCE(SUM(total_amount), 0), COUNT(*)
        FROM sales
        WHERE sale_date >= ? AND payment_status = ?
        GROUP BY DATE_FORMAT(sale_date, '%Y-%m-%d')
        ORDER BY DATE_FORMAT(sale_date, '%Y-%m-%d')
    `

	rows, err := r.db.QueryContext(ctx, query, start, string(domain.PaymentCompleted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []domain.RevenuePoint
	for rows.Next() {
		var point domain.RevenuePoint
		if err := rows.Scan(&point.Day, &point.Revenue, &point.Sales); err != nil {
			return nil, err
		}
		points = append(points, point)
	}

	return points, rows.Err()
}

func (r *MySQLAnalyticsRepository) GetRecentSales(ctx context.Context, limit int) ([]*domain.Sale, error) {
	query := `
        SELECT ` + saleColumns + `
        FROM sales ORDER BY sale_date DESC LIMIT ?
    `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []*domain.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}

	return sales, rows.Err()
}
