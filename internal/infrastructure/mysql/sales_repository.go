package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"analytics-dashboard/internal/domain"
)

type MySQLSalesRepository struct {
	db *sql.DB
}

func NewMySQLSalesRepository(db *sql.DB) *MySQLSalesRepository {
	return &MySQLSalesRepository{db: db}
}

const saleColumns = `id, order_id, product_name, product_category, quantity, unit_price,
        total_amount, customer_name, customer_email, sales_person, payment_method,
        payment_status, region, country, sale_date, created_at, updated_at`

func (r *MySQLSalesRepository) CreateSale(ctx context.Context, sale *domain.Sale) error {
	query := `
        INSERT INTO sales (` + saleColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		sale.ID, sale.OrderID, sale.ProductName, sale.ProductCategory,
		sale.Quantity, sale.UnitPrice, sale.TotalAmount,
		sale.CustomerName, sale.CustomerEmail, sale.SalesPerson,
		sale.PaymentMethod, string(sale.PaymentStatus),
		sale.Region, sale.Country, sale.SaleDate,
		sale.CreatedAt, sale.UpdatedAt)
	return err
}

func (r *MySQLSalesRepository) GetSale(ctx context.Context, saleID string) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = ?`

	sale, err := scanSale(r.db.QueryRowContext(ctx, query, saleID))
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (r *MySQLSalesRepository) ListSales(ctx context.Context, limit, offset int) ([]*domain.Sale, error) {
	query := `
        SELECT ` + saleColumns + `
        FROM sales ORDER BY sale_date DESC LIMIT ? OFFSET ?
    `

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
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

func (r *MySQLSalesRepository) DeleteSale(ctx context.Context, saleID string) error {
	query := `DELETE FROM sales WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, saleID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSale(row rowScanner) (*domain.Sale, error) {
	var sale domain.Sale
	var status string
	var saleDate, createdAt, updatedAt time.Time

	err := row.Scan(
		&sale.ID, &sale.OrderID, &sale.ProductName, &sale.ProductCategory,
		&sale.Quantity, &sale.UnitPrice, &sale.TotalAmount,
		&sale.CustomerName, &sale.CustomerEmail, &sale.SalesPerson,
		&sale.PaymentMethod, &status, &sale.Region, &sale.Country,
		&saleDate, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	sale.PaymentStatus = domain.PaymentStatus(status)
	sale.SaleDate = saleDate
	sale.CreatedAt = createdAt
	sale.UpdatedAt = updatedAt
	return &sale, nil
}
