package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"analytics-dashboard/internal/domain"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `id, order_number, customer_name, customer_email, total_amount,
        payment_method, payment_status, order_status, order_date, created_at, updated_at`

func (r *MySQLOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	query := `
        INSERT INTO orders (` + orderColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		order.ID, order.OrderNumber, order.CustomerName, order.CustomerEmail,
		order.TotalAmount, order.PaymentMethod, string(order.PaymentStatus),
		string(order.OrderStatus), order.OrderDate, order.CreatedAt, order.UpdatedAt)
	return err
}

func (r *MySQLOrderRepository) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	return scanOrder(r.db.QueryRowContext(ctx, query, orderID))
}

func (r *MySQLOrderRepository) ListOrders(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	query := `
        SELECT ` + orderColumns + `
        FROM orders ORDER BY order_date DESC LIMIT ? OFFSET ?
    `

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

func (r *MySQLOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	query := `UPDATE orders SET order_status = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, string(status), time.Now(), orderID)
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

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var paymentStatus, orderStatus string

	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.CustomerName, &order.CustomerEmail,
		&order.TotalAmount, &order.PaymentMethod, &paymentStatus, &orderStatus,
		&order.OrderDate, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	order.PaymentStatus = domain.PaymentStatus(paymentStatus)
	order.OrderStatus = domain.OrderStatus(orderStatus)
	return &order, nil
}
