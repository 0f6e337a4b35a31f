package domain

import (
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleViewer
}

// Identity is what the token verifier yields for an authenticated principal.
type Identity struct {
	SubjectID string
	Role      Role
}

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	LastLogin    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type Sale struct {
	ID              string        `json:"id"`
	OrderID         string        `json:"order_id"`
	ProductName     string        `json:"product_name"`
	ProductCategory string        `json:"product_category"`
	Quantity        int           `json:"quantity"`
	UnitPrice       float64       `json:"unit_price"`
	TotalAmount     float64       `json:"total_amount"`
	CustomerName    string        `json:"customer_name"`
	CustomerEmail   string        `json:"customer_email"`
	SalesPerson     string        `json:"sales_person"`
	PaymentMethod   string        `json:"payment_method"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	Region          string        `json:"region"`
	Country         string        `json:"country"`
	SaleDate        time.Time     `json:"sale_date"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type Order struct {
	ID            string        `json:"id"`
	OrderNumber   string        `json:"order_number"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
	TotalAmount   float64       `json:"total_amount"`
	PaymentMethod string        `json:"payment_method"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	OrderStatus   OrderStatus   `json:"order_status"`
	OrderDate     time.Time     `json:"order_date"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// KPISnapshot aggregates the headline dashboard numbers for one period,
// with the previous period kept alongside for growth calculation.
type KPISnapshot struct {
	PeriodDays      int       `json:"period_days"`
	TotalRevenue    float64   `json:"total_revenue"`
	TotalSales      int       `json:"total_sales"`
	TotalOrders     int       `json:"total_orders"`
	NewUsers        int       `json:"new_users"`
	PreviousRevenue float64   `json:"previous_revenue"`
	PreviousSales   int       `json:"previous_sales"`
	PreviousOrders  int       `json:"previous_orders"`
	GeneratedAt     time.Time `json:"generated_at"`
}

type CategorySlice struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Count    int     `json:"count"`
}

type RevenuePoint struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
	Sales   int     `json:"sales"`
}

type ChartData struct {
	Categories []CategorySlice `json:"categories"`
	Revenue    []RevenuePoint  `json:"revenue"`
}

type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
