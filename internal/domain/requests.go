package domain

import "time"

const (
	RequestPending   = "pending"
	RequestCompleted = "completed"
	RequestRejected  = "rejected"
)

// PurchaseRequest records a customer's intent to buy N units of an in-stock
// product. Total price is a snapshot taken at creation; the record is never
// mutated by the storefront afterwards.
type PurchaseRequest struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	UserEmail   string    `json:"user_email"`
	UserName    string    `json:"user_name"`
	UserPhone   string    `json:"user_phone"`
	ProductId   string    `gorm:"index;size:64" json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	TotalPrice  float64   `json:"total_price"`
	Status      string    `gorm:"size:32" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func (PurchaseRequest) TableName() string {
	return "purchase_requests"
}

// OutOfStockRequest is a backorder-style interest record for a zero-stock
// product.
type OutOfStockRequest struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	ProductId   string    `gorm:"index;size:64" json:"product_id"`
	ProductName string    `json:"product_name"`
	Phone       string    `json:"phone"`
	Quantity    int       `json:"quantity"`
	Verified    bool      `json:"verified"`
	Status      string    `gorm:"size:32" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func (OutOfStockRequest) TableName() string {
	return "out_of_stock_requests"
}

// CustomRequest is a free-form request for an item not in the catalog. The
// item name, optional description and optional image reference are folded
// into a single description string by the client.
type CustomRequest struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Phone       string    `json:"phone"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	Verified    bool      `json:"verified"`
	Status      string    `gorm:"size:32" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func (CustomRequest) TableName() string {
	return "custom_requests"
}
