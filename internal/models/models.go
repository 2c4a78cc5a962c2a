package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User - The person operating the till
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'cashier'
	CreatedAt    time.Time `json:"created_at"`
}

// Product - The Inventory
type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"size:120;not null" json:"name"`
	Barcode       *string         `gorm:"uniqueIndex;size:64" json:"barcode,omitempty"`
	Category      string          `gorm:"size:60" json:"category"`
	Price         decimal.Decimal `gorm:"type:decimal(18,4)" json:"price"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(18,4)" json:"cost_price"`
	StockQuantity int             `json:"stock_quantity"`
	ImageURL      string          `json:"image_url"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Contact - The shared details of a customer or provider
type Contact struct {
	Name    string `gorm:"size:120;not null" json:"name" binding:"required"`
	TaxID   string `gorm:"size:32" json:"tax_id"`
	Phone   string `gorm:"size:32" json:"phone"`
	Email   string `gorm:"size:120" json:"email"`
	Address string `json:"address"`
}

// Customer - Who the invoice is billed to
type Customer struct {
	ID uint `gorm:"primaryKey" json:"id"`
	Contact
}

func (c *Customer) SetContact(v Contact) { c.Contact = v }

// Provider - Who we buy stock from
type Provider struct {
	ID uint `gorm:"primaryKey" json:"id"`
	Contact
}

func (p *Provider) SetContact(v Contact) { p.Contact = v }

// Invoice - The persisted sale header. Written once at checkout, never updated.
type Invoice struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `json:"user_id"` // Who processed it
	CustomerID      *uint           `json:"customer_id,omitempty"`
	CustomerName    *string         `gorm:"size:120" json:"customer_name,omitempty"` // Snapshot at sale time
	PaymentMethod   string          `gorm:"size:20" json:"payment_method"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4)" json:"subtotal"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(18,4)" json:"discount_amount"`
	SurchargeAmount decimal.Decimal `gorm:"type:decimal(18,4)" json:"surcharge_amount"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(18,4)" json:"tax_amount"`
	Total           decimal.Decimal `gorm:"type:decimal(18,4)" json:"total"`
	Notes           *string         `json:"notes,omitempty"`
	IssuedAt        int64           `gorm:"index" json:"issued_at"` // Unix millis
	Items           []InvoiceItem   `gorm:"foreignKey:InvoiceID" json:"items"`
}

// InvoiceItem - One line of an invoice. The line total is never stored.
type InvoiceItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	InvoiceID   uint            `gorm:"index" json:"invoice_id"`
	ProductID   *uint           `json:"product_id,omitempty"`
	ProductName *string         `gorm:"size:120" json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4)" json:"unit_price"`
}

// Expense - Money going out of the till
type Expense struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Description string          `gorm:"size:200;not null" json:"description"`
	Category    string          `gorm:"size:60" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4)" json:"amount"`
	ProviderID  *uint           `json:"provider_id,omitempty"`
	SpentAt     time.Time       `gorm:"index" json:"spent_at"` // stored in UTC; sqlite compares it as text
}

// SystemLicense - Device activation state (single row)
type SystemLicense struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	LicenseKey     string    `gorm:"size:80" json:"license_key"`
	ExpirationDate time.Time `json:"expiration_date"`
	IsActive       bool      `json:"is_active"`
}

// AuditLog - Who did what
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `json:"user_id"`
	Action    string    `gorm:"size:60" json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}
