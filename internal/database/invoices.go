package database

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go-pos/internal/models"
	"go-pos/internal/sales"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// CartLine is what the till sends: a product and how many units.
type CartLine struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// CheckoutRequest is a cart plus the pricing parameters chosen at the till.
type CheckoutRequest struct {
	UserID uint
	Lines  []CartLine
	Params sales.Params
	Notes  string
}

// InvoiceStore reads and writes invoices through gorm.
type InvoiceStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewInvoiceStore(db *gorm.DB) *InvoiceStore {
	return &InvoiceStore{db: db, now: time.Now}
}

// ListInvoices returns every invoice with its items, newest first.
func (s *InvoiceStore) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.withItems(s.db.WithContext(ctx)).
		Order("issued_at desc, id desc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// ListInvoicesBetween returns invoices issued in [from, to), oldest first.
func (s *InvoiceStore) ListInvoicesBetween(ctx context.Context, from, to time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.withItems(s.db.WithContext(ctx)).
		Where("issued_at >= ? AND issued_at < ?", from.UnixMilli(), to.UnixMilli()).
		Order("issued_at asc, id asc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// RecentInvoices returns the latest limit invoices without their items.
func (s *InvoiceStore) RecentInvoices(ctx context.Context, limit int) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.db.WithContext(ctx).
		Order("issued_at desc, id desc").
		Limit(limit).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindInvoice returns nil, nil when the invoice does not exist.
func (s *InvoiceStore) FindInvoice(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.withItems(s.db.WithContext(ctx)).First(&invoice, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (s *InvoiceStore) withItems(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	})
}

// Quote prices lines with the current catalog. Nothing is written.
func (s *InvoiceStore) Quote(ctx context.Context, lines []CartLine, params sales.Params) (sales.Draft, error) {
	cart, _, err := buildCart(s.db.WithContext(ctx), lines, false)
	if err != nil {
		return sales.Draft{}, err
	}
	return cart.Finalize(params)
}

// Checkout prices the cart, deducts stock and persists the invoice in one
// transaction. Product rows are locked for the duration.
func (s *InvoiceStore) Checkout(ctx context.Context, req CheckoutRequest) (*models.Invoice, error) {
	var invoice models.Invoice

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, products, err := buildCart(tx, req.Lines, true)
		if err != nil {
			return err
		}

		draft, err := cart.Finalize(req.Params)
		if err != nil {
			return err
		}

		for _, line := range draft.Items {
			product := products[line.ProductID]
			if product.StockQuantity < line.Quantity {
				return fmt.Errorf("%w for %s", ErrInsufficientStock, product.Name)
			}
			res := tx.Model(&models.Product{}).
				Where("id = ?", product.ID).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity))
			if res.Error != nil {
				return fmt.Errorf("update stock: %w", res.Error)
			}
		}

		var customerName *string
		if draft.CustomerID != nil {
			var customer models.Customer
			if err := tx.First(&customer, *draft.CustomerID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %d", ErrCustomerNotFound, *draft.CustomerID)
				}
				return err
			}
			name := customer.Name
			customerName = &name
		}

		invoice = newInvoice(req, draft, customerName, s.now())
		if err := tx.Create(&invoice).Error; err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		return tx.Create(&models.AuditLog{
			UserID:  req.UserID,
			Action:  "checkout",
			Details: fmt.Sprintf("invoice %d total %s", invoice.ID, invoice.Total),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func newInvoice(req CheckoutRequest, draft sales.Draft, customerName *string, issued time.Time) models.Invoice {
	items := make([]models.InvoiceItem, 0, len(draft.Items))
	for _, line := range draft.Items {
		productID := line.ProductID
		name := line.Name
		items = append(items, models.InvoiceItem{
			ProductID:   &productID,
			ProductName: &name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
	}

	var notes *string
	if req.Notes != "" {
		n := req.Notes
		notes = &n
	}

	return models.Invoice{
		UserID:          req.UserID,
		CustomerID:      draft.CustomerID,
		CustomerName:    customerName,
		PaymentMethod:   string(draft.PaymentMethod),
		Subtotal:        draft.Subtotal,
		DiscountAmount:  draft.Discount,
		SurchargeAmount: draft.Surcharge,
		TaxAmount:       draft.Tax,
		Total:           draft.Total,
		Notes:           notes,
		IssuedAt:        issued.UnixMilli(),
		Items:           items,
	}
}

// buildCart loads every product in lines (locking rows when lock is set, in
// id order) and merges the lines into a cart priced at the current catalog
// price.
func buildCart(tx *gorm.DB, lines []CartLine, lock bool) (*sales.Cart, map[uint]models.Product, error) {
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	products := make(map[uint]models.Product, len(ids))
	for _, id := range ids {
		q := tx
		if lock {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var product models.Product
		if err := q.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, fmt.Errorf("%w: %d", ErrProductNotFound, id)
			}
			return nil, nil, err
		}
		products[id] = product
	}

	cart := &sales.Cart{}
	for _, line := range lines {
		product := products[line.ProductID]
		err := cart.Add(sales.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
		})
		if err != nil {
			return nil, nil, err
		}
	}
	return cart, products, nil
}
