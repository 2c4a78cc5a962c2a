// Package sales prices carts. Nothing here touches the database: a Draft is
// computed from already-loaded data and handed back to the caller, who
// decides whether to persist it.
package sales

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned for any cart or parameter that would produce
// a negative amount.
var ErrInvalidInput = errors.New("invalid sale input")

var hundred = decimal.NewFromInt(100)

// PaymentMethod is how the customer settles the invoice.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCredit   PaymentMethod = "credit"
)

// Valid reports whether m is one of the known payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentCredit:
		return true
	}
	return false
}

// LineItem is one product-quantity-price triple.
type LineItem struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Total is quantity × unit price. It is always derived, never stored.
func (li LineItem) Total() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

func (li LineItem) validate() error {
	if li.Quantity < 0 {
		return fmt.Errorf("%w: product %d has negative quantity %d", ErrInvalidInput, li.ProductID, li.Quantity)
	}
	if li.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: product %d has negative unit price %s", ErrInvalidInput, li.ProductID, li.UnitPrice)
	}
	return nil
}

// AdjustmentKind selects how an Adjustment is applied.
type AdjustmentKind string

const (
	AdjustNone    AdjustmentKind = ""
	AdjustPercent AdjustmentKind = "percent"
	AdjustAmount  AdjustmentKind = "amount"
)

// Adjustment is either a percentage of the subtotal or a fixed amount,
// never both.
type Adjustment struct {
	Kind  AdjustmentKind  `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// Percent builds a percentage adjustment (10 means 10%).
func Percent(v decimal.Decimal) Adjustment {
	return Adjustment{Kind: AdjustPercent, Value: v}
}

// Amount builds a fixed-amount adjustment.
func Amount(v decimal.Decimal) Adjustment {
	return Adjustment{Kind: AdjustAmount, Value: v}
}

func (a Adjustment) resolve(name string, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if a.Value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative %s %s", ErrInvalidInput, name, a.Value)
	}
	switch a.Kind {
	case AdjustNone:
		return decimal.Zero, nil
	case AdjustPercent:
		return subtotal.Mul(a.Value).Div(hundred), nil
	case AdjustAmount:
		return a.Value, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown %s kind %q", ErrInvalidInput, name, a.Kind)
	}
}

// Params carries everything besides the items that goes into a Draft.
type Params struct {
	Discount      Adjustment
	Surcharge     Adjustment
	Tax           Adjustment
	PaymentMethod PaymentMethod
	CustomerID    *uint

	// Round, when set, is applied to subtotal, discount, surcharge and tax
	// before the total is summed.
	Round func(decimal.Decimal) decimal.Decimal
}

// Draft is a fully priced, not yet persisted sale.
type Draft struct {
	Items         []LineItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Surcharge     decimal.Decimal `json:"surcharge"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	CustomerID    *uint           `json:"customer_id,omitempty"`
}

// Calculate prices items under params.
//
// total = subtotal - discount + surcharge + tax
//
// Percentages (including tax) are taken over the subtotal. An empty item
// list yields a zero Draft.
func Calculate(items []LineItem, params Params) (Draft, error) {
	method := params.PaymentMethod
	if method == "" {
		method = PaymentCash
	}
	if !method.Valid() {
		return Draft{}, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, method)
	}

	lines := make([]LineItem, len(items))
	subtotal := decimal.Zero
	for i, item := range items {
		if err := item.validate(); err != nil {
			return Draft{}, err
		}
		lines[i] = item
		subtotal = subtotal.Add(item.Total())
	}

	discount, err := params.Discount.resolve("discount", subtotal)
	if err != nil {
		return Draft{}, err
	}
	surcharge, err := params.Surcharge.resolve("surcharge", subtotal)
	if err != nil {
		return Draft{}, err
	}
	tax, err := params.Tax.resolve("tax", subtotal)
	if err != nil {
		return Draft{}, err
	}

	if params.Round != nil {
		subtotal = params.Round(subtotal)
		discount = params.Round(discount)
		surcharge = params.Round(surcharge)
		tax = params.Round(tax)
	}

	total := subtotal.Sub(discount).Add(surcharge).Add(tax)
	if total.IsNegative() {
		return Draft{}, fmt.Errorf("%w: discount %s exceeds the amount due", ErrInvalidInput, discount)
	}

	var customer *uint
	if params.CustomerID != nil {
		id := *params.CustomerID
		customer = &id
	}

	return Draft{
		Items:         lines,
		Subtotal:      subtotal,
		Discount:      discount,
		Surcharge:     surcharge,
		Tax:           tax,
		Total:         total,
		PaymentMethod: method,
		CustomerID:    customer,
	}, nil
}

// RoundTo returns a Round func that rounds half away from zero to places
// decimal places.
func RoundTo(places int32) func(decimal.Decimal) decimal.Decimal {
	return func(d decimal.Decimal) decimal.Decimal {
		return d.Round(places)
	}
}
