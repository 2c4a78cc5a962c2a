package sales

import (
	"fmt"
)

// Cart collects line items before a sale is finalized. It is not safe for
// concurrent use; each till session owns its own cart.
type Cart struct {
	items []LineItem
}

// Add appends item, or increases the quantity of the line that already holds
// the same product. The unit price of the existing line is kept.
func (c *Cart) Add(item LineItem) error {
	if err := item.validate(); err != nil {
		return err
	}
	for i := range c.items {
		if c.items[i].ProductID == item.ProductID {
			c.items[i].Quantity += item.Quantity
			return nil
		}
	}
	c.items = append(c.items, item)
	return nil
}

// SetQuantity replaces the quantity of a product already in the cart. A zero
// quantity removes the line.
func (c *Cart) SetQuantity(productID uint, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: negative quantity %d", ErrInvalidInput, quantity)
	}
	for i := range c.items {
		if c.items[i].ProductID != productID {
			continue
		}
		if quantity == 0 {
			c.Remove(productID)
			return nil
		}
		c.items[i].Quantity = quantity
		return nil
	}
	return fmt.Errorf("%w: product %d is not in the cart", ErrInvalidInput, productID)
}

// Remove drops the line for productID. Removing a missing product is a no-op.
func (c *Cart) Remove(productID uint) {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len is the number of distinct lines.
func (c *Cart) Len() int { return len(c.items) }

// Finalize prices the cart. The cart itself is left untouched.
func (c *Cart) Finalize(params Params) (Draft, error) {
	return Calculate(c.items, params)
}
