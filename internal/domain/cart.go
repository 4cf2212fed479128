package domain

import "math"

// Cart ledger: pure copy-on-write transforms over the line-item list.
// No I/O, no mutation of the input cart visible to the caller.

// Add merges qty into an existing line with the same code, or appends a new
// line at the end. A qty below 1 is treated as 1.
func Add(cart Cart, item LineItem, qty int) Cart {
	if qty < 1 {
		qty = 1
	}
	lines := make([]LineItem, len(cart.Lines))
	copy(lines, cart.Lines)
	for i := range lines {
		if lines[i].Code == item.Code {
			lines[i].Quantity += qty
			cart.Lines = lines
			return cart
		}
	}
	item.Quantity = qty
	cart.Lines = append(lines, item)
	return cart
}

// SetQuantity overwrites the quantity of the matching line. A qty of zero or
// below removes the line. Unknown codes are a no-op.
func SetQuantity(cart Cart, code string, qty int) Cart {
	if qty <= 0 {
		return Remove(cart, code)
	}
	lines := make([]LineItem, len(cart.Lines))
	copy(lines, cart.Lines)
	for i := range lines {
		if lines[i].Code == code {
			lines[i].Quantity = qty
			break
		}
	}
	cart.Lines = lines
	return cart
}

// Remove filters out the matching line. Unknown codes are a no-op.
func Remove(cart Cart, code string) Cart {
	lines := make([]LineItem, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		if l.Code != code {
			lines = append(lines, l)
		}
	}
	cart.Lines = lines
	return cart
}

// Total is the sum of quantity times unit price at full float64 precision.
// Round only at display boundaries, via Round2.
func Total(cart Cart) float64 {
	var total float64
	for _, l := range cart.Lines {
		total += float64(l.Quantity) * l.UnitPrice
	}
	return total
}

// TotalItems is the sum of line quantities.
func TotalItems(cart Cart) int {
	var n int
	for _, l := range cart.Lines {
		n += l.Quantity
	}
	return n
}

// Round2 rounds an amount to 2 decimals for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
