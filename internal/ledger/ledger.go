// Package ledger holds the pure stock arithmetic shared by the sale and
// purchase coordinators. No I/O, no side effects.
package ledger

// Apply returns the stock that results from applying a signed delta of
// base units to the current stock, floored at zero. The coordinators are
// expected to reject insufficient-stock operations before reaching this
// point; the floor only guards against races and rounding, it never
// authorizes overselling.
func Apply(currentStock, deltaBaseUnits int) int {
	next := currentStock + deltaBaseUnits
	if next < 0 {
		return 0
	}
	return next
}

// SaleDelta converts a sale line into the (negative) base-unit delta it
// causes: quantity presentations of presentationUnits base units each.
func SaleDelta(presentationUnits, quantity int) int {
	return -(presentationUnits * quantity)
}

// ReceiptDelta converts a purchase line into the (positive) base-unit
// delta credited on receipt. Purchase line quantities are already counted
// in base units.
func ReceiptDelta(quantity int) int {
	return quantity
}

// RequiredBaseUnits is the stock a sale line consumes.
func RequiredBaseUnits(presentationUnits, quantity int) int {
	return presentationUnits * quantity
}
