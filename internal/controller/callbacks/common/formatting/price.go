package formatting

import "fmt"

// FormatPrice renders minor currency units as dollars, always two decimal
// places: 2500 -> "$25.00". An absent price renders as $0.00.
func FormatPrice(minor int64) string {
	return fmt.Sprintf("$%.2f", float64(minor)/100)
}
