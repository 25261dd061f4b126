package utils

import (
	"fmt"
	"strings"
	"time"
)

// GenerateInvoiceNumber builds INV-<unix millis>-<last 6 chars of order id>.
// No collision check: the timestamp plus id tail is unique in practice.
func GenerateInvoiceNumber(now time.Time, orderID string) string {
	tail := strings.ToUpper(Last(strings.ReplaceAll(orderID, "-", ""), 6))
	return fmt.Sprintf("INV-%d-%s", now.UnixMilli(), tail)
}
