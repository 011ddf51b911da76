package service

import (
	"fmt"
	"strings"
	"time"
)

// invoiceCustomerKey derives the customer portion of an invoice number: the
// first four characters of the trimmed name, uppercased. Shorter names use
// whatever is available without padding.
func invoiceCustomerKey(customerName string) string {
	key := []rune(strings.ToUpper(strings.TrimSpace(customerName)))
	if len(key) > 4 {
		key = key[:4]
	}
	return string(key)
}

// FormatInvoiceNumber builds the human-readable invoice identifier:
// customer key + DDMMYY of the issue date + "-" + two-digit sequence.
// The first invoice for "Acme Corp" on 2025-03-07 is ACME070325-01.
func FormatInvoiceNumber(customerName string, issuedAt time.Time, sequence int32) string {
	return fmt.Sprintf("%s%s-%02d", invoiceCustomerKey(customerName), issuedAt.Format("020106"), sequence)
}
