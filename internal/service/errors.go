package service

import (
	"github.com/nithinvarma411/dhanapathrika/internal/domain"
)

// Invoice errors - use domain.ENOTFOUND
var (
	ErrInvoiceNotFound = domain.Errorf(domain.ENOTFOUND, "", "Invoice not found")
	ErrUserNotFound    = domain.Errorf(domain.ENOTFOUND, "", "User not found")
)

// Stock errors
var (
	ErrStockItemNotFound  = domain.Errorf(domain.ENOTFOUND, "", "Stock item not found")
	ErrDuplicateStockName = domain.Errorf(domain.ECONFLICT, "", "Item already exists in your stock")
)

// Auth errors
var (
	ErrInvalidCredentials = domain.Errorf(domain.EUNAUTHORIZED, "", "Invalid email or password")
	ErrSessionExpired     = domain.Errorf(domain.EUNAUTHORIZED, "", "Session expired or unknown")
)
