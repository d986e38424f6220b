package domain

import (
	"math"
	"strings"
	"time"
)

type Item struct {
	ID          int64
	Description string
	Price       float64
	SellerID    int64
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateListing checks the caller-supplied fields of a new listing.
func ValidateListing(description string, price float64) error {
	if strings.TrimSpace(description) == "" {
		return ErrInvalidInput
	}
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return ErrInvalidInput
	}
	return nil
}
