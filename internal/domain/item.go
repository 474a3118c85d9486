package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Item is a catalog entry matched by its normalized name.
type Item struct {
	ID             string
	Name           string
	NormalizedName string
	DefaultPrice   decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NormalizeItemName lower-cases name and collapses surrounding and inner whitespace.
func NormalizeItemName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// CleanItemName trims and collapses whitespace while keeping the original casing.
func CleanItemName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
