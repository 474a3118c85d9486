package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Unit enumerates measurement units for order lines.
type Unit string

const (
	UnitUnit        Unit = "u"
	UnitDozen       Unit = "dozen"
	UnitGrams       Unit = "g"
	UnitKilograms   Unit = "kg"
	UnitLiters      Unit = "lts"
	UnitMeters      Unit = "m"
	UnitCentimeters Unit = "cm"
)

var unitLabels = map[Unit]string{
	UnitUnit:        "Unit",
	UnitDozen:       "Dozen",
	UnitGrams:       "Grams",
	UnitKilograms:   "Kilogram",
	UnitLiters:      "Liters",
	UnitMeters:      "Meters",
	UnitCentimeters: "Centimeters",
}

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	_, ok := unitLabels[u]
	return ok
}

// Label returns the display name of the unit.
func (u Unit) Label() string {
	if label, ok := unitLabels[u]; ok {
		return label
	}
	return string(u)
}

// OrderItem is a priced line of an order. Price stays nil until an admin sets it.
type OrderItem struct {
	ID        string
	OrderID   string
	ItemID    string
	ItemName  string
	Quantity  decimal.Decimal
	Price     *decimal.Decimal
	Unit      Unit
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineTotal returns price × quantity, or nil when the line is unpriced.
func (i OrderItem) LineTotal() *decimal.Decimal {
	if i.Price == nil {
		return nil
	}
	total := i.Price.Mul(i.Quantity)
	return &total
}

// SumPrices adds the prices of all priced items.
func SumPrices(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Price != nil {
			total = total.Add(*item.Price)
		}
	}
	return total
}

// Column limits for decimal values: quantity is NUMERIC(20,3), prices NUMERIC(30,2).
const (
	QuantityDigits = 20
	QuantityScale  = 3
	PriceDigits    = 30
	PriceScale     = 2
)

// CheckDecimal returns a field message when d does not fit a NUMERIC(digits, scale)
// column, or "" when it does.
func CheckDecimal(d decimal.Decimal, digits, scale int32) string {
	if !d.Equal(d.Truncate(scale)) {
		return fmt.Sprintf("ensure that there are no more than %d decimal places", scale)
	}
	if !d.Abs().LessThan(decimal.New(1, digits-scale)) {
		return fmt.Sprintf("ensure that there are no more than %d digits in total", digits)
	}
	return ""
}
