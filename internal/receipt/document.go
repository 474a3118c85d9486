// Package receipt projects an order into a printable document and renders it.
package receipt

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/order-service/internal/domain"
)

// Line is one order item on the receipt. Total is nil when the item has no price yet.
type Line struct {
	Name     string
	Quantity decimal.Decimal
	Unit     string
	Price    *decimal.Decimal
	Total    *decimal.Decimal
}

// Document is the data handed to the receipt template.
type Document struct {
	OrderID    string
	State      domain.OrderState
	CreatedOn  time.Time
	Comment    string
	Ship       string
	Supervisor string
	Contact    string
	Lines      []Line
	Total      decimal.Decimal
}

// NewDocument builds the receipt for order. customer may be nil.
func NewDocument(order *domain.Order, customer *domain.Customer) Document {
	doc := Document{
		OrderID:   order.ID,
		State:     order.State,
		CreatedOn: order.CreatedOn,
		Total:     decimal.Zero,
		Lines:     make([]Line, 0, len(order.Items)),
	}
	if order.Comment != nil {
		doc.Comment = *order.Comment
	}
	if customer != nil {
		doc.Ship = customer.Ship
		doc.Supervisor = customer.Supervisor
		doc.Contact = customer.Contact
	}

	for _, item := range order.Items {
		line := Line{
			Name:     item.ItemName,
			Quantity: item.Quantity,
			Unit:     item.Unit.Label(),
			Price:    item.Price,
			Total:    item.LineTotal(),
		}
		if line.Total != nil {
			doc.Total = doc.Total.Add(*line.Total)
		}
		doc.Lines = append(doc.Lines, line)
	}
	return doc
}
