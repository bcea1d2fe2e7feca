package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Order is the host commerce record a payment is initiated for. The payment
// domain consumes it as opaque input: total and currency are read here and
// never derived from gateway data.
type Order struct {
	ID            int64           `json:"id"`
	CustomerEmail string          `json:"customer_email"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	Description   string          `json:"description"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderNotPending = errors.New("order is not pending payment")
)

// Payable reports whether a payment may be initiated for this order.
func (o *Order) Payable() bool {
	return o.Status == StatusPending
}
