package entities

import (
	"strconv"
	"time"
)

// PaymentMethod is how a registration fee is collected
type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodChapa PaymentMethod = "chapa"
)

// RequiresRedirect reports whether the method goes through the hosted gateway
func (m PaymentMethod) RequiresRedirect() bool {
	return m == PaymentMethodChapa
}

// PaymentStatus is the lifecycle state of a payment
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment represents a registration fee payment
type Payment struct {
	ID            int64         `json:"id"`
	Patient       int64         `json:"patient"`
	Amount        string        `json:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Status        PaymentStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// AmountValue parses the decimal amount; malformed amounts count as zero
func (p *Payment) AmountValue() float64 {
	v, err := strconv.ParseFloat(p.Amount, 64)
	if err != nil {
		return 0
	}
	return v
}

// PaymentResponse is the payment embedded in a freshly created patient
type PaymentResponse struct {
	ID            int64         `json:"id"`
	Amount        string        `json:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Status        PaymentStatus `json:"status"`
	Reference     string        `json:"reference"`
	PaymentURL    string        `json:"payment_url,omitempty"`
}

// PaymentVerification is the answer of POST /payments/webhook/
type PaymentVerification struct {
	Message string        `json:"message"`
	Status  PaymentStatus `json:"status"`
}

// TotalAmount is the answer of GET /payments/total_amount/
type TotalAmount struct {
	TotalAmount float64 `json:"total_amount"`
}

// TodayTotal is the answer of GET /payments/today_total/
type TodayTotal struct {
	TodayTotal float64 `json:"today_total"`
}
