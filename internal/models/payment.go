package models

import "time"

// TransactionID identifies a completed payment, e.g. "TXN-1760000000000-AB12CD34E"
type TransactionID string

// PaymentMethod is how the citizen paid
type PaymentMethod string

const (
	PaymentMethodEWallet PaymentMethod = "e-wallet"
	PaymentMethodCash    PaymentMethod = "cash"
)

// Valid reports whether m is a known payment method
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodEWallet || m == PaymentMethodCash
}

// Label is the human readable form used on receipts
func (m PaymentMethod) Label() string {
	if m == PaymentMethodEWallet {
		return "E-Wallet"
	}
	return "Cash Payment"
}

// PaymentStatus is the state of a payment
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
)

// PaymentRecord is a record of a completed payment for an application
type PaymentRecord struct {
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	ServiceType   string        `json:"serviceType"`
	ApplicationID ApplicationID `json:"applicationId"`
	Status        PaymentStatus `json:"status"`
	TransactionID TransactionID `json:"transactionId,omitempty"`
	Timestamp     *time.Time    `json:"timestamp,omitempty"`
}

// PaymentResult is the outcome of a payment attempt
type PaymentResult struct {
	Success       bool          `json:"success"`
	TransactionID TransactionID `json:"transactionId,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// PaymentStats summarizes the completed payments
type PaymentStats struct {
	Total       int                   `json:"total"`
	TotalAmount float64               `json:"totalAmount"`
	ByMethod    map[PaymentMethod]int `json:"byMethod"`
}
