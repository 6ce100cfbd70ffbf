package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/localnerve/canconnect/internal/catalog"
	"github.com/localnerve/canconnect/internal/logger"
	"github.com/localnerve/canconnect/internal/metrics"
	"github.com/localnerve/canconnect/internal/models"
	"github.com/localnerve/canconnect/internal/store"
	"github.com/shopspring/decimal"
)

// DeclinedMessage is returned for a simulated decline
const DeclinedMessage = "Payment declined. Please try again or use a different method."

// CancelledMessage is returned when the caller gives up during processing
const CancelledMessage = "Payment processing cancelled"

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// PaymentSettings controls the payment simulation
type PaymentSettings struct {
	Delay       time.Duration
	SuccessRate float64
	Currency    string
}

// DefaultPaymentSettings is a two second round trip with a 95% success rate
var DefaultPaymentSettings = PaymentSettings{
	Delay:       2 * time.Second,
	SuccessRate: 0.95,
	Currency:    "PHP",
}

// PaymentService simulates fee payments and keeps the completed ones
type PaymentService struct {
	store    store.RecordStore[models.PaymentRecord]
	catalog  *catalog.Catalog
	log      logger.Logger
	settings PaymentSettings

	mu sync.Mutex

	now       func() time.Time
	randIntN  func(n int) int
	randFloat func() float64
}

// NewPaymentService creates the payment linkage service
func NewPaymentService(rs store.RecordStore[models.PaymentRecord], cat *catalog.Catalog, log logger.Logger, settings PaymentSettings, opts ...Option) *PaymentService {
	o := buildOptions(opts)
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if cat == nil {
		cat = catalog.Default()
	}
	if settings.Currency == "" {
		settings.Currency = DefaultPaymentSettings.Currency
	}
	return &PaymentService{
		store:     rs,
		catalog:   cat,
		log:       log,
		settings:  settings,
		now:       o.now,
		randIntN:  o.randIntN,
		randFloat: o.randFloat,
	}
}

// GenerateTransactionID returns TXN-<epoch ms>-<9 random base36 characters>.
// Uniqueness is not checked.
func (s *PaymentService) GenerateTransactionID() models.TransactionID {
	var b strings.Builder
	for range 9 {
		b.WriteByte(base36[s.randIntN(len(base36))])
	}
	return models.TransactionID(fmt.Sprintf("TXN-%d-%s", s.now().UnixMilli(), b.String()))
}

// FeeFor returns the fee charged for a service type
func (s *PaymentService) FeeFor(serviceType string) float64 {
	return s.catalog.FeeFor(serviceType)
}

// ProcessPayment simulates charging details.Amount. A completed payment is
// stamped and appended to the payment list; declined and cancelled attempts
// return Success false and are not stored. err is only set when the
// context ends during processing or the completed payment cannot be saved.
func (s *PaymentService) ProcessPayment(ctx context.Context, details models.PaymentRecord) (models.PaymentResult, error) {
	log := s.log.WithFields(map[string]interface{}{
		"applicationId": details.ApplicationID,
		"serviceType":   details.ServiceType,
		"amount":        details.Amount,
	})

	if s.settings.Delay > 0 {
		timer := time.NewTimer(s.settings.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			metrics.PaymentAttempts.WithLabelValues("cancelled").Inc()
			log.Warn("payment cancelled during processing", nil)
			return models.PaymentResult{Error: CancelledMessage}, ctx.Err()
		case <-timer.C:
		}
	}

	if s.randFloat() >= s.settings.SuccessRate {
		metrics.PaymentAttempts.WithLabelValues("declined").Inc()
		log.Warn("payment declined", map[string]interface{}{"paymentMethod": details.PaymentMethod})
		return models.PaymentResult{Error: DeclinedMessage}, nil
	}

	record := details
	if record.PaymentMethod == "" {
		record.PaymentMethod = models.PaymentMethodEWallet
	}
	if record.Currency == "" {
		record.Currency = s.settings.Currency
	}
	record.TransactionID = s.GenerateTransactionID()
	record.Status = models.PaymentStatusCompleted
	completed := s.now().UTC()
	record.Timestamp = &completed

	if err := s.appendPayment(ctx, record); err != nil {
		metrics.PaymentAttempts.WithLabelValues("error").Inc()
		log.WithError(err).Error("failed to record completed payment", nil)
		return models.PaymentResult{Error: "Payment processing failed"}, err
	}

	metrics.PaymentAttempts.WithLabelValues("completed").Inc()
	log.Info("payment completed", map[string]interface{}{"transactionId": record.TransactionID})

	return models.PaymentResult{Success: true, TransactionID: record.TransactionID}, nil
}

// appendPayment adds record to the ledger. Nothing is written when the
// existing ledger cannot be read.
func (s *PaymentService) appendPayment(ctx context.Context, record models.PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payments, err := s.store.LoadForUpdate(ctx)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, append(payments, record))
}

// GetPaymentRecord finds a payment by exact transaction id
func (s *PaymentService) GetPaymentRecord(ctx context.Context, id models.TransactionID) (models.PaymentRecord, bool) {
	for _, p := range s.store.Load(ctx) {
		if p.TransactionID == id {
			return p, true
		}
	}
	return models.PaymentRecord{}, false
}

// ApplicationPayments returns every payment made for an application
func (s *PaymentService) ApplicationPayments(ctx context.Context, id models.ApplicationID) []models.PaymentRecord {
	out := []models.PaymentRecord{}
	for _, p := range s.store.Load(ctx) {
		if p.ApplicationID == id {
			out = append(out, p)
		}
	}
	return out
}

// PaymentStats totals the stored payments
func (s *PaymentService) PaymentStats(ctx context.Context) models.PaymentStats {
	stats := models.PaymentStats{ByMethod: map[models.PaymentMethod]int{}}
	total := decimal.Zero
	for _, p := range s.store.Load(ctx) {
		stats.Total++
		stats.ByMethod[p.PaymentMethod]++
		total = total.Add(decimal.NewFromFloat(p.Amount))
	}
	stats.TotalAmount = total.InexactFloat64()
	return stats
}

// FormatCurrency renders an amount in pesos with two decimals, e.g. 1000 as "₱1000.00"
func FormatCurrency(amount float64) string {
	return "₱" + decimal.NewFromFloat(amount).StringFixed(2)
}

// ReceiptTimeLayout is the date format printed on receipts
const ReceiptTimeLayout = "1/2/2006, 3:04:05 PM"

// GenerateReceipt renders a plain text receipt for a payment
func GenerateReceipt(p models.PaymentRecord) string {
	date := "N/A"
	if p.Timestamp != nil {
		date = p.Timestamp.UTC().Format(ReceiptTimeLayout)
	}

	lines := []string{
		"RECEIPT",
		"====================",
		"Service: " + p.ServiceType,
		"Amount: " + FormatCurrency(p.Amount),
		"Payment Method: " + p.PaymentMethod.Label(),
		"Transaction ID: " + string(p.TransactionID),
		"Date: " + date,
		"Status: COMPLETED",
		"====================",
	}
	return strings.Join(lines, "\n")
}
