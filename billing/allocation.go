package billing

import (
	"context"
	"errors"

	"memberbill/metrics"
	"memberbill/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxConflictRetries bounds internal retries after a lost atomic update
// before ErrConcurrencyConflict reaches the caller.
const maxConflictRetries = 3

// ApplyPayment applies one received payment across an invoice's line items
// and records the immutable transaction receipt.
//
// Allocations naming an unknown line-item key are skipped, matching the
// upstream intake behavior; if nothing remains the call fails with
// ErrEmptyAllocation. Any allocation that would push a line item past its
// charge amount fails the whole call with *OverpaymentError and leaves the
// invoice untouched.
//
// Line-item increments and the invoice totals rollup are guarded
// single-statement updates inside one transaction, so two concurrent
// payments against the same invoice cannot jointly overpay an item; the
// loser of the race is retried and re-checked against fresh state.
func (e *Engine) ApplyPayment(ctx context.Context, tenantID, invoiceID uint, allocations []models.FeeAllocation, mode models.PaymentMode) (*models.Invoice, *models.Transaction, error) {
	if len(allocations) == 0 {
		return nil, nil, ErrEmptyAllocation
	}

	var (
		invoice *models.Invoice
		txn     *models.Transaction
		err     error
	)
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		invoice, txn, err = e.applyPaymentOnce(ctx, tenantID, invoiceID, allocations, mode)
		if !errors.Is(err, ErrConcurrencyConflict) {
			break
		}
		e.log.WithField("invoice_id", invoiceID).Warn("payment allocation lost update race, retrying")
	}
	if err != nil {
		return nil, nil, err
	}
	metrics.PaymentsTotal.Inc()
	metrics.PaymentAmountTotal.Add(txn.AmountPaid)
	return invoice, txn, nil
}

func (e *Engine) applyPaymentOnce(ctx context.Context, tenantID, invoiceID uint, allocations []models.FeeAllocation, mode models.PaymentMode) (*models.Invoice, *models.Transaction, error) {
	var txn *models.Transaction

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		err := tx.Preload("LineItems").Where("tenant_id = ?", tenantID).First(&invoice, invoiceID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvoiceNotFound
		}
		if err != nil {
			return err
		}

		itemsByKey := make(map[string]*models.InvoiceLineItem, len(invoice.LineItems))
		for i := range invoice.LineItems {
			itemsByKey[invoice.LineItems[i].Key] = &invoice.LineItems[i]
		}

		accepted := make([]models.FeeAllocation, 0, len(allocations))
		pending := make(map[string]float64)
		var total float64
		for _, alloc := range allocations {
			item, ok := itemsByKey[alloc.Key]
			if !ok || alloc.Amount <= 0 {
				continue
			}
			// Duplicate keys in one call count cumulatively.
			if item.PaidAmount+pending[alloc.Key]+alloc.Amount > item.ChargeAmount {
				return &OverpaymentError{
					Key:       alloc.Key,
					Attempted: alloc.Amount,
					Remaining: item.ChargeAmount - item.PaidAmount - pending[alloc.Key],
				}
			}
			pending[alloc.Key] += alloc.Amount
			accepted = append(accepted, alloc)
			total += alloc.Amount
		}
		if len(accepted) == 0 {
			return ErrEmptyAllocation
		}

		for _, alloc := range accepted {
			item := itemsByKey[alloc.Key]
			// The balance guard lives in the statement itself: the check and
			// the increment are one atomic read-modify-write.
			res := tx.Model(&models.InvoiceLineItem{}).
				Where("id = ? AND paid_amount + ? <= charge_amount", item.ID, alloc.Amount).
				Updates(map[string]interface{}{
					"paid_amount": gorm.Expr("paid_amount + ?", alloc.Amount),
					"status": gorm.Expr(
						"CASE WHEN paid_amount + ? >= charge_amount THEN 'paid' ELSE 'partial' END",
						alloc.Amount),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Passed the snapshot check but lost to a concurrent writer.
				return ErrConcurrencyConflict
			}
		}

		res := tx.Model(&models.Invoice{}).
			Where("id = ? AND version = ?", invoice.ID, invoice.Version).
			Updates(map[string]interface{}{
				"total_paid": gorm.Expr("total_paid + ?", total),
				"version":    invoice.Version + 1,
				"status": gorm.Expr(
					"CASE WHEN total_paid + ? >= total_amount THEN 'paid' WHEN total_paid + ? > 0 THEN 'partial' ELSE 'due' END",
					total, total),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrencyConflict
		}

		// First-ever positive payment flips the member active.
		if err := tx.Model(&models.Member{}).
			Where("id = ? AND is_active = ?", invoice.MemberID, false).
			Update("is_active", true).Error; err != nil {
			return err
		}

		txn = &models.Transaction{
			TenantID:       tenantID,
			InvoiceID:      invoice.ID,
			MemberID:       invoice.MemberID,
			SubscriptionID: invoice.SubscriptionID,
			ReceiptID:      uuid.NewString(),
			AmountPaid:     total,
			Mode:           mode,
			FeeBreakdown:   accepted,
		}
		return tx.Create(txn).Error
	})
	if err != nil {
		return nil, nil, err
	}

	var updated models.Invoice
	if err := e.db.WithContext(ctx).Preload("LineItems").First(&updated, invoiceID).Error; err != nil {
		return nil, nil, err
	}
	return &updated, txn, nil
}

// GetInvoice returns one invoice with its line items.
func (e *Engine) GetInvoice(ctx context.Context, tenantID, invoiceID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := e.db.WithContext(ctx).Preload("LineItems").Where("tenant_id = ?", tenantID).First(&invoice, invoiceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// MemberInvoices lists a member's invoices, newest due date first.
func (e *Engine) MemberInvoices(ctx context.Context, tenantID, memberID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := e.db.WithContext(ctx).Preload("LineItems").
		Where("tenant_id = ? AND member_id = ?", tenantID, memberID).
		Order("due_date desc").Find(&invoices).Error
	return invoices, err
}

// MemberTransactions lists a member's payment receipts, newest first.
func (e *Engine) MemberTransactions(ctx context.Context, tenantID, memberID uint) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := e.db.WithContext(ctx).
		Where("tenant_id = ? AND member_id = ?", tenantID, memberID).
		Order("created_at desc").Find(&txns).Error
	return txns, err
}
