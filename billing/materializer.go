package billing

import (
	"strings"
	"time"

	"memberbill/models"
)

// AdmissionFeeKey is the line-item key of the one-time admission charge on a
// full expansion.
const AdmissionFeeKey = "admission_fee"

// buildFullInvoice expands every plan item — the admission fee plus all
// custom fields — into a fresh invoice. Used at enrollment and plan change.
func buildFullInvoice(plan *models.Plan, sub *models.Subscription, dueDate time.Time) *models.Invoice {
	items := make([]models.InvoiceLineItem, 0, len(plan.Fields)+1)
	if plan.AdmissionFee > 0 {
		items = append(items, models.InvoiceLineItem{
			Key:          AdmissionFeeKey,
			Label:        "Admission Fee",
			ChargeAmount: plan.AdmissionFee,
			IsRecurring:  false,
			Status:       models.PaymentDue,
		})
	}
	items = appendFieldItems(items, plan.Fields, false)
	return newInvoice(plan, sub, dueDate, items)
}

// buildRecurringInvoice expands only the recurring custom fields. Used at
// renewal rollover. Returns nil when the plan has no recurring fields: the
// cycle advances without raising a bill, which is deliberate policy.
func buildRecurringInvoice(plan *models.Plan, sub *models.Subscription, dueDate time.Time) *models.Invoice {
	items := appendFieldItems(nil, plan.Fields, true)
	if len(items) == 0 {
		return nil
	}
	return newInvoice(plan, sub, dueDate, items)
}

func appendFieldItems(items []models.InvoiceLineItem, fields []models.PlanField, recurringOnly bool) []models.InvoiceLineItem {
	taken := make(map[string]bool, len(items))
	for _, it := range items {
		taken[it.Key] = true
	}
	for _, f := range fields {
		if recurringOnly && !f.IsRecurring {
			continue
		}
		key := lineItemKey(f.Label)
		for taken[key] {
			key += "_"
		}
		taken[key] = true
		items = append(items, models.InvoiceLineItem{
			Key:          key,
			Label:        f.Label,
			ChargeAmount: f.Amount,
			IsRecurring:  f.IsRecurring,
			Status:       models.PaymentDue,
		})
	}
	return items
}

func newInvoice(plan *models.Plan, sub *models.Subscription, dueDate time.Time, items []models.InvoiceLineItem) *models.Invoice {
	var total float64
	for _, it := range items {
		total += it.ChargeAmount
	}
	return &models.Invoice{
		TenantID:       sub.TenantID,
		MemberID:       sub.MemberID,
		PlanID:         plan.ID,
		SubscriptionID: sub.ID,
		DueDate:        dueDate,
		LineItems:      items,
		TotalAmount:    total,
		TotalPaid:      0,
		Status:         models.PaymentDue,
	}
}

// lineItemKey derives the stable allocation key from a field label:
// "Trainer Fee" becomes "trainer_fee".
func lineItemKey(label string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
