package billing

import (
	"context"
	"errors"
	"time"

	"memberbill/metrics"
	"memberbill/models"

	"gorm.io/gorm"
)

// BatchResult summarizes one renewal batch run.
type BatchResult struct {
	Advanced int `json:"advanced"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// errMemberInactive marks a subscription whose owner is deactivated; the
// batch skips it rather than resurrecting billing.
var errMemberInactive = errors.New("member inactive")

// RunRenewalBatch advances every active subscription whose cycle has
// elapsed: the old subscription is expired, a successor starts at the old
// renewal date (the cycle boundary, not the wall clock), and a
// recurring-only invoice is raised when the plan has recurring fields.
//
// Subscriptions are processed independently under a per-item timeout; one
// failure is logged and counted, never aborting the rest. Safe to invoke
// repeatedly for the same day: an advanced subscription no longer matches
// the next_renewal_date filter.
func (e *Engine) RunRenewalBatch(ctx context.Context, now time.Time) (BatchResult, error) {
	var result BatchResult

	var due []models.Subscription
	err := e.db.WithContext(ctx).
		Where("status = ? AND next_renewal_date <= ?", models.SubscriptionActive, now).
		Order("next_renewal_date").
		Find(&due).Error
	if err != nil {
		return result, err
	}

	metrics.RenewalBatchRuns.Inc()
	e.log.WithField("due", len(due)).Info("renewal batch started")

	for _, sub := range due {
		itemCtx, cancel := context.WithTimeout(ctx, e.itemTimeout)
		err := e.renewOne(itemCtx, sub)
		cancel()

		switch {
		case err == nil:
			result.Advanced++
			metrics.RenewalsProcessed.WithLabelValues("advanced").Inc()
		case errors.Is(err, errMemberInactive):
			result.Skipped++
			metrics.RenewalsProcessed.WithLabelValues("skipped").Inc()
			e.log.WithFields(map[string]interface{}{
				"subscription_id": sub.ID,
				"member_id":       sub.MemberID,
			}).Info("renewal skipped, member inactive")
		default:
			result.Failed++
			metrics.RenewalsProcessed.WithLabelValues("failed").Inc()
			e.log.WithFields(map[string]interface{}{
				"subscription_id": sub.ID,
				"error":           err.Error(),
			}).Error("renewal failed")
		}
	}

	e.log.WithFields(map[string]interface{}{
		"advanced": result.Advanced,
		"skipped":  result.Skipped,
		"failed":   result.Failed,
	}).Info("renewal batch finished")
	return result, nil
}

func (e *Engine) renewOne(ctx context.Context, sub models.Subscription) error {
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := findMember(tx, sub.TenantID, sub.MemberID)
		if err != nil {
			return err
		}
		if !member.IsActive {
			return errMemberInactive
		}

		plan, err := findPlan(tx, sub.TenantID, sub.PlanID)
		if err != nil {
			return err
		}

		newStart := sub.NextRenewalDate
		newNext, err := NextRenewal(newStart, plan.BillingCycle)
		if err != nil {
			return err
		}

		// Guarded expiry: a concurrent run that already advanced this
		// subscription makes this a no-op, and the whole item backs out.
		res := tx.Model(&models.Subscription{}).
			Where("id = ? AND status = ?", sub.ID, models.SubscriptionActive).
			Update("status", models.SubscriptionExpired)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrencyConflict
		}

		next := models.Subscription{
			TenantID:        sub.TenantID,
			MemberID:        sub.MemberID,
			PlanID:          sub.PlanID,
			StartDate:       newStart,
			NextRenewalDate: newNext,
			Status:          models.SubscriptionActive,
		}
		if err := tx.Create(&next).Error; err != nil {
			return err
		}

		// Plans with no recurring fields advance the cycle without raising
		// a bill.
		if invoice := buildRecurringInvoice(plan, &next, newStart); invoice != nil {
			return tx.Create(invoice).Error
		}
		return nil
	})
}
