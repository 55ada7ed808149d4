package billing

import (
	"context"
	"errors"
	"time"

	"memberbill/models"

	"gorm.io/gorm"
)

// EnrollMember creates an active subscription for the member on the given
// plan, starting at startDate, and raises the full enrollment invoice
// (admission fee plus every custom field). Both writes commit together.
//
// A member may hold at most one active subscription; the check runs inside
// the same transaction that creates the new one.
func (e *Engine) EnrollMember(ctx context.Context, tenantID, memberID, planID uint, startDate time.Time) (*models.Subscription, *models.Invoice, error) {
	var (
		sub     *models.Subscription
		invoice *models.Invoice
	)
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := findMember(tx, tenantID, memberID)
		if err != nil {
			return err
		}
		plan, err := findPlan(tx, tenantID, planID)
		if err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&models.Subscription{}).
			Where("tenant_id = ? AND member_id = ? AND status = ?", tenantID, memberID, models.SubscriptionActive).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrActiveSubscriptionExists
		}

		next, err := NextRenewal(startDate, plan.BillingCycle)
		if err != nil {
			return err
		}

		sub = &models.Subscription{
			TenantID:        tenantID,
			MemberID:        member.ID,
			PlanID:          plan.ID,
			StartDate:       startDate,
			NextRenewalDate: next,
			Status:          models.SubscriptionActive,
		}
		if err := tx.Create(sub).Error; err != nil {
			return err
		}

		invoice = buildFullInvoice(plan, sub, startDate)
		return tx.Create(invoice).Error
	})
	if err != nil {
		return nil, nil, err
	}
	e.log.WithFields(map[string]interface{}{
		"tenant_id":       tenantID,
		"member_id":       memberID,
		"subscription_id": sub.ID,
		"invoice_id":      invoice.ID,
	}).Info("member enrolled")
	return sub, invoice, nil
}

// ChangePlan moves a member's active subscription to a different plan as of
// effectiveDate: the old subscription goes inactive (it is never deleted)
// and a new one starts with a full enrollment invoice.
//
// Re-selecting the member's current plan only re-dates the existing
// subscription; no invoice is raised and the returned invoice is nil.
func (e *Engine) ChangePlan(ctx context.Context, tenantID, memberID, newPlanID uint, effectiveDate time.Time) (*models.Subscription, *models.Invoice, error) {
	var (
		sub     *models.Subscription
		invoice *models.Invoice
	)
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findMember(tx, tenantID, memberID); err != nil {
			return err
		}
		plan, err := findPlan(tx, tenantID, newPlanID)
		if err != nil {
			return err
		}

		var current models.Subscription
		err = tx.Where("tenant_id = ? AND member_id = ? AND status = ?", tenantID, memberID, models.SubscriptionActive).
			First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubscriptionNotFound
		}
		if err != nil {
			return err
		}

		next, err := NextRenewal(effectiveDate, plan.BillingCycle)
		if err != nil {
			return err
		}

		if current.PlanID == plan.ID {
			current.StartDate = effectiveDate
			current.NextRenewalDate = next
			if err := tx.Save(&current).Error; err != nil {
				return err
			}
			sub = &current
			return nil
		}

		current.Status = models.SubscriptionInactive
		if err := tx.Save(&current).Error; err != nil {
			return err
		}

		sub = &models.Subscription{
			TenantID:        tenantID,
			MemberID:        memberID,
			PlanID:          plan.ID,
			StartDate:       effectiveDate,
			NextRenewalDate: next,
			Status:          models.SubscriptionActive,
		}
		if err := tx.Create(sub).Error; err != nil {
			return err
		}

		invoice = buildFullInvoice(plan, sub, effectiveDate)
		return tx.Create(invoice).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return sub, invoice, nil
}

func findMember(tx *gorm.DB, tenantID, memberID uint) (*models.Member, error) {
	var member models.Member
	err := tx.Where("tenant_id = ?", tenantID).First(&member, memberID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func findPlan(tx *gorm.DB, tenantID, planID uint) (*models.Plan, error) {
	var plan models.Plan
	err := tx.Preload("Fields").Where("tenant_id = ?", tenantID).First(&plan, planID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}
