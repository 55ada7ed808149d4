package billing

import (
	"context"

	"memberbill/models"

	"gorm.io/gorm"
)

// PlanPatch carries the fields an update may change. Nil fields are left
// untouched; a non-nil Fields slice replaces the custom fields wholesale.
type PlanPatch struct {
	Name         *string
	BillingCycle *models.BillingCycle
	AdmissionFee *float64
	Fields       *[]models.PlanField
}

// CreatePlan stores a new plan template. RecurringTotal is derived here, at
// write time, from the recurring custom fields.
func (e *Engine) CreatePlan(ctx context.Context, tenantID uint, plan *models.Plan) error {
	if !validCycle(plan.BillingCycle) {
		return ErrInvalidCycle
	}
	plan.TenantID = tenantID
	plan.RecurringTotal = recurringTotal(plan.Fields)
	return e.db.WithContext(ctx).Create(plan).Error
}

func (e *Engine) GetPlan(ctx context.Context, tenantID, planID uint) (*models.Plan, error) {
	return findPlan(e.db.WithContext(ctx), tenantID, planID)
}

// UpdatePlan patches a plan in place and recomputes RecurringTotal. Invoices
// already materialized from the old version are untouched.
func (e *Engine) UpdatePlan(ctx context.Context, tenantID, planID uint, patch PlanPatch) (*models.Plan, error) {
	var plan *models.Plan
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		plan, err = findPlan(tx, tenantID, planID)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			plan.Name = *patch.Name
		}
		if patch.BillingCycle != nil {
			if !validCycle(*patch.BillingCycle) {
				return ErrInvalidCycle
			}
			plan.BillingCycle = *patch.BillingCycle
		}
		if patch.AdmissionFee != nil {
			plan.AdmissionFee = *patch.AdmissionFee
		}
		if patch.Fields != nil {
			if err := tx.Where("plan_id = ?", plan.ID).Delete(&models.PlanField{}).Error; err != nil {
				return err
			}
			fields := *patch.Fields
			for i := range fields {
				fields[i].ID = 0
				fields[i].PlanID = plan.ID
			}
			plan.Fields = fields
		}
		plan.RecurringTotal = recurringTotal(plan.Fields)
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(plan).Error
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (e *Engine) DeletePlan(ctx context.Context, tenantID, planID uint) error {
	res := e.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.Plan{}, planID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func recurringTotal(fields []models.PlanField) float64 {
	var total float64
	for _, f := range fields {
		if f.IsRecurring {
			total += f.Amount
		}
	}
	return total
}
