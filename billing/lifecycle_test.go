package billing

import (
	"context"
	"testing"
	"time"

	"memberbill/models"

	"github.com/stretchr/testify/assert"
)

func TestEnrollMemberCreatesSubscriptionAndFullInvoice(t *testing.T) {
	engine, db := setupTestEngine(t)
	plan := seedPlan(t, db)
	member := seedMember(t, db)
	start := date(2024, time.January, 31)

	sub, invoice, err := engine.EnrollMember(context.Background(), testTenant, member.ID, plan.ID, start)
	assert.NoError(t, err)

	assert.Equal(t, models.SubscriptionActive, sub.Status)
	assert.Equal(t, start, sub.StartDate)
	assert.Equal(t, date(2024, time.February, 29), sub.NextRenewalDate)

	assert.Equal(t, float64(800), invoice.TotalAmount)
	assert.Equal(t, models.PaymentDue, invoice.Status)
	assert.Len(t, invoice.LineItems, 2)

	byKey := map[string]models.InvoiceLineItem{}
	for _, item := range invoice.LineItems {
		byKey[item.Key] = item
	}
	assert.Equal(t, float64(500), byKey["admission_fee"].ChargeAmount)
	assert.False(t, byKey["admission_fee"].IsRecurring)
	assert.Equal(t, float64(300), byKey["trainer_fee"].ChargeAmount)
	assert.True(t, byKey["trainer_fee"].IsRecurring)
}

func TestEnrollMemberRejectsSecondActiveSubscription(t *testing.T) {
	engine, db := setupTestEngine(t)
	plan := seedPlan(t, db)
	member := seedMember(t, db)
	start := date(2024, time.March, 1)

	_, _, err := engine.EnrollMember(context.Background(), testTenant, member.ID, plan.ID, start)
	assert.NoError(t, err)

	_, _, err = engine.EnrollMember(context.Background(), testTenant, member.ID, plan.ID, start)
	assert.ErrorIs(t, err, ErrActiveSubscriptionExists)

	var count int64
	db.Model(&models.Invoice{}).Count(&count)
	assert.Equal(t, int64(1), count, "failed enrollment must not leave an invoice behind")
}

func TestEnrollMemberUnknownPlan(t *testing.T) {
	engine, db := setupTestEngine(t)
	member := seedMember(t, db)

	_, _, err := engine.EnrollMember(context.Background(), testTenant, member.ID, 999, date(2024, time.March, 1))
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestEnrollMemberTenantScoped(t *testing.T) {
	engine, db := setupTestEngine(t)
	plan := seedPlan(t, db)
	member := seedMember(t, db)

	_, _, err := engine.EnrollMember(context.Background(), testTenant+1, member.ID, plan.ID, date(2024, time.March, 1))
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestChangePlanSupersedesOldSubscription(t *testing.T) {
	engine, db := setupTestEngine(t)
	plan := seedPlan(t, db)
	member := seedMember(t, db)
	start := date(2024, time.January, 1)

	oldSub, _, err := engine.EnrollMember(context.Background(), testTenant, member.ID, plan.ID, start)
	assert.NoError(t, err)

	newPlan := &models.Plan{
		TenantID:       testTenant,
		Name:           "Platinum Quarterly",
		BillingCycle:   models.CycleQuarterly,
		AdmissionFee:   0,
		RecurringTotal: 900,
		Fields: []models.PlanField{
			{Label: "Trainer Fee", Amount: 600, IsRecurring: true},
			{Label: "Diet Plan", Amount: 300, IsRecurring: true},
		},
	}
	assert.NoError(t, db.Create(newPlan).Error)

	effective := date(2024, time.January, 15)
	newSub, invoice, err := engine.ChangePlan(context.Background(), testTenant, member.ID, newPlan.ID, effective)
	assert.NoError(t, err)

	assert.NotEqual(t, oldSub.ID, newSub.ID)
	assert.Equal(t, models.SubscriptionActive, newSub.Status)
	assert.Equal(t, effective, newSub.StartDate)
	assert.Equal(t, date(2024, time.April, 15), newSub.NextRenewalDate)

	var superseded models.Subscription
	assert.NoError(t, db.First(&superseded, oldSub.ID).Error)
	assert.Equal(t, models.SubscriptionInactive, superseded.Status)

	// Full expansion, not recurring-only.
	assert.NotNil(t, invoice)
	assert.Equal(t, float64(900), invoice.TotalAmount)
	assert.Len(t, invoice.LineItems, 2)
}

func TestChangePlanSamePlanOnlyRedates(t *testing.T) {
	engine, db := setupTestEngine(t)
	plan := seedPlan(t, db)
	member := seedMember(t, db)

	sub, _, err := engine.EnrollMember(context.Background(), testTenant, member.ID, plan.ID, date(2024, time.January, 1))
	assert.NoError(t, err)

	newStart := date(2024, time.February, 10)
	redated, invoice, err := engine.ChangePlan(context.Background(), testTenant, member.ID, plan.ID, newStart)
	assert.NoError(t, err)

	assert.Nil(t, invoice, "same-plan change must not raise an invoice")
	assert.Equal(t, sub.ID, redated.ID)
	assert.Equal(t, newStart, redated.StartDate)
	assert.Equal(t, date(2024, time.March, 10), redated.NextRenewalDate)
	assert.Equal(t, models.SubscriptionActive, redated.Status)

	var invoiceCount int64
	db.Model(&models.Invoice{}).Count(&invoiceCount)
	assert.Equal(t, int64(1), invoiceCount)
}

func TestChangePlanWithoutActiveSubscription(t *testing.T) {
	engine, db := setupTestEngine(t)
	plan := seedPlan(t, db)
	member := seedMember(t, db)

	_, _, err := engine.ChangePlan(context.Background(), testTenant, member.ID, plan.ID, date(2024, time.January, 1))
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}
