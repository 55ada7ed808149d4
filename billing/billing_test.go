package billing

import (
	"fmt"
	"testing"

	"memberbill/database"
	"memberbill/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testTenant uint = 1

func setupTestEngine(t *testing.T) (*Engine, *gorm.DB) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	err = database.Migrate(db)
	assert.NoError(t, err)

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return NewEngine(db, log), db
}

// seedPlan creates the canonical test plan: admission fee 500 plus a
// recurring Trainer Fee of 300, monthly cycle.
func seedPlan(t *testing.T, db *gorm.DB) *models.Plan {
	return seedPlanNamed(t, db, "Gold Monthly")
}

func seedPlanNamed(t *testing.T, db *gorm.DB, name string) *models.Plan {
	plan := &models.Plan{
		TenantID:       testTenant,
		Name:           name,
		BillingCycle:   models.CycleMonthly,
		AdmissionFee:   500,
		RecurringTotal: 300,
		Fields: []models.PlanField{
			{Label: "Trainer Fee", Amount: 300, IsRecurring: true},
		},
	}
	assert.NoError(t, db.Create(plan).Error)
	return plan
}

func seedMember(t *testing.T, db *gorm.DB) *models.Member {
	member := &models.Member{
		TenantID: testTenant,
		Name:     "Asha Rao",
		Email:    "asha@example.com",
	}
	assert.NoError(t, db.Create(member).Error)
	return member
}
