package handlers

import (
	"fmt"
	"testing"

	"memberbill/billing"
	"memberbill/database"
	"memberbill/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testTenant uint = 1

func setupTestDB(t *testing.T) *gorm.DB {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	database.DB = db

	assert.NoError(t, database.Migrate(db))

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	SetEngine(billing.NewEngine(db, log))
	return db
}

func setupRouter() *gin.Engine {
	r := gin.New()
	scoped := r.Group("/")
	scoped.Use(TenantMiddleware())
	{
		scoped.POST("/plans", CreatePlan)
		scoped.GET("/plans/:id", GetPlan)
		scoped.PUT("/plans/:id", UpdatePlan)
		scoped.DELETE("/plans/:id", DeletePlan)
		scoped.POST("/groups", CreateGroup)
		scoped.POST("/members", CreateMember)
		scoped.GET("/members/:id", GetMember)
		scoped.GET("/members/:id/invoices", GetMemberInvoices)
		scoped.POST("/enroll", Enroll)
		scoped.POST("/change_plan", ChangePlan)
		scoped.POST("/pay", PayInvoice)
		scoped.GET("/invoices/:id", GetInvoice)
		scoped.GET("/reports/member/:id", GetMemberReport)
		scoped.GET("/reports/period", GetPeriodReport)
	}
	r.POST("/renewals/run", RunRenewals)
	return r
}

func seedTestPlan(t *testing.T, db *gorm.DB) *models.Plan {
	plan := &models.Plan{
		TenantID:       testTenant,
		Name:           "Gold Monthly",
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

func seedTestMember(t *testing.T, db *gorm.DB) *models.Member {
	member := &models.Member{TenantID: testTenant, Name: "Asha Rao"}
	assert.NoError(t, db.Create(member).Error)
	return member
}
