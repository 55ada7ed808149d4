package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"memberbill/billing"

	"github.com/stretchr/testify/assert"
)

func TestGetPeriodReportHandler(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter()
	plan := seedTestPlan(t, db)
	member := seedTestMember(t, db)

	start := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	w := postJSON(r, fmt.Sprintf("/enroll?tenant_id=%d", testTenant), EnrollRequest{
		MemberID: member.ID, PlanID: plan.ID, StartDate: &start,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	req, _ := http.NewRequest("GET", fmt.Sprintf("/reports/period?tenant_id=%d&year=2024&month=3", testTenant), nil)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusOK, w2.Code)

	var report billing.PeriodReport
	assert.NoError(t, json.Unmarshal(w2.Body.Bytes(), &report))
	assert.Equal(t, int64(1), report.InvoiceCount)
	assert.Equal(t, float64(800), report.TotalBilled)
	assert.Equal(t, float64(800), report.Outstanding)
}

func TestGetPeriodReportInvalidMonth(t *testing.T) {
	setupTestDB(t)
	r := setupRouter()

	req, _ := http.NewRequest("GET", fmt.Sprintf("/reports/period?tenant_id=%d&year=2024&month=13", testTenant), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMemberReportHandler(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter()
	plan := seedTestPlan(t, db)
	member := seedTestMember(t, db)

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	w := postJSON(r, fmt.Sprintf("/enroll?tenant_id=%d", testTenant), EnrollRequest{
		MemberID: member.ID, PlanID: plan.ID, StartDate: &start,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	req, _ := http.NewRequest("GET", fmt.Sprintf("/reports/member/%d?tenant_id=%d", member.ID, testTenant), nil)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusOK, w2.Code)

	var report billing.MemberReport
	assert.NoError(t, json.Unmarshal(w2.Body.Bytes(), &report))
	assert.Equal(t, float64(800), report.TotalDue)
	assert.Equal(t, float64(0), report.TotalPaid)
}
