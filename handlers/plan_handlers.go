package handlers

import (
	"net/http"

	"memberbill/billing"
	"memberbill/models"

	"github.com/gin-gonic/gin"
)

type PlanFieldRequest struct {
	Label       string  `json:"label" binding:"required"`
	Amount      float64 `json:"amount" binding:"gte=0"`
	IsRecurring bool    `json:"is_recurring"`
}

type CreatePlanRequest struct {
	Name         string             `json:"name" binding:"required"`
	BillingCycle string             `json:"billing_cycle" binding:"required"`
	AdmissionFee float64            `json:"admission_fee" binding:"gte=0"`
	Fields       []PlanFieldRequest `json:"fields"`
}

func toPlanFields(reqs []PlanFieldRequest) []models.PlanField {
	fields := make([]models.PlanField, 0, len(reqs))
	for _, f := range reqs {
		fields = append(fields, models.PlanField{
			Label:       f.Label,
			Amount:      f.Amount,
			IsRecurring: f.IsRecurring,
		})
	}
	return fields
}

func CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan := models.Plan{
		Name:         req.Name,
		BillingCycle: models.BillingCycle(req.BillingCycle),
		AdmissionFee: req.AdmissionFee,
		Fields:       toPlanFields(req.Fields),
	}
	if err := Engine.CreatePlan(c.Request.Context(), tenantID(c), &plan); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, plan)
}

func GetPlan(c *gin.Context) {
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}
	plan, err := Engine.GetPlan(c.Request.Context(), tenantID(c), planID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

type UpdatePlanRequest struct {
	Name         *string             `json:"name"`
	BillingCycle *string             `json:"billing_cycle"`
	AdmissionFee *float64            `json:"admission_fee"`
	Fields       *[]PlanFieldRequest `json:"fields"`
}

func UpdatePlan(c *gin.Context) {
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := billing.PlanPatch{
		Name:         req.Name,
		AdmissionFee: req.AdmissionFee,
	}
	if req.BillingCycle != nil {
		cycle := models.BillingCycle(*req.BillingCycle)
		patch.BillingCycle = &cycle
	}
	if req.Fields != nil {
		fields := toPlanFields(*req.Fields)
		patch.Fields = &fields
	}

	plan, err := Engine.UpdatePlan(c.Request.Context(), tenantID(c), planID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func DeletePlan(c *gin.Context) {
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := Engine.DeletePlan(c.Request.Context(), tenantID(c), planID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted"})
}
