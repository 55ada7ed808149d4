package handlers

import (
	"net/http"
	"time"

	"memberbill/models"

	"github.com/gin-gonic/gin"
)

type EnrollRequest struct {
	MemberID  uint       `json:"member_id" binding:"required"`
	PlanID    uint       `json:"plan_id" binding:"required"`
	StartDate *time.Time `json:"start_date"`
}

// Enroll subscribes a member to a plan and raises the full enrollment
// invoice (admission fee plus every custom field).
func Enroll(c *gin.Context) {
	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now().UTC()
	if req.StartDate != nil {
		start = *req.StartDate
	}

	sub, invoice, err := Engine.EnrollMember(c.Request.Context(), tenantID(c), req.MemberID, req.PlanID, start)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Member enrolled successfully",
		"subscription": sub,
		"invoice":      invoice,
	})
}

type ChangePlanRequest struct {
	MemberID      uint       `json:"member_id" binding:"required"`
	NewPlanID     uint       `json:"new_plan_id" binding:"required"`
	EffectiveDate *time.Time `json:"effective_date"`
}

func ChangePlan(c *gin.Context) {
	var req ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	effective := time.Now().UTC()
	if req.EffectiveDate != nil {
		effective = *req.EffectiveDate
	}

	sub, invoice, err := Engine.ChangePlan(c.Request.Context(), tenantID(c), req.MemberID, req.NewPlanID, effective)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"message":      "Plan changed successfully",
		"subscription": sub,
	}
	if invoice != nil {
		resp["invoice"] = invoice
	}
	c.JSON(http.StatusOK, resp)
}

type AllocationRequest struct {
	Key    string  `json:"key" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type PayInvoiceRequest struct {
	InvoiceID   uint                `json:"invoice_id" binding:"required"`
	Allocations []AllocationRequest `json:"allocations" binding:"required"`
	Mode        string              `json:"mode" binding:"required,oneof=cash upi card bank"`
}

// PayInvoice applies a payment across an invoice's line items. The response
// carries the transaction receipt id so the caller can render a receipt.
func PayInvoice(c *gin.Context) {
	var req PayInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	allocations := make([]models.FeeAllocation, 0, len(req.Allocations))
	for _, a := range req.Allocations {
		allocations = append(allocations, models.FeeAllocation{Key: a.Key, Amount: a.Amount})
	}

	invoice, txn, err := Engine.ApplyPayment(c.Request.Context(), tenantID(c), req.InvoiceID, allocations, models.PaymentMode(req.Mode))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Payment applied successfully",
		"invoice":     invoice,
		"transaction": txn,
		"receipt_id":  txn.ReceiptID,
	})
}

func GetInvoice(c *gin.Context) {
	invoiceID, ok := idParam(c, "id")
	if !ok {
		return
	}
	invoice, err := Engine.GetInvoice(c.Request.Context(), tenantID(c), invoiceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func GetMemberInvoices(c *gin.Context) {
	memberID, ok := idParam(c, "id")
	if !ok {
		return
	}
	invoices, err := Engine.MemberInvoices(c.Request.Context(), tenantID(c), memberID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func GetMemberTransactions(c *gin.Context) {
	memberID, ok := idParam(c, "id")
	if !ok {
		return
	}
	txns, err := Engine.MemberTransactions(c.Request.Context(), tenantID(c), memberID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txns)
}

// RunRenewals triggers one renewal batch. Safe to call repeatedly; an
// already-advanced subscription is not selected again.
func RunRenewals(c *gin.Context) {
	result, err := Engine.RunRenewalBatch(c.Request.Context(), time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
