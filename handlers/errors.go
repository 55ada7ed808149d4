package handlers

import (
	"errors"
	"net/http"

	"memberbill/billing"

	"github.com/gin-gonic/gin"
)

// respondError maps engine errors onto HTTP statuses. Not-found and
// invalid-cycle surface immediately; a conflict that survived the engine's
// internal retries comes back 409 so the caller may retry.
func respondError(c *gin.Context, err error) {
	var overpayment *billing.OverpaymentError

	switch {
	case errors.Is(err, billing.ErrPlanNotFound),
		errors.Is(err, billing.ErrMemberNotFound),
		errors.Is(err, billing.ErrSubscriptionNotFound),
		errors.Is(err, billing.ErrInvoiceNotFound),
		errors.Is(err, billing.ErrGroupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &overpayment),
		errors.Is(err, billing.ErrEmptyAllocation),
		errors.Is(err, billing.ErrInvalidCycle):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, billing.ErrActiveSubscriptionExists),
		errors.Is(err, billing.ErrConcurrencyConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
