package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func GetMemberReport(c *gin.Context) {
	memberID, ok := idParam(c, "id")
	if !ok {
		return
	}
	report, err := Engine.MemberSummary(c.Request.Context(), tenantID(c), memberID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func GetGroupReport(c *gin.Context) {
	groupID, ok := idParam(c, "id")
	if !ok {
		return
	}
	report, err := Engine.GroupSummary(c.Request.Context(), tenantID(c), groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetPeriodReport rolls up invoices due within one month (?month=&year=) or
// one whole year (?year= alone).
func GetPeriodReport(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}

	var from, to time.Time
	if monthStr := c.Query("month"); monthStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
			return
		}
		from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 1, 0)
	} else {
		from = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(1, 0, 0)
	}

	report, err := Engine.PeriodSummary(c.Request.Context(), tenantID(c), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
