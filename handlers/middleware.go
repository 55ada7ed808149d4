package handlers

import (
	"net/http"
	"strconv"
	"time"

	"memberbill/billing"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Engine is the shared billing engine used by every handler. Set once at
// startup via SetEngine.
var Engine *billing.Engine

func SetEngine(e *billing.Engine) {
	Engine = e
}

// TenantMiddleware extracts the caller's tenant identity. Callers are
// trusted to present their own tenant id; issuing it is the identity
// boundary's job, not ours. The id is threaded explicitly into every engine
// call.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantIDStr := c.Query("tenant_id")
		tenantID, err := strconv.ParseUint(tenantIDStr, 10, 64)
		if err != nil || tenantID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID"})
			c.Abort()
			return
		}
		c.Set("tenantID", uint(tenantID))
		c.Next()
	}
}

func tenantID(c *gin.Context) uint {
	return c.GetUint("tenantID")
}

// RequestLogger logs one line per request with method, path, status and
// latency.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
