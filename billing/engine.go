// Package billing is the subscription billing and payment-reconciliation
// core: plan materialization into invoices, payment allocation across line
// items, renewal lifecycle, and reporting rollups.
package billing

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Engine carries the shared store handle into every billing operation.
// Tenant scoping is always an explicit argument, never ambient state.
type Engine struct {
	db          *gorm.DB
	log         *logrus.Logger
	itemTimeout time.Duration
}

const defaultItemTimeout = 30 * time.Second

func NewEngine(db *gorm.DB, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{db: db, log: log, itemTimeout: defaultItemTimeout}
}

// SetItemTimeout bounds the time the renewal batch spends on one
// subscription.
func (e *Engine) SetItemTimeout(d time.Duration) {
	if d > 0 {
		e.itemTimeout = d
	}
}
