package models

import (
	"time"

	"gorm.io/gorm"
)

// BillingCycle is the recurring period that governs when a subscription's
// next invoice is raised.
type BillingCycle string

const (
	CycleWeekly    BillingCycle = "weekly"
	CycleMonthly   BillingCycle = "monthly"
	CycleQuarterly BillingCycle = "quarterly"
	CycleYearly    BillingCycle = "yearly"
	CycleFixed30   BillingCycle = "fixed-30-day"
)

// SubscriptionStatus represents the status of a subscription.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionExpired  SubscriptionStatus = "expired"
	SubscriptionInactive SubscriptionStatus = "inactive"
)

// PaymentStatus applies to both invoices and their line items.
type PaymentStatus string

const (
	PaymentDue     PaymentStatus = "due"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// PaymentMode is how a payment was received.
type PaymentMode string

const (
	ModeCash PaymentMode = "cash"
	ModeUPI  PaymentMode = "upi"
	ModeCard PaymentMode = "card"
	ModeBank PaymentMode = "bank"
)

type Group struct {
	gorm.Model
	TenantID uint     `gorm:"not null;index" json:"tenant_id"`
	Name     string   `gorm:"not null" json:"name"`
	Members  []Member `json:"members,omitempty"`
}

type Member struct {
	gorm.Model
	TenantID      uint           `gorm:"not null;index" json:"tenant_id"`
	Name          string         `gorm:"not null" json:"name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	GroupID       *uint          `json:"group_id,omitempty"`
	Group         *Group         `json:"-"`
	IsActive      bool           `gorm:"default:false" json:"is_active"`
	Subscriptions []Subscription `json:"subscriptions,omitempty"`
	Invoices      []Invoice      `json:"invoices,omitempty"`
}

// Plan is a reusable billing template. Edits never reach back into invoices
// already materialized from it; line items copy label and amount at
// expansion time.
type Plan struct {
	gorm.Model
	TenantID     uint         `gorm:"not null;index" json:"tenant_id"`
	Name         string       `gorm:"not null" json:"name"`
	BillingCycle BillingCycle `gorm:"not null;default:'monthly'" json:"billing_cycle"`
	AdmissionFee float64      `gorm:"not null" json:"admission_fee"`
	// RecurringTotal is recomputed from Fields on every write.
	RecurringTotal float64        `json:"recurring_total"`
	Fields         []PlanField    `json:"fields"`
	Subscriptions  []Subscription `json:"-"`
}

type PlanField struct {
	gorm.Model
	PlanID      uint    `gorm:"not null;index" json:"plan_id"`
	Label       string  `gorm:"not null" json:"label"`
	Amount      float64 `gorm:"not null" json:"amount"`
	IsRecurring bool    `gorm:"default:false" json:"is_recurring"`
}

// Subscription is one member's time-bounded enrollment in a plan.
type Subscription struct {
	gorm.Model
	TenantID        uint               `gorm:"not null;index" json:"tenant_id"`
	MemberID        uint               `gorm:"not null;index" json:"member_id"`
	Member          Member             `json:"-"`
	PlanID          uint               `gorm:"not null" json:"plan_id"`
	Plan            Plan               `json:"-"`
	StartDate       time.Time          `gorm:"not null" json:"start_date"`
	NextRenewalDate time.Time          `gorm:"not null;index" json:"next_renewal_date"`
	Status          SubscriptionStatus `gorm:"not null;default:'active';index" json:"status"`
}

// Invoice is the itemized bill for one billing cycle. Invoices are never
// deleted; payment state only moves forward through the allocation engine.
type Invoice struct {
	gorm.Model
	TenantID       uint              `gorm:"not null;index" json:"tenant_id"`
	MemberID       uint              `gorm:"not null;index" json:"member_id"`
	PlanID         uint              `gorm:"not null" json:"plan_id"`
	SubscriptionID uint              `gorm:"not null" json:"subscription_id"`
	DueDate        time.Time         `gorm:"not null;index" json:"due_date"`
	LineItems      []InvoiceLineItem `json:"line_items"`
	TotalAmount    float64           `gorm:"not null" json:"total_amount"`
	TotalPaid      float64           `gorm:"not null;default:0" json:"total_paid"`
	Status         PaymentStatus     `gorm:"not null;default:'due'" json:"status"`
	// Version guards concurrent totals updates; every successful payment
	// allocation bumps it.
	Version      uint          `gorm:"not null;default:0" json:"-"`
	Transactions []Transaction `json:"-"`
}

type InvoiceLineItem struct {
	gorm.Model
	InvoiceID    uint          `gorm:"not null;index" json:"invoice_id"`
	Key          string        `gorm:"not null" json:"key"`
	Label        string        `gorm:"not null" json:"label"`
	ChargeAmount float64       `gorm:"not null" json:"charge_amount"`
	PaidAmount   float64       `gorm:"not null;default:0" json:"paid_amount"`
	IsRecurring  bool          `gorm:"default:false" json:"is_recurring"`
	Status       PaymentStatus `gorm:"not null;default:'due'" json:"status"`
}

// FeeAllocation is one slice of a payment applied to a single line item.
type FeeAllocation struct {
	Key    string  `json:"key"`
	Amount float64 `json:"amount"`
}

// Transaction is the immutable receipt of one accepted payment. It is
// append-only: never updated, never deleted.
type Transaction struct {
	gorm.Model
	TenantID       uint            `gorm:"not null;index" json:"tenant_id"`
	InvoiceID      uint            `gorm:"not null;index" json:"invoice_id"`
	Invoice        Invoice         `json:"-"`
	MemberID       uint            `gorm:"not null;index" json:"member_id"`
	SubscriptionID uint            `gorm:"not null" json:"subscription_id"`
	ReceiptID      string          `gorm:"unique;not null" json:"receipt_id"`
	AmountPaid     float64         `gorm:"not null" json:"amount_paid"`
	Mode           PaymentMode     `gorm:"not null" json:"mode"`
	FeeBreakdown   []FeeAllocation `gorm:"serializer:json" json:"fee_breakdown"`
}
