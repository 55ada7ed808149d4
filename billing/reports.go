package billing

import (
	"context"
	"time"

	"memberbill/models"
)

// MemberReport is the payment rollup for one member across all their
// invoices.
type MemberReport struct {
	MemberID     uint    `json:"member_id"`
	InvoiceCount int     `json:"invoice_count"`
	TotalBilled  float64 `json:"total_billed"`
	TotalPaid    float64 `json:"total_paid"`
	TotalDue     float64 `json:"total_due"`
}

// GroupReport rolls the member report up across a group, plus the count of
// currently active members.
type GroupReport struct {
	GroupID       uint    `json:"group_id"`
	MemberCount   int     `json:"member_count"`
	ActiveMembers int     `json:"active_members"`
	TotalPaid     float64 `json:"total_paid"`
	TotalDue      float64 `json:"total_due"`
}

// PeriodReport covers every invoice due within [From, To).
type PeriodReport struct {
	From         time.Time `json:"from"`
	To           time.Time `json:"to"`
	InvoiceCount int64     `json:"invoice_count"`
	TotalBilled  float64   `json:"total_billed"`
	TotalPaid    float64   `json:"total_paid"`
	Outstanding  float64   `json:"outstanding"`
}

// MemberSummary reports how much a member has been billed, has paid, and
// still owes. Dues come from unpaid and partial line items only.
func (e *Engine) MemberSummary(ctx context.Context, tenantID, memberID uint) (*MemberReport, error) {
	if _, err := findMember(e.db.WithContext(ctx), tenantID, memberID); err != nil {
		return nil, err
	}

	var invoices []models.Invoice
	err := e.db.WithContext(ctx).Preload("LineItems").
		Where("tenant_id = ? AND member_id = ?", tenantID, memberID).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}

	report := &MemberReport{MemberID: memberID, InvoiceCount: len(invoices)}
	for _, inv := range invoices {
		report.TotalBilled += inv.TotalAmount
		report.TotalPaid += inv.TotalPaid
		for _, item := range inv.LineItems {
			if item.Status != models.PaymentPaid {
				report.TotalDue += item.ChargeAmount - item.PaidAmount
			}
		}
	}
	return report, nil
}

// GroupSummary aggregates the member rollup across one group.
func (e *Engine) GroupSummary(ctx context.Context, tenantID, groupID uint) (*GroupReport, error) {
	db := e.db.WithContext(ctx)

	var group models.Group
	if err := db.Where("tenant_id = ?", tenantID).First(&group, groupID).Error; err != nil {
		return nil, ErrGroupNotFound
	}

	var members []models.Member
	if err := db.Where("tenant_id = ? AND group_id = ?", tenantID, groupID).Find(&members).Error; err != nil {
		return nil, err
	}

	report := &GroupReport{GroupID: groupID, MemberCount: len(members)}
	for _, m := range members {
		if m.IsActive {
			report.ActiveMembers++
		}
		mr, err := e.MemberSummary(ctx, tenantID, m.ID)
		if err != nil {
			return nil, err
		}
		report.TotalPaid += mr.TotalPaid
		report.TotalDue += mr.TotalDue
	}
	return report, nil
}

// PeriodSummary sums collections and outstanding balance across invoices
// due within [from, to).
func (e *Engine) PeriodSummary(ctx context.Context, tenantID uint, from, to time.Time) (*PeriodReport, error) {
	report := &PeriodReport{From: from, To: to}

	row := e.db.WithContext(ctx).Model(&models.Invoice{}).
		Select("COUNT(*), COALESCE(SUM(total_amount), 0), COALESCE(SUM(total_paid), 0)").
		Where("tenant_id = ? AND due_date >= ? AND due_date < ?", tenantID, from, to).
		Row()
	if err := row.Scan(&report.InvoiceCount, &report.TotalBilled, &report.TotalPaid); err != nil {
		return nil, err
	}
	report.Outstanding = report.TotalBilled - report.TotalPaid
	return report, nil
}
