package billing

import (
	"errors"
	"fmt"
)

var (
	ErrPlanNotFound         = errors.New("plan not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrGroupNotFound        = errors.New("group not found")

	// ErrInvalidCycle is returned for a billing cycle the renewal-date
	// function does not recognize. Never retried.
	ErrInvalidCycle = errors.New("invalid billing cycle")

	// ErrEmptyAllocation is returned when a payment call carries no
	// allocations, or when every allocation named an unknown line-item key.
	ErrEmptyAllocation = errors.New("payment has no applicable allocations")

	// ErrActiveSubscriptionExists guards the at-most-one-active-subscription
	// invariant at enrollment time.
	ErrActiveSubscriptionExists = errors.New("member already has an active subscription")

	// ErrConcurrencyConflict means an atomic update lost its race. Retried
	// internally a bounded number of times before surfacing.
	ErrConcurrencyConflict = errors.New("concurrent update conflict")
)

// OverpaymentError reports an allocation that would push a line item's paid
// amount above its charge amount.
type OverpaymentError struct {
	Key       string
	Attempted float64
	Remaining float64
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("allocation of %.2f to %q exceeds remaining balance %.2f",
		e.Attempted, e.Key, e.Remaining)
}
