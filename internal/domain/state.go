package domain

// CheckoutState is the phase of a session's checkout lifecycle.
type CheckoutState string

const (
	// IDLE - no checkout in flight
	CheckoutIdle CheckoutState = "IDLE"
	// SUBMITTING - one order request is in flight; new attempts are rejected
	CheckoutSubmitting CheckoutState = "SUBMITTING"
	// SUCCEEDED - the ERP accepted the order; cart has been cleared
	CheckoutSucceeded CheckoutState = "SUCCEEDED"
	// FAILED - the attempt ended with an error; cart is untouched
	CheckoutFailed CheckoutState = "FAILED"
)

// IsValid checks if the checkout state is a known one.
func (s CheckoutState) IsValid() bool {
	switch s {
	case CheckoutIdle, CheckoutSubmitting, CheckoutSucceeded, CheckoutFailed:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a state transition is valid. Succeeded and Failed
// return to Idle after the display delay, or go straight to Submitting when
// the user retries before the delay elapses.
func (s CheckoutState) CanTransitionTo(next CheckoutState) bool {
	switch s {
	case CheckoutIdle:
		return next == CheckoutSubmitting
	case CheckoutSubmitting:
		return next == CheckoutSucceeded || next == CheckoutFailed
	case CheckoutSucceeded, CheckoutFailed:
		return next == CheckoutIdle || next == CheckoutSubmitting
	default:
		return false
	}
}
