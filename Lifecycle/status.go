package Lifecycle

import (
	"Frota/Models"
)

// PaymentEpsilon absorbs floating-point rounding on currency comparisons.
// Every paid-in-full check in the system goes through IsPaidInFull so the
// tolerance is applied consistently.
const PaymentEpsilon = 0.001

// IsPaidInFull reports whether totalPaid covers target within PaymentEpsilon.
func IsPaidInFull(totalPaid, target float64) bool {
	return totalPaid >= target-PaymentEpsilon
}

// DerivePaymentStatus computes the payment status of an invoiced order from
// the accumulated payments and the invoiced value.
func DerivePaymentStatus(totalPaid, target float64) Models.OSPaymentStatus {
	switch {
	case IsPaidInFull(totalPaid, target):
		return Models.PaymentPaid
	case totalPaid == 0:
		return Models.PaymentPending
	default:
		return Models.PaymentPartiallyPaid
	}
}

// TotalPaid sums the recorded payments of an order.
func TotalPaid(payments []Models.OSPayment) float64 {
	var total float64
	for _, p := range payments {
		total += p.PaidAmount
	}
	return total
}

// allowedStates is the transition table: for each lifecycle operation, the
// order states it may be invoked in.
var allowedStates = map[string][]Models.ServiceOrderStatus{
	"approve budget":  {Models.OSPendingBudget, Models.OSAwaitingApproval},
	"start execution": {Models.OSApprovedAwaitingExecution},
	"complete order":  {Models.OSInProgress},
	"invoice order":   {Models.OSCompleted},
	"record payment":  {Models.OSInvoiced},
	"cancel order":    {Models.OSPendingBudget, Models.OSAwaitingApproval, Models.OSApprovedAwaitingExecution},
}

// checkTransition returns an InvalidTransitionError when the order's current
// status does not permit the given operation.
func checkTransition(op string, actual Models.ServiceOrderStatus) error {
	for _, s := range allowedStates[op] {
		if s == actual {
			return nil
		}
	}
	return &InvalidTransitionError{Operation: op, Expected: allowedStates[op], Actual: actual}
}
