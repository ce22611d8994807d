package Lifecycle

import (
	"errors"
	"fmt"
	"strings"

	"Frota/Models"
)

var (
	ErrOrderNotFound         = errors.New("service order not found")
	ErrBudgetNotFound        = errors.New("budget not found on this service order")
	ErrVehicleNotFound       = errors.New("vehicle not found for this service order")
	ErrNonPositiveAmount     = errors.New("amount must be greater than zero")
	ErrJustificationRequired = errors.New("a justification is required when the final value differs from the approved cost")
)

// InvalidTransitionError reports an operation invoked while the order is not
// in one of the states that allow it. Invalid transitions are rejected
// explicitly rather than silently ignored.
type InvalidTransitionError struct {
	Operation string
	Expected  []Models.ServiceOrderStatus
	Actual    Models.ServiceOrderStatus
}

func (e *InvalidTransitionError) Error() string {
	expected := make([]string, len(e.Expected))
	for i, s := range e.Expected {
		expected[i] = string(s)
	}
	return fmt.Sprintf("cannot %s: order status is %q, expected %s",
		e.Operation, e.Actual, strings.Join(expected, " or "))
}
