package weeklyreport

import (
	"errors"
	"fmt"

	"github.com/lvillar/weeklyreport/report"
)

// Sentinel errors for report generation failures.
var (
	ErrInvalidConfig = errors.New("weeklyreport: invalid configuration")
	ErrNoCustomer    = report.ErrNoCustomer
	ErrNoRows        = errors.New("weeklyreport: packet has no rows")
)

// RenderError reports a failure while producing the report of one customer.
type RenderError struct {
	Op       string // "compose", "output", "create"
	Customer string // customer id
	Err      error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("weeklyreport.%s %s: %v", e.Op, e.Customer, e.Err)
	}
	return fmt.Sprintf("weeklyreport.%s %s: unknown error", e.Op, e.Customer)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func newRenderError(op, customer string, err error) *RenderError {
	return &RenderError{Op: op, Customer: customer, Err: err}
}
