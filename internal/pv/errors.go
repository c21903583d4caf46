package pv

import "fmt"

// DataIntegrityError reports malformed or misaligned input tables. Fatal for
// the building being processed.
type DataIntegrityError struct {
	Building string
	Reason   string
}

func (e *DataIntegrityError) Error() string {
	if e.Building == "" {
		return fmt.Sprintf("data integrity: %s", e.Reason)
	}
	return fmt.Sprintf("data integrity (%s): %s", e.Building, e.Reason)
}

// UnknownPanelTypeError reports an unrecognized panel-type selector.
type UnknownPanelTypeError struct {
	Type string
}

func (e *UnknownPanelTypeError) Error() string {
	return fmt.Sprintf("unknown panel type %q", e.Type)
}

// InvalidArgumentError reports an out-of-domain argument to one of the
// economics functions.
type InvalidArgumentError struct {
	Op    string
	Value float64
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid argument %g", e.Op, e.Value)
}

// RangeError reports a lookup outside the domain of a tabulated function.
// Extrapolation is never performed silently.
type RangeError struct {
	Op    string
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %g outside table domain [%g, %g]", e.Op, e.Value, e.Min, e.Max)
}
