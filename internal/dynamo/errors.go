package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrSurfaceUnavailable indicates the drawing surface could not report a viewport.
	ErrSurfaceUnavailable = errors.New("dynamo: drawing surface unavailable")

	// ErrRendererUnavailable indicates no renderer is configured or it refused to attach.
	ErrRendererUnavailable = errors.New("dynamo: renderer unavailable")

	// ErrInvalidTuning indicates a tuning constant is outside its valid range.
	ErrInvalidTuning = errors.New("dynamo: tuning parameter out of valid bounds")

	// ErrInvalidRunConfig indicates a headless run was configured with bad bounds.
	ErrInvalidRunConfig = errors.New("dynamo: invalid run configuration")
)

// TuningError names the offending tuning field.
type TuningError struct {
	Field   string
	Value   any
	Wrapped error
}

func (e *TuningError) Error() string {
	if e.Wrapped != nil && e.Wrapped != ErrInvalidTuning {
		return "dynamo: tuning " + e.Field + ": " + e.Wrapped.Error()
	}
	return "dynamo: tuning parameter out of valid bounds: " + e.Field
}

func (e *TuningError) Unwrap() []error {
	if e.Wrapped == nil || e.Wrapped == ErrInvalidTuning {
		return []error{ErrInvalidTuning}
	}
	return []error{ErrInvalidTuning, e.Wrapped}
}
