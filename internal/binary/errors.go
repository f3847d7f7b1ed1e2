package binary

import (
	"errors"
	"fmt"
)

// Fatal error kinds. A solve that returns one of these returns no result.
var (
	// ErrDomain indicates an input outside the mathematical domain of a solver
	// (r = 0 in the multipole series, N < 3, L not beyond the switching radius).
	ErrDomain = errors.New("binary: input outside valid domain")

	// ErrSingularSystem indicates the assembled linear system has no unique solution.
	ErrSingularSystem = errors.New("binary: singular linear system")
)

// SolveError wraps an error kind with the stage of the solve that produced it.
type SolveError struct {
	Stage   string
	Detail  string
	Wrapped error
}

func (e *SolveError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Stage, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s: %s", e.Stage, e.Wrapped, e.Detail)
}

func (e *SolveError) Unwrap() error {
	return e.Wrapped
}

// Errorf builds a SolveError for stage wrapping kind.
func Errorf(stage string, kind error, format string, args ...any) error {
	return &SolveError{Stage: stage, Detail: fmt.Sprintf(format, args...), Wrapped: kind}
}

// DiagnosticKind classifies a non-fatal finding.
type DiagnosticKind int

const (
	// PhysicalInconsistency marks a body the grid cannot resolve. Its
	// rasterized mass may be above or below the true mass.
	PhysicalInconsistency DiagnosticKind = iota
)

func (k DiagnosticKind) String() string {
	switch k {
	case PhysicalInconsistency:
		return "physical-inconsistency"
	default:
		return fmt.Sprintf("diagnostic(%d)", int(k))
	}
}

// Diagnostic is a recoverable finding reported with a result.
type Diagnostic struct {
	Kind    DiagnosticKind
	Body    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s (body %d): %s", d.Kind, d.Body, d.Message)
}
