package phys2d

// errors.go: the error-kind taxonomy and world-scoped error channel of
// spec §7, redesigned away from the teacher's assert()-and-panic and "a
// global last-error buffer" per spec §9's explicit redesign flag ("replace
// with a world-scoped error channel so multiple worlds in one process do
// not interfere").

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrorKind classifies an EngineError per spec §7.
type ErrorKind int

const (
	ErrKindInvalidArgument ErrorKind = iota
	ErrKindResourceExhaustion
	ErrKindState
	ErrKindNumerical
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindInvalidArgument:
		return "invalid_argument"
	case ErrKindResourceExhaustion:
		return "resource_exhaustion"
	case ErrKindState:
		return "state"
	case ErrKindNumerical:
		return "numerical"
	default:
		return "unknown"
	}
}

// EngineError is the one error type the public API returns or stores in
// a World's last-error channel. It never panics across the API boundary.
type EngineError struct {
	Kind   ErrorKind
	Op     string
	BodyID BodyID // zero value means "not applicable"
	Err    error
}

func (e *EngineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("phys2d: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("phys2d: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// taggedOp prefixes an Op with the owning world's short id, so multiple
// worlds logging/erroring in one process stay distinguishable (spec §7).
func taggedOp(id uuid.UUID, op string) string {
	return fmt.Sprintf("%s[%s]", op, id.String()[:8])
}

// StepResult is returned by World.Step: a pipeline-wide failure (only
// possible when WorldConfig.DetectNonFinite is on and a body's state goes
// non-finite) aborts the step and is reported here, in addition to being
// recorded on the world's last-error channel.
type StepResult struct {
	Stamp uint64
	Err   error
}
