// Package fault tags provisioning errors with the failure class that caused
// them. Every class is fatal for a run; the kind only tells operators (and
// tests) which contract was broken.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a provisioning failure.
type Kind int

const (
	Unknown Kind = iota
	// MissingArtifact: a tool reported success but its declared output is
	// absent or unusable.
	MissingArtifact
	// ExternalTool: a child process exited nonzero or could not be run.
	ExternalTool
	// Filesystem: staging reset or artifact relocation failed.
	Filesystem
	// Config: invalid flags, environment or config file.
	Config
)

func (k Kind) String() string {
	switch k {
	case MissingArtifact:
		return "missing-artifact"
	case ExternalTool:
		return "external-tool-failure"
	case Filesystem:
		return "filesystem-failure"
	case Config:
		return "config"
	default:
		return "unknown"
	}
}

// Error is a tagged provisioning error.
type Error struct {
	Kind Kind
	Op   string // what was being attempted, e.g. "provision witness_1"
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with kind and op. A nil err yields nil.
func New(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf is New with a formatted cause.
func Newf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the outermost fault in err's chain, or Unknown.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}

// Is reports whether err carries a fault of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
