package failure

import (
	"errors"
	"fmt"
	"runtime"

	perrors "github.com/pkg/errors"
)

// Named is an error that you can read a name from
type Named interface {
	Name() string
}

// WithStackTrace is an error that you can read a stack trace from
type WithStackTrace interface {
	Stack() string
}

// Kind classifies a failure so callers can branch on it without string
// matching.
type Kind int

const (
	// KindUnknown is reported by [KindOf] for errors that are not failures.
	KindUnknown Kind = iota
	InvalidFile
	Parsing
	InvalidSection
	NotFound
	TooLargeSection
	IO
	Unsupported
)

func (k Kind) String() string {
	switch k {
	case InvalidFile:
		return "InvalidFile"
	case Parsing:
		return "Parsing"
	case InvalidSection:
		return "InvalidSection"
	case NotFound:
		return "NotFound"
	case TooLargeSection:
		return "TooLargeSection"
	case IO:
		return "IO"
	case Unsupported:
		return "Unsupported"
	default:
		return "Unknown"
	}
}

// Failure is implemented by every error produced while reading, writing or
// splitting an archive. The set of implementations is closed: it is exactly
// the error types declared in this package.
type Failure interface {
	error
	Named
	Kind() Kind
	failure()
}

// KindOf returns the kind of the first [Failure] in err's chain, or
// [KindUnknown].
func KindOf(err error) Kind {
	var f Failure
	if errors.As(err, &f) {
		return f.Kind()
	}
	return KindUnknown
}

// Is reports whether err has a [Failure] of the given kind in its chain.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

type stack perrors.StackTrace

func (s stack) Stack() string {
	return fmt.Sprintf("%+v", perrors.StackTrace(s))
}

func currentStack() stack {
	const depth = 32

	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	f := make(perrors.StackTrace, n)
	for i := 0; i < n; i++ {
		f[i] = perrors.Frame(pcs[i])
	}

	return stack(f)
}
