package failure

import (
	"fmt"

	"github.com/ipfs/go-cid"
)

// InvalidFileError reports an archive that decodes but is not acceptable:
// unsupported version, wrong number of roots, or a root node of an
// unexpected shape.
type InvalidFileError struct {
	Reason string
	// Version is the header version, when the failure is about it.
	Version uint64
	// Roots is the number of header roots, when the failure is about them.
	Roots int
	// Cid is the offending block, if any.
	Cid cid.Cid
}

func (e InvalidFileError) Error() string {
	if e.Cid.Defined() {
		return fmt.Sprintf("invalid file: %s: %s", e.Reason, e.Cid)
	}
	return fmt.Sprintf("invalid file: %s", e.Reason)
}

func (InvalidFileError) Name() string { return "InvalidFileError" }
func (InvalidFileError) Kind() Kind   { return InvalidFile }
func (InvalidFileError) failure()     {}

// NewUnsupportedVersionError reports a header declaring a version other
// than 1.
func NewUnsupportedVersionError(version uint64) InvalidFileError {
	return InvalidFileError{Reason: fmt.Sprintf("unsupported CAR version %d, only version 1 is supported", version), Version: version}
}

// NewRootCountError reports a header that does not declare exactly one root.
func NewRootCountError(roots int) InvalidFileError {
	return InvalidFileError{Reason: fmt.Sprintf("expected exactly one root, got %d", roots), Roots: roots}
}

// NewInvalidNodeError reports a node whose shape breaks the Links contract.
func NewInvalidNodeError(c cid.Cid, reason string) InvalidFileError {
	return InvalidFileError{Reason: reason, Cid: c}
}

// ParsingError reports bytes that could not be decoded: a header, a CID, a
// node payload, or a malformed Links list.
type ParsingError struct {
	Reason string
	Cid    cid.Cid
	// Offset is the source position of the failure, or -1 when unknown.
	Offset int64
	Cause  error
	stack
}

func (e ParsingError) Error() string {
	msg := "parsing: " + e.Reason
	if e.Cid.Defined() {
		msg += " (" + e.Cid.String() + ")"
	}
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (ParsingError) Name() string    { return "ParsingError" }
func (ParsingError) Kind() Kind      { return Parsing }
func (ParsingError) failure()        {}
func (e ParsingError) Unwrap() error { return e.Cause }

// NewParsingError creates a [ParsingError] not tied to a block or offset.
func NewParsingError(reason string, cause error) ParsingError {
	return ParsingError{Reason: reason, Offset: -1, Cause: cause, stack: currentStack()}
}

// NewBlockParsingError creates a [ParsingError] for the block identified by c.
func NewBlockParsingError(c cid.Cid, reason string, cause error) ParsingError {
	return ParsingError{Reason: reason, Cid: c, Offset: -1, Cause: cause, stack: currentStack()}
}

// NewOffsetParsingError creates a [ParsingError] at a position of the source.
func NewOffsetParsingError(offset int64, reason string, cause error) ParsingError {
	return ParsingError{Reason: reason, Offset: offset, Cause: cause, stack: currentStack()}
}

// InvalidSectionError reports a section lookup for a CID that is not in the
// index.
type InvalidSectionError struct {
	Cid cid.Cid
}

func (e InvalidSectionError) Error() string {
	return fmt.Sprintf("invalid section: CID not in archive: %s", e.Cid)
}

func (InvalidSectionError) Name() string { return "InvalidSectionError" }
func (InvalidSectionError) Kind() Kind   { return InvalidSection }
func (InvalidSectionError) failure()     {}

func NewInvalidSectionError(c cid.Cid) InvalidSectionError {
	return InvalidSectionError{c}
}

// NotFoundError reports a node decode for a CID that is not in the index.
type NotFoundError struct {
	Cid cid.Cid
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Cid)
}

func (NotFoundError) Name() string { return "NotFoundError" }
func (NotFoundError) Kind() Kind   { return NotFound }
func (NotFoundError) failure()     {}

func NewNotFoundError(c cid.Cid) NotFoundError {
	return NotFoundError{c}
}

// TooLargeSectionError reports a declared block length above the allowed
// maximum.
type TooLargeSectionError struct {
	Size  uint64
	Limit uint64
}

func (e TooLargeSectionError) Error() string {
	return fmt.Sprintf("too large section: %d bytes exceeds limit of %d bytes", e.Size, e.Limit)
}

func (TooLargeSectionError) Name() string { return "TooLargeSectionError" }
func (TooLargeSectionError) Kind() Kind   { return TooLargeSection }
func (TooLargeSectionError) failure()     {}

func NewTooLargeSectionError(size, limit uint64) TooLargeSectionError {
	return TooLargeSectionError{size, limit}
}

// IOError wraps a read, seek or write failure of the underlying source or
// sink.
type IOError struct {
	Op    string
	Cause error
	stack
}

func (e IOError) Error() string {
	return fmt.Sprintf("io: %s: %s", e.Op, e.Cause)
}

func (IOError) Name() string    { return "IOError" }
func (IOError) Kind() Kind      { return IO }
func (IOError) failure()        {}
func (e IOError) Unwrap() error { return e.Cause }

func NewIOError(op string, cause error) IOError {
	return IOError{Op: op, Cause: cause, stack: currentStack()}
}

// UnsupportedError reports a declared but unimplemented feature, such as a
// splitting strategy.
type UnsupportedError struct {
	Feature string
}

func (e UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported: %s", e.Feature)
}

func (UnsupportedError) Name() string { return "UnsupportedError" }
func (UnsupportedError) Kind() Kind   { return Unsupported }
func (UnsupportedError) failure()     {}

func NewUnsupportedError(feature string) UnsupportedError {
	return UnsupportedError{feature}
}

var (
	_ Failure        = InvalidFileError{}
	_ Failure        = ParsingError{}
	_ WithStackTrace = ParsingError{}
	_ Failure        = InvalidSectionError{}
	_ Failure        = NotFoundError{}
	_ Failure        = TooLargeSectionError{}
	_ Failure        = IOError{}
	_ WithStackTrace = IOError{}
	_ Failure        = UnsupportedError{}
)
