package cos

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind tags the species of failure behind a ParseError (§7 of the
// design). All parse failures abort the parse; tolerance fallbacks
// (§6) are handled at the point they occur and never surface as a
// Kind here.
type Kind uint8

const (
	IOError Kind = iota
	CorruptHeader
	ExpectedKeyword
	StreamNotPrecededByDict
	DocumentClosed
	EncryptionRequired
)

func (k Kind) String() string {
	switch k {
	case IOError:
		return "IOError"
	case CorruptHeader:
		return "CorruptHeader"
	case ExpectedKeyword:
		return "ExpectedKeyword"
	case StreamNotPrecededByDict:
		return "StreamNotPrecededByDict"
	case DocumentClosed:
		return "DocumentClosed"
	case EncryptionRequired:
		return "EncryptionRequired"
	default:
		return "Unknown"
	}
}

// ParseError wraps an underlying error with the Kind of failure and,
// where known, the byte offset at which it occurred.
type ParseError struct {
	Kind   Kind
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("cos: %s at offset %d: %s", e.Kind, e.Offset, e.Err)
	}
	return fmt.Sprintf("cos: %s: %s", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func newParseError(kind Kind, offset int64, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Kind:   kind,
		Offset: offset,
		Err:    pkgerrors.WithStack(fmt.Errorf(format, args...)),
	}
}

// Sentinel errors a caller may compare against directly, mirrored from
// the teacher's reader/file sentinel style.
var (
	ErrDocumentClosed      = errors.New("cos: document is closed")
	ErrCorruptHeader       = errors.New("cos: corrupt pdf stream - no header version available")
	ErrExpectedEndobj      = errors.New("cos: expected endobj")
	ErrExpectedEOF         = errors.New("cos: expected %%EOF")
	ErrUnresolvedObjStream = errors.New("cos: object stream could not be parsed")
)
