package resource

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind tells callers what went wrong without looking at message text.
type ErrorKind int

const (
	// KindStructural - binary payload is malformed.
	KindStructural ErrorKind = iota + 1
	// KindDocument - editable document is malformed.
	KindDocument
	// KindCipher - text cannot survive cipher round trip.
	KindCipher
)

func (k ErrorKind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindDocument:
		return "document"
	case KindCipher:
		return "cipher"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

var (
	ErrMalformedBinary   = errors.New("malformed binary")
	ErrMalformedDocument = errors.New("malformed document")
	ErrCipherTruncation  = errors.New("text would be truncated by cipher")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindStructural:
		return ErrMalformedBinary
	case KindDocument:
		return ErrMalformedDocument
	case KindCipher:
		return ErrCipherTruncation
	}
	return nil
}

// Error is returned by all codecs. Path points to the offending element: a
// byte offset for binary input, a JSON path for documents.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.sentinel().Error())
	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap allows errors.Is against both the kind sentinel and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// Structural reports malformed binary input at given offset.
func Structural(offset int, format string, args ...any) error {
	return &Error{Kind: KindStructural, Path: fmt.Sprintf("0x%X", offset), Err: fmt.Errorf(format, args...)}
}

// Document reports malformed document element.
func Document(path string, format string, args ...any) error {
	return &Error{Kind: KindDocument, Path: path, Err: fmt.Errorf(format, args...)}
}

// Truncation reports text which would not survive encryption intact.
func Truncation(path string, text string) error {
	return &Error{Kind: KindCipher, Path: path, Err: fmt.Errorf("embedded zero byte in %q", text)}
}

// KindOf returns kind of the first codec error in the chain or 0.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
