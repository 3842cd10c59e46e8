package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile Phase = "compile" // schema -> compiled plans
	PhaseEncode  Phase = "encode"  // plain value -> Bob buffer
	PhaseDecode  Phase = "decode"  // Bob buffer -> accessor fields
	PhaseWrap    Phase = "wrap"    // plain value -> accessor
	PhaseOverlay Phase = "overlay" // accessor + overrides
	PhaseRewrite Phase = "rewrite" // ROS1 bytes -> Bob buffer
	PhaseLoad    Phase = "load"    // schema file loading
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownType     Kind = "unknown_type"
	KindTypeMismatch    Kind = "type_mismatch"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindInvalidData     Kind = "invalid_data"
	KindOverflow        Kind = "overflow"
	KindFieldUnknown    Kind = "field_unknown"
	KindSizeUnavailable Kind = "size_unavailable"
	KindNotAccessor     Kind = "not_accessor"
	KindUnsupported     Kind = "unsupported"
)

// Sentinels for errors.Is checks that do not care about the phase.
var (
	ErrUnknownType      = &Error{Kind: KindUnknownType}
	ErrUnsignedOverflow = &Error{Kind: KindOverflow}
	ErrSizeUnavailable  = &Error{Kind: KindSizeUnavailable}
	ErrFieldUnknown     = &Error{Kind: KindFieldUnknown}
	ErrOutOfBounds      = &Error{Kind: KindOutOfBounds}
	ErrTypeMismatch     = &Error{Kind: KindTypeMismatch}
)

// Error is the structured error type used throughout the codec
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	BobType  string
	TypeName string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.TypeName != "" {
		b.WriteString(" in ")
		b.WriteString(e.TypeName)
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.BobType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.BobType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", field type ")
			b.WriteString(e.BobType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("field type ")
			b.WriteString(e.BobType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.BobType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a
// phase matches any phase.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase != "" && e.Phase != t.Phase {
			return false
		}
		return e.Kind == t.Kind
	}
	return false
}

// WithPath returns a copy of e with prefix prepended to its path.
func (e *Error) WithPath(prefix ...string) *Error {
	cp := *e
	cp.Path = append(append(make([]string, 0, len(prefix)+len(e.Path)), prefix...), e.Path...)
	return &cp
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// BobType sets the schema field type
func (b *Builder) BobType(t string) *Builder {
	b.err.BobType = t
	return b
}

// TypeName sets the record type the error belongs to
func (b *Builder) TypeName(t string) *Builder {
	b.err.TypeName = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// UnknownType creates an error for a type name absent from the schema
func UnknownType(phase Phase, path []string, typeName string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindUnknownType,
		Path:     path,
		TypeName: typeName,
		Detail:   fmt.Sprintf("type %q is not defined", typeName),
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, bobType string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindTypeMismatch,
		Path:    path,
		GoType:  goType,
		BobType: bobType,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, targetType string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindOverflow,
		Path:    path,
		BobType: targetType,
		Detail:  fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:   value,
	}
}

// UnsignedOverflow creates the error returned when a uint64 value does
// not fit in the safe integer range and a wide read was not requested.
func UnsignedOverflow(path []string, value uint64) *Error {
	return &Error{
		Phase:   PhaseDecode,
		Kind:    KindOverflow,
		Path:    path,
		BobType: "uint64",
		Detail:  fmt.Sprintf("number too large: %d exceeds 2^53-1, read it wide", value),
		Value:   value,
	}
}

// FieldUnknown creates an unknown field error
func FieldUnknown(phase Phase, typeName, fieldName string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindFieldUnknown,
		TypeName: typeName,
		Detail:   fmt.Sprintf("unknown field %q", fieldName),
	}
}

// SizeUnavailable creates the error returned for accessors that have no
// standalone size.
func SizeUnavailable(detail string) *Error {
	return &Error{
		Kind:   KindSizeUnavailable,
		Detail: detail,
	}
}

// NotAccessor creates an error for values that were expected to be accessors
func NotAccessor(phase Phase, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotAccessor,
		GoType: goType,
		Detail: "value is not a bobject accessor",
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a schema loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}
