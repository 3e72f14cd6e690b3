package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConfig    Phase = "config"    // config document parsing and validation
	PhaseLoad      Phase = "load"      // engine loading
	PhaseBuild     Phase = "build"     // external package build
	PhaseResolve   Phase = "resolve"   // type descriptor resolution
	PhaseEncode    Phase = "encode"    // value to BCS bytes
	PhaseDecode    Phase = "decode"    // bytes to value, module tables
	PhaseRename    Phase = "rename"    // identifier renaming
	PhasePatch     Phase = "patch"     // constant replacement
	PhaseTransform Phase = "transform" // per-file orchestration
)

// Kind categorizes the error
type Kind string

const (
	KindParse           Kind = "parse"
	KindValidation      Kind = "validation"
	KindEngineLoad      Kind = "engine_load"
	KindMissingInput    Kind = "missing_input"
	KindBuildFailed     Kind = "build_failed"
	KindUnsupportedType Kind = "unsupported_type"
	KindInvalidValue    Kind = "invalid_value"
	KindInvalidAddress  Kind = "invalid_address"
	KindNoChange        Kind = "no_change"
	KindInvalidData     Kind = "invalid_data"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindInvalidUTF8     Kind = "invalid_utf8"
	KindDuplicate       Kind = "duplicate"
	KindIO              Kind = "io"
	KindEngineCall      Kind = "engine_call"
)

// Sentinels for errors.Is checks. Matching is by Phase and Kind only.
var (
	ErrConfigParse      = &Error{Phase: PhaseConfig, Kind: KindParse}
	ErrConfigValidation = &Error{Phase: PhaseConfig, Kind: KindValidation}
	ErrEngineLoad       = &Error{Phase: PhaseLoad, Kind: KindEngineLoad}
	ErrMissingInput     = &Error{Phase: PhaseTransform, Kind: KindMissingInput}
	ErrBuildFailed      = &Error{Phase: PhaseBuild, Kind: KindBuildFailed}
	ErrUnsupportedType  = &Error{Phase: PhaseResolve, Kind: KindUnsupportedType}
	ErrInvalidValue     = &Error{Phase: PhaseEncode, Kind: KindInvalidValue}
	ErrInvalidAddress   = &Error{Phase: PhaseEncode, Kind: KindInvalidAddress}
	ErrNoChange         = &Error{Phase: PhasePatch, Kind: KindNoChange}
)

// Error is the structured error type used throughout the patcher
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	File   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.File != "" {
		b.WriteString(" in ")
		b.WriteString(e.File)
	}

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
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

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
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

// Type sets the type descriptor the error relates to
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// File sets the file the error relates to
func (b *Builder) File(name string) *Builder {
	b.err.File = name
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

// Convenience constructors for the taxonomy

// ConfigParse creates a config document parse error
func ConfigParse(file string, cause error) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindParse,
		File:   file,
		Detail: "malformed config document",
		Cause:  cause,
	}
}

// ConfigValidation creates a config validation error naming the offending field
func ConfigValidation(path []string, detail string) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindValidation,
		Path:   path,
		Detail: detail,
	}
}

// EngineLoad creates an engine loading error
func EngineLoad(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindEngineLoad,
		Detail: detail,
		Cause:  cause,
	}
}

// MissingInput creates a missing input file error
func MissingInput(file string) *Error {
	return &Error{
		Phase:  PhaseTransform,
		Kind:   KindMissingInput,
		File:   file,
		Detail: "input file does not exist, did you forget to build the package?",
	}
}

// BuildFailed creates a build failure error for a non-zero exit status
func BuildFailed(status int, cause error) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindBuildFailed,
		Detail: fmt.Sprintf("build command failed with status %d", status),
		Value:  status,
		Cause:  cause,
	}
}

// UnsupportedType creates an unsupported type descriptor error
func UnsupportedType(descriptor, detail string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnsupportedType,
		Type:   descriptor,
		Detail: detail,
	}
}

// InvalidValue creates an error for a value that cannot be encoded under a type
func InvalidValue(path []string, descriptor string, value any, detail string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindInvalidValue,
		Path:   path,
		Type:   descriptor,
		Value:  value,
		Detail: detail,
	}
}

// InvalidAddress creates an error for an address literal that does not normalize
func InvalidAddress(literal string, detail string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindInvalidAddress,
		Type:   "Address",
		Value:  literal,
		Detail: fmt.Sprintf("invalid address %q: %s", literal, detail),
	}
}

// NoChange creates an error for a constant patch that left the table untouched
func NoChange(descriptor string, oldVal, newVal any) *Error {
	return &Error{
		Phase: PhasePatch,
		Kind:  KindNoChange,
		Type:  descriptor,
		Value: oldVal,
		Detail: fmt.Sprintf("didn't update constant with value %v to %v, make sure moveType and oldVal are correct"+
			" (you may need to build the package again)", oldVal, newVal),
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

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
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

// IO wraps a filesystem error
func IO(phase Phase, file string, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindIO,
		File:  file,
		Cause: cause,
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
