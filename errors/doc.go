// Package errors provides structured error types for the bytecode patcher.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, type descriptor, file, value and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindInvalidValue).
//		Path("files[0]", "constants[2]").
//		Type("U64").
//		Value("abc").
//		Detail("not an unsigned integer").
//		Build()
//
// Or use convenience constructors for the taxonomy:
//
//	err := errors.MissingInput("build/pkg/bytecode_modules/coin.mv")
//	err := errors.NoChange("U64", 5, 7)
//
// Every constructor has a matching sentinel (ErrMissingInput, ErrNoChange, ...)
// so callers can test with errors.Is regardless of the attached context.
package errors
