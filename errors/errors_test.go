package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseEncode,
				Kind:   KindInvalidValue,
				Path:   []string{"files[0]", "constants[1]"},
				Type:   "U64",
				File:   "coin.mv",
				Detail: "not an unsigned integer",
			},
			contains: []string{"[encode]", "invalid_value", "files[0].constants[1]", "coin.mv", "type U64", "not an unsigned integer"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[decode]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindEngineLoad,
				Detail: "compile engine module",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "engine_load", "compile engine module", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindInvalidValue,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseEncode, Kind: KindInvalidValue}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseDecode, Kind: KindInvalidValue}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseEncode, Kind: KindOutOfBounds}) {
		t.Error("Is should not match different kind")
	}

	if !errors.Is(err, ErrInvalidValue) {
		t.Error("errors.Is should match the sentinel")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseEncode, KindInvalidValue).
		Path("files[0]", "constants[0]").
		Type("Vector(U8)").
		File("a.mv").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "string", "number").
		Build()

	if err.Phase != PhaseEncode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseEncode)
	}
	if err.Kind != KindInvalidValue {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidValue)
	}
	if len(err.Path) != 2 || err.Path[0] != "files[0]" || err.Path[1] != "constants[0]" {
		t.Errorf("Path = %v, want [files[0] constants[0]]", err.Path)
	}
	if err.Type != "Vector(U8)" {
		t.Errorf("Type = %v, want 'Vector(U8)'", err.Type)
	}
	if err.File != "a.mv" {
		t.Errorf("File = %v, want 'a.mv'", err.File)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected string, got number" {
		t.Errorf("Detail = %v, want 'expected string, got number'", err.Detail)
	}
}

func TestTaxonomySentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"ConfigParse", ConfigParse("c.json", errors.New("eof")), ErrConfigParse},
		{"ConfigValidation", ConfigValidation([]string{"outputDir"}, "must be a string"), ErrConfigValidation},
		{"EngineLoad", EngineLoad("missing export", nil), ErrEngineLoad},
		{"MissingInput", MissingInput("b.mv"), ErrMissingInput},
		{"BuildFailed", BuildFailed(2, nil), ErrBuildFailed},
		{"UnsupportedType", UnsupportedType("U512", "unknown type"), ErrUnsupportedType},
		{"InvalidValue", InvalidValue(nil, "U8", "x", "not a number"), ErrInvalidValue},
		{"InvalidAddress", InvalidAddress("0xzz", "not hex"), ErrInvalidAddress},
		{"NoChange", NoChange("U64", 5, 7), ErrNoChange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("%v does not match sentinel %v", tt.err, tt.sentinel)
			}
			for _, other := range tests {
				if other.name != tt.name && errors.Is(tt.err, other.sentinel) {
					t.Errorf("%s unexpectedly matches %s", tt.name, other.name)
				}
			}
		})
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("MissingInput", func(t *testing.T) {
		err := MissingInput("build/b.mv")
		if err.File != "build/b.mv" {
			t.Errorf("File = %q, want build/b.mv", err.File)
		}
		if !strings.Contains(err.Error(), "build/b.mv") {
			t.Errorf("message %q should name the file", err.Error())
		}
	})

	t.Run("BuildFailed", func(t *testing.T) {
		err := BuildFailed(3, nil)
		if err.Value != 3 {
			t.Errorf("Value = %v, want 3", err.Value)
		}
		if !strings.Contains(err.Detail, "status 3") {
			t.Errorf("Detail = %q, should contain the status", err.Detail)
		}
	})

	t.Run("NoChange", func(t *testing.T) {
		err := NoChange("U64", 5, 7)
		if err.Type != "U64" || err.Value != 5 {
			t.Errorf("Type=%v Value=%v", err.Type, err.Value)
		}
		if !strings.Contains(err.Error(), "5") || !strings.Contains(err.Error(), "7") {
			t.Errorf("message %q should carry both values", err.Error())
		}
	})

	t.Run("InvalidUTF8", func(t *testing.T) {
		err := InvalidUTF8(PhaseDecode, []string{"str"}, []byte{0xff, 0xfe})
		if err.Kind != KindInvalidUTF8 {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidUTF8)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseDecode, []string{"identifiers"}, 10, 5)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != 10 {
			t.Errorf("Value = %v, want 10", err.Value)
		}
	})
}
