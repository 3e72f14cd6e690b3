package patcher

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	movepatcher "github.com/wippyai/move-patcher"
	"github.com/wippyai/move-patcher/config"
	"github.com/wippyai/move-patcher/engine"
	"github.com/wippyai/move-patcher/errors"
	"github.com/wippyai/move-patcher/internal/movetest"
)

// countingEngine records calls and optionally reports an unknown count
// without changing the binary.
type countingEngine struct {
	movepatcher.Engine
	reads    int
	replaces int
	renames  int
	inert    bool
}

func (c *countingEngine) ReadConstants(ctx context.Context, bin movepatcher.ModuleBinary) ([]movepatcher.Constant, error) {
	c.reads++
	return c.Engine.ReadConstants(ctx, bin)
}

func (c *countingEngine) RenameIdentifiers(ctx context.Context, bin movepatcher.ModuleBinary, renames map[string]string) (movepatcher.ModuleBinary, error) {
	c.renames++
	return c.Engine.RenameIdentifiers(ctx, bin, renames)
}

func (c *countingEngine) ReplaceConstant(ctx context.Context, bin movepatcher.ModuleBinary, moveType string, oldData, newData []byte) (movepatcher.ModuleBinary, int, error) {
	c.replaces++
	if c.inert {
		return bin.Clone(), -1, nil
	}
	return c.Engine.ReplaceConstant(ctx, bin, moveType, oldData, newData)
}

func newCounting() *countingEngine {
	return &countingEngine{Engine: engine.NewNative()}
}

func constantsOf(t *testing.T, bin movepatcher.ModuleBinary) []movepatcher.Constant {
	t.Helper()
	consts, err := engine.NewNative().ReadConstants(context.Background(), bin)
	if err != nil {
		t.Fatal(err)
	}
	return consts
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	bin := movepatcher.ModuleBinary(movetest.Module(
		[]string{"m"},
		movetest.U64(9),
		movetest.ByteVector([]byte("TMPL")),
		movetest.Address(1),
		movetest.Bool(false),
	))

	tests := []struct {
		name  string
		patch config.ConstantPatch
		index int
		want  []byte
	}{
		{"u64 json number", config.ConstantPatch{MoveType: "U64", OldVal: json.Number("9"), NewVal: json.Number("7")}, 0, movetest.U64(7).Data},
		{"u64 padded descriptor", config.ConstantPatch{MoveType: "  U64 ", OldVal: 9, NewVal: 1 << 40}, 0, movetest.U64(1 << 40).Data},
		{"string", config.ConstantPatch{MoveType: "Vector(U8)", OldVal: "TMPL", NewVal: "MYCOIN"}, 1, movetest.ByteVector([]byte("MYCOIN")).Data},
		{"bytes", config.ConstantPatch{MoveType: "Vector(U8)", OldVal: []any{84, 77, 80, 76}, NewVal: []any{1, 2}}, 1, movetest.ByteVector([]byte{1, 2}).Data},
		{"address", config.ConstantPatch{MoveType: "Address", OldVal: "0x1", NewVal: "0xAB"}, 2, movetest.Address(0xab).Data},
		{"bool", config.ConstantPatch{MoveType: "Bool", OldVal: false, NewVal: true}, 3, []byte{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewConstantPatcher(engine.NewNative()).Apply(ctx, bin, tt.patch)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			consts := constantsOf(t, out)
			if diff := cmp.Diff(tt.want, consts[tt.index].Data); diff != "" {
				t.Errorf("constant %d (-want +got):\n%s", tt.index, diff)
			}
		})
	}
}

func TestApplySkipsEqualValues(t *testing.T) {
	ctx := context.Background()
	bin := movepatcher.ModuleBinary(movetest.Module([]string{"m"}, movetest.U64(9)))

	eng := newCounting()
	out, err := NewConstantPatcher(eng).Apply(ctx, bin, config.ConstantPatch{
		MoveType: "Float",
		OldVal:   []any{"a"},
		NewVal:   []any{"a"},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !bytes.Equal(out, bin) {
		t.Error("binary changed")
	}
	if eng.reads+eng.replaces != 0 {
		t.Errorf("engine was called: %+v", eng)
	}
}

func TestApplySkipsEqualEncodings(t *testing.T) {
	ctx := context.Background()
	bin := movepatcher.ModuleBinary(movetest.Module([]string{"m"}, movetest.Address(1)))

	eng := newCounting()
	out, err := NewConstantPatcher(eng).Apply(ctx, bin, config.ConstantPatch{
		MoveType: "Address",
		OldVal:   "0x1",
		NewVal:   "0x0000000000000000000000000000000000000000000000000000000000000001",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !bytes.Equal(out, bin) {
		t.Error("binary changed")
	}
	if eng.replaces != 0 {
		t.Errorf("ReplaceConstant called %d times", eng.replaces)
	}
}

func TestApplyNoChange(t *testing.T) {
	ctx := context.Background()
	bin := movepatcher.ModuleBinary(movetest.Module([]string{"m"}, movetest.U64(9)))

	t.Run("value not present", func(t *testing.T) {
		_, err := NewConstantPatcher(engine.NewNative()).Apply(ctx, bin, config.ConstantPatch{MoveType: "U64", OldVal: 5, NewVal: 7})
		if !stderrors.Is(err, errors.ErrNoChange) {
			t.Fatalf("error = %v, want no change", err)
		}
		var e *errors.Error
		stderrors.As(err, &e)
		if e.Type != "U64" || e.Value != 5 {
			t.Errorf("error context = %q %v", e.Type, e.Value)
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := NewConstantPatcher(engine.NewNative()).Apply(ctx, bin, config.ConstantPatch{MoveType: "U32", OldVal: 9, NewVal: 7})
		if !stderrors.Is(err, errors.ErrNoChange) {
			t.Fatalf("error = %v, want no change", err)
		}
	})

	t.Run("engine without count", func(t *testing.T) {
		eng := newCounting()
		eng.inert = true
		_, err := NewConstantPatcher(eng).Apply(ctx, bin, config.ConstantPatch{MoveType: "U64", OldVal: 9, NewVal: 7})
		if !stderrors.Is(err, errors.ErrNoChange) {
			t.Fatalf("error = %v, want no change", err)
		}
		if eng.reads != 2 {
			t.Errorf("snapshots taken = %d, want 2", eng.reads)
		}
	})
}

func TestApplyResolveErrors(t *testing.T) {
	ctx := context.Background()
	bin := movepatcher.ModuleBinary(movetest.Module([]string{"m"}, movetest.U64(9)))
	p := NewConstantPatcher(engine.NewNative())

	tests := []struct {
		name  string
		patch config.ConstantPatch
		want  error
	}{
		{"unknown type", config.ConstantPatch{MoveType: "U512", OldVal: 1, NewVal: 2}, errors.ErrUnsupportedType},
		{"byte vector shape", config.ConstantPatch{MoveType: "Vector(U8)", OldVal: map[string]any{}, NewVal: "x"}, errors.ErrInvalidValue},
		{"overflow", config.ConstantPatch{MoveType: "U8", OldVal: 1, NewVal: 256}, errors.ErrInvalidValue},
		{"bad address", config.ConstantPatch{MoveType: "Address", OldVal: "0x1", NewVal: "0xZZ"}, errors.ErrInvalidAddress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Apply(ctx, bin, tt.patch)
			if !stderrors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTransform(t *testing.T) {
	ctx := context.Background()
	bin := movepatcher.ModuleBinary(movetest.Module(
		[]string{"template", "TEMPLATE", "init"},
		movetest.U8(6),
		movetest.ByteVector([]byte("TMPL")),
	))
	orig := bin.Clone()

	eng := newCounting()
	out, err := NewModuleTransformer(eng).Transform(ctx, bin,
		map[string]string{"template": "my_coin", "TEMPLATE": "MY_COIN"},
		[]config.ConstantPatch{
			{MoveType: "U8", OldVal: 6, NewVal: 9},
			{MoveType: "Vector(U8)", OldVal: "TMPL", NewVal: "MYC"},
			{MoveType: "U8", OldVal: 1, NewVal: 1},
		})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if !bytes.Equal(bin, orig) {
		t.Error("input binary was modified")
	}
	if eng.renames != 1 {
		t.Errorf("RenameIdentifiers called %d times, want 1", eng.renames)
	}

	native := engine.NewNative()
	ids, _ := native.ReadIdentifiers(ctx, out)
	if diff := cmp.Diff([]string{"my_coin", "MY_COIN", "init"}, ids); diff != "" {
		t.Errorf("identifiers (-want +got):\n%s", diff)
	}
	want := []movepatcher.Constant{
		{Type: "U8", Data: []byte{9}},
		{Type: "Vector(U8)", Data: movetest.ByteVector([]byte("MYC")).Data},
	}
	if diff := cmp.Diff(want, constantsOf(t, out)); diff != "" {
		t.Errorf("constants (-want +got):\n%s", diff)
	}
}

func TestTransformWithoutRenames(t *testing.T) {
	ctx := context.Background()
	bin := movepatcher.ModuleBinary(movetest.Module([]string{"m"}, movetest.U8(6)))

	eng := newCounting()
	if _, err := NewModuleTransformer(eng).Transform(ctx, bin, nil, nil); err != nil {
		t.Fatal(err)
	}
	if eng.renames != 0 {
		t.Error("empty rename map should not reach the engine")
	}
}

func TestTransformAbortsOnFirstFailure(t *testing.T) {
	ctx := context.Background()
	bin := movepatcher.ModuleBinary(movetest.Module([]string{"m"}, movetest.U8(6), movetest.U8(7)))

	eng := newCounting()
	_, err := NewModuleTransformer(eng).Transform(ctx, bin, nil, []config.ConstantPatch{
		{MoveType: "U8", OldVal: 6, NewVal: 1},
		{MoveType: "U8", OldVal: 42, NewVal: 2},
		{MoveType: "U8", OldVal: 7, NewVal: 3},
	})
	if !stderrors.Is(err, errors.ErrNoChange) {
		t.Fatalf("error = %v, want no change", err)
	}
	if !strings.Contains(err.Error(), "constants.1") {
		t.Errorf("error %q does not name the patch index", err)
	}
	if eng.replaces != 2 {
		t.Errorf("ReplaceConstant called %d times, want 2", eng.replaces)
	}
}

func TestTransformRenameFailureLeavesNoOutput(t *testing.T) {
	ctx := context.Background()
	bin := movepatcher.ModuleBinary(movetest.Module([]string{"a", "b"}, movetest.U8(6)))

	out, err := NewModuleTransformer(engine.NewNative()).Transform(ctx, bin, map[string]string{"a": "b"}, nil)
	if err == nil {
		t.Fatal("expected duplicate identifier error")
	}
	if out != nil {
		t.Error("output returned on failure")
	}
}
