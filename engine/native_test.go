package engine

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	movepatcher "github.com/wippyai/move-patcher"
	"github.com/wippyai/move-patcher/errors"
	"github.com/wippyai/move-patcher/internal/movetest"
)

func TestNativeReadTables(t *testing.T) {
	ctx := context.Background()
	bin := movepatcher.ModuleBinary(movetest.Module(
		[]string{"template", "TEMPLATE", "init"},
		movetest.U8(6),
		movetest.ByteVector([]byte("TMPL")),
	))

	eng := NewNative()
	defer eng.Close(ctx)

	ids, err := eng.ReadIdentifiers(ctx, bin)
	if err != nil {
		t.Fatalf("ReadIdentifiers: %v", err)
	}
	if diff := cmp.Diff([]string{"template", "TEMPLATE", "init"}, ids); diff != "" {
		t.Errorf("identifiers (-want +got):\n%s", diff)
	}

	consts, err := eng.ReadConstants(ctx, bin)
	if err != nil {
		t.Fatalf("ReadConstants: %v", err)
	}
	want := []movepatcher.Constant{
		{Type: "U8", Data: []byte{6}},
		{Type: "Vector(U8)", Data: []byte{4, 'T', 'M', 'P', 'L'}},
	}
	if diff := cmp.Diff(want, consts); diff != "" {
		t.Errorf("constants (-want +got):\n%s", diff)
	}
}

func TestNativeRenameIdentifiers(t *testing.T) {
	ctx := context.Background()
	bin := movetest.Module([]string{"template", "TEMPLATE", "init"})
	orig := bytes.Clone(bin)

	eng := NewNative()
	out, err := eng.RenameIdentifiers(ctx, bin, map[string]string{"template": "my_coin", "TEMPLATE": "MY_COIN"})
	if err != nil {
		t.Fatalf("RenameIdentifiers: %v", err)
	}
	if !bytes.Equal(bin, orig) {
		t.Error("input binary was modified")
	}

	ids, err := eng.ReadIdentifiers(ctx, out)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"my_coin", "MY_COIN", "init"}, ids); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	if _, err := eng.RenameIdentifiers(ctx, bin, map[string]string{"template": "init"}); err == nil {
		t.Error("expected duplicate identifier error")
	}
}

func TestNativeReplaceConstant(t *testing.T) {
	ctx := context.Background()
	bin := movepatcher.ModuleBinary(movetest.Module([]string{"m"}, movetest.U64(9), movetest.U8(9)))
	eng := NewNative()

	out, n, err := eng.ReplaceConstant(ctx, bin, "U64", movetest.U64(9).Data, movetest.U64(7).Data)
	if err != nil {
		t.Fatalf("ReplaceConstant: %v", err)
	}
	if n != 1 {
		t.Errorf("replaced %d, want 1", n)
	}
	consts, _ := eng.ReadConstants(ctx, out)
	if !bytes.Equal(consts[0].Data, movetest.U64(7).Data) {
		t.Errorf("constant = %x", consts[0].Data)
	}

	out, n, err = eng.ReplaceConstant(ctx, bin, "U64", movetest.U64(5).Data, movetest.U64(7).Data)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || !bytes.Equal(out, bin) {
		t.Errorf("unmatched replace: n=%d changed=%v", n, !bytes.Equal(out, bin))
	}
}

func TestNativeErrors(t *testing.T) {
	ctx := context.Background()
	eng := NewNative()

	_, err := eng.ReadConstants(ctx, movepatcher.ModuleBinary{0xde, 0xad})
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Phase != errors.PhaseDecode {
		t.Errorf("garbage binary: %v", err)
	}

	bin := movetest.Module([]string{"m"}, movetest.U8(1))
	if _, _, err := eng.ReplaceConstant(ctx, bin, "Vector(", []byte{1}, []byte{2}); !stderrors.Is(err, errors.ErrUnsupportedType) {
		t.Errorf("bad type: %v", err)
	}
}
