package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/move-patcher/internal/binary"
)

func TestEncodeRenamesSorted(t *testing.T) {
	got := encodeRenames(map[string]string{"b": "y", "a": "x"})

	w := binary.NewWriter()
	w.WriteULEB128(2)
	w.WriteName("a")
	w.WriteName("x")
	w.WriteName("b")
	w.WriteName("y")

	if diff := cmp.Diff(w.Bytes(), got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestDecodePayloadErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short name", []byte{1, 5, 'a'}},
		{"trailing", []byte{0, 0xFF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeIdentifiers(tt.data); err == nil {
				t.Error("decodeIdentifiers: expected error")
			}
			if _, err := decodeConstants(tt.data); err == nil {
				t.Error("decodeConstants: expected error")
			}
		})
	}
}
