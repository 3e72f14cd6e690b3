package engine

import (
	"bytes"
	"context"

	movepatcher "github.com/wippyai/move-patcher"
	"github.com/wippyai/move-patcher/errors"
	"github.com/wippyai/move-patcher/move"
	"go.uber.org/zap"
)

// Native implements movepatcher.Engine with the table rewriter in package move.
// It holds no state and is safe for concurrent use.
type Native struct{}

var _ movepatcher.Engine = (*Native)(nil)

// NewNative creates a native engine.
func NewNative() *Native {
	return &Native{}
}

func (n *Native) parse(bin movepatcher.ModuleBinary) (*move.Module, error) {
	m, err := move.Parse(bin)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse module binary")
	}
	return m, nil
}

func (n *Native) ReadIdentifiers(_ context.Context, bin movepatcher.ModuleBinary) ([]string, error) {
	m, err := n.parse(bin)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), m.Identifiers...), nil
}

func (n *Native) RenameIdentifiers(_ context.Context, bin movepatcher.ModuleBinary, renames map[string]string) (movepatcher.ModuleBinary, error) {
	m, err := n.parse(bin)
	if err != nil {
		return nil, err
	}
	out, renamed, err := m.RenameIdentifiers(renames)
	if err != nil {
		return nil, err
	}
	Logger().Debug("renamed identifiers", zap.Int("requested", len(renames)), zap.Int("renamed", renamed))
	return out.Encode(), nil
}

func (n *Native) ReadConstants(_ context.Context, bin movepatcher.ModuleBinary) ([]movepatcher.Constant, error) {
	m, err := n.parse(bin)
	if err != nil {
		return nil, err
	}
	consts := make([]movepatcher.Constant, len(m.Constants))
	for i, c := range m.Constants {
		consts[i] = movepatcher.Constant{Type: c.Type.String(), Data: bytes.Clone(c.Data)}
	}
	return consts, nil
}

func (n *Native) ReplaceConstant(_ context.Context, bin movepatcher.ModuleBinary, moveType string, oldData, newData []byte) (movepatcher.ModuleBinary, int, error) {
	tok, err := move.ParseTokenDescriptor(moveType)
	if err != nil {
		return nil, 0, err
	}
	m, err := n.parse(bin)
	if err != nil {
		return nil, 0, err
	}
	out, replaced := m.ReplaceConstant(tok, oldData, newData)
	if replaced == 0 {
		return bin.Clone(), 0, nil
	}
	return out.Encode(), replaced, nil
}

func (n *Native) Close(context.Context) error { return nil }
