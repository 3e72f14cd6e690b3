package patcher

import (
	"bytes"
	"context"
	"reflect"

	"go.uber.org/zap"

	movepatcher "github.com/wippyai/move-patcher"
	"github.com/wippyai/move-patcher/bcs"
	"github.com/wippyai/move-patcher/config"
	"github.com/wippyai/move-patcher/errors"
)

// ConstantPatcher replaces one typed constant value in a module binary.
type ConstantPatcher struct {
	engine movepatcher.Engine
}

// NewConstantPatcher creates a patcher that works through engine.
func NewConstantPatcher(engine movepatcher.Engine) *ConstantPatcher {
	return &ConstantPatcher{engine: engine}
}

// Apply returns a copy of bin with the constant of type patch.MoveType that
// holds patch.OldVal changed to patch.NewVal.
//
// Patches whose old and new values are equal are skipped without touching
// the engine, as are patches whose values encode to the same bytes. If the
// engine replaces nothing the result is a NoChange error.
func (p *ConstantPatcher) Apply(ctx context.Context, bin movepatcher.ModuleBinary, patch config.ConstantPatch) (movepatcher.ModuleBinary, error) {
	log := Logger().With(zap.String("moveType", patch.MoveType))

	if reflect.DeepEqual(patch.OldVal, patch.NewVal) {
		log.Debug("skipping constant patch with equal values", zap.Any("value", patch.OldVal))
		return bin, nil
	}

	codec, err := bcs.Resolve(patch.MoveType, patch.OldVal)
	if err != nil {
		return nil, err
	}

	before, err := p.engine.ReadConstants(ctx, bin)
	if err != nil {
		return nil, err
	}

	newData, err := codec.Encode(patch.NewVal)
	if err != nil {
		return nil, err
	}
	oldData, err := codec.Encode(patch.OldVal)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(oldData, newData) {
		log.Debug("skipping constant patch with equal encodings",
			zap.Any("oldVal", patch.OldVal), zap.Any("newVal", patch.NewVal))
		return bin, nil
	}

	moveType := codec.Type().String()
	out, replaced, err := p.engine.ReplaceConstant(ctx, bin, moveType, oldData, newData)
	if err != nil {
		return nil, err
	}
	if replaced == 0 {
		return nil, errors.NoChange(moveType, patch.OldVal, patch.NewVal)
	}

	after, err := p.engine.ReadConstants(ctx, out)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(movepatcher.Snapshot(before), movepatcher.Snapshot(after)) {
		return nil, errors.NoChange(moveType, patch.OldVal, patch.NewVal)
	}

	log.Debug("patched constant",
		zap.String("codec", codec.Name()),
		zap.Int("replaced", replaced),
		zap.Any("oldVal", patch.OldVal),
		zap.Any("newVal", patch.NewVal))
	return out, nil
}
