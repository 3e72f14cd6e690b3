package patcher

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	movepatcher "github.com/wippyai/move-patcher"
	"github.com/wippyai/move-patcher/config"
	"github.com/wippyai/move-patcher/errors"
)

// ModuleTransformer renames identifiers and patches constants in one module.
type ModuleTransformer struct {
	engine    movepatcher.Engine
	constants *ConstantPatcher
}

// NewModuleTransformer creates a transformer that works through engine.
func NewModuleTransformer(engine movepatcher.Engine) *ModuleTransformer {
	return &ModuleTransformer{
		engine:    engine,
		constants: NewConstantPatcher(engine),
	}
}

// Transform applies the rename map in a single engine call, then each
// constant patch in order. The first failure aborts; errors from a patch
// carry its index in their path.
func (t *ModuleTransformer) Transform(ctx context.Context, bin movepatcher.ModuleBinary, identifiers map[string]string, constants []config.ConstantPatch) (movepatcher.ModuleBinary, error) {
	out := bin
	if len(identifiers) > 0 {
		renamed, err := t.engine.RenameIdentifiers(ctx, bin, identifiers)
		if err != nil {
			return nil, err
		}
		out = renamed
		Logger().Debug("renamed identifiers", zap.Int("count", len(identifiers)))
	}

	for i, patch := range constants {
		next, err := t.constants.Apply(ctx, out, patch)
		if err != nil {
			return nil, annotate(err, i)
		}
		out = next
	}
	return out, nil
}

func annotate(err error, index int) error {
	if e, ok := err.(*errors.Error); ok {
		e.Path = append([]string{"constants", strconv.Itoa(index)}, e.Path...)
		return e
	}
	return errors.Wrap(errors.PhasePatch, errors.KindEngineCall, err, "constants."+strconv.Itoa(index))
}
