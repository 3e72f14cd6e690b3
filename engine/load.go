package engine

import (
	"context"
	"os"

	movepatcher "github.com/wippyai/move-patcher"
	"github.com/wippyai/move-patcher/errors"
)

// Options selects and configures the engine returned by Load.
type Options struct {
	// WasmPath is the path of a guest engine module. Empty selects Native.
	WasmPath string

	// MemoryLimitPages is passed to the wazero engine.
	MemoryLimitPages uint32
}

// Load returns the engine described by opts.
func Load(ctx context.Context, opts Options) (movepatcher.Engine, error) {
	if opts.WasmPath == "" {
		return NewNative(), nil
	}

	wasmBytes, err := os.ReadFile(opts.WasmPath)
	if err != nil {
		e := errors.EngineLoad("read engine module", err)
		e.File = opts.WasmPath
		return nil, e
	}

	w, err := NewWasm(ctx, wasmBytes, &WasmConfig{MemoryLimitPages: opts.MemoryLimitPages})
	if err != nil {
		return nil, err
	}
	return w, nil
}
