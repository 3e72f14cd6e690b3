package engine

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	movepatcher "github.com/wippyai/move-patcher"
	"github.com/wippyai/move-patcher/errors"
)

// Guest export names.
const (
	exportMemory            = "memory"
	exportAlloc             = "alloc"
	exportDealloc           = "dealloc"
	exportGetIdentifiers    = "get_identifiers"
	exportUpdateIdentifiers = "update_identifiers"
	exportGetConstants      = "get_constants"
	exportUpdateConstants   = "update_constants"
	exportLastError         = "last_error"

	wasiModuleName = "wasi_snapshot_preview1"
)

var requiredFunctions = []string{
	exportAlloc,
	exportDealloc,
	exportGetIdentifiers,
	exportUpdateIdentifiers,
	exportGetConstants,
	exportUpdateConstants,
	exportLastError,
}

// WasmConfig holds configuration for the wazero engine.
type WasmConfig struct {
	// MemoryLimitPages sets the maximum guest memory in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32
}

// Wasm implements movepatcher.Engine by calling into a WebAssembly guest.
type Wasm struct {
	runtime wazero.Runtime
	mod     api.Module
	mem     api.Memory

	alloc             api.Function
	dealloc           api.Function
	getIdentifiers    api.Function
	updateIdentifiers api.Function
	getConstants      api.Function
	updateConstants   api.Function
	lastError         api.Function

	mu sync.Mutex
}

var _ movepatcher.Engine = (*Wasm)(nil)

// NewWasm compiles and instantiates a guest engine module. Failures to
// compile, link or find a required export are EngineLoad errors.
func NewWasm(ctx context.Context, wasmBytes []byte, cfg *WasmConfig) (*Wasm, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	r := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	w, err := instantiate(ctx, r, wasmBytes)
	if err != nil {
		_ = r.Close(ctx)
		return nil, err
	}
	return w, nil
}

func instantiate(ctx context.Context, r wazero.Runtime, wasmBytes []byte) (*Wasm, error) {
	compiled, err := r.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, errors.EngineLoad("compile engine module", err)
	}

	exports := compiled.ExportedFunctions()
	for _, name := range requiredFunctions {
		if _, ok := exports[name]; !ok {
			return nil, errors.EngineLoad(fmt.Sprintf("engine module does not export %q", name), nil)
		}
	}
	if _, ok := compiled.ExportedMemories()[exportMemory]; !ok {
		return nil, errors.EngineLoad(fmt.Sprintf("engine module does not export %q", exportMemory), nil)
	}

	for _, imp := range compiled.ImportedFunctions() {
		if mod, _, _ := imp.Import(); mod == wasiModuleName {
			if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
				return nil, errors.EngineLoad("instantiate WASI", err)
			}
			break
		}
	}

	mod, err := r.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithStartFunctions("_initialize"))
	if err != nil {
		return nil, errors.EngineLoad("instantiate engine module", err)
	}

	Logger().Debug("engine module loaded", zap.Int("size", len(wasmBytes)))

	return &Wasm{
		runtime:           r,
		mod:               mod,
		mem:               mod.Memory(),
		alloc:             mod.ExportedFunction(exportAlloc),
		dealloc:           mod.ExportedFunction(exportDealloc),
		getIdentifiers:    mod.ExportedFunction(exportGetIdentifiers),
		updateIdentifiers: mod.ExportedFunction(exportUpdateIdentifiers),
		getConstants:      mod.ExportedFunction(exportGetConstants),
		updateConstants:   mod.ExportedFunction(exportUpdateConstants),
		lastError:         mod.ExportedFunction(exportLastError),
	}, nil
}

func (w *Wasm) ReadIdentifiers(ctx context.Context, bin movepatcher.ModuleBinary) ([]string, error) {
	out, err := w.call(ctx, errors.PhaseDecode, w.getIdentifiers, exportGetIdentifiers, bin)
	if err != nil {
		return nil, err
	}
	return decodeIdentifiers(out)
}

func (w *Wasm) RenameIdentifiers(ctx context.Context, bin movepatcher.ModuleBinary, renames map[string]string) (movepatcher.ModuleBinary, error) {
	out, err := w.call(ctx, errors.PhaseRename, w.updateIdentifiers, exportUpdateIdentifiers, bin, encodeRenames(renames))
	if err != nil {
		return nil, err
	}
	return movepatcher.ModuleBinary(out), nil
}

func (w *Wasm) ReadConstants(ctx context.Context, bin movepatcher.ModuleBinary) ([]movepatcher.Constant, error) {
	out, err := w.call(ctx, errors.PhaseDecode, w.getConstants, exportGetConstants, bin)
	if err != nil {
		return nil, err
	}
	return decodeConstants(out)
}

// ReplaceConstant always reports a count of -1; the guest ABI does not
// return how many constants matched.
func (w *Wasm) ReplaceConstant(ctx context.Context, bin movepatcher.ModuleBinary, moveType string, oldData, newData []byte) (movepatcher.ModuleBinary, int, error) {
	out, err := w.call(ctx, errors.PhasePatch, w.updateConstants, exportUpdateConstants, bin, newData, oldData, []byte(moveType))
	if err != nil {
		return nil, 0, err
	}
	return movepatcher.ModuleBinary(out), -1, nil
}

// Close releases the guest instance and the wazero runtime.
func (w *Wasm) Close(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runtime.Close(ctx)
}

// call copies each argument into guest memory, invokes fn with (ptr, len)
// pairs and copies the result buffer out.
func (w *Wasm) call(ctx context.Context, phase errors.Phase, fn api.Function, name string, args ...[]byte) ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	params := make([]uint64, 0, len(args)*2)
	type buffer struct{ ptr, size uint32 }
	written := make([]buffer, 0, len(args))
	defer func() {
		for _, b := range written {
			w.free(ctx, b.ptr, b.size)
		}
	}()

	for _, arg := range args {
		ptr, err := w.write(ctx, arg)
		if err != nil {
			return nil, errors.Wrap(phase, errors.KindEngineCall, err, name+": write argument")
		}
		if ptr != 0 {
			written = append(written, buffer{ptr, uint32(len(arg))})
		}
		params = append(params, uint64(ptr), uint64(len(arg)))
	}

	results, err := fn.Call(ctx, params...)
	if err != nil {
		return nil, errors.Wrap(phase, errors.KindEngineCall, err, name)
	}
	if len(results) != 1 || results[0] == 0 {
		return nil, errors.Wrap(phase, errors.KindEngineCall, w.guestError(ctx), name)
	}

	return w.take(ctx, results[0])
}

func (w *Wasm) write(ctx context.Context, data []byte) (uint32, error) {
	if len(data) == 0 {
		return 0, nil
	}
	results, err := w.alloc.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0, err
	}
	ptr := uint32(results[0])
	if !w.mem.Write(ptr, data) {
		return 0, fmt.Errorf("write %d bytes at 0x%x: out of bounds", len(data), ptr)
	}
	return ptr, nil
}

// take copies a packed guest buffer out of memory and releases it.
func (w *Wasm) take(ctx context.Context, packed uint64) ([]byte, error) {
	ptr, size := uint32(packed>>32), uint32(packed)
	data, ok := w.mem.Read(ptr, size)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseDecode, []string{"guest result"}, int(ptr)+int(size), int(w.mem.Size()))
	}
	out := bytes.Clone(data)
	w.free(ctx, ptr, size)
	return out, nil
}

func (w *Wasm) free(ctx context.Context, ptr, size uint32) {
	if ptr == 0 {
		return
	}
	if _, err := w.dealloc.Call(ctx, uint64(ptr), uint64(size)); err != nil {
		Logger().Warn("engine dealloc failed", zap.Uint32("ptr", ptr), zap.Error(err))
	}
}

func (w *Wasm) guestError(ctx context.Context) error {
	results, err := w.lastError.Call(ctx)
	if err != nil {
		return fmt.Errorf("engine call failed; last_error: %w", err)
	}
	if len(results) != 1 || results[0] == 0 {
		return fmt.Errorf("engine call failed without a message")
	}
	msg, err := w.take(ctx, results[0])
	if err != nil {
		return err
	}
	return fmt.Errorf("%s", msg)
}
