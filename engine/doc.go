// Package engine provides the implementations of movepatcher.Engine.
//
// Two engines are available:
//
//	Native  - rewrites module tables in Go using package move
//	Wasm    - hosts an engine compiled to WebAssembly on wazero
//
// Load picks one from Options: a non-empty WasmPath selects the wazero engine,
// otherwise the native one is returned.
//
// # Wasm Engine ABI
//
// The guest module must export its linear memory and the following functions:
//
//	memory
//	alloc(size i32) i32
//	dealloc(ptr i32, size i32)
//	get_identifiers(mod_ptr, mod_len i32) i64
//	update_identifiers(mod_ptr, mod_len, map_ptr, map_len i32) i64
//	get_constants(mod_ptr, mod_len i32) i64
//	update_constants(mod_ptr, mod_len, new_ptr, new_len, old_ptr, old_len, type_ptr, type_len i32) i64
//	last_error() i64
//
// Every i64 result packs a guest buffer as ptr<<32 | len. Zero signals
// failure; the message is then fetched with last_error. Buffers returned by
// the guest are released with dealloc once copied out.
//
// Payloads are BCS encoded:
//
//	identifiers   vector<string>
//	renames       vector<(string, string)>, sorted by old name
//	constants     vector<(string, vector<u8>)>, type descriptor and data
//
// This ABI is specific to movepatcher. It is not the wasm-bindgen interface
// of the move-bytecode-template package: a wasm-bindgen build expects
// JavaScript glue for strings, Uint8Arrays and thrown errors, and its exports
// fail the export check in NewWasm with an EngineLoad error. Using that engine
// requires a thin guest wrapper that exports the functions above and forwards
// to it.
//
// Guest calls are serialized with a mutex; a Wasm engine may be shared across
// goroutines.
package engine
