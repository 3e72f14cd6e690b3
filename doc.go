// Package movepatcher rewrites compiled Move modules from a declarative
// configuration: identifiers are renamed and typed constants are swapped from
// an old value to a new one, with every patch verified against the module's
// constant pool.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	movepatcher/         Root package with the Engine boundary and ModuleBinary
//	├── bcs/             Type descriptors and BCS codecs for constant values
//	├── address/         Account address canonicalization
//	├── move/            Table-level reading and rewriting of module binaries
//	├── engine/          Native and wazero-hosted Engine implementations
//	├── config/          Transform configuration parsing and validation
//	├── patcher/         Constant patching and per-module transformation
//	├── transform/       End-to-end orchestration over a configuration file
//	├── errors/          Structured error types
//	└── cmd/movepatch/   Command line interface
//
// # Quick Start
//
// Transform the modules listed in a configuration file:
//
//	o := transform.New(transform.Options{})
//	if err := o.Run(ctx, "transform.json", ""); err != nil {
//	    log.Fatal(err)
//	}
//
// Patch a single module directly:
//
//	eng := engine.NewNative()
//	p := patcher.NewModuleTransformer(eng)
//	out, err := p.Transform(ctx, bin, map[string]string{"template": "my_coin"}, []config.ConstantPatch{
//	    {MoveType: "U8", OldVal: 6, NewVal: 9},
//	})
//
// # Engines
//
// An Engine reads and rewrites the identifier table and constant pool of a
// module binary. engine.Native does this in Go; engine.Wasm hosts an engine
// compiled to WebAssembly through wazero. Both treat binaries as immutable
// values: every call returns a fresh slice.
//
// # Error Handling
//
// All packages return *errors.Error values that match the sentinels in the
// errors package:
//
//	if errors.Is(err, errors.ErrNoChange) {
//	    // the patch did not alter the constant pool
//	}
package movepatcher
