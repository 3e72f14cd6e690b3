// Package patcher applies identifier renames and constant patches to a single
// module binary through a movepatcher.Engine.
//
// ConstantPatcher handles one patch: it encodes the old and new values with
// the codec resolved from the patch's moveType and asks the engine to swap
// them. A patch that leaves the constant pool unchanged is an error, so a
// wrong oldVal or moveType never goes unnoticed.
//
// ModuleTransformer renames identifiers first and then folds the constant
// patches over the result in order.
package patcher
