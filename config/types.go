package config

// TransformConfig describes one transform run.
type TransformConfig struct {
	// Identifiers maps old identifier names to new ones. The whole map is
	// applied to every module at once.
	Identifiers map[string]string `json:"identifiers" yaml:"identifiers"`
	OutputDir   string            `json:"outputDir" yaml:"outputDir"`
	Files       []FileTransform   `json:"files" yaml:"files"`
}

// FileTransform lists the constant patches for one module file.
type FileTransform struct {
	BytecodeInputFile string          `json:"bytecodeInputFile" yaml:"bytecodeInputFile"`
	Constants         []ConstantPatch `json:"constants" yaml:"constants"`
}

// ConstantPatch replaces a constant of type MoveType holding OldVal with NewVal.
// The values are untyped document values; their shape is checked when the
// patch is applied.
type ConstantPatch struct {
	OldVal   any    `json:"oldVal" yaml:"oldVal"`
	NewVal   any    `json:"newVal" yaml:"newVal"`
	MoveType string `json:"moveType" yaml:"moveType"`
}
