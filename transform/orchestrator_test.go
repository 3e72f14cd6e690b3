package transform

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	movepatcher "github.com/wippyai/move-patcher"
	"github.com/wippyai/move-patcher/engine"
	"github.com/wippyai/move-patcher/errors"
	"github.com/wippyai/move-patcher/internal/movetest"
)

type fakeBuilder struct {
	err   error
	dirs  []string
	opts  []BuildOptions
	after func()
}

func (b *fakeBuilder) Build(_ context.Context, dir string, opts BuildOptions) error {
	b.dirs = append(b.dirs, dir)
	b.opts = append(b.opts, opts)
	if b.after != nil {
		b.after()
	}
	return b.err
}

type fixture struct {
	dir    string
	outDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	return &fixture{dir: dir, outDir: filepath.Join(dir, "out")}
}

func (f *fixture) module(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func (f *fixture) config(t *testing.T, files ...map[string]any) string {
	t.Helper()
	if files == nil {
		files = []map[string]any{}
	}
	doc := map[string]any{
		"outputDir":   f.outDir,
		"identifiers": map[string]string{"template": "my_coin"},
		"files":       files,
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(f.dir, "transform.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func fileEntry(input string, constants ...map[string]any) map[string]any {
	if constants == nil {
		constants = []map[string]any{}
	}
	return map[string]any{"bytecodeInputFile": input, "constants": constants}
}

func templateModule() []byte {
	return movetest.Module([]string{"template", "init"}, movetest.U64(9), movetest.ByteVector([]byte("TMPL")))
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	input := f.module(t, "template.mv", templateModule())
	cfg := f.config(t, fileEntry(input,
		map[string]any{"moveType": "U64", "oldVal": 9, "newVal": 7},
		map[string]any{"moveType": "Vector(U8)", "oldVal": "TMPL", "newVal": "MYC"},
	))

	builder := &fakeBuilder{}
	o := New(Options{Builder: builder, JSONErrors: true})
	require.NoError(t, o.Run(ctx, cfg, "pkg"))

	assert.Equal(t, []string{"pkg"}, builder.dirs)
	assert.Equal(t, []BuildOptions{{JSONErrors: true}}, builder.opts)

	out, err := os.ReadFile(filepath.Join(f.outDir, "template.mv"))
	require.NoError(t, err)

	eng := engine.NewNative()
	ids, err := eng.ReadIdentifiers(ctx, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"my_coin", "init"}, ids)

	consts, err := eng.ReadConstants(ctx, out)
	require.NoError(t, err)
	assert.Equal(t, []movepatcher.Constant{
		{Type: "U64", Data: movetest.U64(7).Data},
		{Type: "Vector(U8)", Data: movetest.ByteVector([]byte("MYC")).Data},
	}, consts)
}

func TestRunSkipsBuildWithoutDir(t *testing.T) {
	f := newFixture(t)
	builder := &fakeBuilder{}
	require.NoError(t, New(Options{Builder: builder}).Run(context.Background(), f.config(t), ""))
	assert.Empty(t, builder.dirs)
	assert.DirExists(t, f.outDir)
}

func TestRunCleansStaleOutputs(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(f.outDir, 0o755))
	stale := filepath.Join(f.outDir, "old.mv")
	keep := filepath.Join(f.outDir, "notes.txt")
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o644))
	require.NoError(t, os.WriteFile(keep, []byte("keep"), 0o644))

	require.NoError(t, New(Options{}).Run(context.Background(), f.config(t), ""))

	assert.NoFileExists(t, stale)
	assert.FileExists(t, keep)
}

func TestRunMissingInputBeforeAnyTransform(t *testing.T) {
	f := newFixture(t)
	a := f.module(t, "a.mv", templateModule())
	b := filepath.Join(f.dir, "b.mv")
	cfg := f.config(t, fileEntry(a), fileEntry(b))

	require.NoError(t, os.MkdirAll(f.outDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.outDir, "stale.mv"), nil, 0o644))

	err := New(Options{}).Run(context.Background(), cfg, "")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrMissingInput), "got %v", err)
	assert.Contains(t, err.Error(), b)

	assert.NoFileExists(t, filepath.Join(f.outDir, "a.mv"))
	assert.NoFileExists(t, filepath.Join(f.outDir, "stale.mv"))
}

func TestRunFailsFast(t *testing.T) {
	f := newFixture(t)
	a := f.module(t, "a.mv", templateModule())
	b := f.module(t, "b.mv", templateModule())
	c := f.module(t, "c.mv", templateModule())
	cfg := f.config(t,
		fileEntry(a),
		fileEntry(b, map[string]any{"moveType": "U64", "oldVal": 5, "newVal": 7}),
		fileEntry(c),
	)

	err := New(Options{}).Run(context.Background(), cfg, "")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrNoChange), "got %v", err)
	assert.Contains(t, err.Error(), b)

	assert.FileExists(t, filepath.Join(f.outDir, "a.mv"))
	assert.NoFileExists(t, filepath.Join(f.outDir, "b.mv"))
	assert.NoFileExists(t, filepath.Join(f.outDir, "c.mv"))
}

func TestRunParallel(t *testing.T) {
	f := newFixture(t)
	var files []map[string]any
	for _, name := range []string{"a.mv", "b.mv", "c.mv", "d.mv"} {
		files = append(files, fileEntry(f.module(t, name, templateModule()),
			map[string]any{"moveType": "U64", "oldVal": 9, "newVal": 1}))
	}

	require.NoError(t, New(Options{Parallelism: 3}).Run(context.Background(), f.config(t, files...), ""))

	for _, name := range []string{"a.mv", "b.mv", "c.mv", "d.mv"} {
		assert.FileExists(t, filepath.Join(f.outDir, name))
	}
}

func TestRunEngineLoadFailure(t *testing.T) {
	loadErr := stderrors.New("no engine")
	o := New(Options{LoadEngine: func(context.Context, engine.Options) (movepatcher.Engine, error) {
		return nil, loadErr
	}})

	err := o.Run(context.Background(), "does-not-matter.json", "")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrEngineLoad))
	assert.ErrorIs(t, err, loadErr)

	_, err = engine.Load(context.Background(), engine.Options{WasmPath: filepath.Join(t.TempDir(), "absent.wasm")})
	assert.True(t, stderrors.Is(err, errors.ErrEngineLoad))
}

func TestRunConfigErrors(t *testing.T) {
	f := newFixture(t)

	err := New(Options{}).Run(context.Background(), filepath.Join(f.dir, "absent.json"), "")
	assert.True(t, stderrors.Is(err, errors.ErrConfigParse), "got %v", err)

	bad := filepath.Join(f.dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"outputDir": "x"}`), 0o644))
	builder := &fakeBuilder{}
	err = New(Options{Builder: builder}).Run(context.Background(), bad, "pkg")
	assert.True(t, stderrors.Is(err, errors.ErrConfigValidation), "got %v", err)
	assert.Empty(t, builder.dirs, "build must not run for an invalid config")
}

func TestRunBuildFailure(t *testing.T) {
	f := newFixture(t)
	builder := &fakeBuilder{err: errors.BuildFailed(1, nil)}

	err := New(Options{Builder: builder}).Run(context.Background(), f.config(t), "pkg")
	assert.True(t, stderrors.Is(err, errors.ErrBuildFailed), "got %v", err)
	assert.NoDirExists(t, f.outDir)
}
