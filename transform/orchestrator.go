package transform

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	movepatcher "github.com/wippyai/move-patcher"
	"github.com/wippyai/move-patcher/config"
	"github.com/wippyai/move-patcher/engine"
	"github.com/wippyai/move-patcher/errors"
	"github.com/wippyai/move-patcher/patcher"
)

// OutputExt is the extension of compiled module files.
const OutputExt = ".mv"

// EngineLoader creates the engine for a run.
type EngineLoader func(ctx context.Context, opts engine.Options) (movepatcher.Engine, error)

// Options configures an Orchestrator.
type Options struct {
	// LoadEngine defaults to engine.Load.
	LoadEngine EngineLoader

	// Builder defaults to a CommandBuilder running DefaultBuildCommand.
	Builder Builder

	Engine engine.Options

	// Parallelism is the number of files transformed at once. Values below
	// 2 process files sequentially in config order.
	Parallelism int

	// JSONErrors and Quiet are passed to the build tool.
	JSONErrors bool
	Quiet      bool
}

// Orchestrator runs transform configurations.
type Orchestrator struct {
	opts Options
}

// New creates an orchestrator.
func New(opts Options) *Orchestrator {
	if opts.LoadEngine == nil {
		opts.LoadEngine = engine.Load
	}
	if opts.Builder == nil {
		opts.Builder = &CommandBuilder{}
	}
	return &Orchestrator{opts: opts}
}

// Run transforms every file listed in the config at configPath. A non-empty
// buildDir is built first.
func (o *Orchestrator) Run(ctx context.Context, configPath, buildDir string) error {
	eng, err := o.opts.LoadEngine(ctx, o.opts.Engine)
	if err != nil {
		if stderrors.Is(err, errors.ErrEngineLoad) {
			return err
		}
		return errors.EngineLoad("load engine", err)
	}
	defer func() {
		if err := eng.Close(ctx); err != nil {
			Logger().Warn("closing engine", zap.Error(err))
		}
	}()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if buildDir != "" {
		Logger().Info("building Move package", zap.String("dir", buildDir))
		if err := o.opts.Builder.Build(ctx, buildDir, BuildOptions{JSONErrors: o.opts.JSONErrors, Quiet: o.opts.Quiet}); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return errors.IO(errors.PhaseTransform, cfg.OutputDir, err)
	}
	if err := cleanOutputs(cfg.OutputDir); err != nil {
		return err
	}
	if err := checkInputs(cfg.Files); err != nil {
		return err
	}

	Logger().Info("transforming bytecode", zap.Int("files", len(cfg.Files)))
	t := patcher.NewModuleTransformer(eng)

	if o.opts.Parallelism > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.opts.Parallelism)
		for _, f := range cfg.Files {
			g.Go(func() error {
				return transformFile(gctx, t, cfg, f)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	} else {
		for _, f := range cfg.Files {
			if err := transformFile(ctx, t, cfg, f); err != nil {
				return err
			}
		}
	}

	Logger().Info("modified bytecode saved", zap.String("outputDir", cfg.OutputDir))
	return nil
}

// cleanOutputs removes module files left in dir by a previous run.
func cleanOutputs(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.IO(errors.PhaseTransform, dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), OutputExt) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err != nil {
			return errors.IO(errors.PhaseTransform, path, err)
		}
		Logger().Debug("removed stale output", zap.String("file", path))
	}
	return nil
}

func checkInputs(files []config.FileTransform) error {
	for _, f := range files {
		if _, err := os.Stat(f.BytecodeInputFile); err != nil {
			if os.IsNotExist(err) {
				return errors.MissingInput(f.BytecodeInputFile)
			}
			return errors.IO(errors.PhaseTransform, f.BytecodeInputFile, err)
		}
	}
	return nil
}

func transformFile(ctx context.Context, t *patcher.ModuleTransformer, cfg *config.TransformConfig, f config.FileTransform) error {
	Logger().Debug("transforming", zap.String("file", f.BytecodeInputFile))

	data, err := os.ReadFile(f.BytecodeInputFile)
	if err != nil {
		return errors.IO(errors.PhaseTransform, f.BytecodeInputFile, err)
	}

	out, err := t.Transform(ctx, movepatcher.ModuleBinary(data), cfg.Identifiers, f.Constants)
	if err != nil {
		if e, ok := err.(*errors.Error); ok && e.File == "" {
			e.File = f.BytecodeInputFile
		}
		return err
	}

	path := filepath.Join(cfg.OutputDir, filepath.Base(f.BytecodeInputFile))
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errors.IO(errors.PhaseTransform, path, err)
	}
	return nil
}
