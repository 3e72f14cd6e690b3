package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/move-patcher/engine"
	"github.com/wippyai/move-patcher/patcher"
	"github.com/wippyai/move-patcher/transform"
)

var (
	outputJSON  bool
	outputQuiet bool
	verbose     bool
	engineWasm  string
)

var rootCmd = &cobra.Command{
	Use:           "movepatch",
	Short:         "Rename identifiers and patch constants in compiled Move modules",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger(outputJSON, outputQuiet, verbose)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		engine.SetLogger(log.Named("engine"))
		patcher.SetLogger(log.Named("patcher"))
		transform.SetLogger(log)
		return nil
	},
}

// Execute runs the root command with a context cancelled on interrupt and
// exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// newLogger builds the CLI logger: console output by default, JSON lines
// with jsonOut, warnings only when quiet, debug output when verbose.
func newLogger(jsonOut, quiet, verbose bool) (*zap.Logger, error) {
	var cfg zap.Config
	if jsonOut {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.TimeKey = ""
		cfg.EncoderConfig.CallerKey = ""
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}

	switch {
	case verbose:
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case quiet:
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "emit JSON logs and request machine-readable build errors")
	rootCmd.PersistentFlags().BoolVar(&outputQuiet, "quiet", false, "only log warnings and errors; silence build output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
	rootCmd.PersistentFlags().StringVar(&engineWasm, "engine-wasm", "", "path to a WebAssembly engine exporting the movepatcher guest ABI, not a wasm-bindgen build (default: built-in engine)")
}
