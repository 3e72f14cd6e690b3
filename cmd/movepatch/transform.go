package main

import (
	"github.com/spf13/cobra"

	"github.com/wippyai/move-patcher/engine"
	"github.com/wippyai/move-patcher/transform"
)

var (
	configFile  string
	buildDir    string
	parallelism int
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Apply a transform config to compiled modules",
	Long: `Reads a transform config, optionally builds the Move package first, and
writes patched copies of every listed module into the config's outputDir.
Existing .mv files in outputDir are removed before the run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		o := transform.New(transform.Options{
			Engine:      engine.Options{WasmPath: engineWasm},
			Parallelism: parallelism,
			JSONErrors:  outputJSON,
			Quiet:       outputQuiet,
		})
		return o.Run(cmd.Context(), configFile, buildDir)
	},
}

func init() {
	transformCmd.Flags().StringVarP(&configFile, "config", "c", "", "transform config file (JSON or YAML)")
	transformCmd.Flags().StringVarP(&buildDir, "build-dir", "b", "", "Move package directory to build before transforming")
	transformCmd.Flags().IntVarP(&parallelism, "parallel", "p", 1, "number of files to transform at once")
	_ = transformCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(transformCmd)
}
