// Package cmd implements the commands for the seedrand executable.
package cmd

import (
	"context"
	"os"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nupic-community/seedrand/common/random"
	"github.com/nupic-community/seedrand/common/version"
	"github.com/nupic-community/seedrand/seedrand/cmd/checkpoint"
	cmdCommon "github.com/nupic-community/seedrand/seedrand/cmd/common"
	"github.com/nupic-community/seedrand/seedrand/cmd/derive"
	"github.com/nupic-community/seedrand/seedrand/cmd/state"
)

var rootCmd = &cobra.Command{
	Use:     "seedrand",
	Short:   "Seeded random generator utilities",
	Version: version.SoftwareVersion,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = cmdCommon.PushMetrics()
	},
}

// RootCommand returns the root (top level) cobra.Command.
func RootCommand() *cobra.Command {
	return rootCmd
}

// Execute spawns the main entry point after handling the config file
// and command line arguments.
func Execute() {
	// Only the owner should have read/write permissions for anything
	// created by the seedrand binary.
	syscall.Umask(0o077)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func initVersions() {
	cobra.AddTemplateFunc("seedrandVersion", func() interface{} { return version.Versions })
	cobra.AddTemplateFunc("streamTag", func() interface{} { return random.StreamVersion })

	rootCmd.SetVersionTemplate(`Software version: {{.Version}}
{{- with seedrandVersion }}
State formats:
  Stream format version:   {{ .StreamFormat }} ({{ streamTag }})
  Snapshot format version: {{ .SnapshotFormat }}
Go toolchain version: {{ .Toolchain }}
{{ end -}}
`)
}

func init() {
	cobra.OnInitialize(cmdCommon.InitConfig)
	initVersions()

	rootCmd.PersistentFlags().AddFlagSet(cmdCommon.RootFlags)

	// Register all of the sub-commands.
	for _, v := range []func(*cobra.Command){
		state.Register,
		derive.Register,
		checkpoint.Register,
	} {
		v(rootCmd)
	}
}
