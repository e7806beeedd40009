package state

import (
	"os"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	cmdCommon "github.com/nupic-community/seedrand/seedrand/cmd/common"
	cmdFlags "github.com/nupic-community/seedrand/seedrand/cmd/common/flags"
)

const cfgSkip = "skip"

var (
	drawCmd = &cobra.Command{
		Use:   "draw",
		Short: "draw values from a generator",
		Long: "Draw values from a generator seeded with --seed. With --state the\n" +
			"generator is resumed from (and saved back to) a random-v1 state file.",
		Run: doDraw,
	}

	saveCmd = &cobra.Command{
		Use:   "save",
		Short: "write a random-v1 state file",
		Long: "Write the state of a generator seeded with --seed, after skipping\n" +
			"--skip draws, to --out. An existing file is only replaced with --force.",
		Run: doSave,
	}

	skipFlags = flag.NewFlagSet("", flag.ContinueOnError)
)

func doDraw(cmd *cobra.Command, args []string) {
	if err := cmdCommon.Init(); err != nil {
		cmdCommon.EarlyLogAndExit(err)
	}

	kind, err := cmdFlags.Kind()
	exitOnError("invalid arguments", err)
	count, err := cmdFlags.Count()
	exitOnError("invalid arguments", err)

	statePath := cmdFlags.StateFile()
	g, err := loadOrCreate(statePath, cmdFlags.Seed())
	exitOnError("failed to create generator", err)

	exitOnError("failed to draw", Draw(os.Stdout, g, kind, count))

	if statePath != "" {
		exitOnError("failed to save state", WriteStateFile(statePath, g))
	}
}

func doSave(cmd *cobra.Command, args []string) {
	if err := cmdCommon.Init(); err != nil {
		cmdCommon.EarlyLogAndExit(err)
	}

	kind, err := cmdFlags.Kind()
	exitOnError("invalid arguments", err)
	skip := viper.GetInt(cfgSkip)
	if skip < 0 {
		skip = 0
	}

	g, err := loadOrCreate("", cmdFlags.Seed())
	exitOnError("failed to create generator", err)
	exitOnError("failed to advance generator", Skip(g, kind, skip))

	out := cmdFlags.Output()
	exitOnError("failed to save state", CreateStateFile(out, g, cmdFlags.Force()))

	logger.Info("saved generator state",
		"path", out,
		"seed", g.Seed(),
		"skipped", skip,
	)
}

func init() {
	skipFlags.Int(cfgSkip, 0, "number of draws (of --kind) to skip before saving")
	_ = viper.BindPFlags(skipFlags)
}
