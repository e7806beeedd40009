// Package derive implements the seed derivation sub-command.
package derive

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nupic-community/seedrand/common/logging"
	"github.com/nupic-community/seedrand/common/random"
	"github.com/nupic-community/seedrand/config"
	cmdCommon "github.com/nupic-community/seedrand/seedrand/cmd/common"
	cmdFlags "github.com/nupic-community/seedrand/seedrand/cmd/common/flags"
)

const cfgRoot = "root"

var (
	deriveCmd = &cobra.Command{
		Use:   "derive",
		Short: "derive independent seeds from a root seed",
		Run:   doDerive,
	}

	rootFlags = flag.NewFlagSet("", flag.ContinueOnError)

	logger = logging.GetLogger("cmd/derive")
)

// RootSeed returns the root seed to derive from: the --root flag, else
// the configured random.root_seed (0 applies the zero seed policy).
func RootSeed() uint64 {
	if viper.IsSet(cfgRoot) {
		return viper.GetUint64(cfgRoot)
	}
	return config.GlobalConfig.Random.RootSeed
}

// Seeds derives count seeds from d.
func Seeds(d *random.Deriver, count int) []uint64 {
	seeds := make([]uint64, 0, count)
	for i := 0; i < count; i++ {
		seeds = append(seeds, d.DeriveSeed())
	}
	return seeds
}

// Write writes the seeds to w in the given format.
func Write(w io.Writer, seeds []uint64, format string) error {
	switch format {
	case cmdFlags.FormatText:
		for _, s := range seeds {
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
		}
		return nil
	case cmdFlags.FormatJSON:
		if seeds == nil {
			seeds = []uint64{}
		}
		b, err := cmdCommon.PrettyJSONMarshal(seeds)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	default:
		return fmt.Errorf("unsupported format: '%s'", format)
	}
}

func doDerive(cmd *cobra.Command, args []string) {
	if err := cmdCommon.Init(); err != nil {
		cmdCommon.EarlyLogAndExit(err)
	}

	count, err := cmdFlags.Count()
	if err != nil {
		cmdCommon.EarlyLogAndExit(err)
	}
	format, err := cmdFlags.Format()
	if err != nil {
		cmdCommon.EarlyLogAndExit(err)
	}

	d, err := random.NewDeriverFromSeed(RootSeed(), cmdCommon.GeneratorOptions()...)
	if err != nil {
		cmdCommon.LogAndExit(logger, "failed to create deriver", err)
	}

	if err = Write(os.Stdout, Seeds(d, count), format); err != nil {
		cmdCommon.LogAndExit(logger, "failed to write seeds", err)
	}
}

// Register registers the derive sub-command.
func Register(parentCmd *cobra.Command) {
	deriveCmd.Flags().AddFlagSet(rootFlags)
	deriveCmd.Flags().AddFlagSet(cmdFlags.CountFlags)
	deriveCmd.Flags().AddFlagSet(cmdFlags.FormatFlags)

	parentCmd.AddCommand(deriveCmd)
}

func init() {
	rootFlags.Uint64(cfgRoot, 0, "root seed (defaults to random.root_seed)")
	_ = viper.BindPFlags(rootFlags)
}
