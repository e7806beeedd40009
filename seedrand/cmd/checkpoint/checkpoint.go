// Package checkpoint implements the generator checkpoint sub-commands.
package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nupic-community/seedrand/common/logging"
	"github.com/nupic-community/seedrand/common/persistent"
	"github.com/nupic-community/seedrand/common/random"
	cmdCommon "github.com/nupic-community/seedrand/seedrand/cmd/common"
	cmdFlags "github.com/nupic-community/seedrand/seedrand/cmd/common/flags"
	"github.com/nupic-community/seedrand/seedrand/cmd/state"
)

var (
	checkpointCmd = &cobra.Command{
		Use:   "checkpoint",
		Short: "generator checkpoint store utilities",
	}

	saveCmd = &cobra.Command{
		Use:   "save <name>",
		Short: "store a generator checkpoint",
		Long: "Store a generator checkpoint under the given name. The generator is\n" +
			"read from --state when given, otherwise created from --seed. An\n" +
			"existing checkpoint is only replaced with --force.",
		Args: cobra.ExactArgs(1),
		Run:  doSave,
	}

	loadCmd = &cobra.Command{
		Use:   "load <name>",
		Short: "write a stored checkpoint as a random-v1 state file",
		Args:  cobra.ExactArgs(1),
		Run:   doLoad,
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "list stored checkpoints",
		Args:  cobra.NoArgs,
		Run:   doList,
	}

	removeCmd = &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "remove a stored checkpoint",
		Args:    cobra.ExactArgs(1),
		Run:     doRemove,
	}

	logger = logging.GetLogger("cmd/checkpoint")
)

// Save stores g under name. An existing checkpoint is only replaced when
// force is set.
func Save(store *persistent.CheckpointStore, name string, g *random.Generator, force bool) error {
	if force {
		return store.Save(name, g)
	}
	if err := store.Create(name, g); err != nil {
		if errors.Is(err, persistent.ErrExists) {
			return fmt.Errorf("checkpoint '%s' exists, use --force to replace it: %w", name, err)
		}
		return err
	}
	return nil
}

// Load writes the checkpoint stored under name to w in the random-v1
// format.
func Load(store *persistent.CheckpointStore, name string, w io.Writer) (*random.Generator, error) {
	g, err := store.Load(name, cmdCommon.GeneratorOptions()...)
	if err != nil {
		return nil, err
	}
	if w != nil {
		if err = g.Serialize(w); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// List writes the names of all stored checkpoints to w, one per line.
func List(store *persistent.CheckpointStore, w io.Writer) error {
	names, err := store.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err = fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

func withStore(ctx context.Context, fn func(*persistent.CheckpointStore) error) {
	if err := cmdCommon.Init(); err != nil {
		cmdCommon.EarlyLogAndExit(err)
	}

	cs, store, err := cmdCommon.OpenCheckpointStore(ctx)
	if err != nil {
		logger.Error("failed to open checkpoint store",
			"err", err,
		)
		cmdCommon.EarlyLogAndExit(err)
	}

	err = fn(store)
	if cerr := persistent.CloseAll(cs); cerr != nil {
		logger.Error("failed to close checkpoint store",
			"err", cerr,
		)
	}
	if err != nil {
		cmdCommon.LogAndExit(logger, "checkpoint operation failed", err)
	}
}

func doSave(cmd *cobra.Command, args []string) {
	withStore(cmd.Context(), func(store *persistent.CheckpointStore) error {
		var (
			g   *random.Generator
			err error
		)
		if path := cmdFlags.StateFile(); path != "" {
			g, err = state.ReadStateFile(path, cmdCommon.GeneratorOptions()...)
		} else {
			g, err = random.New(cmdFlags.Seed(), cmdCommon.GeneratorOptions()...)
		}
		if err != nil {
			return err
		}
		return Save(store, args[0], g, cmdFlags.Force())
	})
}

func doLoad(cmd *cobra.Command, args []string) {
	withStore(cmd.Context(), func(store *persistent.CheckpointStore) error {
		g, err := Load(store, args[0], nil)
		if err != nil {
			return err
		}
		return state.WriteStateFile(cmdFlags.Output(), g)
	})
}

func doList(cmd *cobra.Command, args []string) {
	withStore(cmd.Context(), func(store *persistent.CheckpointStore) error {
		return List(store, os.Stdout)
	})
}

func doRemove(cmd *cobra.Command, args []string) {
	withStore(cmd.Context(), func(store *persistent.CheckpointStore) error {
		return store.Remove(args[0])
	})
}

// Register registers the checkpoint sub-command and all of its children.
func Register(parentCmd *cobra.Command) {
	saveCmd.Flags().AddFlagSet(cmdFlags.SeedFlags)
	saveCmd.Flags().AddFlagSet(cmdFlags.StateFileFlags)
	saveCmd.Flags().AddFlagSet(cmdFlags.ForceFlags)

	loadCmd.Flags().AddFlagSet(cmdFlags.OutputFlags)

	for _, v := range []*cobra.Command{
		saveCmd,
		loadCmd,
		listCmd,
		removeCmd,
	} {
		checkpointCmd.AddCommand(v)
	}

	parentCmd.AddCommand(checkpointCmd)
}
