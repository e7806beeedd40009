// Package state implements the generator state file sub-commands.
package state

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	cmn "github.com/nupic-community/seedrand/common"
	"github.com/nupic-community/seedrand/common/logging"
	"github.com/nupic-community/seedrand/common/random"
	cmdCommon "github.com/nupic-community/seedrand/seedrand/cmd/common"
	cmdFlags "github.com/nupic-community/seedrand/seedrand/cmd/common/flags"
)

const stdioPath = "-"

var logger = logging.GetLogger("cmd/state")

// ReadStateFile restores a generator from a random-v1 state file ("-"
// reads standard input).
func ReadStateFile(path string, opts ...random.Option) (*random.Generator, error) {
	var r io.Reader = os.Stdin
	if path != stdioPath {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	g, err := random.Deserialize(bufio.NewReader(r), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file '%s': %w", path, err)
	}
	return g, nil
}

// WriteStateFile writes the generator state to a random-v1 state file
// ("-" writes standard output). Files are replaced atomically.
func WriteStateFile(path string, g *random.Generator) error {
	var buf bytes.Buffer
	if err := g.Serialize(&buf); err != nil {
		return err
	}

	if path == stdioPath {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}

	if err := cmn.WriteFileAtomic(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write state file '%s': %w", path, err)
	}
	return nil
}

// CreateStateFile is WriteStateFile that refuses to replace an existing
// file unless force is set.
func CreateStateFile(path string, g *random.Generator, force bool) error {
	if path != stdioPath && !force {
		switch _, err := os.Stat(path); {
		case err == nil:
			return fmt.Errorf("state file '%s' exists, use --force to replace it: %w", path, os.ErrExist)
		case !errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("failed to check state file '%s': %w", path, err)
		}
	}
	return WriteStateFile(path, g)
}

// Draw writes count values of the given kind drawn from g, one per line.
func Draw(w io.Writer, g *random.Generator, kind string, count int) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < count; i++ {
		var s string
		switch kind {
		case cmdFlags.KindUint32:
			s = strconv.FormatUint(uint64(g.DrawUint32()), 10)
		case cmdFlags.KindUint64:
			s = strconv.FormatUint(g.DrawUint64(), 10)
		case cmdFlags.KindReal:
			s = strconv.FormatFloat(g.DrawReal64(), 'g', -1, 64)
		default:
			return fmt.Errorf("unsupported kind: '%s'", kind)
		}
		if _, err := fmt.Fprintln(bw, s); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Skip advances g by count draws of the given kind.
func Skip(g *random.Generator, kind string, count int) error {
	return Draw(io.Discard, g, kind, count)
}

func loadOrCreate(path string, seed uint64) (*random.Generator, error) {
	opts := cmdCommon.GeneratorOptions()
	if path != "" {
		g, err := ReadStateFile(path, opts...)
		switch {
		case err == nil:
			logger.Debug("resuming from state file",
				"path", path,
				"seed", g.Seed(),
			)
			return g, nil
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}
	return random.New(seed, opts...)
}

func exitOnError(msg string, err error) {
	if err == nil {
		return
	}
	cmdCommon.LogAndExit(logger, msg, err)
}

// Register registers the state sub-commands.
func Register(parentCmd *cobra.Command) {
	drawCmd.Flags().AddFlagSet(cmdFlags.SeedFlags)
	drawCmd.Flags().AddFlagSet(cmdFlags.KindFlags)
	drawCmd.Flags().AddFlagSet(cmdFlags.CountFlags)
	drawCmd.Flags().AddFlagSet(cmdFlags.StateFileFlags)

	saveCmd.Flags().AddFlagSet(cmdFlags.SeedFlags)
	saveCmd.Flags().AddFlagSet(cmdFlags.KindFlags)
	saveCmd.Flags().AddFlagSet(skipFlags)
	saveCmd.Flags().AddFlagSet(cmdFlags.OutputFlags)
	saveCmd.Flags().AddFlagSet(cmdFlags.ForceFlags)

	inspectCmd.Flags().AddFlagSet(cmdFlags.FormatFlags)
	inspectCmd.Flags().AddFlagSet(previewFlags)
	inspectCmd.Flags().AddFlagSet(cmdFlags.VerboseFlags)

	for _, v := range []*cobra.Command{
		drawCmd,
		saveCmd,
		inspectCmd,
		diffCmd,
	} {
		parentCmd.AddCommand(v)
	}
}
