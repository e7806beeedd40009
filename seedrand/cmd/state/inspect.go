package state

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goki/go-difflib/difflib"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nupic-community/seedrand/common/prettyprint"
	"github.com/nupic-community/seedrand/common/random"
	cmdCommon "github.com/nupic-community/seedrand/seedrand/cmd/common"
	cmdFlags "github.com/nupic-community/seedrand/seedrand/cmd/common/flags"
)

const (
	cfgPreview = "preview"

	verbosePreview = 8
)

var (
	inspectCmd = &cobra.Command{
		Use:   "inspect <state-file>",
		Short: "pretty-print a random-v1 state file",
		Args:  cobra.ExactArgs(1),
		Run:   doInspect,
	}

	diffCmd = &cobra.Command{
		Use:   "diff <state-file-a> <state-file-b>",
		Short: "compare two random-v1 state files",
		Long: "Compare two random-v1 state files field by field. Exits with status 1\n" +
			"when the generators are not equal.",
		Args: cobra.ExactArgs(2),
		Run:  doDiff,
	}

	previewFlags = flag.NewFlagSet("", flag.ContinueOnError)

	// streamFields names the tokens of a random-v1 stream, in order.
	streamFields = []string{
		"version",
		"seed",
		"engine.hi",
		"engine.lo",
		"uint32.min",
		"uint32.max",
		"uint64.min",
		"uint64.max",
		"real.min",
		"real.max",
		"terminator",
	}
)

// Inspect writes a description of the generator state to w, listing the
// next preview DrawUint64 values without advancing g.
func Inspect(ctx context.Context, w io.Writer, g *random.Generator, format string, preview int) error {
	switch format {
	case cmdFlags.FormatText:
		ctx = context.WithValue(ctx, prettyprint.ContextKeyPreviewDraws, preview)
		g.PrettyPrint(ctx, "", w)
		return nil
	case cmdFlags.FormatJSON:
		pt, err := g.PrettyType()
		if err != nil {
			return err
		}
		pg := pt.(*random.PrettyGenerator)
		clone := g.Clone()
		for i := 0; i < preview; i++ {
			pg.Preview = append(pg.Preview, clone.DrawUint64())
		}

		b, err := cmdCommon.PrettyJSONMarshal(pg)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	default:
		return fmt.Errorf("unsupported format: '%s'", format)
	}
}

// Diff returns a unified diff of the two generator states, one labeled
// stream field per line. The diff is empty iff the generators are equal.
func Diff(a, b *random.Generator, nameA, nameB string) (string, error) {
	if random.Equal(a, b) {
		return "", nil
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        fieldLines(a),
		B:        fieldLines(b),
		FromFile: nameA,
		ToFile:   nameB,
		Context:  len(streamFields),
	})
}

func fieldLines(g *random.Generator) []string {
	tokens := strings.Fields(g.String())
	lines := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		name := fmt.Sprintf("field%d", i)
		if i < len(streamFields) {
			name = streamFields[i]
		}
		lines = append(lines, fmt.Sprintf("%s: %s\n", name, tok))
	}
	return lines
}

// previewCount returns the number of draws to preview. Verbose output
// previews verbosePreview draws unless a count was requested.
func previewCount(preview int, verbose bool) int {
	if preview <= 0 && verbose {
		return verbosePreview
	}
	return preview
}

func doInspect(cmd *cobra.Command, args []string) {
	if err := cmdCommon.Init(); err != nil {
		cmdCommon.EarlyLogAndExit(err)
	}

	format, err := cmdFlags.Format()
	exitOnError("invalid arguments", err)

	g, err := ReadStateFile(args[0], cmdCommon.GeneratorOptions()...)
	exitOnError("failed to load state", err)

	preview := previewCount(viper.GetInt(cfgPreview), cmdFlags.Verbose())
	err = Inspect(cmd.Context(), os.Stdout, g, format, preview)
	exitOnError("failed to inspect state", err)
}

func doDiff(cmd *cobra.Command, args []string) {
	if err := cmdCommon.Init(); err != nil {
		cmdCommon.EarlyLogAndExit(err)
	}

	opts := cmdCommon.GeneratorOptions()
	a, err := ReadStateFile(args[0], opts...)
	exitOnError("failed to load state", err)
	b, err := ReadStateFile(args[1], opts...)
	exitOnError("failed to load state", err)

	diff, err := Diff(a, b, args[0], args[1])
	exitOnError("failed to diff states", err)
	if diff == "" {
		return
	}

	fmt.Print(diff)
	os.Exit(1)
}

func init() {
	previewFlags.Int(cfgPreview, 0, "number of upcoming u64 draws to list")
	_ = viper.BindPFlags(previewFlags)
}
