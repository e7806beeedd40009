package random

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/nupic-community/seedrand/common/prettyprint"
)

var _ prettyprint.PrettyPrinter = (*Generator)(nil)

// PrettyGenerator is a representation of the generator state suitable
// for JSON output.
type PrettyGenerator struct {
	Seed    uint64     `json:"seed"`
	Engine  [2]uint64  `json:"engine"`
	Uint32  [2]uint32  `json:"uint32"`
	Uint64  [2]uint64  `json:"uint64"`
	Real    [2]float64 `json:"real"`
	Preview []uint64   `json:"preview,omitempty"`
}

// PrettyPrint writes a table describing the generator state to w. If the
// context carries prettyprint.ContextKeyPreviewDraws, that many upcoming
// DrawUint64 values are listed as well; the generator itself is not
// advanced.
func (g *Generator) PrettyPrint(ctx context.Context, prefix string, w io.Writer) {
	hi, lo := g.engineState()

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.Append([]string{"version", StreamVersion})
	table.Append([]string{"seed", strconv.FormatUint(g.seed, 10)})
	table.Append([]string{"engine", fmt.Sprintf("pcg %016x%016x", hi, lo)})
	table.Append([]string{"uint32", fmt.Sprintf("[%d, %d]", g.u32.Min, g.u32.Max)})
	table.Append([]string{"uint64", fmt.Sprintf("[%d, %d]", g.u64.Min, g.u64.Max)})
	table.Append([]string{"real", fmt.Sprintf("[%v, %v)", g.real.Min, g.real.Max)})
	for i, v := range g.preview(ctx) {
		table.Append([]string{fmt.Sprintf("next[%d]", i), strconv.FormatUint(v, 10)})
	}
	table.Render()

	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		fmt.Fprintf(w, "%s%s\n", prefix, scanner.Text())
	}
}

// PrettyType returns a representation of the generator that can be used
// for pretty printing.
func (g *Generator) PrettyType() (interface{}, error) {
	s := g.Snapshot()
	return &PrettyGenerator{
		Seed:   s.Seed,
		Engine: s.Engine,
		Uint32: s.Uint32,
		Uint64: s.Uint64,
		Real:   s.Real,
	}, nil
}

func (g *Generator) preview(ctx context.Context) []uint64 {
	n, _ := ctx.Value(prettyprint.ContextKeyPreviewDraws).(int)
	if n <= 0 {
		return nil
	}

	clone := g.Clone()
	values := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		values = append(values, clone.DrawUint64())
	}
	return values
}
