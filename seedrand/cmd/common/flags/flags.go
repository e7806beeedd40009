// Package flags implements common flags used across multiple commands.
package flags

import (
	"fmt"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// CfgSeed is the flag used to specify a generator seed.
	CfgSeed = "seed"
	// CfgKind is the flag used to select what kind of value to draw.
	CfgKind = "kind"
	// CfgCount is the flag used to specify how many values to produce.
	CfgCount = "count"
	// CfgStateFile is the flag used to specify a random-v1 state file.
	CfgStateFile = "state"
	// CfgOutput is the flag used to specify an output file.
	CfgOutput = "out"
	// CfgFormat is the flag used to select the output format.
	CfgFormat = "format"

	// KindUint32 draws uniform 32-bit integers.
	KindUint32 = "u32"
	// KindUint64 draws uniform 64-bit integers.
	KindUint64 = "u64"
	// KindReal draws uniform reals in [0, 1).
	KindReal = "real"

	// FormatText is the human readable output format.
	FormatText = "text"
	// FormatJSON is the JSON output format.
	FormatJSON = "json"

	cfgVerbose = "verbose"
	cfgForce   = "force"
)

var (
	// VerboseFlags has the verbose flag.
	VerboseFlags = flag.NewFlagSet("", flag.ContinueOnError)
	// ForceFlags has the force flag.
	ForceFlags = flag.NewFlagSet("", flag.ContinueOnError)

	// SeedFlags has the seed flag.
	SeedFlags = flag.NewFlagSet("", flag.ContinueOnError)
	// KindFlags has the draw kind flag.
	KindFlags = flag.NewFlagSet("", flag.ContinueOnError)
	// CountFlags has the count flag.
	CountFlags = flag.NewFlagSet("", flag.ContinueOnError)
	// StateFileFlags has the state file flag.
	StateFileFlags = flag.NewFlagSet("", flag.ContinueOnError)
	// OutputFlags has the output file flag.
	OutputFlags = flag.NewFlagSet("", flag.ContinueOnError)
	// FormatFlags has the output format flag.
	FormatFlags = flag.NewFlagSet("", flag.ContinueOnError)
)

// Verbose returns true iff the verbose flag is set.
func Verbose() bool {
	return viper.GetBool(cfgVerbose)
}

// Force returns true iff the force flag is set.
func Force() bool {
	return viper.GetBool(cfgForce)
}

// Seed returns the requested generator seed (0 selects the zero seed
// policy).
func Seed() uint64 {
	return viper.GetUint64(CfgSeed)
}

// Kind returns the requested draw kind.
func Kind() (string, error) {
	kind := viper.GetString(CfgKind)
	switch kind {
	case KindUint32, KindUint64, KindReal:
		return kind, nil
	default:
		return "", fmt.Errorf("unsupported kind: '%s'", kind)
	}
}

// Count returns the requested count.
func Count() (int, error) {
	count := viper.GetInt(CfgCount)
	if count < 0 {
		return 0, fmt.Errorf("count must not be negative: %d", count)
	}
	return count, nil
}

// StateFile returns the state file path.
func StateFile() string {
	return viper.GetString(CfgStateFile)
}

// Output returns the output file path ("-" is standard output).
func Output() string {
	return viper.GetString(CfgOutput)
}

// Format returns the requested output format.
func Format() (string, error) {
	format := viper.GetString(CfgFormat)
	switch format {
	case FormatText, FormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format: '%s'", format)
	}
}

func init() {
	VerboseFlags.BoolP(cfgVerbose, "v", false, "verbose output (previews upcoming draws)")

	ForceFlags.Bool(cfgForce, false, "replace an existing state file or checkpoint")

	SeedFlags.Uint64(CfgSeed, 0, "generator seed (0 applies the zero seed policy)")
	KindFlags.String(CfgKind, KindUint64, "kind of value to draw (u32, u64, real)")
	CountFlags.IntP(CfgCount, "n", 1, "number of values")
	StateFileFlags.String(CfgStateFile, "", "random-v1 state file")
	OutputFlags.StringP(CfgOutput, "o", "-", "output file (- for stdout)")
	FormatFlags.String(CfgFormat, FormatText, "output format (text, json)")

	for _, v := range []*flag.FlagSet{
		VerboseFlags,
		ForceFlags,
		SeedFlags,
		KindFlags,
		CountFlags,
		StateFileFlags,
		OutputFlags,
		FormatFlags,
	} {
		_ = viper.BindPFlags(v)
	}
}
