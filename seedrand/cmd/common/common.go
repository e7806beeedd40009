// Package common implements common seedrand command options and utilities.
package common

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	cmn "github.com/nupic-community/seedrand/common"
	"github.com/nupic-community/seedrand/common/errors"
	"github.com/nupic-community/seedrand/common/logging"
	"github.com/nupic-community/seedrand/common/metrics"
	"github.com/nupic-community/seedrand/common/persistent"
	"github.com/nupic-community/seedrand/common/random"
	"github.com/nupic-community/seedrand/config"
)

const (
	// CfgConfigFile is the flag used to specify a config file.
	CfgConfigFile = "config"
	// CfgDataDir is the flag used to specify the data directory.
	CfgDataDir = "datadir"
	// CfgZeroSeedPolicy is the flag used to override the zero seed policy.
	CfgZeroSeedPolicy = "random.zero_seed_policy"

	envPrefix = "SEEDRAND"
)

var (
	// RootFlags has the flags that are common across all commands.
	RootFlags = flag.NewFlagSet("", flag.ContinueOnError)

	rootLog = logging.GetLogger("seedrand")
)

// DataDir returns the data directory holding the checkpoint store.
func DataDir() string {
	return config.GlobalConfig.Common.DataDir
}

// InitConfig initializes the command configuration.
//
// WARNING: This is exposed for the benefit of tests and the interface
// is not guaranteed to be stable.
func InitConfig() {
	if err := initConfig(); err != nil {
		EarlyLogAndExit(err)
	}
}

func initConfig() error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile := viper.GetString(CfgConfigFile); cfgFile != "" {
		if err := config.InitConfig(normalizePath(cfgFile)); err != nil {
			return err
		}
	} else {
		config.GlobalConfig = config.DefaultConfig()
	}

	// Command line flags (and the environment) override the config file.
	if viper.IsSet(CfgDataDir) {
		config.GlobalConfig.Common.DataDir = viper.GetString(CfgDataDir)
	}
	if viper.IsSet(CfgZeroSeedPolicy) {
		config.GlobalConfig.Random.ZeroSeedPolicy = viper.GetString(CfgZeroSeedPolicy)
	}
	config.GlobalConfig.Common.DataDir = normalizePath(config.GlobalConfig.Common.DataDir)

	return config.GlobalConfig.Validate()
}

// Init initializes the common environment across all commands.
func Init() error {
	if err := initLogging(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	rootLog.Debug("common initialization complete",
		"data_dir", DataDir(),
		"zero_seed_policy", config.GlobalConfig.Random.ZeroSeedPolicy,
	)

	return nil
}

// EarlyLogAndExit logs the error and exits.
//
// Note: This routine should only be used prior to the logging system
// being initialized.
func EarlyLogAndExit(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// LogAndExit logs a failed operation together with the module and code
// of its error, reports it on stderr and exits.
func LogAndExit(logger *logging.Logger, msg string, err error) {
	module, code := errors.Code(err)
	logger.Error(msg,
		"err", err,
		"module", module,
		"code", code,
	)
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

// GeneratorOptions returns the generator options selected by the
// configuration.
func GeneratorOptions() []random.Option {
	return []random.Option{
		random.WithEntropy(config.GlobalConfig.Random.EntropySource()),
	}
}

// OpenCheckpointStore opens the checkpoint store in the data directory.
// The returned store must be closed by the caller.
func OpenCheckpointStore(ctx context.Context) (*persistent.CommonStore, *persistent.CheckpointStore, error) {
	dataDir := DataDir()
	if dataDir == "" {
		return nil, nil, fmt.Errorf("data directory not configured (use --%s)", CfgDataDir)
	}
	if err := cmn.Mkdir(dataDir); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cs, err := persistent.NewCommonStore(ctx, dataDir, config.GlobalConfig.Checkpoint.Options())
	if err != nil {
		return nil, nil, err
	}
	store, err := persistent.NewCheckpointStore(cs)
	if err != nil {
		_ = cs.Close()
		return nil, nil, err
	}
	return cs, store, nil
}

// PushMetrics pushes the collected metrics when push mode is configured.
// Failures are logged, callers are free to ignore the returned error.
func PushMetrics() error {
	pusher, err := metrics.New(config.GlobalConfig.Metrics, nil)
	if err != nil {
		rootLog.Warn("failed to initialize metrics",
			"err", err,
		)
		return err
	}
	return pusher.Push()
}

func normalizePath(f string) string {
	if f == "" || filepath.IsAbs(f) {
		return f
	}
	if abs, err := filepath.Abs(f); err == nil {
		return abs
	}
	return f
}

func init() {
	initLoggingFlags()

	RootFlags.String(CfgConfigFile, "", "config file")
	RootFlags.String(CfgDataDir, "", "data directory")
	RootFlags.String(CfgZeroSeedPolicy, "", "zero seed policy override (fixed, crypto)")
	_ = viper.BindPFlags(RootFlags)
	RootFlags.AddFlagSet(loggingFlags)
}
