package common

import (
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nupic-community/seedrand/common/logging"
	"github.com/nupic-community/seedrand/config"
)

const (
	cfgLogFile  = "log.file"
	cfgLogFmt   = "log.format"
	cfgLogLevel = "log.level"
	// Custom log levels for modules are not supported by cobra.
	// Use the config file instead.
)

// loggingFlags has the logging flags.
var loggingFlags = flag.NewFlagSet("", flag.ContinueOnError)

func initLogging() error {
	logCfg := config.GlobalConfig.Common.Log

	logFile := logCfg.File
	if viper.IsSet(cfgLogFile) {
		logFile = viper.GetString(cfgLogFile)
	}

	var logLevel logging.Level
	defaultLevel := logCfg.Level["default"]
	if viper.IsSet(cfgLogLevel) {
		defaultLevel = viper.GetString(cfgLogLevel)
	}
	if defaultLevel == "" {
		defaultLevel = "warn"
	}
	if err := logLevel.Set(defaultLevel); err != nil {
		return err
	}

	moduleLevels := map[string]logging.Level{}
	for k, v := range logCfg.Level {
		if k == "default" {
			continue
		}

		lvl, err := logging.ParseLevel(v)
		if err != nil {
			return fmt.Errorf("module '%s': %w", k, err)
		}
		moduleLevels[k] = lvl
	}

	logFmtStr := logCfg.Format
	if viper.IsSet(cfgLogFmt) || logFmtStr == "" {
		logFmtStr = viper.GetString(cfgLogFmt)
	}
	var logFmt logging.Format
	if err := logFmt.Set(logFmtStr); err != nil {
		return err
	}

	var w io.Writer = os.Stderr
	if logFile != "" {
		logFile = normalizePath(logFile)

		var err error
		if w, err = os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600); err != nil {
			return err
		}
	}

	return logging.Initialize(w, logFmt, logLevel, moduleLevels)
}

func initLoggingFlags() {
	logFmt := logging.FmtLogfmt
	logLevel := logging.LevelWarn

	loggingFlags.String(cfgLogFile, "", "log file")
	loggingFlags.Var(&logFmt, cfgLogFmt, "log format")
	loggingFlags.Var(&logLevel, cfgLogLevel, "log level")

	_ = viper.BindPFlags(loggingFlags)
}
