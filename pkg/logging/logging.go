// Package logging builds the zap logger shared by every projgen command.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// Logger is the global logger instance.
var Logger = zap.NewNop()

// Setup builds the logger: development settings with debug, production
// settings otherwise. Output goes to stderr, console encoded when stderr is a
// terminal. The result replaces Logger and the zap globals.
func Setup(debug bool, appName, appVersion string) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		if IsTerminal(os.Stderr) {
			cfg.Encoding = "console"
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
			cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		}
	}
	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": appVersion,
	}

	logger, err := cfg.Build()
	if err != nil {
		Logger = zap.NewExample()
		return Logger, err
	}
	Logger = logger
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// IsRegularFile reports whether f is a regular file.
func IsRegularFile(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Sync flushes logger when stderr can be synced. Terminals and pipes report
// "invalid argument" on sync; that error is dropped.
func Sync(logger *zap.Logger) error {
	if !IsTerminal(os.Stderr) && !IsRegularFile(os.Stderr) {
		return nil
	}
	if err := logger.Sync(); err != nil && !strings.Contains(strings.ToLower(err.Error()), "invalid argument") {
		return err
	}
	return nil
}
