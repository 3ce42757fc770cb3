// Package logging holds the diagnostic logger shared by all packages.
package logging

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/derekg/setproctitle/internal/config"
	"github.com/derekg/setproctitle/internal/security"
)

// Global diagnostic logger instance
var (
	mu      sync.RWMutex
	logger  = zap.NewNop()
	logFile *os.File
	initOne sync.Once
)

// Init configures the diagnostic logger from settings. Only the first call
// has an effect; diagnostics are off unless settings.Debug is set.
func Init(settings config.Settings) {
	initOne.Do(func() {
		l, f, err := build(settings)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s failed to initialize diagnostic log: %v\n", config.DebugPrefix, err)
			return
		}
		Replace(l)
		mu.Lock()
		logFile = f
		mu.Unlock()
	})
}

func build(settings config.Settings) (*zap.Logger, *os.File, error) {
	if !settings.Debug {
		return zap.NewNop(), nil, nil
	}

	var (
		sink zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
		f    *os.File
	)
	if settings.DebugLog != "" {
		if err := security.ValidateLogPath(settings.DebugLog); err != nil {
			return nil, nil, err
		}
		var err error
		f, err = security.CreateSecureFileForAppend(settings.DebugLog, config.DebugLogPermissions)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open %s: %w", settings.DebugLog, err)
		}
		sink = zapcore.AddSync(f)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.ConsoleSeparator = " "
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, zapcore.DebugLevel)

	return zap.New(core).Named(config.DebugPrefix).With(zap.Int("pid", os.Getpid())), f, nil
}

// L returns the current diagnostic logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Replace swaps the diagnostic logger and returns a function restoring the
// previous one. A nil logger installs a no-op logger.
func Replace(l *zap.Logger) func() {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	prev := logger
	logger = l
	mu.Unlock()
	return func() { Replace(prev) }
}

// Close flushes the diagnostic logger and closes its log file, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	_ = logger.Sync()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
