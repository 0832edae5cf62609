package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SetupSimpleLogger builds a development console logger writing to stderr at the given level and
// installs it as the zap global logger.
func SetupSimpleLogger(level zapcore.Level) *zap.Logger {
	ec := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(os.Stderr), zap.NewAtomicLevelAt(level))
	logger := zap.New(core)
	zap.ReplaceGlobals(logger)
	return logger
}
