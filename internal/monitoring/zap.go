package monitoring

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZapLogger builds the production zap logger used by the command line
// tools. verbose lowers the level to debug.
func NewZapLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// UseZap routes Logf to l at info level and Debugf to l at debug level.
// Passing nil mutes both.
func UseZap(l *zap.Logger) {
	if l == nil {
		SetLogger(nil)
		SetDebugLogger(nil)
		return
	}
	sugar := l.WithOptions(zap.AddCallerSkip(1)).Sugar()
	SetLogger(sugar.Infof)
	SetDebugLogger(sugar.Debugf)
}
