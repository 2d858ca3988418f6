package logging

import (
	"github.com/Gobusters/ectologger"
	"go.uber.org/zap"
)

// New builds an ectologger backed by a zap core. Pretty output uses the
// development console encoder, otherwise JSON production output.
func New(appName, level string, pretty bool) (ectologger.Logger, func(), error) {
	var (
		zapLogger *zap.Logger
		err       error
	)
	if pretty {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = parseLevel(level)
		zapLogger, err = cfg.Build()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = parseLevel(level)
		zapLogger, err = cfg.Build()
	}
	if err != nil {
		return nil, nil, err
	}

	zapLogger = zapLogger.With(zap.String("app", appName))

	logger := ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		zapLogger.Info(appName, zap.Any("entry", msg))
	})

	flush := func() {
		_ = zapLogger.Sync()
	}
	return logger, flush, nil
}

func parseLevel(level string) zap.AtomicLevel {
	switch level {
	case "debug":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}
