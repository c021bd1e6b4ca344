package log

import (
	"hostkit/internal/settings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func Setup() (*zap.Logger, error) {
	profile := settings.Profile()
	level := settings.LogLevel()
	logFile := settings.LogFile()

	var zapLevel zapcore.Level
	levelErr := zapLevel.Set(level)
	if levelErr != nil {
		zapLevel = zapcore.WarnLevel
	}

	var cfg zap.Config
	if profile == "prod" || profile == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig = zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.RFC3339TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}
	}

	if logFile != "" {
		cfg.OutputPaths = []string{logFile}
		cfg.ErrorOutputPaths = []string{logFile}
	}

	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.DisableStacktrace = zapLevel > zapcore.DebugLevel

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(logger)

	if levelErr != nil {
		logger.Warn("Invalid log level, falling back to WARN", zap.String("loglevel", level))
	}

	return logger, nil
}
