package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger. Production environments get JSON output
// at info level; development gets console output, and debug turns on debug level.
func New(env string, debug bool) (*zap.Logger, error) {
	conf := zap.NewProductionConfig()
	if env == "development" {
		conf = zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	conf.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if debug {
		conf.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	conf.DisableStacktrace = env != "development"
	conf.EncoderConfig.TimeKey = "ts"
	conf.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return conf.Build(zap.AddCaller())
}

// Must is New that panics on error, for use in main
func Must(env string, debug bool) *zap.Logger {
	l, err := New(env, debug)
	if err != nil {
		panic(err)
	}
	return l
}
