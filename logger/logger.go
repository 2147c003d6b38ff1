// Package logger hands out the shared console logger. Every package grabs
// the same instance, so the log level set by the binary applies globally.
package logger

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

var (
	once sync.Once
	root zerolog.Logger
)

func configure() {
	zerolog.TimeFieldFormat = timeFormat

	out := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: timeFormat,
	}

	root = zerolog.New(out).With().Timestamp().Logger()
}

// GetLoggerConfigured returns the shared logger and pins the global level.
// Only the first caller wins; later calls get the already-configured logger.
func GetLoggerConfigured(level zerolog.Level) *zerolog.Logger {
	once.Do(func() {
		configure()
		zerolog.SetGlobalLevel(level)
	})
	return &root
}

// GetLogger returns the shared logger, configuring it on first use.
func GetLogger() *zerolog.Logger {
	once.Do(configure)
	return &root
}
