package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

func init() {
	// Package-level loggers must never be nil, even in tests that skip InitLogger.
	InfoLogger = newLogger(os.Stdout, logrus.InfoLevel)
	ErrorLogger = newLogger(os.Stderr, logrus.WarnLevel)
}

func InitLogger() {
	InitLoggerWithLevel("")
}

// InitLoggerWithLevel mengatur ulang kedua logger. Level kosong berarti info.
func InitLoggerWithLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	// InfoLogger ke stdout, ErrorLogger ke stderr
	InfoLogger = newLogger(os.Stdout, lvl)
	ErrorLogger = newLogger(os.Stderr, logrus.WarnLevel)
	if lvl > logrus.WarnLevel {
		ErrorLogger.SetLevel(lvl)
	}
}

// SilenceLoggers mengarahkan output logger ke io.Discard (untuk test).
func SilenceLoggers() {
	InfoLogger.SetOutput(io.Discard)
	ErrorLogger.SetOutput(io.Discard)
}

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	l.SetLevel(level)
	return l
}
