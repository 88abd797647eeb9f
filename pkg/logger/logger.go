package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New создает логгер приложения. В debug режиме пишет читаемый текст, иначе JSON.
func New(logLevel string, debug bool) *logrus.Logger {
	return newWithOutput(os.Stdout, logLevel, debug)
}

func newWithOutput(out io.Writer, logLevel string, debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	if debug {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	}

	// Уровень логирования
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel // Уровень по умолчанию, если передан некорректный
	}
	if debug && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	return log
}
