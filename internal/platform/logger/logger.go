package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/platform/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the process logger. JSON goes to stdout and, when a file is
// configured, to a size-rotated file as well.
func New(cfg config.LogConfig) (*logrus.Logger, io.Closer) {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.File == "" {
		log.SetOutput(os.Stdout)
		return log, nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, file))

	return log, file
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
