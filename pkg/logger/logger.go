package logger

import (
	"os"

	"github.com/sirupsen/logrus"

	"jobplane/pkg/config"
)

var std = logrus.New()

// Init configures the package-level logger from cfg. Safe to call more than
// once; the last call wins.
func Init(cfg config.LogConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	std.SetLevel(level)
	if cfg.Format == "json" {
		std.SetFormatter(&logrus.JSONFormatter{})
	} else {
		std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	std.SetOutput(os.Stdout)
}

func Infof(format string, args ...interface{}) {
	std.Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	std.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	std.Errorf(format, args...)
}

func Debug(msg string, fields map[string]interface{}) {
	std.WithFields(fields).Debug(msg)
}

func Fatal(msg string) {
	std.Fatal(msg)
}
