package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

const serviceName = "tripmate"

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// Tests and tools that never call Init still get a usable logger.
func init() {
	Init("info", false)
}

func Init(level string, json bool) {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)

	if json {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	Log = logger.WithFields(logrus.Fields{"service": serviceName})
}

// Logger exposes the underlying logger, mostly so tests can redirect output.
func Logger() *logrus.Logger {
	return logger
}
