package logger

import (
	"io"
	"sync"

	"github.com/gruntwork-io/go-commons/logging"
	"github.com/sirupsen/logrus"
)

const projectName = "cadence"

var (
	once    sync.Once
	project *logrus.Logger
)

func base() *logrus.Logger {
	once.Do(func() {
		project = logging.GetLogger(projectName)
	})
	return project
}

// GetProjectLogger returns an entry on the shared logger. Lines are prefixed with the project name.
func GetProjectLogger() *logrus.Entry {
	return logrus.NewEntry(base())
}

// GetLogger returns the underlying logrus.Logger.
func GetLogger() *logrus.Logger {
	return base()
}

// SetLevel parses and applies a level such as "debug" or "warn".
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	base().SetLevel(lvl)
	return nil
}

// SetOutput redirects all project logging.
func SetOutput(w io.Writer) {
	base().SetOutput(w)
}
