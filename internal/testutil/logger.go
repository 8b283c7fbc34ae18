// Package testutil provides small shared helpers for package tests.
package testutil

import (
	"testing"

	"github.com/sirupsen/logrus"
)

// SetupTestLogging returns a logrus logger configured to stay quiet
// during tests, surfacing only warnings and above.
func SetupTestLogging(t *testing.T) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}
