// Package logging builds the service logger.
package logging

import (
	"github.com/sirupsen/logrus"
)

// New returns a configured logger. Unknown levels fall back to info;
// format "json" selects the JSON formatter, anything else keeps text.
func New(level, format string) *logrus.Logger {
	log := logrus.New()

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
