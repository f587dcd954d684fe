package trackLog

import (
	"foodgram-backend/services/log"

	"github.com/sirupsen/logrus"
)

// until LogTrackInit runs, messages go to the standard logger only
var logTracker = logrus.NewEntry(logrus.StandardLogger())

func LogTrackInit() {
	var trackerService log.LogService
	temp := trackerService.LoggerInit("tracker")
	logTracker = temp.WithFields(logrus.Fields{"task": "track"})
}

// WithFields returns the tracker entry carrying the given fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return logTracker.WithFields(fields)
}

func Info(message string, needWriteLog bool) {
	if needWriteLog {
		logTracker.Info(message)
		return
	}
	logrus.Info(message)
}

func Warn(message string, needWriteLog bool) {
	if needWriteLog {
		logTracker.Warn(message)
		return
	}
	logrus.Warn(message)
}

func Error(message string, needWriteLog bool) {
	if needWriteLog {
		logTracker.Error(message)
		return
	}
	logrus.Error(message)
}
