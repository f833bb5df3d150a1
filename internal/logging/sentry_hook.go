package logging

import (
	"errors"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// SentryHook forwards error-and-above logrus entries to Sentry.
type SentryHook struct {
	levels []logrus.Level
}

func NewSentryHook(levels []logrus.Level) *SentryHook {
	return &SentryHook{
		levels: levels,
	}
}

func (h *SentryHook) Levels() []logrus.Level {
	return h.levels
}

func (h *SentryHook) Fire(entry *logrus.Entry) error {
	if errVal, ok := entry.Data[logrus.ErrorKey]; ok {
		if err, ok := errVal.(error); ok {
			sentry.CaptureException(err)
			return nil
		}
	}

	switch entry.Level {
	case logrus.PanicLevel, logrus.FatalLevel:
		sentry.CaptureException(errors.New(entry.Message))
	default:
		sentry.CaptureMessage(entry.Message)
	}
	return nil
}
