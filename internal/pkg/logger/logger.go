package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// StdLogger routes the application's structured logs to logrus.
type StdLogger struct {
	entry *logrus.Entry
}

// NewStd creates a StdLogger writing to stderr. Verbose enables debug output,
// otherwise only warnings and errors are printed.
func NewStd(verbose bool) *StdLogger {
	return New(os.Stderr, verbose)
}

// New creates a StdLogger writing text records to out.
func New(out io.Writer, verbose bool) *StdLogger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		DisableSorting:   false,
		QuoteEmptyFields: true,
	})
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.WarnLevel)
	}
	return &StdLogger{entry: logrus.NewEntry(l)}
}

// With returns a logger that attaches fields to every record.
func (l *StdLogger) With(fields map[string]interface{}) *StdLogger {
	return &StdLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(msg)
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Info(msg)
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Warn(msg)
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).WithError(err).Error(msg)
}
