package util

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger carries all framework diagnostics: runtime lifecycle failures,
// OSC server state changes, session snapshot I/O. Binding output (CLI
// responses, the output-change logger) goes to each binding's own
// writer, never here, so a host can silence or reformat diagnostics
// without losing instrument output.
var Logger = logrus.New()

func init() {
	Logger.SetOutput(os.Stderr)
	Logger.SetLevel(logrus.InfoLevel)
	// sub-second timestamps: ticks are milliseconds apart
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
}

// ConfigureLogging applies the host's logging options in one step. An
// empty level keeps the current one; json switches diagnostics to the
// JSON formatter.
func ConfigureLogging(level string, json bool) error {
	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return err
		}
		Logger.SetLevel(lvl)
	}
	if json {
		Logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}
	return nil
}

// SetLogOutput redirects diagnostics, for hosts and tests.
func SetLogOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// WithComponent returns a logger carrying a component's name.
func WithComponent(component string) *logrus.Entry {
	return Logger.WithField("component", component)
}

// WithBinding returns a logger carrying a binding's name.
func WithBinding(binding string) *logrus.Entry {
	return Logger.WithField("binding", binding)
}

// WithPhase returns a logger carrying a component's name and the
// lifecycle phase being executed; the runtime's failure policy reports
// through it.
func WithPhase(component, phase string) *logrus.Entry {
	return Logger.WithFields(logrus.Fields{
		"component": component,
		"phase":     phase,
	})
}
