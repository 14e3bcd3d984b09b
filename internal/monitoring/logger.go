package monitoring

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Logger is the package-level diagnostic logger. It defaults to the logrus
// standard logger but may be replaced by SetLogger. Tests or production code
// can redirect or mute it.
var Logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		Logger = discard
		return
	}
	Logger = l
}

// Setup configures the logrus standard logger with the given level and output
// and installs it as the package logger. Terminals get full timestamps in a
// compact format.
func Setup(level string, out io.Writer) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	std := logrus.StandardLogger()
	std.SetLevel(lvl)
	std.SetOutput(out)
	std.SetFormatter(&logrus.TextFormatter{})
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		std.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	Logger = std
	return nil
}
