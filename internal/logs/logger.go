package logs

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the application-wide logger, configured once by Init.
var Logger = logrus.New()

// Options control level and output format of the application logger.
type Options struct {
	Level  string // debug|info|warn|error
	Format string // text|json
}

// Init configures the global logger from the given options.  Unknown levels
// fall back to info.
func Init(opts Options) {
	switch opts.Level {
	case "debug":
		Logger.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		Logger.SetLevel(logrus.WarnLevel)
	case "error":
		Logger.SetLevel(logrus.ErrorLevel)
	default:
		Logger.SetLevel(logrus.InfoLevel)
	}
	if opts.Format == "json" {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	}
	Logger.SetOutput(os.Stdout)
}
