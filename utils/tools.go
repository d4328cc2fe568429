package utils

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

func DltLogger(moduleName string) zerolog.Logger {
	return NewLogger(os.Stdout, moduleName)
}

// NewLogger builds the console logger used by every package, tagged with its module name.
func NewLogger(out io.Writer, moduleName string) zerolog.Logger {
	customConsoleWriter := zerolog.ConsoleWriter{Out: out}
	customConsoleWriter.FormatCaller = func(i interface{}) string {
		return "\x1b[36m[DLT-SINK]\x1b[0m"
	}

	logger := zerolog.New(customConsoleWriter).With().Str("module", moduleName).Timestamp().Logger()
	return logger
}

func SetLogLevel(logLevel string) {
	switch strings.ToLower(logLevel) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info", "":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "none":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}
}

func Contains(slice []string, item string) bool {
	for _, elem := range slice {
		if elem == item {
			return true
		}
	}
	return false
}
