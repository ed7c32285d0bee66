package wlclient

import (
	"os"

	"github.com/op/go-logging"
)

var log = setupLogging("wlclient", logging.WARNING)

var logFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{level:.4s} %{module} %{message}`,
)

// setupLogging builds the package logger: stderr backend, level taken from
// WLCLIENT_LOG_LEVEL when set. Set it to DEBUG to trace every request sent
// and event dispatched.
func setupLogging(module string, defaultLevel logging.Level) *logging.Logger {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	logging.SetFormatter(logFormat)
	leveled := logging.AddModuleLevel(backend)
	switch os.Getenv("WLCLIENT_LOG_LEVEL") {
	case "CRITICAL":
		leveled.SetLevel(logging.CRITICAL, module)
	case "ERROR":
		leveled.SetLevel(logging.ERROR, module)
	case "WARNING":
		leveled.SetLevel(logging.WARNING, module)
	case "INFO":
		leveled.SetLevel(logging.INFO, module)
	case "DEBUG":
		leveled.SetLevel(logging.DEBUG, module)
	default:
		leveled.SetLevel(defaultLevel, module)
	}
	logger := logging.MustGetLogger(module)
	logger.SetBackend(leveled)
	return logger
}
