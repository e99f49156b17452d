package errors

import (
	"log/slog"
	"sync"

	"brewboxes/internal/ui"
)

// The default handler is created on first use. A failure to open the log
// file is remembered, so every later call reports the same error.
var (
	defaultHandler    *ErrorHandler
	defaultHandlerErr error
	once              sync.Once
)

func GetDefaultHandler() (*ErrorHandler, error) {
	once.Do(func() {
		defaultHandler, defaultHandlerErr = NewErrorHandler()
	})
	return defaultHandler, defaultHandlerErr
}

// HandleError reports err on the console and in the log file. Without a log
// file the error still reaches the console and the process logger.
func HandleError(err error) {
	handler, handlerErr := GetDefaultHandler()
	if handlerErr != nil || handler == nil {
		slog.Warn("Error log file unavailable", "error", handlerErr)
		handler = consoleHandler(ui.NewConsole())
	}
	handler.Handle(err)
}

// consoleHandler reports to console and logs through the process logger.
func consoleHandler(console *ui.Console) *ErrorHandler {
	return &ErrorHandler{logger: slog.Default(), console: console}
}

// resetDefaultHandler resets the singleton for testing purposes
func resetDefaultHandler() {
	defaultHandler = nil
	defaultHandlerErr = nil
	once = sync.Once{}
}
