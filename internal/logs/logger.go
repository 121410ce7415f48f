// Package logs holds the process-wide debug logger.
package logs

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const (
	prefix  = "[kanban] "
	logName = "debug.log"
)

// Logger is never reassigned. Initialize and Close only swap its output,
// so commands still logging from other goroutines stay safe.
var Logger = log.New(io.Discard, prefix, log.LstdFlags|log.Lshortfile)

var (
	logFile *os.File
	mu      sync.Mutex
)

// Initialize points the logger at debug.log inside logDir.
// Until then output is discarded, so the CLI never litters the working directory.
func Initialize(logDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if logDir == "" {
		return nil
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	logPath := filepath.Join(logDir, logName)
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	Logger.SetOutput(f)
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	Logger.Printf("Logging to %s", logPath)

	return nil
}

// Close closes the log file and reverts to discarding output.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return nil
	}
	Logger.SetOutput(io.Discard)
	err := logFile.Close()
	logFile = nil
	return err
}
