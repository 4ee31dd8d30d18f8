package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	mu          sync.Mutex
	debugLogger *log.Logger
	logFile     *os.File
)

// InitLogger opens a dated debug log inside dir. The TUI owns the terminal,
// so nothing is ever written to stdout or stderr.
func InitLogger(dir string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(dir, fmt.Sprintf("intelliagent-debug-%s.log", time.Now().Format("2006-01-02")))

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	logFile = f
	debugLogger = log.New(logFile, "", log.LstdFlags|log.Lmicroseconds)
	debugLogger.Printf("=== IntelliAgent Debug Log Started ===")

	return nil
}

func printf(level, format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if debugLogger != nil {
		debugLogger.Printf("["+level+"] "+format, v...)
	}
}

// Debug logs a debug message
func Debug(format string, v ...interface{}) {
	printf("DEBUG", format, v...)
}

// Info logs an info message
func Info(format string, v ...interface{}) {
	printf("INFO", format, v...)
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	printf("ERROR", format, v...)
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		debugLogger.Printf("=== IntelliAgent Debug Log Ended ===")
		logFile.Close()
		logFile = nil
		debugLogger = nil
	}
}
