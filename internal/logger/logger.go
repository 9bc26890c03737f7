package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

const maxBufferSize = 1000

var (
	instance *Logger
	once     sync.Once
	initMu   sync.Mutex
)

type LogEntry struct {
	Timestamp time.Time
	Message   string
}

func (e LogEntry) String() string {
	return fmt.Sprintf("%s %s", e.Timestamp.Format("15:04:05"), e.Message)
}

// Logger keeps the most recent entries in memory for the logs view and,
// when a file sink is configured, appends every entry to it.
type Logger struct {
	file    *os.File
	logger  *log.Logger
	mu      sync.Mutex
	buffer  []LogEntry
	enabled bool
	secrets []string
}

func Init(logPath string) error {
	var initErr error
	once.Do(func() {
		if strings.TrimSpace(logPath) == "" {
			return
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			initErr = fmt.Errorf("failed to open log file: %w", err)
			return
		}

		initMu.Lock()
		instance = &Logger{
			file:    file,
			logger:  log.New(file, "", log.LstdFlags),
			buffer:  make([]LogEntry, 0, maxBufferSize),
			enabled: true,
		}
		initMu.Unlock()
	})

	EnsureInit()
	return initErr
}

func EnsureInit() {
	initMu.Lock()
	defer initMu.Unlock()
	if instance == nil {
		instance = &Logger{
			buffer: make([]LogEntry, 0, maxBufferSize),
		}
	}
}

func Close() error {
	if instance != nil && instance.file != nil {
		return instance.file.Close()
	}
	return nil
}

// AddSecret registers a value that must never reach the log output.
// Personal access tokens are registered here when a provider is saved.
func AddSecret(secret string) {
	secret = strings.TrimSpace(secret)
	if len(secret) < 4 {
		return
	}
	EnsureInit()
	instance.mu.Lock()
	defer instance.mu.Unlock()
	for _, existing := range instance.secrets {
		if existing == secret {
			return
		}
	}
	instance.secrets = append(instance.secrets, secret)
}

func record(message string) {
	EnsureInit()
	instance.mu.Lock()
	defer instance.mu.Unlock()

	for _, secret := range instance.secrets {
		message = strings.ReplaceAll(message, secret, "[REDACTED]")
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Message:   message,
	}
	if len(instance.buffer) >= maxBufferSize {
		instance.buffer = instance.buffer[1:]
	}
	instance.buffer = append(instance.buffer, entry)

	if instance.enabled && instance.logger != nil {
		instance.logger.Println(message)
	}
}

func GetLogs() []LogEntry {
	EnsureInit()
	instance.mu.Lock()
	defer instance.mu.Unlock()

	logs := make([]LogEntry, len(instance.buffer))
	copy(logs, instance.buffer)
	return logs
}

func LogFileOpen(path string) {
	record(fmt.Sprintf("[FILE_OPEN] %s", path))
}

func LogFileWrite(path string) {
	record(fmt.Sprintf("[FILE_WRITE] %s", path))
}

func LogError(operation, path string, err error) {
	record(fmt.Sprintf("[ERROR] %s: %s - %v", operation, path, err))
}

// LogSync records one phase of a provider sync attempt.
func LogSync(provider, attemptID, phase string, args ...interface{}) {
	record(fmt.Sprintf("[SYNC] %s %s "+phase, append([]interface{}{provider, shortID(attemptID)}, args...)...))
}

func Log(message string, args ...interface{}) {
	record(fmt.Sprintf("[INFO] "+message, args...))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
