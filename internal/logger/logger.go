package logger

import (
	"context"
	"time"

	"github.com/yanun0323/logs"
)

// Logger mirrors messages to the console and appends them to a durable
// store. A nil *Logger is safe to use; it only mirrors to the console.
type Logger struct {
	store *Store
}

// New creates a Logger over the given store. A nil store is allowed
// and yields a console-only logger.
func New(store *Store) *Logger {
	return &Logger{store: store}
}

// Open creates a Logger over a SQLite store at path.
func Open(path string) (*Logger, error) {
	store, err := OpenStore(path)
	if err != nil {
		return nil, err
	}

	return New(store), nil
}

// Log mirrors message to the console at info level and appends one row
// to the store. The console mirror happens even when the store write
// fails, so the caller can retry the append without losing visibility.
func (l *Logger) Log(message string) error {
	logs.Info(message)
	return l.append(message)
}

// Error mirrors message at error level and appends one row.
func (l *Logger) Error(message string) error {
	logs.Error(message)
	return l.append(message)
}

// FetchAll returns every stored entry, newest first.
func (l *Logger) FetchAll(ctx context.Context) ([]LogEntry, error) {
	if l == nil {
		return nil, nil
	}

	return l.store.FetchAll(ctx)
}

// Close releases the underlying store.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}

	return l.store.Close()
}

func (l *Logger) append(message string) error {
	if l == nil || l.store == nil {
		return nil
	}

	return l.store.Append(LogEntry{
		Timestamp: time.Now().UTC(),
		Message:   message,
	})
}
