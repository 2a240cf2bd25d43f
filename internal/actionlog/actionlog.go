// SPDX-License-Identifier: MPL-2.0

// Package actionlog records every command a tarsh user runs as a
// semicolon-separated CSV row: timestamp;user;command;arguments.
package actionlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	// TimeFormat is the layout of the timestamp column.
	TimeFormat = "2006-01-02 15:04:05"
	// NoArgs is written in the arguments column when a command had none.
	NoArgs = "NoArgs"
)

type (
	// Clock supplies the timestamp of each row.
	Clock interface {
		Now() time.Time
	}

	// Logger appends rows to an underlying writer. A nil *Logger discards rows.
	Logger struct {
		mu     sync.Mutex
		w      *csv.Writer
		closer io.Closer
		clock  Clock
	}

	systemClock struct{}
)

func (systemClock) Now() time.Time { return time.Now() }

// New returns a Logger writing to w. A nil clock uses the system time.
func New(w io.Writer, clock Clock) *Logger {
	if clock == nil {
		clock = systemClock{}
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	return &Logger{w: cw, clock: clock}
}

// Open creates or truncates the file at path and returns a Logger writing to it.
// The file is closed by Close.
func Open(path string, clock Clock) (*Logger, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open action log: %w", err)
	}
	l := New(f, clock)
	l.closer = f
	return l, nil
}

// Record appends one row and flushes it. Empty args are written as NoArgs.
func (l *Logger) Record(user, command string, args []string) error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	argText := NoArgs
	if len(args) > 0 {
		argText = strings.Join(args, " ")
	}

	row := []string{l.clock.Now().Format(TimeFormat), user, command, argText}
	if err := l.w.Write(row); err != nil {
		return fmt.Errorf("write action log: %w", err)
	}
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		return fmt.Errorf("flush action log: %w", err)
	}
	return nil
}

// Close flushes pending rows and closes the file opened by Open.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.w.Flush()
	err := l.w.Error()
	if l.closer != nil {
		if closeErr := l.closer.Close(); err == nil {
			err = closeErr
		}
		l.closer = nil
	}
	return err
}
