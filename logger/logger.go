// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"encoding/json"
	"log"
	"os"
	"time"
)

// Level represents the severity of a log entry.
type Level string

const (
	DEBUG Level = "DEBUG"
	INFO  Level = "INFO"
	WARN  Level = "WARN"
	ERROR Level = "ERROR"
)

var levelRank = map[Level]int{DEBUG: 0, INFO: 1, WARN: 2, ERROR: 3}

// Logger writes structured JSON entries to stdout, one line per entry.
type Logger struct {
	Component string
	min       Level
}

// Entry is the wire shape of one log line.
type Entry struct {
	Timestamp string         `json:"timestamp"`
	Level     Level          `json:"level"`
	Component string         `json:"component"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// New creates a Logger for the given component. The minimum level comes from
// SQLGATE_LOG_LEVEL (DEBUG, INFO, WARN, ERROR); unset or unknown means INFO.
func New(component string) *Logger {
	min := Level(os.Getenv("SQLGATE_LOG_LEVEL"))
	if _, ok := levelRank[min]; !ok {
		min = INFO
	}
	return &Logger{Component: component, min: min}
}

// Log writes one entry if level clears the configured minimum.
func (l *Logger) Log(level Level, message string, fields map[string]any) {
	if levelRank[level] < levelRank[l.min] {
		return
	}

	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Component: l.Component,
		Message:   message,
		Fields:    fields,
	}

	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		// Fall back to plain text rather than dropping the entry.
		log.Printf("ERROR: failed to marshal log entry: %v", err)
		return
	}
	log.Println(string(jsonBytes))
}

// Debug logs a debug message.
func (l *Logger) Debug(message string, fields map[string]any) {
	l.Log(DEBUG, message, fields)
}

// Info logs an informational message.
func (l *Logger) Info(message string, fields map[string]any) {
	l.Log(INFO, message, fields)
}

// Warn logs a warning message.
func (l *Logger) Warn(message string, fields map[string]any) {
	l.Log(WARN, message, fields)
}

// Error logs an error message. A non-nil err is attached as an "error" field.
func (l *Logger) Error(message string, err error, fields map[string]any) {
	if err != nil {
		if fields == nil {
			fields = make(map[string]any)
		}
		fields["error"] = err.Error()
	}
	l.Log(ERROR, message, fields)
}
