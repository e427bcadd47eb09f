// Package stdout implements the Logger port on standard output. Entries are
// structured: JSON in production, key=value text locally.
package stdout

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"accessaudit/domain/observability"
)

var levelRank = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
}

type Logger struct {
	fields   map[string]interface{}
	logger   *log.Logger
	minLevel int
	json     bool
}

// NewLogger creates a stdout logger. level filters entries below it; unknown
// levels default to info.
func NewLogger(level string, jsonOutput bool) observability.Logger {
	min, ok := levelRank[strings.ToLower(level)]
	if !ok {
		min = levelRank["info"]
	}
	return &Logger{
		fields:   make(map[string]interface{}),
		logger:   log.New(os.Stdout, "", 0),
		minLevel: min,
		json:     jsonOutput,
	}
}

func (l *Logger) Info(msg string, fields ...interface{})  { l.log("info", msg, fields...) }
func (l *Logger) Error(msg string, fields ...interface{}) { l.log("error", msg, fields...) }
func (l *Logger) Warn(msg string, fields ...interface{})  { l.log("warn", msg, fields...) }
func (l *Logger) Debug(msg string, fields ...interface{}) { l.log("debug", msg, fields...) }

func (l *Logger) WithFields(fields map[string]interface{}) observability.Logger {
	newFields := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}
	return &Logger{
		fields:   newFields,
		logger:   l.logger,
		minLevel: l.minLevel,
		json:     l.json,
	}
}

func (l *Logger) log(level, msg string, fields ...interface{}) {
	if levelRank[level] < l.minLevel {
		return
	}

	entry := make(map[string]interface{})
	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	entry["level"] = strings.ToUpper(level)
	entry["message"] = msg

	for k, v := range l.fields {
		entry[k] = v
	}

	// Variadic fields come as key1, value1, key2, value2, ...
	for i := 0; i < len(fields)-1; i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		if err, ok := fields[i+1].(error); ok && err != nil {
			entry[key] = err.Error()
			continue
		}
		entry[key] = fields[i+1]
	}

	if l.json {
		l.logJSON(entry)
	} else {
		l.logText(entry)
	}
}

func (l *Logger) logJSON(entry map[string]interface{}) {
	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		l.logger.Printf("Failed to marshal log entry: %v", err)
		return
	}
	l.logger.Println(string(jsonBytes))
}

func (l *Logger) logText(entry map[string]interface{}) {
	timestamp := entry["timestamp"]
	level := entry["level"]
	message := entry["message"]
	delete(entry, "timestamp")
	delete(entry, "level")
	delete(entry, "message")

	var fieldStrs []string
	for k, v := range entry {
		fieldStrs = append(fieldStrs, fmt.Sprintf("%s=%v", k, v))
	}

	logLine := fmt.Sprintf("%s [%s] %s", timestamp, level, message)
	if len(fieldStrs) > 0 {
		logLine += " | " + strings.Join(fieldStrs, " ")
	}
	l.logger.Println(logLine)
}
