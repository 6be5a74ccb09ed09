/*
Copyright © 2025 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package logging provides centralized logging that adapts to CLI vs
// LSP contexts: pterm output on the command line, window/logMessage
// notifications once an LSP context is attached.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pterm/pterm"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// init configures pterm styles to use foreground colors only (no backgrounds),
// and seeds debug logging from the TSH_LOG environment variable
// (TSH_LOG=debug enables it; anything else leaves it off until a later
// $/setTrace notification turns it on).
func init() {
	pterm.Info = *pterm.Info.WithPrefix(pterm.Prefix{
		Text:  "INFO",
		Style: pterm.NewStyle(pterm.FgBlue),
	}).WithMessageStyle(&pterm.ThemeDefault.DefaultText)

	pterm.Success = *pterm.Success.WithPrefix(pterm.Prefix{
		Text:  "SUCCESS",
		Style: pterm.NewStyle(pterm.FgGreen),
	}).WithMessageStyle(&pterm.ThemeDefault.DefaultText)

	pterm.Warning = *pterm.Warning.WithPrefix(pterm.Prefix{
		Text:  "WARNING",
		Style: pterm.NewStyle(pterm.FgYellow),
	}).WithMessageStyle(&pterm.ThemeDefault.DefaultText)

	pterm.Error = *pterm.Error.WithPrefix(pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.FgRed),
	}).WithMessageStyle(&pterm.ThemeDefault.DefaultText)

	pterm.Debug = *pterm.Debug.WithPrefix(pterm.Prefix{
		Text:  "DEBUG",
		Style: pterm.NewStyle(pterm.FgCyan),
	}).WithMessageStyle(&pterm.ThemeDefault.DefaultText)

	globalLogger.SetDebugEnabled(strings.EqualFold(os.Getenv("TSH_LOG"), "debug"))
}

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

// Logger provides centralized logging that adapts to CLI vs LSP contexts
type Logger struct {
	mu           sync.RWMutex
	mode         LoggerMode
	lspContext   *glsp.Context
	debugEnabled bool
}

// LoggerMode determines how logs are output
type LoggerMode int

const (
	// ModeCLI uses pterm for colorized CLI output
	ModeCLI LoggerMode = iota
	// ModeLSP uses LSP protocol messages (window/logMessage)
	ModeLSP
)

// Global logger instance
var globalLogger = &Logger{mode: ModeCLI}

// SetLSPContext sets the LSP context for LSP mode logging
func (l *Logger) SetLSPContext(context *glsp.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lspContext = context
	l.mode = ModeLSP
}

// SetDebugEnabled controls whether debug messages are shown
func (l *Logger) SetDebugEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debugEnabled = enabled
}

// Debug logs a debug message (only shown if debug is enabled)
func (l *Logger) Debug(format string, args ...any) {
	l.log(LogLevelDebug, format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...any) {
	l.log(LogLevelInfo, format, args...)
}

// log is the internal logging implementation
func (l *Logger) log(level LogLevel, format string, args ...any) {
	l.mu.RLock()
	mode := l.mode
	lspContext := l.lspContext
	debugEnabled := l.debugEnabled
	l.mu.RUnlock()

	if level == LogLevelDebug && !debugEnabled {
		return
	}

	message := fmt.Sprintf(format, args...)

	switch mode {
	case ModeCLI:
		l.logCLI(level, message)
	case ModeLSP:
		l.logLSP(level, message, lspContext)
	}
}

// logCLI handles CLI-mode logging using pterm
func (l *Logger) logCLI(level LogLevel, message string) {
	switch level {
	case LogLevelDebug:
		pterm.Debug.Println(message)
	case LogLevelInfo:
		pterm.Info.Println(message)
	}
}

// logLSP handles LSP-mode logging using window/logMessage
func (l *Logger) logLSP(level LogLevel, message string, context *glsp.Context) {
	if context == nil {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", level.String(), message)
		return
	}

	messageType := protocol.MessageTypeInfo
	if level == LogLevelDebug {
		messageType = protocol.MessageTypeLog
	}

	go func() {
		context.Notify(protocol.ServerWindowLogMessage, &protocol.LogMessageParams{
			Type:    messageType,
			Message: message,
		})
	}()
}

// Convenience functions for global logger
func Debug(format string, args ...any) {
	globalLogger.Debug(format, args...)
}

func Info(format string, args ...any) {
	globalLogger.Info(format, args...)
}

func SetLSPContext(context *glsp.Context) {
	globalLogger.SetLSPContext(context)
}

// SetDebugEnabled toggles debug-level output at runtime, driven by the
// $/setTrace notification (see server.setTrace).
func SetDebugEnabled(enabled bool) {
	globalLogger.SetDebugEnabled(enabled)
}
