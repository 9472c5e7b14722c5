/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package log

import (
	"log"
	"os"
	"sync"
)

// loggerProviderInstance is logger factory singleton - access only via loggerProvider().
//
//nolint:gochecknoglobals
var (
	loggerProviderInstance Provider
	loggerProviderOnce     sync.Once
)

// Initialize sets new custom logging provider which takes over logging operations.
// It is required to call this function before making any loggings for using custom loggers.
func Initialize(p Provider) {
	loggerProviderOnce.Do(func() {
		loggerProviderInstance = &modlogProvider{p}
		logger := loggerProviderInstance.GetLogger(loggerModule)
		logger.Debugf("Logger provider initialized")
	})
}

func loggerProvider() Provider {
	loggerProviderOnce.Do(func() {
		// A custom logger must be initialized prior to the first log output
		// Otherwise the built-in logger is used
		loggerProviderInstance = &modlogProvider{}
		logger := loggerProviderInstance.GetLogger(loggerModule)
		logger.Debugf(loggerNotInitializedMsg)
	})

	return loggerProviderInstance
}

// modlogProvider is a module based logger provider wrapped on given custom logging provider
// if custom logger provider is not provided, then default logger will be used.
type modlogProvider struct {
	custom Provider
}

// GetLogger returns moduled logger implementation.
func (p *modlogProvider) GetLogger(module string) Logger {
	var logger Logger
	if p.custom != nil {
		logger = p.custom.GetLogger(module)
	} else {
		logger = newDefLog(module)
	}

	return &modLog{logger: logger, module: module}
}

// modLog is a moduled wrapper for any underlying Logger implementation.
// Since this is a moduled wrapper each module can have different logging levels (default is INFO).
type modLog struct {
	logger Logger
	module string
}

// Fatalf calls underlying logger.Fatalf.
func (m *modLog) Fatalf(format string, args ...interface{}) {
	m.logger.Fatalf(format, args...)
}

// Panicf calls underlying logger.Panicf.
func (m *modLog) Panicf(format string, args ...interface{}) {
	m.logger.Panicf(format, args...)
}

// Debugf calls debug log function if DEBUG level enabled.
func (m *modLog) Debugf(format string, args ...interface{}) {
	if !levels.isEnabledFor(m.module, DEBUG) {
		return
	}

	m.logger.Debugf(format, args...)
}

// Infof calls info log function if INFO level enabled.
func (m *modLog) Infof(format string, args ...interface{}) {
	if !levels.isEnabledFor(m.module, INFO) {
		return
	}

	m.logger.Infof(format, args...)
}

// Warnf calls warn log function if WARNING level enabled.
func (m *modLog) Warnf(format string, args ...interface{}) {
	if !levels.isEnabledFor(m.module, WARNING) {
		return
	}

	m.logger.Warnf(format, args...)
}

// Errorf calls error log function if ERROR level enabled.
func (m *modLog) Errorf(format string, args ...interface{}) {
	if !levels.isEnabledFor(m.module, ERROR) {
		return
	}

	m.logger.Errorf(format, args...)
}

// defLog is a default logger implementation backed by the standard library logger.
type defLog struct {
	logger *log.Logger
	module string
}

func newDefLog(module string) *defLog {
	return &defLog{
		logger: log.New(os.Stdout, "["+module+"] ", log.Ldate|log.Ltime|log.LUTC),
		module: module,
	}
}

// Fatalf is CRITICAL log followed by a call to os.Exit(1).
func (l *defLog) Fatalf(format string, args ...interface{}) {
	l.logf(CRITICAL, format, args...)
	os.Exit(1)
}

// Panicf is CRITICAL log followed by a call to panic().
func (l *defLog) Panicf(format string, args ...interface{}) {
	l.logf(CRITICAL, format, args...)
	panic(l.module)
}

// Debugf calls go 'log.Output' and can be used for logging verbose messages.
func (l *defLog) Debugf(format string, args ...interface{}) {
	l.logf(DEBUG, format, args...)
}

// Infof calls go 'log.Output' and can be used for logging general information messages.
func (l *defLog) Infof(format string, args ...interface{}) {
	l.logf(INFO, format, args...)
}

// Warnf calls go 'log.Output' and can be used for logging possible errors.
func (l *defLog) Warnf(format string, args ...interface{}) {
	l.logf(WARNING, format, args...)
}

// Errorf calls go 'log.Output' and can be used for logging errors.
func (l *defLog) Errorf(format string, args ...interface{}) {
	l.logf(ERROR, format, args...)
}

func (l *defLog) logf(level Level, format string, args ...interface{}) {
	l.logger.Printf(ParseString(level)+" "+format, args...)
}
