/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package log

import (
	"fmt"
	"strings"
	"sync"
)

// Level defines all available log levels for logging messages.
type Level int

// Log levels.
const (
	CRITICAL Level = iota
	ERROR
	WARNING
	INFO
	DEBUG
)

var levelNames = []string{"CRITICAL", "ERROR", "WARNING", "INFO", "DEBUG"}

// ParseLevel returns the log level from a string representation.
func ParseLevel(level string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(name, level) {
			return Level(i), nil
		}
	}

	return ERROR, fmt.Errorf("invalid log level: %s", level)
}

// ParseString returns string representation of given log level.
func ParseString(level Level) string {
	return levelNames[level]
}

// moduleLevels maintains log levels based on modules.
type moduleLevels struct {
	levels map[string]Level
	mu     sync.RWMutex
}

// levels is the module level registry singleton.
//
//nolint:gochecknoglobals
var levels = &moduleLevels{levels: make(map[string]Level)}

func (l *moduleLevels) setLevel(module string, level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.levels[module] = level
}

// getLevel returns the log level for given module, INFO if not set.
func (l *moduleLevels) getLevel(module string) Level {
	l.mu.RLock()
	defer l.mu.RUnlock()

	level, exists := l.levels[module]
	if !exists {
		level, exists = l.levels[""]
		// no configuration exists, default to info
		if !exists {
			return INFO
		}
	}

	return level
}

func (l *moduleLevels) isEnabledFor(module string, level Level) bool {
	return level <= l.getLevel(module)
}
