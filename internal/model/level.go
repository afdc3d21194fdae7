package model

import (
	"fmt"
	"strings"
)

// Level is one of the three severity markers the analyzer counts.
type Level string

const (
	LevelError   Level = "ERROR"
	LevelWarning Level = "WARNING"
	LevelInfo    Level = "INFO"
)

// Levels lists every level in report order.
var Levels = []Level{LevelError, LevelWarning, LevelInfo}

// ParseLevel normalizes s to a Level, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToUpper(strings.TrimSpace(s))); l {
	case LevelError, LevelWarning, LevelInfo:
		return l, nil
	default:
		return "", fmt.Errorf("unknown level %q: must be ERROR, WARNING, or INFO", s)
	}
}

// ParseFilter is ParseLevel that treats an empty string as "no filter".
func ParseFilter(s string) (Level, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return ParseLevel(s)
}

func (l Level) String() string { return string(l) }
