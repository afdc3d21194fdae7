package model

import "fmt"

// LevelTally holds the count for each level. One field per level keeps every
// key present in the report, zero or not.
type LevelTally struct {
	Error   int `json:"ERROR"`
	Warning int `json:"WARNING"`
	Info    int `json:"INFO"`
}

// Add increments the count for level. Unknown levels are ignored.
func (t *LevelTally) Add(level Level) {
	switch level {
	case LevelError:
		t.Error++
	case LevelWarning:
		t.Warning++
	case LevelInfo:
		t.Info++
	}
}

// Get returns the count for level.
func (t LevelTally) Get(level Level) int {
	switch level {
	case LevelError:
		return t.Error
	case LevelWarning:
		return t.Warning
	case LevelInfo:
		return t.Info
	}
	return 0
}

// Total returns the number of counted markers.
func (t LevelTally) Total() int {
	return t.Error + t.Warning + t.Info
}

// Map returns the tally keyed by level name.
func (t LevelTally) Map() map[string]int {
	return map[string]int{
		string(LevelError):   t.Error,
		string(LevelWarning): t.Warning,
		string(LevelInfo):    t.Info,
	}
}

func (t LevelTally) String() string {
	return fmt.Sprintf("ERROR: %d, WARNING: %d, INFO: %d", t.Error, t.Warning, t.Info)
}
