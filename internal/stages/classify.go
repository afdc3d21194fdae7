package stages

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"log-analyzer/internal/model"
)

// levelPattern matches level markers in any case. RE2's \b only knows ASCII
// word characters, so word boundaries are checked by wholeWord instead.
var levelPattern = regexp.MustCompile(`(?i)(ERROR|WARNING|INFO)`)

// Classifier counts level markers, optionally restricted to one level.
type Classifier struct {
	filter model.Level
}

// NewClassifier constructs a Classifier. An empty filter counts every level.
func NewClassifier(filter model.Level) *Classifier {
	return &Classifier{filter: model.Level(strings.ToUpper(string(filter)))}
}

// Classify scans content and returns the tally. Levels excluded by the
// filter stay in the tally with a zero count.
func (c *Classifier) Classify(content string) model.LevelTally {
	var tally model.LevelTally
	for _, loc := range levelPattern.FindAllStringIndex(content, -1) {
		if !wholeWord(content, loc[0], loc[1]) {
			continue
		}
		level := model.Level(strings.ToUpper(content[loc[0]:loc[1]]))
		if !c.allows(level) {
			continue
		}
		tally.Add(level)
	}
	return tally
}

func (c *Classifier) allows(level model.Level) bool {
	return c.filter == "" || c.filter == level
}

// wholeWord reports whether s[start:end] is not adjacent to a Unicode word
// character on either side.
func wholeWord(s string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(s[:start]); isWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[end:]); isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// ParseLogLevels is a shorthand for NewClassifier(filter).Classify(content).
func ParseLogLevels(content string, filter model.Level) model.LevelTally {
	return NewClassifier(filter).Classify(content)
}
