package unity

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher decides which files leave the project and which stay out of
// aggregates.
type Matcher interface {
	// Ignored reports whether path must be dropped from the project.
	Ignored(path string) bool
	// SkipPattern returns the skip substring path contains, if any.
	SkipPattern(path string) (string, bool)
}

// PatternMatcher tests paths against one ignore regex and a list of literal
// skip substrings.
type PatternMatcher struct {
	ignore *regexp.Regexp // nil when no ignore pattern is configured
	skips  []string
}

// NewMatcher compiles ignoreRegex and splits skipList at commas. An empty
// regex never matches. Surrounding blanks of skip entries are trimmed and
// empty entries dropped.
func NewMatcher(ignoreRegex, skipList string) (*PatternMatcher, error) {
	m := &PatternMatcher{}
	if ignoreRegex != "" {
		re, err := regexp.Compile(ignoreRegex)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidIgnorePattern, ignoreRegex, err)
		}
		m.ignore = re
	}
	for _, s := range strings.Split(skipList, ",") {
		if s = strings.TrimSpace(s); s != "" {
			m.skips = append(m.skips, s)
		}
	}
	return m, nil
}

// Ignored implements Matcher.
func (m *PatternMatcher) Ignored(path string) bool {
	return m.ignore != nil && m.ignore.MatchString(path)
}

// SkipPattern implements Matcher.
func (m *PatternMatcher) SkipPattern(path string) (string, bool) {
	for _, s := range m.skips {
		if strings.Contains(path, s) {
			return s, true
		}
	}
	return "", false
}

// Skips returns the parsed skip substrings.
func (m *PatternMatcher) Skips() []string {
	return append([]string(nil), m.skips...)
}
