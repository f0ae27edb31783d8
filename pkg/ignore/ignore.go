// Package ignore implements the gitignore-style rules read from
// .projgenignore files while scanning source directories.
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// FileName is the per-directory ignore file the scanner looks for.
const FileName = ".projgenignore"

// Pattern is one compiled rule.
type Pattern struct {
	Regexp *regexp.Regexp // Compiled regular expression for the pattern.
	Negate bool           // Rule started with '!'.
	Line   string         // Original pattern line.
	LineNo int            // Line number in the source (1-based).
}

// Rules is an ordered list of patterns; later rules win.
type Rules struct {
	Patterns []*Pattern
	logger   *zap.Logger
}

// New returns an empty rule set.
func New(logger *zap.Logger) *Rules {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rules{logger: logger}
}

// Load reads the ignore file at path on fs. A missing file yields an empty
// rule set.
func Load(fs afero.Fs, path string, logger *zap.Logger) (*Rules, error) {
	r := New(logger)
	if err := r.CompileFile(fs, path); err != nil {
		return nil, err
	}
	return r, nil
}

// CompileLines adds rules from lines. Blank lines and comments are skipped.
func (r *Rules) CompileLines(lines ...string) {
	for i, line := range lines {
		re, negate := parsePatternLine(line)
		if re == nil {
			continue
		}
		r.Patterns = append(r.Patterns, &Pattern{
			Regexp: re,
			Negate: negate,
			Line:   line,
			LineNo: i + 1,
		})
	}
}

// CompileFile adds the rules found in the file at path.
func (r *Rules) CompileFile(fs afero.Fs, path string) error {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Debug("Ignore file does not exist and will be skipped", zap.String("filePath", path))
			return nil
		}
		return fmt.Errorf("failed to read ignore file %s: %w", path, err)
	}

	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	before := len(r.Patterns)
	r.CompileLines(lines...)
	r.logger.Debug("Compiled ignore patterns",
		zap.String("filePath", path),
		zap.Int("patternCount", len(r.Patterns)-before))
	return nil
}

// MatchesPath reports whether the slash-separated relative path is ignored.
func (r *Rules) MatchesPath(path string) bool {
	matches, _ := r.MatchesPathWithPattern(path)
	return matches
}

// MatchesPathWithPattern also returns the deciding rule, if any.
func (r *Rules) MatchesPathWithPattern(path string) (bool, *Pattern) {
	normalized := filepath.ToSlash(path)

	var matched *Pattern
	ignored := false
	for _, p := range r.Patterns {
		if p.Regexp.MatchString(normalized) {
			matched = p
			ignored = !p.Negate
		}
	}
	return ignored, matched
}

// parsePatternLine turns one ignore line into a regex and a negation flag.
// It returns nil for blank lines, comments and lines that fail to compile.
func parsePatternLine(line string) (*regexp.Regexp, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, false
	}

	negate := false
	if strings.HasPrefix(trimmed, "!") {
		negate = true
		trimmed = strings.TrimPrefix(trimmed, "!")
	}
	if strings.HasPrefix(trimmed, `\#`) || strings.HasPrefix(trimmed, `\!`) {
		trimmed = trimmed[1:]
	}

	rooted := strings.HasPrefix(trimmed, "/")
	dirOnly := strings.HasSuffix(trimmed, "/")
	body := strings.TrimSuffix(strings.TrimPrefix(trimmed, "/"), "/")

	expr := escapeSpecialChars(body)
	expr = handleDoubleStarPatterns(expr)
	expr = wildcardToRegex(expr)

	if dirOnly {
		expr += "/.*$"
	} else {
		expr += "(/.*)?$"
	}
	if rooted {
		expr = "^" + expr
	} else {
		expr = "^(.*/)?" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, false
	}
	return re, negate
}
