package ignore

import (
	"regexp"
	"strings"
)

// Precompiled regular expressions used in pattern parsing.
var (
	doubleStarMiddle   = regexp.MustCompile(`/\*\*/`)
	doubleStarTrailing = regexp.MustCompile(`/\*\*$`)
	doubleStarLeading  = regexp.MustCompile(`^\*\*/`)
	singleStar         = regexp.MustCompile(`\*`)
)

// placeholders keep the '**' expansions away from the single star pass.
const (
	anyDirs  = "\x00D\x00"
	anyTail  = "\x00T\x00"
	anyLead  = "\x00L\x00"
	anyChars = "\x00S\x00"
)

// escapeSpecialChars escapes regex special characters except for '*', '?' and '/'.
func escapeSpecialChars(pattern string) string {
	for _, char := range `\.+()|^$[]{}` {
		pattern = strings.ReplaceAll(pattern, string(char), `\`+string(char))
	}
	return pattern
}

// handleDoubleStarPatterns replaces '**' forms with placeholders.
func handleDoubleStarPatterns(pattern string) string {
	pattern = doubleStarMiddle.ReplaceAllString(pattern, anyDirs)
	pattern = doubleStarTrailing.ReplaceAllString(pattern, anyTail)
	pattern = doubleStarLeading.ReplaceAllString(pattern, anyLead)
	pattern = strings.ReplaceAll(pattern, "**", anyChars)
	return pattern
}

// wildcardToRegex converts '*' and '?' and then expands the placeholders.
func wildcardToRegex(pattern string) string {
	pattern = singleStar.ReplaceAllString(pattern, `[^/]*`)
	pattern = strings.ReplaceAll(pattern, "?", "[^/]")
	return strings.NewReplacer(
		anyDirs, `(/|/.+/)`,
		anyTail, `(/.*)?`,
		anyLead, `(.*/)?`,
		anyChars, `.*`,
	).Replace(pattern)
}
