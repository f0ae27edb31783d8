package ignore

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesPath(t *testing.T) {
	r := New(nil)
	r.CompileLines(
		"# generated",
		"",
		"*.bak",
		"build/",
		"/vendor",
		"docs/**/draft.md",
		"third_party/**",
		"!third_party/keep.h",
	)

	tests := []struct {
		path    string
		ignored bool
	}{
		{"main.cpp", false},
		{"old.bak", true},
		{"src/old.bak", true},
		{"build/out.o", true},
		{"src/build/out.o", true},
		{"build", false},
		{"vendor/zlib/zlib.c", true},
		{"src/vendor/zlib.c", false},
		{"docs/a/b/draft.md", true},
		{"docs/draft.md", true},
		{"third_party/lib/x.c", true},
		{"third_party/keep.h", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.ignored, r.MatchesPath(tt.path))
		})
	}
}

func TestMatchesPathWithPatternReportsRule(t *testing.T) {
	r := New(nil)
	r.CompileLines("*.tmp", "!keep.tmp")

	ignored, p := r.MatchesPathWithPattern("a/scratch.tmp")
	assert.True(t, ignored)
	require.NotNil(t, p)
	assert.Equal(t, "*.tmp", p.Line)
	assert.Equal(t, 1, p.LineNo)

	ignored, p = r.MatchesPathWithPattern("keep.tmp")
	assert.False(t, ignored)
	require.NotNil(t, p)
	assert.True(t, p.Negate)

	ignored, p = r.MatchesPathWithPattern("main.cpp")
	assert.False(t, ignored)
	assert.Nil(t, p)
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "src/"+FileName, []byte("gen/\r\n*.orig\n"), 0o644))

	r, err := Load(fs, "src/"+FileName, nil)
	require.NoError(t, err)
	assert.Len(t, r.Patterns, 2)
	assert.True(t, r.MatchesPath("gen/a.cpp"))
	assert.True(t, r.MatchesPath("x.orig"))
	assert.False(t, r.MatchesPath("x.cpp"))
}

func TestLoadMissingFile(t *testing.T) {
	r, err := Load(afero.NewMemMapFs(), "nope/"+FileName, nil)
	require.NoError(t, err)
	assert.Empty(t, r.Patterns)
	assert.False(t, r.MatchesPath("anything.cpp"))
}
