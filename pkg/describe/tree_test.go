package describe

import (
	"testing"

	"projgen/pkg/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree(t *testing.T) {
	p := workspace.NewProject(workspace.MSVC(), workspace.Settings{Label: "game", Build: "console"})
	for _, path := range []string{"src/a.cpp", "src/b.cpp", "src/x.c"} {
		_, err := p.Classify(path, nil)
		require.NoError(t, err)
	}
	tools := workspace.NewProject(workspace.Xcode(), workspace.Settings{Label: "tools", Build: "static"})
	_, err := tools.Classify("tools/api.h", nil)
	require.NoError(t, err)
	tools.PublicHeaders = append(tools.PublicHeaders, tools.Sources[workspace.XcodeH][0].AsPublic())

	ws := &workspace.Workspace{Name: "engine", Targets: []*workspace.Project{p, tools}}

	want := "engine/\n" +
		"├── game (msvc, console, 3 files)\n" +
		"│   ├── cpp/\n" +
		"│   │   ├── src/a.cpp\n" +
		"│   │   └── src/b.cpp\n" +
		"│   └── c/\n" +
		"│       └── src/x.c\n" +
		"└── tools (xcode, static, 1 files)\n" +
		"    ├── h/\n" +
		"    │   └── tools/api.h\n" +
		"    └── public/\n" +
		"        └── tools/api.h\n"
	assert.Equal(t, want, Tree(ws, Box))
}

func TestTreeASCII(t *testing.T) {
	p := workspace.NewProject(workspace.MSVC(), workspace.Settings{Label: "game", Build: "console"})
	_, err := p.Classify("main.cpp", nil)
	require.NoError(t, err)

	got := Tree(&workspace.Workspace{Name: "ws", Targets: []*workspace.Project{p}}, ASCII)
	assert.Equal(t, "ws/\n`-- game (msvc, console, 1 files)\n    `-- cpp/\n        `-- main.cpp\n", got)
}

func TestTreeEmptyWorkspace(t *testing.T) {
	assert.Equal(t, "empty/\n", Tree(&workspace.Workspace{Name: "empty"}, Box))
}
