package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"projgen/pkg/config"
	"projgen/pkg/platform"
	"projgen/pkg/unity"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seed(t *testing.T, fs afero.Fs) {
	t.Helper()
	for _, name := range []string{
		"src/a.cpp", "src/b.cpp", "src/c.cpp", "src/main.cpp",
		"src/x.c", "src/a_test.cpp", "include/api.h",
	} {
		require.NoError(t, afero.WriteFile(fs, name, []byte("// "+name+"\n"), 0o644))
	}
}

func testConfig(format string) *config.Config {
	cfg := &config.Config{
		Name:    "engine",
		Unity:   true,
		Buckets: 2,
		Targets: []config.Target{{
			Label:     "game",
			Format:    format,
			Build:     "console",
			Src:       "src",
			Inc:       "include",
			Ignore:    `_test\.`,
			SkipUnity: "main.cpp",
		}},
	}
	cfg.ApplyDefaults(nil)
	return cfg
}

func TestRunMSVC(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs)

	g := New(fs, nil)
	summary, err := g.Run(context.Background(), testConfig("msvc"))
	require.NoError(t, err)
	require.Len(t, summary.Targets, 1)

	ts := summary.Targets[0]
	assert.Equal(t, "game.vcxproj", ts.Output)
	assert.Equal(t, "msvc", ts.Format)
	assert.Equal(t, 7, ts.Files)
	assert.Equal(t, 1, ts.Unity.Ignored)
	assert.Equal(t, 1, ts.Unity.Skipped)
	assert.Equal(t, 3, ts.Unity.Written)

	body, err := afero.ReadFile(fs, "game.vcxproj")
	require.NoError(t, err)
	out := string(body)
	assert.Contains(t, out, `<ClCompile Include="src\main.cpp"/>`)
	assert.Contains(t, out, `<ClInclude Include="include\api.h"/>`)
	assert.NotContains(t, out, `src\a.cpp`)
	assert.NotContains(t, out, "a_test.cpp")
	assert.Equal(t, 3, strings.Count(out, `<ClCompile Include="tmp\`))

	files, err := unity.NewFsCache(fs).List("tmp")
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestRunXcode(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs)

	summary, err := New(fs, nil).Run(context.Background(), testConfig("xcode"))
	require.NoError(t, err)
	assert.Equal(t, "game.xcodeproj/project.pbxproj", summary.Targets[0].Output)

	body, err := afero.ReadFile(fs, "game.xcodeproj/project.pbxproj")
	require.NoError(t, err)
	assert.Contains(t, string(body), "main.cpp in Sources")
	assert.Contains(t, string(body), "api.h in Headers")
}

func TestRunWithoutUnity(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs)
	cfg := testConfig("msvc")
	cfg.Unity = false

	summary, err := New(fs, nil).Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Zero(t, summary.Unity.Written)

	body, err := afero.ReadFile(fs, "game.vcxproj")
	require.NoError(t, err)
	assert.Contains(t, string(body), `<ClCompile Include="src\a.cpp"/>`)
	assert.Contains(t, string(body), `<ClCompile Include="src\a_test.cpp"/>`)
	assert.NotContains(t, string(body), `tmp\`)

	exists, err := afero.DirExists(fs, "tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunSecondPassHitsCache(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs)
	g := New(fs, nil)

	_, err := g.Run(context.Background(), testConfig("msvc"))
	require.NoError(t, err)
	summary, err := g.Run(context.Background(), testConfig("msvc"))
	require.NoError(t, err)

	assert.Zero(t, summary.Unity.Written)
	assert.Equal(t, 3, summary.Unity.CacheHits)
}

func TestRunOutDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs)
	cfg := testConfig("msvc")
	Overrides{OutDir: "build/ide"}.Apply(cfg)

	summary, err := New(fs, nil).Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "build/ide/game.vcxproj", summary.Targets[0].Output)
	ok, err := afero.Exists(fs, "build/ide/game.vcxproj")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunInvalidIgnorePattern(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs)
	cfg := testConfig("msvc")
	cfg.Targets[0].Ignore = "(["

	_, err := New(fs, nil).Run(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, unity.ErrInvalidIgnorePattern)
}

func TestRunPostGenerateHook(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs)
	cfg := testConfig("msvc")
	cfg.Targets[0].PostGenerate = "touch game.vcxproj.stamp"

	var calls [][]string
	g := New(fs, nil)
	g.Spawn = func(_ context.Context, _ *zap.Logger, name string, args ...string) (platform.Result, error) {
		calls = append(calls, append([]string{name}, args...))
		return platform.Result{}, nil
	}

	_, err := g.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"touch", "game.vcxproj.stamp"}}, calls)
}

func TestRunPostGenerateHookFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs)
	cfg := testConfig("msvc")
	cfg.Targets[0].PostGenerate = "false"

	boom := errors.New("exit status 1")
	g := New(fs, nil)
	g.Spawn = func(context.Context, *zap.Logger, string, ...string) (platform.Result, error) {
		return platform.Result{ExitCode: 1}, boom
	}

	_, err := g.Run(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestRunCancelled(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(fs, nil).Run(ctx, testConfig("msvc"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOverridesApply(t *testing.T) {
	cfg := testConfig("msvc")
	off := false
	Overrides{Unity: &off, Buckets: 6, Format: "xcode"}.Apply(cfg)

	assert.False(t, cfg.Unity)
	assert.Equal(t, 6, cfg.Buckets)
	assert.Equal(t, "xcode", cfg.Targets[0].Format)
	assert.Equal(t, ".", cfg.OutDir)
}

func TestBuildClassifiesWithoutWriting(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs)

	ws, err := New(fs, nil).Build(testConfig("msvc"))
	require.NoError(t, err)
	require.Len(t, ws.Targets, 1)
	assert.Equal(t, "engine", ws.Name)
	assert.Equal(t, 7, ws.Targets[0].Count())
	assert.Equal(t, "game.vcxproj", OutputPath(ws.Targets[0], "."))

	exists, err := afero.Exists(fs, "game.vcxproj")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBuildKeepsTargetOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := &config.Config{Name: "many"}
	labels := []string{"e", "d", "c", "b", "a"}
	for _, l := range labels {
		require.NoError(t, afero.WriteFile(fs, l+"/main.cpp", nil, 0o644))
		cfg.Targets = append(cfg.Targets, config.Target{Label: l, Src: l})
	}
	cfg.ApplyDefaults(nil)

	g := New(fs, nil)
	g.Workers = 3
	ws, err := g.Build(cfg)
	require.NoError(t, err)
	require.Len(t, ws.Targets, len(labels))
	for i, p := range ws.Targets {
		assert.Equal(t, labels[i], p.Label())
		assert.Equal(t, 1, p.Count())
	}
}

func TestBuildUnknownFormat(t *testing.T) {
	cfg := testConfig("cmake")
	_, err := New(afero.NewMemMapFs(), nil).Build(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
