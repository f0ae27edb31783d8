package pbxproj

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"projgen/pkg/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProject(t *testing.T, build string) *workspace.Project {
	t.Helper()
	n := 0
	fl := workspace.Xcode()
	fl.IDs = workspace.IDSourceFunc(func() string {
		n++
		return fmt.Sprintf("%024X", n)
	})
	p := workspace.NewProject(fl, workspace.Settings{
		Label:      "game",
		Build:      build,
		Language:   "c++17",
		DefinesDbg: "_DEBUG, DEBUG",
		DefinesRel: "NDEBUG, RELEASE",
		Deployment: "10.15",
		TeamName:   "ACME",
		OrgName:    "com.acme",
	})
	for _, path := range []string{
		"src/main.cpp", "src/view.mm", "src/util.c", "src/app.m",
		"include/api.h", "res/Main.storyboard", "res/Assets.xcassets",
		"lib/libz.a", "Frameworks/Metal.framework",
	} {
		_, err := p.Classify(path, nil)
		require.NoError(t, err)
	}
	h := p.Sources[workspace.XcodeH][0]
	p.PublicHeaders = append(p.PublicHeaders, h.AsPublic())
	return p
}

func serialize(t *testing.T, p *workspace.Project) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Serialize(&buf, p))
	return buf.String()
}

func TestSerializeHeader(t *testing.T) {
	out := serialize(t, newProject(t, "application"))
	assert.True(t, strings.HasPrefix(out, "// !$*UTF8*$!\n{\n\tarchiveVersion = 1;\n"))
	assert.Contains(t, out, "\tobjectVersion = 50;\n")
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestSerializeSectionsInOrder(t *testing.T) {
	out := serialize(t, newProject(t, "application"))
	last := -1
	for _, s := range sections {
		i := strings.Index(out, "/* Begin "+s.name+" section */")
		require.Greater(t, i, last, s.name)
		assert.Contains(t, out, "/* End "+s.name+" section */")
		last = i
	}
}

func TestSerializeUsesRecordIdentifiers(t *testing.T) {
	p := newProject(t, "application")
	out := serialize(t, p)

	main := p.Sources[workspace.XcodeCpp][0]
	assert.Contains(t, out, main.BuildID()+" /* main.cpp in Sources */ = {isa = PBXBuildFile; fileRef = "+main.RefID()+" /* main.cpp */; };")
	assert.Contains(t, out, main.RefID()+" /* main.cpp */ = {isa = PBXFileReference; lastKnownFileType = sourcecode.cpp.cpp;")

	h := p.PublicHeaders[0]
	assert.Contains(t, out, h.BuildID()+" /* api.h in Headers */ = {isa = PBXBuildFile; fileRef = "+h.RefID()+" /* api.h */; settings = {ATTRIBUTES = (Public, ); }; };")

	fw := p.Sources[workspace.XcodeFramework][0]
	assert.Contains(t, out, fw.BuildID()+" /* Metal.framework in Frameworks */")
	assert.Contains(t, out, "lastKnownFileType = folder.assetcatalog;")

	// one file reference per record
	assert.Equal(t, 1, strings.Count(out, h.RefID()+" /* api.h */ = {isa = PBXFileReference;"))
}

func TestSerializeIdentifiersAreUnique(t *testing.T) {
	out := serialize(t, newProject(t, "application"))
	defs := regexp.MustCompile(`(?m)^\t\t([0-9A-F]{24}) /\*[^*]*\*/ = \{`).FindAllStringSubmatch(out, -1)
	require.NotEmpty(t, defs)
	seen := make(map[string]bool)
	for _, d := range defs {
		assert.False(t, seen[d[1]], "object %s defined twice", d[1])
		seen[d[1]] = true
	}
}

func TestSerializeProducts(t *testing.T) {
	tests := []struct {
		build, name, productType string
	}{
		{"application", "game.app", "com.apple.product-type.application"},
		{"console", "game", "com.apple.product-type.tool"},
		{"static", "libgame.a", "com.apple.product-type.library.static"},
		{"shared", "libgame.dylib", "com.apple.product-type.library.dynamic"},
		{"framework", "game.framework", "com.apple.product-type.framework"},
		{"bundle", "game.bundle", "com.apple.product-type.bundle"},
	}
	for _, tt := range tests {
		t.Run(tt.build, func(t *testing.T) {
			out := serialize(t, newProject(t, tt.build))
			assert.Contains(t, out, "productType = \""+tt.productType+"\";")
			assert.Contains(t, out, "path = "+quote(tt.name)+"; sourceTree = BUILT_PRODUCTS_DIR;")
		})
	}
}

func TestSerializeBuildSettings(t *testing.T) {
	out := serialize(t, newProject(t, "application"))
	assert.Contains(t, out, `CLANG_CXX_LANGUAGE_STANDARD = "c++17";`)
	assert.Contains(t, out, "MACOSX_DEPLOYMENT_TARGET = 10.15;")
	assert.Contains(t, out, "DEVELOPMENT_TEAM = ACME;")
	assert.Contains(t, out, "PRODUCT_BUNDLE_IDENTIFIER = com.acme.game;")
	assert.Contains(t, out, "\t\t\t\t\t_DEBUG,\n\t\t\t\t\tDEBUG,\n")
	assert.Contains(t, out, "\t\t\t\t\tNDEBUG,\n\t\t\t\t\tRELEASE,\n")
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "src/main.cpp", quote("src/main.cpp"))
	assert.Equal(t, `"c++17"`, quote("c++17"))
	assert.Equal(t, `""`, quote(""))
	assert.Equal(t, `"My App"`, quote("My App"))
	assert.Equal(t, `"say \"hi\""`, quote(`say "hi"`))
	assert.Equal(t, `"a//b"`, quote("a//b"))
}
