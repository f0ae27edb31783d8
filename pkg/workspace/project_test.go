package workspace

import (
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func counterIDs() IDSource {
	n := 0
	return IDSourceFunc(func() string {
		n++
		return fmt.Sprintf("ID%d", n)
	})
}

func TestClassifyMSVC(t *testing.T) {
	fl := MSVC()
	fl.IDs = counterIDs()
	p := NewProject(fl, Settings{Label: "game"})

	tests := []struct {
		path string
		kind Kind
	}{
		{"src/a.cpp", MSVCCpp},
		{"src/B.CXX", MSVCCpp},
		{"src/c.cc", MSVCCpp},
		{"src/d.c", MSVCC},
		{"inc/e.h", MSVCH},
		{"inc/f.HPP", MSVCHpp},
		{"inc/g.inl", MSVCInl},
		{"lib/z.lib", MSVCLib},
		{"res/icon.png", MSVCPng},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			k, err := p.Classify(tc.path, zap.NewNop())
			require.NoError(t, err)
			assert.Equal(t, tc.kind, k)
		})
	}

	assert.Equal(t, []string{"src/a.cpp", "src/B.CXX", "src/c.cc"}, Paths(p.Sources[MSVCCpp]))
	assert.Len(t, p.Sources, MSVCSlots)
	assert.Equal(t, len(tests), p.Count())
}

func TestClassifyUnrecognizedIsDropped(t *testing.T) {
	p := NewProject(MSVC(), Settings{Label: "game"})

	_, err := p.Classify("docs/readme.md", zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnrecognizedExtension))
	assert.Zero(t, p.Count())
}

func TestClassifyXcode(t *testing.T) {
	p := NewProject(Xcode(), Settings{Label: "app"})

	for _, path := range []string{"a.mm", "b.m", "Main.storyboard", "Assets.xcassets", "c.cpp"} {
		_, err := p.Classify(path, nil)
		require.NoError(t, err)
	}
	assert.Len(t, p.Sources, XcodeSlots)
	assert.Equal(t, []string{"a.mm"}, Paths(p.Sources[XcodeMm]))
	assert.Equal(t, []string{"b.m"}, Paths(p.Sources[XcodeM]))
	assert.Equal(t, []string{"Main.storyboard"}, Paths(p.Sources[XcodeStoryboard]))
	assert.Equal(t, []string{"Assets.xcassets"}, Paths(p.Sources[XcodeXcasset]))
}

func TestIdentifiersAssignedOnce(t *testing.T) {
	fl := MSVC()
	fl.IDs = counterIDs()
	p := NewProject(fl, Settings{Label: "game"})

	_, err := p.Classify("a.cpp", nil)
	require.NoError(t, err)
	_, err = p.Classify("b.cpp", nil)
	require.NoError(t, err)

	a, b := p.Sources[MSVCCpp][0], p.Sources[MSVCCpp][1]
	assert.Equal(t, "ID1", a.BuildID())
	assert.Equal(t, "ID2", a.RefID())
	assert.Equal(t, "ID3", b.BuildID())
	assert.Equal(t, "ID4", b.RefID())

	// copies share the identifiers of the original record
	c := a
	assert.Equal(t, a.BuildID(), c.BuildID())
	assert.Equal(t, a.RefID(), c.AsPublic().RefID())
	assert.True(t, c.AsPublic().Public())
	assert.False(t, a.Public())
}

func TestIDSourceFormats(t *testing.T) {
	guid := GUIDSource{}.NewID()
	assert.Regexp(t, regexp.MustCompile(`^\{[0-9A-F]{8}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{12}\}$`), guid)

	rid := ResourceIDSource{}.NewID()
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{24}$`), rid)

	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := ResourceIDSource{}.NewID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestAllocateUnity(t *testing.T) {
	p := NewProject(Xcode(), Settings{})
	p.AllocateUnity(4)
	require.Len(t, p.Unity, 4)
	for _, b := range p.Unity {
		assert.Len(t, b, XcodeSlots)
	}
	p.ResetUnity()
	assert.Nil(t, p.Unity)
}

func TestFlavorByName(t *testing.T) {
	fl, ok := FlavorByName("MSVC")
	require.True(t, ok)
	assert.Equal(t, MSVCSlots, fl.Slots)

	fl, ok = FlavorByName("xcode")
	require.True(t, ok)
	assert.Equal(t, XcodeSlots, fl.Slots)
	assert.Equal(t, ".mm", fl.ExtFor(XcodeMm))
	assert.Equal(t, "", fl.ExtFor(XcodeH))

	_, ok = FlavorByName("cmake")
	assert.False(t, ok)
}

func TestObjectIDIsStablePerName(t *testing.T) {
	n := 0
	fl := MSVC()
	fl.IDs = IDSourceFunc(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
	p := NewProject(fl, Settings{Label: "game"})

	guid := p.ObjectID("ProjectGUID")
	assert.Equal(t, guid, p.ObjectID("ProjectGUID"))
	assert.NotEqual(t, guid, p.ObjectID("MainGroup"))
	assert.Equal(t, 2, n)
}
