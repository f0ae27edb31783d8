package workspace

import (
	"path/filepath"
	"strings"
)

// Kind indexes one slot of a project's source table.
type Kind int

// Slot counts of the two supported flavors.
const (
	XcodeSlots = 17
	MSVCSlots  = 8
)

// MSVC kind slots.
const (
	MSVCLib Kind = iota
	MSVCPng
	MSVCHpp
	MSVCCpp
	MSVCInl
	MSVCH
	MSVCC
	MSVCPrefab
)

// Xcode kind slots.
const (
	XcodeStoryboard Kind = iota
	XcodeSharedlib
	XcodeStaticlib
	XcodeFramework
	XcodeXcasset
	XcodeLproj
	XcodePlist
	XcodeRtf
	XcodePng
	XcodeHpp
	XcodeCpp
	XcodeMm
	XcodeInl
	XcodeH
	XcodeC
	XcodeM
	XcodePrefab
)

// Flavor describes one target IDE format: how many kind slots a project has,
// how extensions map onto them and which kinds take part in unity builds.
type Flavor struct {
	Name         string
	Slots        int
	KindNames    []string
	Extensions   map[string]Kind
	AggregateExt map[Kind]string
	UnityKinds   []Kind
	IDs          IDSource
}

// KindOf looks up the slot for path by its lower-cased extension.
func (fl *Flavor) KindOf(path string) (Kind, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	k, ok := fl.Extensions[ext]
	return k, ok
}

// ExtFor returns the extension of generated aggregates of kind k, or "" if
// the kind is never aggregated.
func (fl *Flavor) ExtFor(k Kind) string {
	return fl.AggregateExt[k]
}

// KindName returns a readable name for k.
func (fl *Flavor) KindName(k Kind) string {
	if int(k) < 0 || int(k) >= len(fl.KindNames) {
		return "unknown"
	}
	return fl.KindNames[k]
}

// MSVC returns the Visual Studio flavor.
func MSVC() *Flavor {
	return &Flavor{
		Name:      "msvc",
		Slots:     MSVCSlots,
		KindNames: []string{"lib", "png", "hpp", "cpp", "inl", "h", "c", "prefab"},
		Extensions: map[string]Kind{
			".lib":    MSVCLib,
			".png":    MSVCPng,
			".inl":    MSVCInl,
			".hpp":    MSVCHpp,
			".hxx":    MSVCHpp,
			".hh":     MSVCHpp,
			".cpp":    MSVCCpp,
			".cxx":    MSVCCpp,
			".cc":     MSVCCpp,
			".h":      MSVCH,
			".c":      MSVCC,
			".prefab": MSVCPrefab,
		},
		AggregateExt: map[Kind]string{
			MSVCCpp: ".cpp",
			MSVCC:   ".c",
		},
		UnityKinds: []Kind{MSVCCpp, MSVCC},
		IDs:        GUIDSource{},
	}
}

// Xcode returns the Xcode flavor.
func Xcode() *Flavor {
	return &Flavor{
		Name:  "xcode",
		Slots: XcodeSlots,
		KindNames: []string{
			"storyboard", "sharedlib", "staticlib", "framework", "xcasset",
			"lproj", "plist", "rtf", "png", "hpp", "cpp", "mm", "inl", "h",
			"c", "m", "prefab",
		},
		Extensions: map[string]Kind{
			".storyboard": XcodeStoryboard,
			".dylib":      XcodeSharedlib,
			".a":          XcodeStaticlib,
			".framework":  XcodeFramework,
			".xcassets":   XcodeXcasset,
			".lproj":      XcodeLproj,
			".plist":      XcodePlist,
			".rtf":        XcodeRtf,
			".png":        XcodePng,
			".hpp":        XcodeHpp,
			".hxx":        XcodeHpp,
			".hh":         XcodeHpp,
			".cpp":        XcodeCpp,
			".cxx":        XcodeCpp,
			".cc":         XcodeCpp,
			".mm":         XcodeMm,
			".inl":        XcodeInl,
			".h":          XcodeH,
			".c":          XcodeC,
			".m":          XcodeM,
			".prefab":     XcodePrefab,
		},
		AggregateExt: map[Kind]string{
			XcodeCpp: ".cpp",
			XcodeMm:  ".mm",
			XcodeC:   ".c",
			XcodeM:   ".m",
		},
		UnityKinds: []Kind{XcodeCpp, XcodeMm, XcodeC, XcodeM},
		IDs:        ResourceIDSource{},
	}
}

// FlavorByName resolves "msvc" or "xcode" (case-insensitive).
func FlavorByName(name string) (*Flavor, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "msvc", "vs2019", "vcxproj":
		return MSVC(), true
	case "xcode", "xcode11", "pbxproj":
		return Xcode(), true
	}
	return nil, false
}
