// Package pbxproj writes Xcode project.pbxproj files.
package pbxproj

import (
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"projgen/pkg/workspace"
)

// Archive versions written into every project.
const (
	ArchiveVersion = 1
	ObjectVersion  = 50
)

// Kind groups by build phase.
var (
	sourceKinds    = []string{"cpp", "mm", "c", "m"}
	frameworkKinds = []string{"framework", "sharedlib", "staticlib"}
	resourceKinds  = []string{"storyboard", "xcasset", "lproj", "rtf", "png", "prefab"}
)

// fileTypes maps kind names to Xcode's lastKnownFileType.
var fileTypes = map[string]string{
	"storyboard": "file.storyboard",
	"sharedlib":  "compiled.mach-o.dylib",
	"staticlib":  "archive.ar",
	"framework":  "wrapper.framework",
	"xcasset":    "folder.assetcatalog",
	"lproj":      "folder",
	"plist":      "text.plist.xml",
	"rtf":        "text.rtf",
	"png":        "image.png",
	"hpp":        "sourcecode.cpp.h",
	"cpp":        "sourcecode.cpp.cpp",
	"mm":         "sourcecode.cpp.objcpp",
	"inl":        "sourcecode.cpp.h",
	"h":          "sourcecode.c.h",
	"c":          "sourcecode.c.c",
	"m":          "sourcecode.c.objc",
	"prefab":     "file",
}

// product describes what a build type produces.
type product struct {
	fileType string
	name     string
	kind     string
}

func productFor(p *workspace.Project) product {
	label := p.Label()
	switch strings.ToLower(p.Settings.Build) {
	case "console":
		return product{"compiled.mach-o.executable", label, "com.apple.product-type.tool"}
	case "static":
		return product{"archive.ar", "lib" + label + ".a", "com.apple.product-type.library.static"}
	case "shared":
		return product{"compiled.mach-o.dylib", "lib" + label + ".dylib", "com.apple.product-type.library.dynamic"}
	case "framework":
		return product{"wrapper.framework", label + ".framework", "com.apple.product-type.framework"}
	case "bundle":
		return product{"wrapper.cfbundle", label + ".bundle", "com.apple.product-type.bundle"}
	}
	return product{"wrapper.application", label + ".app", "com.apple.product-type.application"}
}

// emitFunc writes the body of one section. Emitters only read the project.
type emitFunc func(b *strings.Builder, p *workspace.Project)

type section struct {
	name string
	emit emitFunc
}

// sections is the objects dictionary in the order Xcode writes it.
var sections = []section{
	{"PBXBuildFile", emitBuildFiles},
	{"PBXFileReference", emitFileReferences},
	{"PBXFrameworksBuildPhase", emitPhase("PBXFrameworksBuildPhase", "FrameworkBuildPhase", frameworkFiles)},
	{"PBXGroup", emitGroups},
	{"PBXHeadersBuildPhase", emitPhase("PBXHeadersBuildPhase", "HeadersBuildPhase", publicHeaders)},
	{"PBXNativeTarget", emitNativeTarget},
	{"PBXProject", emitProject},
	{"PBXResourcesBuildPhase", emitPhase("PBXResourcesBuildPhase", "ResourcesBuildPhase", resourceFiles)},
	{"PBXSourcesBuildPhase", emitPhase("PBXSourcesBuildPhase", "SourcesBuildPhase", sourceFiles)},
	{"XCBuildConfiguration", emitBuildConfigurations},
	{"XCConfigurationList", emitConfigurationLists},
}

// Serialize writes p as a project.pbxproj document.
func Serialize(w io.Writer, p *workspace.Project) error {
	var b strings.Builder
	b.WriteString("// !$*UTF8*$!\n{\n")
	fmt.Fprintf(&b, "\tarchiveVersion = %d;\n", ArchiveVersion)
	b.WriteString("\tclasses = {\n\t};\n")
	fmt.Fprintf(&b, "\tobjectVersion = %d;\n", ObjectVersion)
	b.WriteString("\tobjects = {\n")
	for _, s := range sections {
		fmt.Fprintf(&b, "\n/* Begin %s section */\n", s.name)
		s.emit(&b, p)
		fmt.Fprintf(&b, "/* End %s section */\n", s.name)
	}
	b.WriteString("\t};\n")
	fmt.Fprintf(&b, "\trootObject = %s /* Project object */;\n", p.ObjectID("ProjectObject"))
	b.WriteString("}\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write pbxproj for %s: %w", p.Label(), err)
	}
	return nil
}

var bareValue = regexp.MustCompile(`^[A-Za-z0-9_$/.:]+$`)

// quote returns s as a pbxproj string value.
func quote(s string) string {
	if s != "" && bareValue.MatchString(s) && !strings.Contains(s, "//") {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func filesOf(p *workspace.Project, kinds []string) []workspace.File {
	var out []workspace.File
	for _, name := range kinds {
		for k := 0; k < p.Flavor.Slots; k++ {
			if p.Flavor.KindName(workspace.Kind(k)) == name {
				out = append(out, p.Sources[k]...)
			}
		}
	}
	return out
}

func sourceFiles(p *workspace.Project) []workspace.File    { return filesOf(p, sourceKinds) }
func frameworkFiles(p *workspace.Project) []workspace.File { return filesOf(p, frameworkKinds) }
func resourceFiles(p *workspace.Project) []workspace.File  { return filesOf(p, resourceKinds) }
func publicHeaders(p *workspace.Project) []workspace.File  { return p.PublicHeaders }

// fileType returns the lastKnownFileType of the record at f.
func fileType(p *workspace.Project, f workspace.File) string {
	k, ok := p.Flavor.KindOf(f.Path())
	if !ok {
		return "file"
	}
	return fileTypes[p.Flavor.KindName(k)]
}

func emitBuildFiles(b *strings.Builder, p *workspace.Project) {
	phases := []struct {
		phase string
		files []workspace.File
	}{
		{"Frameworks", frameworkFiles(p)},
		{"Headers", publicHeaders(p)},
		{"Resources", resourceFiles(p)},
		{"Sources", sourceFiles(p)},
	}
	for _, ph := range phases {
		for _, f := range ph.files {
			name := path.Base(f.Path())
			settings := ""
			if f.Public() {
				settings = " settings = {ATTRIBUTES = (Public, ); };"
			}
			fmt.Fprintf(b, "\t\t%s /* %s in %s */ = {isa = PBXBuildFile; fileRef = %s /* %s */;%s };\n",
				f.BuildID(), name, ph.phase, f.RefID(), name, settings)
		}
	}
}

func emitFileReferences(b *strings.Builder, p *workspace.Project) {
	for k := 0; k < p.Flavor.Slots; k++ {
		for _, f := range p.Sources[k] {
			name := path.Base(f.Path())
			fmt.Fprintf(b, "\t\t%s /* %s */ = {isa = PBXFileReference; lastKnownFileType = %s; name = %s; path = %s; sourceTree = SOURCE_ROOT; };\n",
				f.RefID(), name, quote(fileType(p, f)), quote(name), quote(f.Path()))
		}
	}
	prod := productFor(p)
	fmt.Fprintf(b, "\t\t%s /* %s */ = {isa = PBXFileReference; explicitFileType = %s; includeInIndex = 0; path = %s; sourceTree = BUILT_PRODUCTS_DIR; };\n",
		p.ObjectID("ProductFileRef"), prod.name, quote(prod.fileType), quote(prod.name))
}

func emitPhase(isa, object string, files func(*workspace.Project) []workspace.File) emitFunc {
	phase := strings.TrimSuffix(strings.TrimPrefix(isa, "PBX"), "BuildPhase")
	return func(b *strings.Builder, p *workspace.Project) {
		fmt.Fprintf(b, "\t\t%s /* %s */ = {\n", p.ObjectID(object), phase)
		fmt.Fprintf(b, "\t\t\tisa = %s;\n", isa)
		b.WriteString("\t\t\tbuildActionMask = 2147483647;\n")
		b.WriteString("\t\t\tfiles = (\n")
		for _, f := range files(p) {
			fmt.Fprintf(b, "\t\t\t\t%s /* %s in %s */,\n", f.BuildID(), path.Base(f.Path()), phase)
		}
		b.WriteString("\t\t\t);\n")
		b.WriteString("\t\t\trunOnlyForDeploymentPostprocessing = 0;\n")
		b.WriteString("\t\t};\n")
	}
}

func emitGroup(b *strings.Builder, id, name string, children []string) {
	fmt.Fprintf(b, "\t\t%s /* %s */ = {\n", id, name)
	b.WriteString("\t\t\tisa = PBXGroup;\n")
	b.WriteString("\t\t\tchildren = (\n")
	for _, c := range children {
		fmt.Fprintf(b, "\t\t\t\t%s,\n", c)
	}
	b.WriteString("\t\t\t);\n")
	if name != "" {
		fmt.Fprintf(b, "\t\t\tname = %s;\n", quote(name))
	}
	b.WriteString("\t\t\tsourceTree = \"<group>\";\n")
	b.WriteString("\t\t};\n")
}

func emitGroups(b *strings.Builder, p *workspace.Project) {
	var code, frameworks []string
	isFramework := make(map[string]bool)
	for _, f := range frameworkFiles(p) {
		isFramework[f.RefID()] = true
		frameworks = append(frameworks, fmt.Sprintf("%s /* %s */", f.RefID(), path.Base(f.Path())))
	}
	for k := 0; k < p.Flavor.Slots; k++ {
		for _, f := range p.Sources[k] {
			if !isFramework[f.RefID()] {
				code = append(code, fmt.Sprintf("%s /* %s */", f.RefID(), path.Base(f.Path())))
			}
		}
	}
	prod := productFor(p)

	emitGroup(b, p.ObjectID("MainGroup"), "", []string{
		p.ObjectID("CodeGroup") + " /* Code */",
		p.ObjectID("FrameworkGroup") + " /* Frameworks */",
		p.ObjectID("ProductsGroup") + " /* Products */",
	})
	emitGroup(b, p.ObjectID("CodeGroup"), "Code", code)
	emitGroup(b, p.ObjectID("FrameworkGroup"), "Frameworks", frameworks)
	emitGroup(b, p.ObjectID("ProductsGroup"), "Products", []string{
		fmt.Sprintf("%s /* %s */", p.ObjectID("ProductFileRef"), prod.name),
	})
}

func emitNativeTarget(b *strings.Builder, p *workspace.Project) {
	prod := productFor(p)
	fmt.Fprintf(b, "\t\t%s /* %s */ = {\n", p.ObjectID("NativeTarget"), p.Label())
	b.WriteString("\t\t\tisa = PBXNativeTarget;\n")
	fmt.Fprintf(b, "\t\t\tbuildConfigurationList = %s /* Build configuration list for PBXNativeTarget */;\n", p.ObjectID("NativeBuildConfigurationList"))
	b.WriteString("\t\t\tbuildPhases = (\n")
	for _, ph := range []string{"FrameworkBuildPhase", "HeadersBuildPhase", "ResourcesBuildPhase", "SourcesBuildPhase"} {
		fmt.Fprintf(b, "\t\t\t\t%s,\n", p.ObjectID(ph))
	}
	b.WriteString("\t\t\t);\n")
	b.WriteString("\t\t\tbuildRules = (\n\t\t\t);\n")
	b.WriteString("\t\t\tdependencies = (\n\t\t\t);\n")
	fmt.Fprintf(b, "\t\t\tname = %s;\n", quote(p.Label()))
	fmt.Fprintf(b, "\t\t\tproductName = %s;\n", quote(p.Label()))
	fmt.Fprintf(b, "\t\t\tproductReference = %s /* %s */;\n", p.ObjectID("ProductFileRef"), prod.name)
	fmt.Fprintf(b, "\t\t\tproductType = %s;\n", quote(prod.kind))
	b.WriteString("\t\t};\n")
}

func emitProject(b *strings.Builder, p *workspace.Project) {
	fmt.Fprintf(b, "\t\t%s /* Project object */ = {\n", p.ObjectID("ProjectObject"))
	b.WriteString("\t\t\tisa = PBXProject;\n")
	b.WriteString("\t\t\tattributes = {\n")
	b.WriteString("\t\t\t\tLastUpgradeCheck = 1200;\n")
	if p.Settings.OrgName != "" {
		fmt.Fprintf(b, "\t\t\t\tORGANIZATIONNAME = %s;\n", quote(p.Settings.OrgName))
	}
	b.WriteString("\t\t\t};\n")
	fmt.Fprintf(b, "\t\t\tbuildConfigurationList = %s /* Build configuration list for PBXProject */;\n", p.ObjectID("BuildConfigurationList"))
	b.WriteString("\t\t\tcompatibilityVersion = \"Xcode 9.3\";\n")
	b.WriteString("\t\t\tdevelopmentRegion = en;\n")
	b.WriteString("\t\t\thasScannedForEncodings = 0;\n")
	b.WriteString("\t\t\tknownRegions = (\n\t\t\t\ten,\n\t\t\t\tBase,\n\t\t\t);\n")
	fmt.Fprintf(b, "\t\t\tmainGroup = %s;\n", p.ObjectID("MainGroup"))
	fmt.Fprintf(b, "\t\t\tproductRefGroup = %s /* Products */;\n", p.ObjectID("ProductsGroup"))
	b.WriteString("\t\t\tprojectDirPath = \"\";\n")
	b.WriteString("\t\t\tprojectRoot = \"\";\n")
	fmt.Fprintf(b, "\t\t\ttargets = (\n\t\t\t\t%s /* %s */,\n\t\t\t);\n", p.ObjectID("NativeTarget"), p.Label())
	b.WriteString("\t\t};\n")
}

// listValue renders a comma separated setting as a pbxproj array.
func listValue(list string) string {
	var items []string
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			items = append(items, quote(s))
		}
	}
	if len(items) == 0 {
		return "(\n\t\t\t\t)"
	}
	return "(\n\t\t\t\t\t" + strings.Join(items, ",\n\t\t\t\t\t") + ",\n\t\t\t\t)"
}

func emitConfig(b *strings.Builder, id, name string, settings [][2]string) {
	fmt.Fprintf(b, "\t\t%s /* %s */ = {\n", id, name)
	b.WriteString("\t\t\tisa = XCBuildConfiguration;\n")
	b.WriteString("\t\t\tbuildSettings = {\n")
	for _, kv := range settings {
		fmt.Fprintf(b, "\t\t\t\t%s = %s;\n", kv[0], kv[1])
	}
	b.WriteString("\t\t\t};\n")
	fmt.Fprintf(b, "\t\t\tname = %s;\n", name)
	b.WriteString("\t\t};\n")
}

func emitBuildConfigurations(b *strings.Builder, p *workspace.Project) {
	s := p.Settings
	for _, config := range []string{"Debug", "Release"} {
		defines := s.DefinesRel
		optimization := "s"
		if config == "Debug" {
			defines = s.DefinesDbg
			optimization = "0"
		}
		emitConfig(b, p.ObjectID(config+"BuildConfiguration"), config, [][2]string{
			{"ALWAYS_SEARCH_USER_PATHS", "NO"},
			{"CLANG_CXX_LANGUAGE_STANDARD", quote(s.Language)},
			{"CLANG_CXX_LIBRARY", quote("libc++")},
			{"GCC_OPTIMIZATION_LEVEL", optimization},
			{"GCC_PREPROCESSOR_DEFINITIONS", listValue(defines)},
			{"MACOSX_DEPLOYMENT_TARGET", quote(s.Deployment)},
			{"SDKROOT", "macosx"},
		})
	}
	for _, config := range []string{"Debug", "Release"} {
		settings := [][2]string{
			{"FRAMEWORK_SEARCH_PATHS", listValue(s.FrameworkPaths)},
			{"HEADER_SEARCH_PATHS", listValue(s.IncludePaths)},
			{"LIBRARY_SEARCH_PATHS", listValue(s.LibraryPaths)},
			{"PRODUCT_NAME", quote(p.Label())},
		}
		if s.TeamName != "" {
			settings = append(settings, [2]string{"DEVELOPMENT_TEAM", quote(s.TeamName)})
		}
		if s.OrgName != "" {
			settings = append(settings, [2]string{"PRODUCT_BUNDLE_IDENTIFIER", quote(s.OrgName + "." + p.Label())})
		}
		if s.PrefixHeader != "" {
			settings = append(settings, [2]string{"GCC_PREFIX_HEADER", quote(s.PrefixHeader)})
		}
		if s.PlistPath != "" {
			settings = append(settings, [2]string{"INFOPLIST_FILE", quote(s.PlistPath)})
		}
		emitConfig(b, p.ObjectID(config+"NativeBuildConfig"), config, settings)
	}
}

func emitConfigurationLists(b *strings.Builder, p *workspace.Project) {
	lists := []struct {
		id, owner, prefix string
	}{
		{p.ObjectID("NativeBuildConfigurationList"), "PBXNativeTarget", "NativeBuildConfig"},
		{p.ObjectID("BuildConfigurationList"), "PBXProject", "BuildConfiguration"},
	}
	for _, l := range lists {
		fmt.Fprintf(b, "\t\t%s /* Build configuration list for %s */ = {\n", l.id, l.owner)
		b.WriteString("\t\t\tisa = XCConfigurationList;\n")
		b.WriteString("\t\t\tbuildConfigurations = (\n")
		for _, config := range []string{"Debug", "Release"} {
			fmt.Fprintf(b, "\t\t\t\t%s /* %s */,\n", p.ObjectID(config+l.prefix), config)
		}
		b.WriteString("\t\t\t);\n")
		b.WriteString("\t\t\tdefaultConfigurationIsVisible = 0;\n")
		b.WriteString("\t\t\tdefaultConfigurationName = Release;\n")
		b.WriteString("\t\t};\n")
	}
}
