// Package vcxproj writes Visual Studio project files.
package vcxproj

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"projgen/pkg/workspace"
)

// Configurations emitted for every project.
var Configurations = []string{"Debug", "Release"}

// Tool versions written into every project.
const (
	ToolsVersion    = "16.0"
	ProjectVersion  = "10.0.20506.1"
	LinkIncremental = "true"
	GenManifest     = "true"
)

// emitFunc writes one part of the document. Emitters only read the project.
type emitFunc func(b *strings.Builder, p *workspace.Project)

// part names one emitter in document order.
type part struct {
	tag  string
	emit emitFunc
}

// document is the vcxproj layout, top to bottom.
var document = []part{
	{"<arch>", emitArch},
	{"ProjectConfigurations", emitProjectConfigurations},
	{"Globals", emitGlobals},
	{"Microsoft.Cpp.Default.props", importProject("Microsoft.Cpp.Default.props")},
	{"Configuration", emitConfigurations},
	{"Microsoft.Cpp.props", importProject("Microsoft.Cpp.props")},
	{"ExtensionSettings", emitImportGroup("ExtensionSettings", "")},
	{"PropertySheets", emitImportGroup("PropertySheets", "Microsoft.Cpp.$(Platform).user.props")},
	{"UserMacros", emitLabel("UserMacros")},
	{"Directories", emitDirectories},
	{"ItemDefinitionGroup", emitItemDefinitions},
	{"ClInclude", emitItems("ClInclude", "h", "hpp", "inl")},
	{"ClCompile", emitItems("ClCompile", "cpp", "c")},
	{"Library", emitItems("Library", "lib")},
	{"Image", emitItems("Image", "png")},
	{"Microsoft.Cpp.targets", importProject("Microsoft.Cpp.targets")},
	{"ExtensionTargets", emitImportGroup("ExtensionTargets", "")},
}

// Serialize writes p as a vcxproj document.
func Serialize(w io.Writer, p *workspace.Project) error {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	fmt.Fprintf(&b, "<Project DefaultTargets=\"Build\" ToolsVersion=\"%s\" xmlns=\"http://schemas.microsoft.com/developer/msbuild/2003\">\n", ToolsVersion)
	for _, pt := range document {
		pt.emit(&b, p)
	}
	b.WriteString("</Project>\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write vcxproj for %s: %w", p.Label(), err)
	}
	return nil
}

// TargetExt maps a build type to the extension of what it produces, "" when
// the build type has none on Windows.
func TargetExt(build string) string {
	switch strings.ToLower(build) {
	case "application", "console":
		return "exe"
	case "static":
		return "lib"
	case "shared":
		return "dll"
	}
	return ""
}

func configurationType(build string) string {
	switch strings.ToLower(build) {
	case "static":
		return "StaticLibrary"
	case "shared":
		return "DynamicLibrary"
	}
	return "Application"
}

func languageStandard(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "c++11", "c++14":
		return "stdcpp14"
	case "c++17":
		return "stdcpp17"
	case "c++20":
		return "stdcpp20"
	}
	return "stdcpplatest"
}

func condition(p *workspace.Project, config string) string {
	return fmt.Sprintf(`'$(Configuration)|$(Platform)'=='%s|%s'`, config, p.Settings.Architecture)
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// winPath turns a slash separated path into the form MSBuild lists items in.
func winPath(p string) string {
	return strings.ReplaceAll(p, "/", `\`)
}

// joinList turns a comma separated setting into an MSBuild ';' list.
func joinList(list string) string {
	var out []string
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, ";")
}

func emitArch(b *strings.Builder, p *workspace.Project) {
	b.WriteString("<PropertyGroup>\n")
	fmt.Fprintf(b, "  <PreferredToolArchitecture>%s</PreferredToolArchitecture>\n", p.Settings.PreferredArch)
	b.WriteString("</PropertyGroup>\n")
}

func emitProjectConfigurations(b *strings.Builder, p *workspace.Project) {
	arch := p.Settings.Architecture
	b.WriteString("<ItemGroup Label=\"ProjectConfigurations\">\n")
	for _, config := range Configurations {
		fmt.Fprintf(b, "  <ProjectConfiguration Include=\"%s|%s\">\n", config, arch)
		fmt.Fprintf(b, "    <Configuration>%s</Configuration>\n", config)
		fmt.Fprintf(b, "    <Platform>%s</Platform>\n", arch)
		b.WriteString("  </ProjectConfiguration>\n")
	}
	b.WriteString("</ItemGroup>\n")
}

func emitGlobals(b *strings.Builder, p *workspace.Project) {
	b.WriteString("<PropertyGroup Label=\"Globals\">\n")
	fmt.Fprintf(b, "  <ProjectGuid>%s</ProjectGuid>\n", p.ObjectID("ProjectGUID"))
	fmt.Fprintf(b, "  <WindowsTargetPlatformVersion>%s</WindowsTargetPlatformVersion>\n", p.Settings.WindowsSDK)
	b.WriteString("  <Keyword>Win32Proj</Keyword>\n")
	fmt.Fprintf(b, "  <Platform>%s</Platform>\n", p.Settings.Architecture)
	fmt.Fprintf(b, "  <ProjectName>%s</ProjectName>\n", escape(p.Label()))
	b.WriteString("  <VCProjectUpgraderObjectName>NoUpgrade</VCProjectUpgraderObjectName>\n")
	b.WriteString("</PropertyGroup>\n")
}

func emitConfigurations(b *strings.Builder, p *workspace.Project) {
	for _, config := range Configurations {
		fmt.Fprintf(b, "<PropertyGroup Condition=\"%s\" Label=\"Configuration\">\n", condition(p, config))
		fmt.Fprintf(b, "  <ConfigurationType>%s</ConfigurationType>\n", configurationType(p.Settings.Build))
		fmt.Fprintf(b, "  <CharacterSet>%s</CharacterSet>\n", p.Settings.UnicodeType)
		fmt.Fprintf(b, "  <PlatformToolset>%s</PlatformToolset>\n", p.Settings.PlatformTools)
		b.WriteString("</PropertyGroup>\n")
	}
}

func importProject(path string) emitFunc {
	return func(b *strings.Builder, _ *workspace.Project) {
		fmt.Fprintf(b, "<Import Project=\"$(VCTargetsPath)\\%s\"/>\n", path)
	}
}

func emitImportGroup(label, path string) emitFunc {
	return func(b *strings.Builder, _ *workspace.Project) {
		fmt.Fprintf(b, "<ImportGroup Label=\"%s\">\n", label)
		if path != "" {
			fmt.Fprintf(b, "  <Import Project=\"$(UserRootDir)\\%s\" Condition=\"exists('$(UserRootDir)\\%s')\" Label=\"LocalAppDataPlatform\"/>\n", path, path)
		}
		b.WriteString("</ImportGroup>\n")
	}
}

func emitLabel(label string) emitFunc {
	return func(b *strings.Builder, _ *workspace.Project) {
		fmt.Fprintf(b, "<PropertyGroup Label=\"%s\"/>\n", label)
	}
}

func emitDirectories(b *strings.Builder, p *workspace.Project) {
	s := p.Settings
	ext := TargetExt(s.Build)
	b.WriteString("<PropertyGroup>\n")
	fmt.Fprintf(b, "  <_ProjectFileVersion>%s</_ProjectFileVersion>\n", ProjectVersion)
	for _, config := range Configurations {
		cond := condition(p, config)
		fmt.Fprintf(b, "  <OutDir Condition=\"%s\">$(SolutionDir)%s\\%s\\</OutDir>\n", cond, winPath(s.OutDir), config)
		fmt.Fprintf(b, "  <IntDir Condition=\"%s\">$(SolutionDir)%s\\%s\\</IntDir>\n", cond, winPath(s.IntDir), config)
		fmt.Fprintf(b, "  <TargetName Condition=\"%s\">%s</TargetName>\n", cond, escape(p.Label()))
		if ext != "" {
			fmt.Fprintf(b, "  <TargetExt Condition=\"%s\">.%s</TargetExt>\n", cond, ext)
		}
		fmt.Fprintf(b, "  <LinkIncremental Condition=\"%s\">%s</LinkIncremental>\n", cond, LinkIncremental)
		fmt.Fprintf(b, "  <GenerateManifest Condition=\"%s\">%s</GenerateManifest>\n", cond, GenManifest)
	}
	b.WriteString("</PropertyGroup>\n")
}

func emitItemDefinitions(b *strings.Builder, p *workspace.Project) {
	s := p.Settings
	includes := escape(winPath(joinList(s.IncludePaths)))
	for _, config := range Configurations {
		debug := config == "Debug"
		defines := s.DefinesRel
		optimization, runtime := "MaxSpeed", "MultiThreadedDLL"
		if debug {
			defines = s.DefinesDbg
			optimization, runtime = "Disabled", "MultiThreadedDebugDLL"
		}

		fmt.Fprintf(b, "<ItemDefinitionGroup Condition=\"%s\">\n", condition(p, config))
		b.WriteString("  <ClCompile>\n")
		fmt.Fprintf(b, "    <AdditionalIncludeDirectories>%s%%(AdditionalIncludeDirectories)</AdditionalIncludeDirectories>\n", withSep(includes))
		b.WriteString("    <AssemblerListingLocation>$(IntDir)</AssemblerListingLocation>\n")
		if debug {
			b.WriteString("    <BasicRuntimeChecks>EnableFastChecks</BasicRuntimeChecks>\n")
		}
		b.WriteString("    <DebugInformationFormat>ProgramDatabase</DebugInformationFormat>\n")
		b.WriteString("    <ExceptionHandling>Sync</ExceptionHandling>\n")
		if s.PrefixHeader != "" {
			fmt.Fprintf(b, "    <ForcedIncludeFiles>%s</ForcedIncludeFiles>\n", escape(s.PrefixHeader))
		}
		fmt.Fprintf(b, "    <LanguageStandard>%s</LanguageStandard>\n", languageStandard(s.Language))
		fmt.Fprintf(b, "    <Optimization>%s</Optimization>\n", optimization)
		b.WriteString("    <PrecompiledHeader>NotUsing</PrecompiledHeader>\n")
		fmt.Fprintf(b, "    <RuntimeLibrary>%s</RuntimeLibrary>\n", runtime)
		b.WriteString("    <RuntimeTypeInfo>true</RuntimeTypeInfo>\n")
		b.WriteString("    <WarningLevel>Level3</WarningLevel>\n")
		fmt.Fprintf(b, "    <PreprocessorDefinitions>WIN32;_WINDOWS;%s%%(PreprocessorDefinitions)</PreprocessorDefinitions>\n", withSep(escape(joinList(defines))))
		b.WriteString("    <ObjectFileName>$(IntDir)</ObjectFileName>\n")
		b.WriteString("  </ClCompile>\n")
		b.WriteString("  <Link>\n")
		fmt.Fprintf(b, "    <AdditionalDependencies>%skernel32.lib;user32.lib;gdi32.lib;shell32.lib;ole32.lib;uuid.lib;advapi32.lib</AdditionalDependencies>\n", withSep(escape(joinList(s.LinkWith))))
		fmt.Fprintf(b, "    <AdditionalLibraryDirectories>%s%%(AdditionalLibraryDirectories)</AdditionalLibraryDirectories>\n", withSep(escape(winPath(joinList(s.LibraryPaths)))))
		b.WriteString("    <GenerateDebugInformation>true</GenerateDebugInformation>\n")
		fmt.Fprintf(b, "    <SubSystem>%s</SubSystem>\n", subsystem(s.Build))
		b.WriteString("  </Link>\n")
		b.WriteString("</ItemDefinitionGroup>\n")
	}
}

func subsystem(build string) string {
	if strings.EqualFold(build, "application") {
		return "Windows"
	}
	return "Console"
}

func withSep(list string) string {
	if list == "" {
		return ""
	}
	return list + ";"
}

// emitItems lists the files of the named kinds under one item tag. Nothing is
// written when every kind is empty.
func emitItems(tag string, kinds ...string) emitFunc {
	return func(b *strings.Builder, p *workspace.Project) {
		var files []workspace.File
		for k := 0; k < p.Flavor.Slots; k++ {
			name := p.Flavor.KindName(workspace.Kind(k))
			for _, want := range kinds {
				if name == want {
					files = append(files, p.Sources[k]...)
				}
			}
		}
		if len(files) == 0 {
			return
		}
		b.WriteString("<ItemGroup>\n")
		for _, f := range files {
			fmt.Fprintf(b, "  <%s Include=\"%s\"/>\n", tag, escape(winPath(f.Path())))
		}
		b.WriteString("</ItemGroup>\n")
	}
}
