package extract

import (
	"path/filepath"
	"regexp"
	"strings"
)

// ModuleDecl describes a module discovered from a descriptor file.
type ModuleDecl struct {
	Name       string
	Path       string
	Descriptor string // gradle, swiftpm
}

// DepDecl is one declared dependency edge with its configuration kind.
type DepDecl struct {
	Name string
	Kind string // api, implementation, compileOnly, ...
}

// GradleModule derives the module for a Gradle build file: the module name
// is the root-relative directory path with separators turned into dots.
func GradleModule(root, buildFile string) (*ModuleDecl, bool) {
	dir := filepath.Dir(buildFile)
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return nil, false
	}
	rel = filepath.ToSlash(rel)
	name := strings.ReplaceAll(rel, "/", ".")
	if rel == "." {
		name = filepath.Base(root)
	}
	return &ModuleDecl{Name: name, Path: dir, Descriptor: "gradle"}, true
}

var swiftTargetPattern = regexp.MustCompile(
	`\.(?:target|executableTarget|testTarget)\(\s*name:\s*"(\w+)"\s*(?:,\s*dependencies:\s*\[([^\]]*)\])?`)

// SwiftTarget is one SwiftPM target with its declared dependencies.
type SwiftTarget struct {
	ModuleDecl
	Deps []DepDecl
}

// SwiftPackageTargets reads SwiftPM targets out of a Package.swift manifest.
// Each target becomes its own module rooted at Sources/<name>. SwiftPM has
// no api/implementation split; every edge is implementation.
func SwiftPackageTargets(manifest string, content []byte) []SwiftTarget {
	dir := filepath.Dir(manifest)
	var targets []SwiftTarget
	for _, m := range swiftTargetPattern.FindAllStringSubmatch(string(content), -1) {
		t := SwiftTarget{ModuleDecl: ModuleDecl{
			Name:       m[1],
			Path:       filepath.Join(dir, "Sources", m[1]),
			Descriptor: "swiftpm",
		}}
		for _, d := range swiftDepNamePattern.FindAllStringSubmatch(m[2], -1) {
			t.Deps = append(t.Deps, DepDecl{Name: d[1], Kind: "implementation"})
		}
		targets = append(targets, t)
	}
	return targets
}

var (
	gradleAccessorDepPattern = regexp.MustCompile(
		`\b(api|implementation|compileOnly|runtimeOnly|testImplementation|debugImplementation|kapt|ksp)\s*\(\s*projects\.([\w.]+)\s*\)`)
	gradleProjectDepPattern = regexp.MustCompile(
		`\b(api|implementation|compileOnly|runtimeOnly|testImplementation|debugImplementation|kapt|ksp)\s*\(\s*project\(\s*["']:([\w:-]+)["']\s*\)`)
	swiftDepNamePattern = regexp.MustCompile(`"(\w+)"`)
)

// GradleDeps parses project dependency declarations out of a Gradle build
// file. Type-safe accessors (projects.featureHome.core) are mapped back to
// the dotted kebab-case module names derived from directory paths.
func GradleDeps(content []byte) []DepDecl {
	text := string(content)
	var deps []DepDecl
	for _, m := range gradleAccessorDepPattern.FindAllStringSubmatch(text, -1) {
		segments := strings.Split(m[2], ".")
		for i, s := range segments {
			segments[i] = camelToKebab(s)
		}
		deps = append(deps, DepDecl{Name: strings.Join(segments, "."), Kind: m[1]})
	}
	for _, m := range gradleProjectDepPattern.FindAllStringSubmatch(text, -1) {
		name := strings.ReplaceAll(m[2], ":", ".")
		deps = append(deps, DepDecl{Name: name, Kind: m[1]})
	}
	return deps
}

// camelToKebab converts a Gradle type-safe accessor segment back to the
// directory form: featureHome -> feature-home.
func camelToKebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
