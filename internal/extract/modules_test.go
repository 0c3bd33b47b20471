package extract

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradleModule_NameFromDirectory(t *testing.T) {
	t.Parallel()
	root := filepath.FromSlash("/repo")

	mod, ok := GradleModule(root, filepath.FromSlash("/repo/feature/home/build.gradle.kts"))
	require.True(t, ok)
	assert.Equal(t, "feature.home", mod.Name)
	assert.Equal(t, filepath.FromSlash("/repo/feature/home"), mod.Path)
	assert.Equal(t, "gradle", mod.Descriptor)
}

func TestGradleModule_RootBuildFileUsesRepoName(t *testing.T) {
	t.Parallel()
	mod, ok := GradleModule(filepath.FromSlash("/work/demo-app"), filepath.FromSlash("/work/demo-app/build.gradle"))
	require.True(t, ok)
	assert.Equal(t, "demo-app", mod.Name)
}

func TestGradleDeps_AccessorsAndProjectCalls(t *testing.T) {
	t.Parallel()
	src := `
plugins { id("com.android.library") }

dependencies {
    api(projects.core.model)
    implementation(projects.featureHome.core)
    testImplementation(project(":feature:search"))
    compileOnly(project(':core:annotations'))
    implementation("com.squareup.okhttp3:okhttp:4.12.0")
}
`
	deps := GradleDeps([]byte(src))
	require.Len(t, deps, 4, "maven coordinates are not project deps")

	assert.Equal(t, DepDecl{Name: "core.model", Kind: "api"}, deps[0])
	assert.Equal(t, DepDecl{Name: "feature-home.core", Kind: "implementation"}, deps[1])
	assert.Equal(t, DepDecl{Name: "feature.search", Kind: "testImplementation"}, deps[2])
	assert.Equal(t, DepDecl{Name: "core.annotations", Kind: "compileOnly"}, deps[3])
}

func TestSwiftPackageTargets_PerTargetDeps(t *testing.T) {
	t.Parallel()
	src := `// swift-tools-version:5.9
import PackageDescription

let package = Package(
    name: "Networking",
    targets: [
        .target(
            name: "HTTPClient",
            dependencies: ["Logging", "Metrics"]),
        .target(name: "Logging"),
        .testTarget(
            name: "HTTPClientTests",
            dependencies: ["HTTPClient"]),
    ]
)
`
	targets := SwiftPackageTargets(filepath.FromSlash("/repo/Package.swift"), []byte(src))
	require.Len(t, targets, 3)

	assert.Equal(t, "HTTPClient", targets[0].Name)
	assert.Equal(t, filepath.FromSlash("/repo/Sources/HTTPClient"), targets[0].Path)
	assert.Equal(t, "swiftpm", targets[0].Descriptor)
	assert.Equal(t, []DepDecl{
		{Name: "Logging", Kind: "implementation"},
		{Name: "Metrics", Kind: "implementation"},
	}, targets[0].Deps)

	assert.Equal(t, "Logging", targets[1].Name)
	assert.Empty(t, targets[1].Deps)

	assert.Equal(t, []DepDecl{{Name: "HTTPClient", Kind: "implementation"}}, targets[2].Deps)
}

func TestCamelToKebab(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"core":          "core",
		"featureHome":   "feature-home",
		"myFeatureCore": "my-feature-core",
		"v2":            "v2",
	}
	for in, want := range cases {
		assert.Equal(t, want, camelToKebab(in), in)
	}
}
