package wscfg_test

import (
	"slices"
	"testing"

	"github.com/tidewaterhq/twapp/cmd/internal/wscfg"
)

func projectNames(projects []wscfg.ProjectConfig) []string {
	names := make([]string, 0, len(projects))
	for _, proj := range projects {
		names = append(names, proj.Name)
	}
	return names
}

func TestFilterIncludesDirectDependencies(t *testing.T) {
	t.Parallel()

	projects := []wscfg.ProjectConfig{
		{Name: "lib", Dir: "lib", Tools: []string{"go"}},
		{Name: "app", Dir: "app", Tools: []string{"go"}, DependsOn: []string{"lib"}},
	}

	got := projectNames(wscfg.FilterProjects(projects, "app", false))
	want := []string{"lib", "app"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFilterIncludesTransitiveDependencies(t *testing.T) {
	t.Parallel()

	projects := []wscfg.ProjectConfig{
		{Name: "core", Dir: "core", Tools: []string{"go"}},
		{Name: "lib", Dir: "lib", Tools: []string{"go"}, DependsOn: []string{"core"}},
		{Name: "app", Dir: "app", Tools: []string{"go"}, DependsOn: []string{"lib"}},
	}

	got := projectNames(wscfg.FilterProjects(projects, "app", false))
	want := []string{"core", "lib", "app"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFilterNoDepsKeepsOnlyNamedProject(t *testing.T) {
	t.Parallel()

	projects := []wscfg.ProjectConfig{
		{Name: "lib", Dir: "lib", Tools: []string{"go"}},
		{Name: "app", Dir: "app", Tools: []string{"go"}, DependsOn: []string{"lib"}},
	}

	got := projectNames(wscfg.FilterProjects(projects, "app", true))
	want := []string{"app"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFilterUnknownProjectReturnsAll(t *testing.T) {
	t.Parallel()

	projects := []wscfg.ProjectConfig{
		{Name: "lib", Dir: "lib", Tools: []string{"go"}},
		{Name: "app", Dir: "app", Tools: []string{"go"}, DependsOn: []string{"lib"}},
	}

	got := projectNames(wscfg.FilterProjects(projects, "nope", false))
	want := []string{"lib", "app"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFilterEmptyNameReturnsAll(t *testing.T) {
	t.Parallel()

	projects := []wscfg.ProjectConfig{
		{Name: "lib", Dir: "lib", Tools: []string{"go"}},
		{Name: "app", Dir: "app", Tools: []string{"go"}, DependsOn: []string{"lib"}},
	}

	got := projectNames(wscfg.FilterProjects(projects, "", false))
	want := []string{"lib", "app"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFilterDiamondDependencyAppearsOnce(t *testing.T) {
	t.Parallel()

	projects := []wscfg.ProjectConfig{
		{Name: "core", Dir: "core", Tools: []string{"go"}},
		{Name: "left", Dir: "left", Tools: []string{"go"}, DependsOn: []string{"core"}},
		{Name: "right", Dir: "right", Tools: []string{"go"}, DependsOn: []string{"core"}},
		{Name: "app", Dir: "app", Tools: []string{"go"}, DependsOn: []string{"left", "right"}},
	}

	got := projectNames(wscfg.FilterProjects(projects, "app", false))
	want := []string{"core", "left", "right", "app"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFilterProjectWithoutDependencies(t *testing.T) {
	t.Parallel()

	projects := []wscfg.ProjectConfig{
		{Name: "lib", Dir: "lib", Tools: []string{"go"}},
		{Name: "app", Dir: "app", Tools: []string{"go"}},
	}

	got := projectNames(wscfg.FilterProjects(projects, "app", false))
	want := []string{"app"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
