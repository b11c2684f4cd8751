//nolint:paralleltest // t.Chdir is incompatible with parallel tests
package wscfg_test

import (
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/tidewaterhq/twapp/cmd/internal/testutil"
	"github.com/tidewaterhq/twapp/cmd/internal/tool"
	"github.com/tidewaterhq/twapp/cmd/internal/wscfg"
)

type stubTool struct{ name string }

func (s stubTool) Name() string        { return s.name }
func (s stubTool) RunsAfter() []string { return nil }

type releaseConfig struct {
	VersionFile string `toml:"version-file"`
}

type decoderTool struct{ stubTool }

func (decoderTool) DecodeConfig(meta toml.MetaData, raw toml.Primitive) (any, error) {
	var cfg releaseConfig
	if err := meta.PrimitiveDecode(raw, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newTestRegistry() *tool.Registry {
	reg := tool.NewRegistry()
	reg.Register(stubTool{name: "go"})
	reg.Register(decoderTool{stubTool{name: "release"}})
	return reg
}

func TestLoadFindsRootFromSubdirectory(t *testing.T) {
	dir := testutil.Setup(t, map[string]string{
		"twapp.toml": `
[[project]]
name = "app"
dir = "app"
tools = ["go"]
`,
		"app/sub/placeholder.txt": "",
	})

	t.Chdir(dir + "/app/sub")

	cfg, err := wscfg.Load(newTestRegistry())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Projects) != 1 || cfg.Projects[0].Name != "app" {
		t.Fatalf("unexpected projects: %+v", cfg.Projects)
	}
	if !strings.HasSuffix(cfg.ProjectDir(cfg.Projects[0]), "/app") {
		t.Fatalf("unexpected project dir: %s", cfg.ProjectDir(cfg.Projects[0]))
	}
}

func TestLoadErrorsWithoutConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := wscfg.Load(newTestRegistry())
	if err == nil || !strings.Contains(err.Error(), "could not find twapp.toml") {
		t.Fatalf("expected missing config error, got: %v", err)
	}
}

func TestLoadValidatesProjects(t *testing.T) {
	for _, tt := range []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name:    "missing name",
			config:  "[[project]]\ndir = \"app\"\ntools = [\"go\"]\n",
			wantErr: "project[0].name is required",
		},
		{
			name:    "missing dir",
			config:  "[[project]]\nname = \"app\"\ntools = [\"go\"]\n",
			wantErr: "project[0].dir is required",
		},
		{
			name:    "absolute dir",
			config:  "[[project]]\nname = \"app\"\ndir = \"/app\"\ntools = [\"go\"]\n",
			wantErr: "must be relative",
		},
		{
			name:    "missing tools",
			config:  "[[project]]\nname = \"app\"\ndir = \"app\"\n",
			wantErr: "project[0].tools is required",
		},
		{
			name: "duplicate name",
			config: "[[project]]\nname = \"app\"\ndir = \"a\"\ntools = [\"go\"]\n" +
				"[[project]]\nname = \"app\"\ndir = \"b\"\ntools = [\"go\"]\n",
			wantErr: `duplicate project name "app"`,
		},
		{
			name:    "unknown dependency",
			config:  "[[project]]\nname = \"app\"\ndir = \"app\"\ntools = [\"go\"]\ndepends_on = [\"lib\"]\n",
			wantErr: `depends on unknown project "lib"`,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutil.Setup(t, map[string]string{"twapp.toml": tt.config})
			t.Chdir(dir)

			_, err := wscfg.Load(newTestRegistry())
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadDecodesToolConfig(t *testing.T) {
	dir := testutil.Setup(t, map[string]string{
		"twapp.toml": `
[[project]]
name = "app"
dir = "app"
tools = ["go", "release"]

[project.tool.release]
version-file = "VERSION"
`,
	})
	t.Chdir(dir)

	cfg, err := wscfg.Load(newTestRegistry())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	got, ok := cfg.ProjectToolConfig("app", "release").(releaseConfig)
	if !ok {
		t.Fatalf("unexpected config type: %T", cfg.ProjectToolConfig("app", "release"))
	}
	if got.VersionFile != "VERSION" {
		t.Fatalf("version file: got %q, want %q", got.VersionFile, "VERSION")
	}
	if cfg.ProjectToolConfig("app", "go") != nil {
		t.Fatalf("expected nil config for tool without a table")
	}
}

func TestLoadRejectsConfigForUnlistedTool(t *testing.T) {
	dir := testutil.Setup(t, map[string]string{
		"twapp.toml": `
[[project]]
name = "app"
dir = "app"
tools = ["go"]

[project.tool.release]
version-file = "VERSION"
`,
	})
	t.Chdir(dir)

	_, err := wscfg.Load(newTestRegistry())
	if err == nil || !strings.Contains(err.Error(), "does not list it in tools") {
		t.Fatalf("expected unlisted tool error, got: %v", err)
	}
}

func TestLoadRejectsConfigForToolWithoutDecoder(t *testing.T) {
	dir := testutil.Setup(t, map[string]string{
		"twapp.toml": `
[[project]]
name = "app"
dir = "app"
tools = ["go"]

[project.tool.go]
anything = true
`,
	})
	t.Chdir(dir)

	_, err := wscfg.Load(newTestRegistry())
	if err == nil || !strings.Contains(err.Error(), "does not accept configuration") {
		t.Fatalf("expected undecodable config error, got: %v", err)
	}
}

func TestFindProjectByTool(t *testing.T) {
	dir := testutil.Setup(t, map[string]string{
		"twapp.toml": `
[[project]]
name = "app"
dir = "app"
tools = ["go"]

[[project]]
name = "dist"
dir = "dist"
tools = ["release"]
`,
	})
	t.Chdir(dir)

	cfg, err := wscfg.Load(newTestRegistry())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	proj, err := cfg.FindProjectByTool("release")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if proj.Name != "dist" {
		t.Fatalf("got project %q, want %q", proj.Name, "dist")
	}

	if _, err := cfg.FindProjectByTool("cdk"); err == nil {
		t.Fatal("expected error for tool no project uses")
	}
}
