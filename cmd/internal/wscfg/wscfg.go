// Package wscfg loads the workspace configuration from twapp.toml at the
// repository root. The file declares the projects in the workspace, the
// tools each project uses, and per-project tool configuration that the
// owning tool decodes itself.
package wscfg

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/tidewaterhq/twapp/cmd/internal/tool"
)

const configFile = "twapp.toml"

type Config struct {
	Root     string          `toml:"-"`
	Projects []ProjectConfig `toml:"project"`

	// ProjectFilter and NoDeps come from the command line, not the file.
	ProjectFilter string `toml:"-"`
	NoDeps        bool   `toml:"-"`

	toolConfigs map[string]any
}

type ProjectConfig struct {
	Name      string   `toml:"name"`
	Dir       string   `toml:"dir"`
	Tools     []string `toml:"tools"`
	DependsOn []string `toml:"depends_on"`

	// Tool holds raw [project.tool.<name>] tables. They stay undecoded
	// until the named tool interprets them, so wscfg needs no knowledge
	// of any tool's option set.
	Tool map[string]toml.Primitive `toml:"tool"`
}

func (c *Config) ProjectDir(proj ProjectConfig) string {
	return filepath.Join(c.Root, proj.Dir)
}

// ProjectToolConfig returns the decoded configuration for one
// project/tool pair, or nil when the project has none.
func (c *Config) ProjectToolConfig(project, toolName string) any {
	return c.toolConfigs[project+"/"+toolName]
}

// FindProjectByTool returns the first project that uses the named tool.
func (c *Config) FindProjectByTool(toolName string) (*ProjectConfig, error) {
	for i, proj := range c.Projects {
		if slices.Contains(proj.Tools, toolName) {
			return &c.Projects[i], nil
		}
	}
	return nil, errors.Newf("no project uses tool %q", toolName)
}

// Load finds twapp.toml in the current directory or any parent, parses
// it, and decodes each project's tool tables through the registry.
func Load(reg *tool.Registry) (*Config, error) {
	root, err := findRoot()
	if err != nil {
		return nil, err
	}

	var cfg Config
	meta, err := toml.DecodeFile(filepath.Join(root, configFile), &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", configFile)
	}

	cfg.Root = root

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", configFile)
	}

	if err := cfg.decodeToolConfigs(meta, reg); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", configFile)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	names := make(map[string]struct{}, len(c.Projects))
	for i, proj := range c.Projects {
		if proj.Name == "" {
			return errors.Newf("project[%d].name is required", i)
		}
		if proj.Dir == "" {
			return errors.Newf("project[%d].dir is required", i)
		}
		if filepath.IsAbs(proj.Dir) {
			return errors.Newf("project[%d].dir must be relative, got %q", i, proj.Dir)
		}
		if len(proj.Tools) == 0 {
			return errors.Newf("project[%d].tools is required", i)
		}
		if _, dup := names[proj.Name]; dup {
			return errors.Newf("duplicate project name %q", proj.Name)
		}
		names[proj.Name] = struct{}{}
	}
	for i, proj := range c.Projects {
		for _, dep := range proj.DependsOn {
			if _, ok := names[dep]; !ok {
				return errors.Newf("project[%d] (%q) depends on unknown project %q", i, proj.Name, dep)
			}
		}
	}
	return nil
}

func (c *Config) decodeToolConfigs(meta toml.MetaData, reg *tool.Registry) error {
	c.toolConfigs = make(map[string]any)

	for _, proj := range c.Projects {
		for toolName, raw := range proj.Tool {
			if !slices.Contains(proj.Tools, toolName) {
				return errors.Newf(
					"project %q configures tool %q but does not list it in tools", proj.Name, toolName)
			}

			tl, err := reg.Get(toolName)
			if err != nil {
				return errors.Wrapf(err, "project %q", proj.Name)
			}

			dec, ok := tl.(tool.ConfigDecoder)
			if !ok {
				return errors.Newf("project %q: tool %q does not accept configuration", proj.Name, toolName)
			}

			decoded, err := dec.DecodeConfig(meta, raw)
			if err != nil {
				return errors.Wrapf(err, "project %q", proj.Name)
			}
			c.toolConfigs[proj.Name+"/"+toolName] = decoded
		}
	}
	return nil
}

// FilterProjects narrows the project list to the named project and its
// transitive dependencies, ordered so dependencies come first. An empty
// or unknown name returns the list unchanged; noDeps drops the
// dependency closure and keeps only the named project.
func FilterProjects(projects []ProjectConfig, name string, noDeps bool) []ProjectConfig {
	if name == "" {
		return projects
	}

	byName := make(map[string]ProjectConfig, len(projects))
	for _, proj := range projects {
		byName[proj.Name] = proj
	}

	target, ok := byName[name]
	if !ok {
		return projects
	}
	if noDeps {
		return []ProjectConfig{target}
	}

	var ordered []ProjectConfig
	seen := make(map[string]struct{}, len(projects))

	var visit func(proj ProjectConfig)
	visit = func(proj ProjectConfig) {
		if _, done := seen[proj.Name]; done {
			return
		}
		seen[proj.Name] = struct{}{}
		for _, dep := range proj.DependsOn {
			if depProj, ok := byName[dep]; ok {
				visit(depProj)
			}
		}
		ordered = append(ordered, proj)
	}
	visit(target)

	return ordered
}

func findRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, configFile)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Newf("could not find %s in any parent directory", configFile)
		}
		dir = parent
	}
}
