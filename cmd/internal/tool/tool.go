// Package tool defines the registry of workspace tools and the step
// interfaces they can implement. A tool opts into a step by implementing
// the matching interface; the execution graph only creates nodes for
// steps a tool supports.
package tool

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

type Tool interface {
	Name() string
	// RunsAfter names tools whose same-step nodes must complete first
	// within a project.
	RunsAfter() []string
}

// ConfigDecoder is implemented by tools that accept per-project
// configuration from the workspace file. The raw primitive comes from a
// [project.tool.<name>] table.
type ConfigDecoder interface {
	DecodeConfig(meta toml.MetaData, raw toml.Primitive) (any, error)
}

type BinaryRequirement struct {
	Name   string
	Reason string
	// SkipMiseCheck accepts a system install without a mise pin, for
	// binaries like git that are never version-managed per workspace.
	SkipMiseCheck bool
}

type FileRequirement struct {
	Path   string
	Reason string
	Check  func(r io.Reader) error
}

type Doctor interface {
	RequiredBinaries() []BinaryRequirement
	RequiredFiles() []FileRequirement
}

type Initializer interface {
	Init(ctx context.Context, dir string, r NodeReporter) error
}

type Formatter interface {
	Fmt(ctx context.Context, dir string, r NodeReporter) error
}

type Generator interface {
	Gen(ctx context.Context, dir string, r NodeReporter) error
}

type Linter interface {
	Lint(ctx context.Context, dir string, r NodeReporter) error
}

type Builder interface {
	Build(ctx context.Context, dir string, r NodeReporter) error
}

type Tester interface {
	UnitTest(ctx context.Context, dir string, r NodeReporter) error
}

type Releaser interface {
	Release(ctx context.Context, dir string, r NodeReporter) error
}

type Bootstrapper interface {
	Bootstrap(ctx context.Context, dir string, r NodeReporter) error
}

type Differ interface {
	Diff(ctx context.Context, dir string, r NodeReporter) error
}

type Deployer interface {
	Deploy(ctx context.Context, dir string, r NodeReporter) error
}

// RunStep dispatches one step to the target tool. Tools that do not
// support the step are a no-op, so callers can run a step list across a
// mixed tool set.
func RunStep(ctx context.Context, target Tool, step Step, dir string, r NodeReporter) error {
	switch step {
	case StepInit:
		if init, ok := target.(Initializer); ok {
			return init.Init(ctx, dir, r)
		}
	case StepDoctor:
		if diag, ok := target.(Diagnoser); ok {
			return diag.Diagnose(ctx, dir, r)
		}
	case StepFmt:
		if fmtr, ok := target.(Formatter); ok {
			return fmtr.Fmt(ctx, dir, r)
		}
	case StepGen:
		if gen, ok := target.(Generator); ok {
			return gen.Gen(ctx, dir, r)
		}
	case StepLint:
		if lntr, ok := target.(Linter); ok {
			return lntr.Lint(ctx, dir, r)
		}
	case StepBuild:
		if bld, ok := target.(Builder); ok {
			return bld.Build(ctx, dir, r)
		}
	case StepUnitTest:
		if tstr, ok := target.(Tester); ok {
			return tstr.UnitTest(ctx, dir, r)
		}
	case StepRelease:
		if rel, ok := target.(Releaser); ok {
			return rel.Release(ctx, dir, r)
		}
	case StepBootstrap:
		if btr, ok := target.(Bootstrapper); ok {
			return btr.Bootstrap(ctx, dir, r)
		}
	case StepDiff:
		if dfr, ok := target.(Differ); ok {
			return dfr.Diff(ctx, dir, r)
		}
	case StepDeploy:
		if dep, ok := target.(Deployer); ok {
			return dep.Deploy(ctx, dir, r)
		}
	case StepInspect:
		if prov, ok := target.(InspectionProvider); ok {
			return RunInspections(ctx, prov, dir, r)
		}
	default:
		return errors.Newf("unknown step: %s", step)
	}
	return nil
}

// SupportsStep reports whether the tool implements the step's interface.
func SupportsStep(t Tool, step Step) bool {
	var ok bool
	switch step {
	case StepInit:
		_, ok = t.(Initializer)
	case StepDoctor:
		_, ok = t.(Diagnoser)
	case StepFmt:
		_, ok = t.(Formatter)
	case StepGen:
		_, ok = t.(Generator)
	case StepLint:
		_, ok = t.(Linter)
	case StepBuild:
		_, ok = t.(Builder)
	case StepUnitTest:
		_, ok = t.(Tester)
	case StepRelease:
		_, ok = t.(Releaser)
	case StepBootstrap:
		_, ok = t.(Bootstrapper)
	case StepDiff:
		_, ok = t.(Differ)
	case StepDeploy:
		_, ok = t.(Deployer)
	case StepInspect:
		_, ok = t.(InspectionProvider)
	}
	return ok
}

// Registry holds the known tools in registration order.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(t Tool) {
	r.tools[t.Name()] = t
	r.order = append(r.order, t.Name())
}

func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, errors.Newf("unknown tool: %q", name)
	}
	return t, nil
}

func (r *Registry) All() []Tool {
	result := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.tools[name])
	}
	return result
}

// CheckFiles verifies that each required file exists under dir, running
// the requirement's content check when one is set.
func CheckFiles(dir string, reqs []FileRequirement) error {
	for _, req := range reqs {
		fullPath := filepath.Join(dir, req.Path)

		if req.Check != nil {
			fl, err := os.Open(fullPath)
			if err != nil {
				return errors.Newf("required file %q not found in %s (%s)", req.Path, dir, req.Reason)
			}

			checkErr := req.Check(fl)
			fl.Close()

			if checkErr != nil {
				return errors.Wrapf(checkErr, "file %q in %s", req.Path, dir)
			}
		} else {
			if _, err := os.Stat(fullPath); err != nil {
				return errors.Newf("required file %q not found in %s (%s)", req.Path, dir, req.Reason)
			}
		}
	}

	return nil
}
