// Package gotool runs the Go toolchain and golangci-lint for projects
// that list the go tool.
package gotool

import (
	"context"

	"github.com/tidewaterhq/twapp/cmd/internal/cmdexec"
	"github.com/tidewaterhq/twapp/cmd/internal/tool"
)

type Tool struct{}

func New() *Tool { return &Tool{} }

func (t *Tool) Name() string { return "go" }

func (t *Tool) RunsAfter() []string { return nil }

func (t *Tool) RequiredBinaries() []tool.BinaryRequirement {
	return []tool.BinaryRequirement{
		{Name: "go", Reason: "build, generate, and test Go code"},
		{Name: "golangci-lint", Reason: "format and lint Go code"},
	}
}

func (t *Tool) RequiredFiles() []tool.FileRequirement {
	return []tool.FileRequirement{
		{Path: "go.mod", Reason: "Go module definition"},
		{Path: ".golangci.yml", Reason: "golangci-lint configuration"},
	}
}

func (t *Tool) Diagnose(ctx context.Context, dir string, r tool.NodeReporter) error {
	return tool.DiagnoseDefaults(ctx, dir, t, tool.BinCheckerFrom(ctx), r)
}

func (t *Tool) Init(ctx context.Context, dir string, _ tool.NodeReporter) error {
	return t.run(ctx, dir, "go", "mod", "download")
}

func (t *Tool) Fmt(ctx context.Context, dir string, _ tool.NodeReporter) error {
	if err := t.run(ctx, dir, "go", "mod", "tidy"); err != nil {
		return err
	}
	return cmdexec.Run(ctx, dir, "golangci-lint", "fmt", "./...")
}

func (t *Tool) Gen(ctx context.Context, dir string, _ tool.NodeReporter) error {
	return t.run(ctx, dir, "go", "generate", "./...")
}

func (t *Tool) Lint(ctx context.Context, dir string, _ tool.NodeReporter) error {
	return t.run(ctx, dir, "golangci-lint", "run", "./...")
}

func (t *Tool) Build(ctx context.Context, dir string, _ tool.NodeReporter) error {
	return t.run(ctx, dir, "go", "build", "./...")
}

func (t *Tool) UnitTest(ctx context.Context, dir string, _ tool.NodeReporter) error {
	return t.run(ctx, dir, "go", "test", "./...")
}

// run guards every step behind the required-files check so a step in
// the wrong directory fails with a clear message instead of whatever
// the toolchain prints.
func (t *Tool) run(ctx context.Context, dir, name string, args ...string) error {
	if err := tool.CheckFiles(dir, t.RequiredFiles()); err != nil {
		return err
	}
	return cmdexec.Run(ctx, dir, name, args...)
}
