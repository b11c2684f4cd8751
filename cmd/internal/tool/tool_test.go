package tool_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/tidewaterhq/twapp/cmd/internal/testutil"
	"github.com/tidewaterhq/twapp/cmd/internal/tool"
)

func TestCheckFilesExistenceOnly(t *testing.T) {
	t.Parallel()

	dir := testutil.Setup(t, map[string]string{
		"go.mod": "module test\n",
	})

	reqs := []tool.FileRequirement{
		{Path: "go.mod", Reason: "Go module"},
	}

	if err := tool.CheckFiles(dir, reqs); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
}

func TestCheckFilesMissingFile(t *testing.T) {
	t.Parallel()

	dir := testutil.Setup(t, map[string]string{})

	reqs := []tool.FileRequirement{
		{Path: "go.mod", Reason: "Go module"},
	}

	err := tool.CheckFiles(dir, reqs)
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	if !strings.Contains(err.Error(), "go.mod") {
		t.Errorf("expected error to mention go.mod, got: %v", err)
	}
}

func TestCheckFilesCheckPasses(t *testing.T) {
	t.Parallel()

	dir := testutil.Setup(t, map[string]string{
		"go.mod": "module test\n\ngo 1.25\n",
	})

	reqs := []tool.FileRequirement{
		{
			Path:   "go.mod",
			Reason: "module directive",
			Check: func(rd io.Reader) error {
				data, err := io.ReadAll(rd)
				if err != nil {
					return err
				}
				if !strings.HasPrefix(string(data), "module ") {
					return errors.New("missing module directive")
				}
				return nil
			},
		},
	}

	if err := tool.CheckFiles(dir, reqs); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
}

func TestCheckFilesCheckFails(t *testing.T) {
	t.Parallel()

	dir := testutil.Setup(t, map[string]string{
		"go.mod": "go 1.25\n",
	})

	reqs := []tool.FileRequirement{
		{
			Path:   "go.mod",
			Reason: "module directive",
			Check: func(rd io.Reader) error {
				data, err := io.ReadAll(rd)
				if err != nil {
					return err
				}
				if !strings.HasPrefix(string(data), "module ") {
					return errors.New("missing module directive")
				}
				return nil
			},
		},
	}

	err := tool.CheckFiles(dir, reqs)
	if err == nil {
		t.Fatal("expected error for failing check")
	}

	if !strings.Contains(err.Error(), "missing module directive") {
		t.Errorf("expected error about missing directive, got: %v", err)
	}
}

func TestCheckFilesCheckOnMissingFile(t *testing.T) {
	t.Parallel()

	dir := testutil.Setup(t, map[string]string{})

	reqs := []tool.FileRequirement{
		{
			Path:   "go.mod",
			Reason: "module directive",
			Check: func(_ io.Reader) error {
				return nil
			},
		},
	}

	err := tool.CheckFiles(dir, reqs)
	if err == nil {
		t.Fatal("expected error for missing file with check")
	}

	if !strings.Contains(err.Error(), "go.mod") {
		t.Errorf("expected error to mention go.mod, got: %v", err)
	}
}

type fmtOnlyTool struct {
	fmtCalls int
}

func (f *fmtOnlyTool) Name() string        { return "fmt-only" }
func (f *fmtOnlyTool) RunsAfter() []string { return nil }

func (f *fmtOnlyTool) Fmt(_ context.Context, _ string, _ tool.NodeReporter) error {
	f.fmtCalls++
	return nil
}

func TestSupportsStepMatchesInterfaces(t *testing.T) {
	t.Parallel()

	tl := &fmtOnlyTool{}
	if !tool.SupportsStep(tl, tool.StepFmt) {
		t.Error("expected fmt to be supported")
	}
	if tool.SupportsStep(tl, tool.StepLint) {
		t.Error("lint should not be supported")
	}
	if tool.SupportsStep(tl, tool.StepDeploy) {
		t.Error("deploy should not be supported")
	}
}

func TestRunStepSkipsUnsupported(t *testing.T) {
	t.Parallel()

	tl := &fmtOnlyTool{}
	if err := tool.RunStep(context.Background(), tl, tool.StepLint, "/tmp", nil); err != nil {
		t.Errorf("unsupported step should be a no-op, got: %v", err)
	}
	if err := tool.RunStep(context.Background(), tl, tool.StepFmt, "/tmp", nil); err != nil {
		t.Fatal(err)
	}
	if tl.fmtCalls != 1 {
		t.Errorf("expected 1 fmt call, got %d", tl.fmtCalls)
	}
}

func TestRegistryPreservesOrder(t *testing.T) {
	t.Parallel()

	reg := tool.NewRegistry()
	first := &fmtOnlyTool{}
	reg.Register(first)

	got, err := reg.Get("fmt-only")
	if err != nil {
		t.Fatal(err)
	}
	if got != tool.Tool(first) {
		t.Error("expected registered tool back")
	}

	if _, err := reg.Get("nope"); err == nil {
		t.Error("expected error for unknown tool")
	}

	all := reg.All()
	if len(all) != 1 || all[0].Name() != "fmt-only" {
		t.Errorf("unexpected All() result: %v", all)
	}
}
