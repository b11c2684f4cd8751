package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/tidewaterhq/twapp/cmd/internal/tool"
	"github.com/tidewaterhq/twapp/cmd/internal/tool/cdktool"
	"github.com/tidewaterhq/twapp/cmd/internal/tool/goreleasertool"
	"github.com/tidewaterhq/twapp/cmd/internal/tool/gotool"
	"github.com/tidewaterhq/twapp/cmd/internal/tool/shelltool"
	"github.com/tidewaterhq/twapp/cmd/internal/version"
	"github.com/tidewaterhq/twapp/cmd/internal/wscfg"
)

type App struct {
	Version kong.VersionFlag `help:"Show version."`
	Project string           `short:"p" help:"Run only for a specific project (includes transitive dependencies)."`
	NoDeps  bool             `help:"With -p, skip transitive dependencies." name:"no-deps"`

	Doctor DoctorCmd `cmd:"" help:"Check that all required tools and files are present."`
	Init   InitCmd   `cmd:"" help:"Initialize local development environment."`
	Tools  struct {
		Matrix ToolsMatrixCmd `cmd:"" help:"Show the tool/step capability matrix."`
	} `cmd:"" help:"Tool commands."`

	Fmt       FmtCmd       `cmd:"" help:"Format code in all projects."`
	Gen       GenCmd       `cmd:"" help:"Generate code in all projects."`
	Lint      LintCmd      `cmd:"" help:"Run linters for all projects."`
	Build     BuildCmd     `cmd:"" help:"Build all projects."`
	UnitTest  UnitTestCmd  `cmd:"" name:"unit-test" help:"Run unit tests for all projects."`
	Preflight PreflightCmd `cmd:"" help:"Run all doctor, gen, fmt, lint, build, and unit-test steps."`
	Release   ReleaseCmd   `cmd:"" help:"Build and publish release artifacts."`
	Infra     struct {
		Bootstrap InfraBootstrapCmd `cmd:"" help:"Bootstrap CDK in the current AWS account/region."`
		Diff      InfraDiffCmd      `cmd:"" help:"Show infrastructure diff for a deployment."`
		Deploy    InfraDeployCmd    `cmd:"" help:"Deploy infrastructure stacks for a deployment."`
		Inspect   InfraInspectCmd   `cmd:"" help:"Inspect deployment. Use -l to select lenses."`
		Slots     InfraSlotsCmd     `cmd:"" help:"Manage dev deployment slots."`
	} `cmd:"" help:"Infrastructure commands."`
}

func newRegistry() *tool.Registry {
	reg := tool.NewRegistry()
	reg.Register(shelltool.New())
	reg.Register(gotool.New())
	reg.Register(goreleasertool.New())
	reg.Register(cdktool.New())
	return reg
}

func main() {
	reg := newRegistry()

	cfg, err := wscfg.Load(reg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var app App
	ctx := kong.Parse(&app,
		kong.Name("twapp"),
		kong.Description("Tidewater development CLI."),
		kong.Vars{"version": version.Version},
		kong.Bind(cfg),
		kong.Bind(reg),
	)

	cfg.ProjectFilter = app.Project
	cfg.NoDeps = app.NoDeps

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
