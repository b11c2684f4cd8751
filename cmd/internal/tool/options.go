package tool

import (
	"context"

	"github.com/tidewaterhq/twapp/cmd/internal/bincheck"
)

// Steps receive command-line options and per-node configuration through
// the context: graph nodes run in parallel and the walk callback has a
// fixed signature, so the context is the only channel that reaches every
// step without widening each interface.

type toolConfigKey struct{}

// WithToolConfig attaches the decoded per-project tool configuration for
// the node about to run.
func WithToolConfig(ctx context.Context, cfg any) context.Context {
	return context.WithValue(ctx, toolConfigKey{}, cfg)
}

// ToolConfigFrom returns the node's tool configuration, or nil when the
// project has no [project.tool.*] table for this tool.
func ToolConfigFrom[T any](ctx context.Context) *T {
	cfg, ok := ctx.Value(toolConfigKey{}).(T)
	if !ok {
		return nil
	}
	return &cfg
}

type deploymentKey struct{}

// WithDeployment pins the deployment name given on the command line.
func WithDeployment(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, deploymentKey{}, name)
}

func DeploymentFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(deploymentKey{}).(string)
	return v, ok
}

type BootstrapOptions struct {
	Profile             string
	ExecutionPolicies   string
	PermissionsBoundary string
}

type bootstrapOptionsKey struct{}

func WithBootstrapOptions(ctx context.Context, opts BootstrapOptions) context.Context {
	return context.WithValue(ctx, bootstrapOptionsKey{}, opts)
}

func BootstrapOptionsFrom(ctx context.Context) (BootstrapOptions, bool) {
	v, ok := ctx.Value(bootstrapOptionsKey{}).(BootstrapOptions)
	return v, ok
}

type DeployOptions struct {
	Hotswap bool
}

type deployOptionsKey struct{}

func WithDeployOptions(ctx context.Context, opts DeployOptions) context.Context {
	return context.WithValue(ctx, deployOptionsKey{}, opts)
}

func DeployOptionsFrom(ctx context.Context) (DeployOptions, bool) {
	v, ok := ctx.Value(deployOptionsKey{}).(DeployOptions)
	return v, ok
}

type ReleaseOptions struct {
	DryRun bool
}

type releaseOptionsKey struct{}

func WithReleaseOptions(ctx context.Context, opts ReleaseOptions) context.Context {
	return context.WithValue(ctx, releaseOptionsKey{}, opts)
}

func ReleaseOptionsFrom(ctx context.Context) (ReleaseOptions, bool) {
	v, ok := ctx.Value(releaseOptionsKey{}).(ReleaseOptions)
	return v, ok
}

type binCheckerKey struct{}

// WithBinChecker shares one binary checker across all doctor nodes so
// repeated lookups of the same binary hit the cache.
func WithBinChecker(ctx context.Context, c *bincheck.Checker) context.Context {
	return context.WithValue(ctx, binCheckerKey{}, c)
}

// BinCheckerFrom returns the shared checker, or a fresh one when the
// command did not attach any.
func BinCheckerFrom(ctx context.Context) *bincheck.Checker {
	if c, ok := ctx.Value(binCheckerKey{}).(*bincheck.Checker); ok {
		return c
	}
	return bincheck.NewChecker()
}
