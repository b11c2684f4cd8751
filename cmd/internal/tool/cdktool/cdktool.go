// Package cdktool drives the AWS CDK for infrastructure projects:
// bootstrapping environments, diffing and deploying stacks, and
// inspecting deployed outputs. Deployments resolve through an explicit
// flag, the configured dev strategy, or a claimed dev slot, in that
// order.
package cdktool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/tidewaterhq/twapp/cmd/internal/cdkctx"
	"github.com/tidewaterhq/twapp/cmd/internal/cfndeploy"
	"github.com/tidewaterhq/twapp/cmd/internal/cfnparams"
	"github.com/tidewaterhq/twapp/cmd/internal/cfnpatch"
	"github.com/tidewaterhq/twapp/cmd/internal/cfnread"
	"github.com/tidewaterhq/twapp/cmd/internal/cfnvalidate"
	"github.com/tidewaterhq/twapp/cmd/internal/cmdexec"
	"github.com/tidewaterhq/twapp/cmd/internal/devslot"
	"github.com/tidewaterhq/twapp/cmd/internal/devstrategy"
	"github.com/tidewaterhq/twapp/cmd/internal/tool"
)

const devSlotExpirationDays = 7

type cdkConfig struct {
	Profile         string              `toml:"profile"`
	DevStrategy     string              `toml:"dev-strategy"`
	LegacyBootstrap bool                `toml:"legacy-bootstrap"`
	PreBootstrap    *preBootstrapConfig `toml:"pre-bootstrap"`
}

type preBootstrapConfig struct {
	Template   string            `toml:"template"`
	Parameters map[string]string `toml:"parameters"`
}

func (c *cdkConfig) cdkArgs() []string {
	var args []string
	if c.Profile != "" {
		args = append(args, "--profile", c.Profile)
	}
	return args
}

// bootstrapArgs extends cdkArgs with flags only `cdk bootstrap`
// accepts; other cdk commands reject --qualifier.
func (c *cdkConfig) bootstrapArgs(qualifier string) []string {
	var args []string
	if c.LegacyBootstrap {
		args = append(args,
			"--qualifier", qualifier,
			"--toolkit-stack-name", qualifier+"Bootstrap",
		)
	}
	return append(args, c.cdkArgs()...)
}

type Tool struct{}

func New() *Tool { return &Tool{} }

func (t *Tool) Name() string        { return "cdk" }
func (t *Tool) RunsAfter() []string { return nil }

func (t *Tool) DecodeConfig(meta toml.MetaData, raw toml.Primitive) (any, error) {
	var cfg cdkConfig
	if err := meta.PrimitiveDecode(raw, &cfg); err != nil {
		return nil, errors.Wrap(err, "decoding cdk config")
	}
	if cfg.DevStrategy != "" && cfg.DevStrategy != "iam-username" {
		return nil, errors.Newf("dev-strategy must be %q, got %q", "iam-username", cfg.DevStrategy)
	}
	if pb := cfg.PreBootstrap; pb != nil {
		if pb.Template == "" {
			return nil, errors.New("pre-bootstrap.template is required")
		}
		if filepath.IsAbs(pb.Template) {
			return nil, errors.Newf("pre-bootstrap.template must be relative, got %q", pb.Template)
		}
	}
	return cfg, nil
}

func (t *Tool) RequiredBinaries() []tool.BinaryRequirement {
	return []tool.BinaryRequirement{
		{Name: "cdk", Reason: "deploy and manage CDK stacks"},
		{Name: "aws", Reason: "interact with AWS services"},
	}
}

func (t *Tool) RequiredFiles() []tool.FileRequirement {
	return []tool.FileRequirement{
		{Path: "cdk.json", Reason: "CDK project configuration"},
		{Path: "cdk.context.json", Reason: "CDK context values"},
	}
}

func (t *Tool) Diagnose(ctx context.Context, dir string, r tool.NodeReporter) error {
	return tool.DiagnoseDefaults(ctx, dir, t, tool.BinCheckerFrom(ctx), r)
}

func (t *Tool) Bootstrap(ctx context.Context, dir string, _ tool.NodeReporter) error {
	cfg := configFromCtx(ctx)
	opts, _ := tool.BootstrapOptionsFrom(ctx)

	profile := opts.Profile
	if profile == "" {
		profile = cfg.Profile
	}

	cctx, err := cdkctx.Load(dir)
	if err != nil {
		return err
	}

	executionPolicies, permissionsBoundary, err := resolveBootstrapFlags(
		ctx, cfg, cctx, dir, profile, opts,
	)
	if err != nil {
		return err
	}

	templatePath, err := patchedBootstrapTemplate(ctx, dir)
	if err != nil {
		return err
	}
	defer os.Remove(templatePath)

	args := append([]string{"bootstrap"}, cfg.bootstrapArgs(cctx.Qualifier)...)
	args = append(args, "--template", templatePath)
	// bootstrapArgs may already include --profile from cfg.Profile. When
	// the command receives a different --profile override, such as an
	// admin profile, strip the existing one so cdk does not see two
	// --profile flags and use the wrong one.
	if profile != "" && profile != cfg.Profile {
		args = filterProfileArgs(args)
		args = append(args, "--profile", profile)
	}
	if executionPolicies != "" {
		args = append(args, "--cloudformation-execution-policies", executionPolicies)
	}
	if permissionsBoundary != "" {
		args = append(args, "--custom-permissions-boundary", permissionsBoundary)
	}
	return cmdexec.Run(ctx, dir, "cdk", args...)
}

func (t *Tool) Diff(ctx context.Context, dir string, _ tool.NodeReporter) error {
	cfg := configFromCtx(ctx)

	cctx, err := cdkctx.Load(dir)
	if err != nil {
		return err
	}

	deployment, err := resolveDeployment(ctx, cfg, cctx, dir)
	if err != nil {
		return err
	}

	args := append([]string{"diff"}, cfg.cdkArgs()...)
	args = append(args, cctx.Qualifier+"*Shared", cctx.Qualifier+"*"+deployment)
	return cmdexec.Run(ctx, dir, "cdk", args...)
}

func (t *Tool) Deploy(ctx context.Context, dir string, _ tool.NodeReporter) error {
	cfg := configFromCtx(ctx)
	opts, _ := tool.DeployOptionsFrom(ctx)

	cctx, err := cdkctx.Load(dir)
	if err != nil {
		return err
	}

	deployment, err := resolveDeployment(ctx, cfg, cctx, dir)
	if err != nil {
		return err
	}

	args := []string{"deploy", "--require-approval", "never"}
	if opts.Hotswap {
		args = append(args, "--hotswap")
	}
	args = append(args, cfg.cdkArgs()...)
	args = append(args, cctx.Qualifier+"*Shared", cctx.Qualifier+"*"+deployment)
	return cmdexec.Run(ctx, dir, "cdk", args...)
}

func (t *Tool) Inspections() []tool.Inspection {
	return []tool.Inspection{
		{Name: "endpoints", Description: "API Gateway endpoint URLs", Run: inspectOutputsByKey("GatewayURL")},
		{Name: "logs", Description: "CloudWatch log group names", Run: inspectOutputsByKey("LogGroup")},
	}
}

type stackInfo struct {
	Name   string
	Region string
}

// listDeploymentStacks asks cdk for the app's stack names and keeps the
// shared stacks plus those of the resolved deployment, each mapped to
// its region through the name's region identifier.
func listDeploymentStacks(
	ctx context.Context, dir string, cfg *cdkConfig,
	cctx *cdkctx.CDKContext, deployment string,
) ([]stackInfo, error) {
	listArgs := append([]string{"list"}, cfg.cdkArgs()...)
	out, err := cmdexec.Output(ctx, dir, "cdk", listArgs...)
	if err != nil {
		return nil, err
	}

	var stacks []stackInfo
	for line := range strings.SplitSeq(out, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		if !strings.HasSuffix(name, deployment) && !strings.HasSuffix(name, "Shared") {
			continue
		}
		region, ok := cctx.ResolveStackRegion(name)
		if !ok {
			continue
		}
		stacks = append(stacks, stackInfo{Name: name, Region: region})
	}
	return stacks, nil
}

func inspectOutputsByKey(outputKeySubstr string) func(context.Context, string, tool.NodeReporter) error {
	return func(ctx context.Context, dir string, r tool.NodeReporter) error {
		cfg := configFromCtx(ctx)

		cctx, err := cdkctx.Load(dir)
		if err != nil {
			return err
		}

		deployment, err := resolveDeployment(ctx, cfg, cctx, dir)
		if err != nil {
			return err
		}

		stacks, err := listDeploymentStacks(ctx, dir, cfg, cctx, deployment)
		if err != nil {
			return err
		}

		for _, stack := range stacks {
			if !strings.HasSuffix(stack.Name, deployment) {
				continue
			}
			outputs, err := cfnread.StackOutputs(ctx, stack.Region, cfg.Profile, stack.Name)
			if err != nil {
				r.Error(fmt.Sprintf("%s: (not deployed)", stack.Name))
				continue
			}

			var rows [][]string
			for k, v := range outputs {
				if strings.Contains(k, outputKeySubstr) {
					rows = append(rows, []string{k, v})
				}
			}
			if len(rows) > 0 {
				r.Section(fmt.Sprintf("%s (%s)", stack.Name, stack.Region))
				r.Table([]string{"OutputKey", "OutputValue"}, rows)
			}
		}
		return nil
	}
}

// ProfileFromConfig extracts the AWS profile from a decoded cdk tool
// configuration, for commands that talk to AWS outside a graph run.
func ProfileFromConfig(cfg any) string {
	if c, ok := cfg.(cdkConfig); ok {
		return c.Profile
	}
	return ""
}

func configFromCtx(ctx context.Context) *cdkConfig {
	cfg := tool.ToolConfigFrom[cdkConfig](ctx)
	if cfg == nil {
		return &cdkConfig{}
	}
	return cfg
}

// resolveDeployment picks the deployment to operate on. An explicit
// name must be one of the context's deployments; the iam-username
// strategy and dev-slot claims produce names by construction.
func resolveDeployment(ctx context.Context, cfg *cdkConfig, cctx *cdkctx.CDKContext, dir string) (string, error) {
	if d, ok := tool.DeploymentFrom(ctx); ok && d != "" {
		if !cctx.IsValidDeployment(d) {
			return "", errors.Newf("unknown deployment %q, valid deployments: %s",
				d, strings.Join(cctx.Deployments, ", "))
		}
		return d, nil
	}
	if cfg.DevStrategy == "iam-username" {
		return devstrategy.IAMDeployment(ctx, cfg.Profile)
	}
	claim, err := devslot.EnsureClaim(ctx, dir, cfg.Profile)
	if err != nil {
		return "", err
	}
	return claim.Slot, nil
}

func resolveBootstrapFlags(
	ctx context.Context, cfg *cdkConfig, cctx *cdkctx.CDKContext, dir, profile string, opts tool.BootstrapOptions,
) (executionPolicies, permissionsBoundary string, err error) {
	if cfg.PreBootstrap == nil {
		return opts.ExecutionPolicies, opts.PermissionsBoundary, nil
	}

	outputs, err := runPreBootstrap(ctx, cfg, cctx, dir, profile)
	if err != nil {
		return "", "", err
	}

	executionPolicies = opts.ExecutionPolicies
	if v := outputs["ExecutionPolicyArn"]; v != "" {
		if opts.ExecutionPolicies != "" {
			return "", "", errors.New(
				"--execution-policies cannot be used when pre-bootstrap stack provides ExecutionPolicyArn",
			)
		}
		executionPolicies = v
	}

	permissionsBoundary = opts.PermissionsBoundary
	if v := outputs["PermissionBoundaryName"]; v != "" {
		if opts.PermissionsBoundary != "" {
			return "", "", errors.New(
				"--permissions-boundary cannot be used when pre-bootstrap stack provides PermissionBoundaryName",
			)
		}
		permissionsBoundary = v
	}

	return executionPolicies, permissionsBoundary, nil
}

func runPreBootstrap(
	ctx context.Context, cfg *cdkConfig, cctx *cdkctx.CDKContext, dir, profile string,
) (map[string]string, error) {
	pb := cfg.PreBootstrap
	templatePath := filepath.Join(dir, pb.Template)

	if err := cfnvalidate.PreBootstrapTemplate(templatePath); err != nil {
		return nil, errors.Wrap(err, "validating pre-bootstrap template")
	}

	params, err := cfnparams.Resolve(pb.Parameters, cctx.ContextValues)
	if err != nil {
		return nil, errors.Wrap(err, "resolving pre-bootstrap parameters")
	}

	stackName := cctx.Qualifier + "-pre-bootstrap"

	fmt.Fprintf(os.Stderr, "Deploying pre-bootstrap stack %s...\n", stackName)
	if err := cfndeploy.Deploy(ctx, dir, cctx.PrimaryRegion, profile, stackName, templatePath, params); err != nil {
		return nil, errors.Wrap(err, "deploying pre-bootstrap stack")
	}

	outputs, err := cfnread.StackOutputs(ctx, cctx.PrimaryRegion, profile, stackName)
	if err != nil {
		return nil, errors.Wrap(err, "reading pre-bootstrap stack outputs")
	}

	return outputs, nil
}

func filterProfileArgs(args []string) []string {
	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		if args[i] == "--profile" && i+1 < len(args) {
			i++
			continue
		}
		filtered = append(filtered, args[i])
	}
	return filtered
}

func patchedBootstrapTemplate(ctx context.Context, dir string) (string, error) {
	templateYAML, err := cmdexec.Output(ctx, dir, "cdk", "bootstrap", "--show-template")
	if err != nil {
		return "", errors.Wrap(err, "getting default bootstrap template")
	}

	patched, err := cfnpatch.AddDevSlotLifecycle([]byte(templateYAML), devSlotExpirationDays)
	if err != nil {
		return "", errors.Wrap(err, "patching bootstrap template")
	}

	tmpFile, err := os.CreateTemp("", "cdk-bootstrap-*.yaml")
	if err != nil {
		return "", errors.Wrap(err, "creating temp file for bootstrap template")
	}

	if _, err := tmpFile.Write(patched); err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return "", errors.Wrap(err, "writing patched bootstrap template")
	}
	tmpFile.Close()

	return tmpFile.Name(), nil
}
