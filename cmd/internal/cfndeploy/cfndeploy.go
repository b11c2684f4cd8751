// Package cfndeploy deploys plain CloudFormation templates through the
// AWS CLI. The pre-bootstrap stack cannot use the CDK because it
// provisions the policies CDK deployments depend on.
package cfndeploy

import (
	"context"
	"fmt"
	"sort"

	"github.com/tidewaterhq/twapp/cmd/internal/cmdexec"
)

// Deploy creates or updates a stack from a local template. The region
// must match where callers later read the stack's outputs; an empty
// region falls back to the CLI's configured default.
func Deploy(ctx context.Context, dir, region, profile, stackName, templatePath string, params map[string]string) error {
	args := []string{
		"cloudformation", "deploy",
		"--stack-name", stackName,
		"--template-file", templatePath,
		"--capabilities", "CAPABILITY_NAMED_IAM",
		"--no-fail-on-empty-changeset",
	}
	if region != "" {
		args = append(args, "--region", region)
	}
	if profile != "" {
		args = append(args, "--profile", profile)
	}
	if len(params) > 0 {
		args = append(args, "--parameter-overrides")
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			args = append(args, fmt.Sprintf("%s=%s", k, params[k]))
		}
	}
	return cmdexec.Run(ctx, dir, "aws", args...)
}
