// Package cfnread fetches state from deployed CloudFormation stacks
// through the AWS CLI, so callers inherit whatever credentials and SSO
// session the developer already has.
package cfnread

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/tidewaterhq/twapp/cmd/internal/cmdexec"
)

type describeStacksResponse struct {
	Stacks []struct {
		Outputs []struct {
			OutputKey   string `json:"OutputKey"`
			OutputValue string `json:"OutputValue"`
		} `json:"Outputs"`
	} `json:"Stacks"`
}

// StackOutputs returns the stack's outputs keyed by output name. An
// empty profile uses the CLI's default credential chain.
func StackOutputs(ctx context.Context, region, profile, stackName string) (map[string]string, error) {
	args := []string{
		"cloudformation", "describe-stacks",
		"--no-cli-pager",
		"--region", region,
		"--stack-name", stackName,
		"--output", "json",
	}
	if profile != "" {
		args = append(args, "--profile", profile)
	}

	out, err := cmdexec.Output(ctx, "/", "aws", args...)
	if err != nil {
		return nil, errors.Wrapf(err, "describing stack %s in %s", stackName, region)
	}

	var resp describeStacksResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		return nil, errors.Wrapf(err, "parsing stack outputs for %s", stackName)
	}

	if len(resp.Stacks) == 0 {
		return nil, errors.Newf("stack %s not found in %s", stackName, region)
	}

	outputs := make(map[string]string, len(resp.Stacks[0].Outputs))
	for _, o := range resp.Stacks[0].Outputs {
		outputs[o.OutputKey] = o.OutputValue
	}
	return outputs, nil
}
