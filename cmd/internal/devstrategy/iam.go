// Package devstrategy derives a deployment name from the developer's
// AWS identity. Teams that provision one Dev* deployment per engineer
// get routed to their own deployment without passing it on every
// command; everyone else falls through to the dev-slot claim flow.
package devstrategy

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tidewaterhq/twapp/cmd/internal/cmdexec"
)

// IAMDeployment maps the caller's IAM username (or assumed-role session
// name) to a deployment name, so user alice becomes DevAlice.
func IAMDeployment(ctx context.Context, profile string) (string, error) {
	args := []string{
		"sts", "get-caller-identity",
		"--query", "Arn",
		"--output", "text",
	}
	if profile != "" {
		args = append(args, "--profile", profile)
	}

	out, err := cmdexec.Output(ctx, "/", "aws", args...)
	if err != nil {
		return "", errors.Wrap(err, "getting caller identity")
	}

	return deploymentFromARN(strings.TrimSpace(out))
}

func deploymentFromARN(arn string) (string, error) {
	parts := strings.Split(arn, "/")
	if len(parts) < 2 {
		return "", errors.Newf("unexpected ARN format: %s", arn)
	}
	username := parts[len(parts)-1]
	if username == "" {
		return "", errors.Newf("empty username in ARN: %s", arn)
	}

	return "Dev" + strings.ToUpper(username[:1]) + strings.ToLower(username[1:]), nil
}
