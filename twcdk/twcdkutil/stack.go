package twcdkutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/iancoleman/strcase"
)

// SharedStackName returns the CloudFormation stack name for a shared stack.
// This is the canonical function for generating shared stack names.
func SharedStackName(qualifier, regionIdent string) string {
	base := strcase.ToLowerCamel(fmt.Sprintf("%s-%s", qualifier, regionIdent))
	return base + "Shared"
}

// ComponentStackName returns the CloudFormation stack name for a component
// stack of a deployment, e.g. "twappUse1SiteDev1".
func ComponentStackName(qualifier, regionIdent, componentIdent, deploymentIdent string) string {
	base := strcase.ToLowerCamel(fmt.Sprintf("%s-%s", qualifier, regionIdent))
	return base + componentIdent + deploymentIdent
}

// NewSharedStack creates the per-region shared stack using a validated Config.
func NewSharedStack(scope constructs.Construct, cfg *Config, region string) awscdk.Stack {
	return newStackInternal(scope, cfg.Qualifier, cfg.RegionIdent(region), region, "", "")
}

// NewComponentStack creates a component stack for one deployment in one region
// using a validated Config.
func NewComponentStack(
	scope constructs.Construct, cfg *Config, region, componentIdent, deploymentIdent string,
) awscdk.Stack {
	return newStackInternal(scope, cfg.Qualifier, cfg.RegionIdent(region), region, componentIdent, deploymentIdent)
}

func newStackInternal(
	scope constructs.Construct, qual, regionAcronym, region, componentIdent, deploymentIdent string,
) awscdk.Stack {
	var stackName string
	var description string

	baseIdent := strcase.ToLowerCamel(fmt.Sprintf("%s-%s", qual, regionAcronym))

	switch {
	case deploymentIdent != "":
		if strings.ToUpper(string(deploymentIdent[0])) != string(deploymentIdent[0]) {
			panic("deployment identifier must start with a upper-case letter, got: " + deploymentIdent)
		}
		if componentIdent == "" {
			panic("component identifier is required for deployment stacks")
		}
		if strings.ToUpper(string(componentIdent[0])) != string(componentIdent[0]) {
			panic("component identifier must start with a upper-case letter, got: " + componentIdent)
		}

		stackName = ComponentStackName(qual, regionAcronym, componentIdent, deploymentIdent)
		description = fmt.Sprintf("%s (region: %s, component: %s, deployment: %s)",
			baseIdent, region, componentIdent, deploymentIdent)
	case componentIdent != "":
		panic("component stacks require a deployment identifier, got component: " + componentIdent)
	default:
		stackName = SharedStackName(qual, regionAcronym)
		description = fmt.Sprintf("%s (region: %s)", baseIdent, region)
	}

	stack := awscdk.NewStack(scope, jsii.String(stackName), &awscdk.StackProps{
		Env: &awscdk.Environment{
			Account: jsii.String(os.Getenv("CDK_DEFAULT_ACCOUNT")),
			Region:  jsii.String(region),
		},
		Description: jsii.String(description),
		Synthesizer: awscdk.NewDefaultStackSynthesizer(&awscdk.DefaultStackSynthesizerProps{
			Qualifier: jsii.String(qual),
		}),
	})

	// Store deployment identifier in stack context for retrieval via DeploymentIdent().
	if deploymentIdent != "" {
		StoreDeploymentIdent(stack, deploymentIdent)
	}

	awscdk.Annotations_Of(stack).AcknowledgeWarning(
		jsii.String("@aws-cdk/aws-lambda-go-alpha:goBuildFlagsSecurityWarning"),
		jsii.String("Build flags are controlled by twcdkutil.ReproducibleGoBundling and are safe"),
	)

	return stack
}
