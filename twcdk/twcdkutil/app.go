package twcdkutil

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
)

// SharedConstructor creates shared infrastructure in a given stack.
// It returns the shared construct that will be passed to component constructors.
type SharedConstructor[S any] func(stack awscdk.Stack) S

// ComponentConstructor creates one component of a deployment in a given stack.
// It receives the shared construct from the same region and the deployment identifier.
type ComponentConstructor[S any] func(stack awscdk.Stack, shared S, deploymentIdent string)

// DeploymentComponent describes one independently deployable part of a
// deployment. Each component becomes its own stack per deployment per region.
type DeploymentComponent[S any] struct {
	// Ident names the component in stack names (e.g. "Site" in "twappUse1SiteDev1").
	// Must start with an upper-case letter.
	Ident string
	// Construct builds the component's resources.
	Construct ComponentConstructor[S]
}

// AppConfig configures the CDK app setup.
type AppConfig struct {
	// Prefix for context keys (e.g., "myapp-" for "myapp-qualifier", "myapp-primary-region", etc.)
	Prefix string
	// DeployersGroup is the IAM group that can deploy to all environments.
	DeployersGroup string
	// RestrictedDeployments are deployment identifiers that require DeployersGroup membership.
	RestrictedDeployments []string
}

// SetupApp configures a CDK app with multi-region, multi-deployment stacks.
//
// It creates:
//  1. A primary shared stack using the SharedConstructor
//  2. Secondary shared stacks for each secondary region (dependent on primary)
//  3. Component stacks for each allowed deployment in the primary region
//  4. Secondary component stacks for each secondary region (dependent on the
//     primary region stack of the same component)
//
// The type parameter S represents the shared construct type returned by SharedConstructor.
// SetupApp validates all context values upfront and panics with a clear error message
// if any required values are missing or invalid.
func SetupApp[S any](
	app awscdk.App,
	cfg AppConfig,
	newShared SharedConstructor[S],
	components ...DeploymentComponent[S],
) {
	// Validate all context values upfront and store in construct tree
	config, err := NewConfig(app, cfg)
	if err != nil {
		panic(err)
	}
	StoreConfig(app, config)

	// Create shared primary region stack first
	primarySharedStack := NewSharedStack(app, config, config.PrimaryRegion)
	primaryShared := newShared(primarySharedStack)

	// Create secondary shared region stacks with dependency on primary
	secondaryShared := map[string]S{}
	for _, region := range config.SecondaryRegions {
		secondarySharedStack := NewSharedStack(app, config, region)
		secondaryShared[region] = newShared(secondarySharedStack)
		secondarySharedStack.AddDependency(primarySharedStack, jsii.String("Primary region must deploy first"))
	}

	// Create component stacks for each allowed deployment
	for _, deploymentIdent := range config.AllowedDeployments() {
		for _, component := range components {
			primaryStack := NewComponentStack(app, config, config.PrimaryRegion, component.Ident, deploymentIdent)
			component.Construct(primaryStack, primaryShared, deploymentIdent)
			primaryStack.AddDependency(primarySharedStack,
				jsii.String("Primary shared stack must deploy first"))

			// Secondary region stacks for each component
			for _, region := range config.SecondaryRegions {
				secondaryStack := NewComponentStack(app, config, region, component.Ident, deploymentIdent)
				component.Construct(secondaryStack, secondaryShared[region], deploymentIdent)
				secondaryStack.AddDependency(primaryStack,
					jsii.String("Primary region deployment must deploy first"))
			}
		}
	}
}
