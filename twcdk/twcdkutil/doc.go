// Package twcdkutil provides utilities for AWS CDK applications in Go.
//
// # Quick Start
//
// Use [SetupApp] to configure a multi-region, multi-deployment CDK application.
// Each deployment is split into components, and every component becomes its own
// stack per deployment per region:
//
//	func main() {
//	    defer jsii.Close()
//	    app := awscdk.NewApp(nil)
//
//	    twcdkutil.SetupApp(app, twcdkutil.AppConfig{
//	        Prefix:                "myapp-",
//	        DeployersGroup:        "myapp-deployers",
//	        RestrictedDeployments: []string{"Stag", "Prod"},
//	    },
//	        func(stack awscdk.Stack) *Shared { return NewShared(stack) },
//	        twcdkutil.DeploymentComponent[*Shared]{
//	            Ident: "Site",
//	            Construct: func(stack awscdk.Stack, shared *Shared, deploymentIdent string) {
//	                NewSite(stack, shared)
//	            },
//	        },
//	        twcdkutil.DeploymentComponent[*Shared]{
//	            Ident: "Web",
//	            Construct: func(stack awscdk.Stack, shared *Shared, deploymentIdent string) {
//	                NewWeb(stack)
//	            },
//	        },
//	    )
//
//	    app.Synth(nil)
//	}
//
// # CDK Context Configuration
//
// The package reads configuration from CDK context (cdk.json). With prefix "myapp-":
//
//	{
//	  "myapp-qualifier": "myapp",
//	  "myapp-primary-region": "us-east-1",
//	  "myapp-secondary-regions": ["eu-west-1"],
//	  "myapp-deployments": ["Dev", "Stag", "Prod"],
//	  "myapp-deployer-groups": "myapp-deployers"
//	}
//
// plus the component configuration keys read into [SiteConfig] and [WebConfig].
//
// # Stack Creation Order
//
// [SetupApp] creates stacks with the following dependency order:
//  1. Primary shared stack
//  2. Secondary shared stacks (depend on primary shared)
//  3. Primary component stacks (depend on primary shared)
//  4. Secondary component stacks (depend on the primary stack of the same component)
//
// # Features
//
//   - [SetupApp]: Multi-region, multi-deployment app orchestration
//   - [NewSharedStack], [NewComponentStack]: Stack creation with qualifier and region naming
//   - [ResourceName]: Deployment-scoped resource naming in any casing
//   - [ReproducibleGoBundling]: Lambda bundling for identical builds
//   - [Config.AllowedDeployments]: Role-based deployment authorization
package twcdkutil
