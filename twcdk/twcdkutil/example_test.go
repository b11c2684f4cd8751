package twcdkutil_test

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/jsii-runtime-go"
	"github.com/tidewaterhq/twapp/twcdk/twcdkutil"
)

// Shared represents the shared infrastructure created once per region.
// It holds resources that are shared across all deployments in that region.
type Shared struct {
	AccessLogBucket awss3.Bucket
}

// NewShared creates shared infrastructure in the given stack.
func NewShared(stack awscdk.Stack) *Shared {
	bucket := awss3.NewBucket(stack, jsii.String("AccessLogBucket"), &awss3.BucketProps{
		Versioned: jsii.Bool(true),
	})

	// Access config deep in construct tree without passing *Config explicitly
	if twcdkutil.IsPrimaryRegion(stack, *stack.Region()) {
		// Primary region specific setup
		_ = twcdkutil.Qualifier(stack)
	}

	return &Shared{AccessLogBucket: bucket}
}

// NewSiteComponent creates the static site part of a deployment. Resources from
// shared stacks in the same region can be referenced directly; cross-region
// values should be looked up via SSM Parameter Store.
func NewSiteComponent(stack awscdk.Stack, shared *Shared, deploymentIdent string) {
	_ = shared.AccessLogBucket
	_ = deploymentIdent
}

// NewWebComponent creates the web application part of a deployment.
func NewWebComponent(stack awscdk.Stack, shared *Shared, deploymentIdent string) {
	// Can also get the full Config if needed
	cfg := twcdkutil.ConfigFromScope(stack)
	_ = cfg.AllRegions()
}

// Example_setupApp demonstrates how to use SetupApp to configure a multi-region,
// multi-deployment CDK application split into per-deployment component stacks.
//
// The cdk.json context should include:
//
//	{
//	  "myapp-qualifier": "myapp",
//	  "myapp-primary-region": "us-east-1",
//	  "myapp-secondary-regions": ["eu-west-1"],
//	  "myapp-deployments": ["Dev", "Stag", "Prod"]
//	}
//
// plus the component configuration keys read into SiteConfig and WebConfig.
func Example_setupApp() {
	defer jsii.Close()

	ctx := map[string]any{
		"myapp-qualifier":           "myapp",
		"myapp-primary-region":      "us-east-1",
		"myapp-secondary-regions":   []any{"eu-west-1"},
		"myapp-deployments":         []any{"Dev", "Stag", "Prod"},
		"myapp-table-name":          "Items",
		"myapp-table-partition-key": "PK",
		"myapp-allowed-origins":     []any{"https://app.example.com"},
		"myapp-user-pool-name":      "Users",
		"myapp-cache-cluster-id":    "SessionCache",
		"myapp-cache-node-type":     "cache.t4g.micro",
		"myapp-cache-engine":        "redis",
		"myapp-log-group-name":      "WebApi",
		"myapp-log-retention-days":  30,
		"myapp-api-stage-name":      "v1",
	}

	app := awscdk.NewApp(&awscdk.AppProps{
		Context: &ctx,
	})

	twcdkutil.SetupApp(app, twcdkutil.AppConfig{
		Prefix: "myapp-",
	},
		NewShared,
		twcdkutil.DeploymentComponent[*Shared]{Ident: "Site", Construct: NewSiteComponent},
		twcdkutil.DeploymentComponent[*Shared]{Ident: "Web", Construct: NewWebComponent},
	)
	// Output:
}
