package main

import (
	"github.com/tidewaterhq/twapp/infra/cdk"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/tidewaterhq/twapp/twcdk/twcdkutil"
)

const projectPrefix = "twapp"

func main() {
	defer jsii.Close()
	app := awscdk.NewApp(nil)

	twcdkutil.SetupApp(app, twcdkutil.AppConfig{
		Prefix:                projectPrefix + "-",
		DeployersGroup:        projectPrefix + "-deployers",
		RestrictedDeployments: []string{"Stag", "Prod"},
	},
		cdk.NewShared,
		twcdkutil.DeploymentComponent[*cdk.Shared]{Ident: "Site", Construct: cdk.NewSite},
		twcdkutil.DeploymentComponent[*cdk.Shared]{Ident: "Web", Construct: cdk.NewWeb},
	)

	app.Synth(nil)
}
