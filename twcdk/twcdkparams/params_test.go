//nolint:paralleltest // jsii runtime doesn't support parallel tests
package twcdkparams_test

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/tidewaterhq/twapp/twcdk/twcdkparams"
	"github.com/tidewaterhq/twapp/twcdk/twcdkutil"
)

func TestParameterName_DeploymentStack(t *testing.T) {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	twcdkutil.StoreConfig(app, &twcdkutil.Config{
		Qualifier:     "twapp",
		PrimaryRegion: "us-east-1",
		Deployments:   []string{"Dev1", "Prod"},
	})

	stack := awscdk.NewStack(app, jsii.String("TestStack"), &awscdk.StackProps{
		Env: &awscdk.Environment{Region: jsii.String("us-east-1")},
	})
	twcdkutil.StoreDeploymentIdent(stack, "Dev1")

	got := twcdkparams.ParameterName(stack, "identity", "user-pool-id")
	if *got != "/twapp/Dev1/identity/user-pool-id" {
		t.Errorf("ParameterName() = %q, want %q", *got, "/twapp/Dev1/identity/user-pool-id")
	}
}

func TestParameterName_SharedStack(t *testing.T) {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	twcdkutil.StoreConfig(app, &twcdkutil.Config{
		Qualifier:     "twapp",
		PrimaryRegion: "us-east-1",
		Deployments:   []string{"Prod"},
	})

	stack := awscdk.NewStack(app, jsii.String("TestStack"), &awscdk.StackProps{
		Env: &awscdk.Environment{Region: jsii.String("us-east-1")},
	})

	got := twcdkparams.ParameterName(stack, "logging", "access-log-bucket")
	if *got != "/twapp/logging/access-log-bucket" {
		t.Errorf("ParameterName() = %q, want %q", *got, "/twapp/logging/access-log-bucket")
	}
}
