//nolint:paralleltest // jsii runtime doesn't support parallel tests
package twcdkloggroup_test

import (
	"encoding/json"
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/jsii-runtime-go"
	"github.com/tidewaterhq/twapp/twcdk/twcdkloggroup"
	"github.com/tidewaterhq/twapp/twcdk/twcdkutil"
)

func TestNew_CreatesLogGroup(t *testing.T) {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	stack := awscdk.NewStack(app, jsii.String("TestStack"), nil)

	lg := twcdkloggroup.New(stack, "TestLogs", twcdkloggroup.Props{
		Purpose: jsii.String("test logs"),
	})

	if lg.LogGroup() == nil {
		t.Error("LogGroup() should not be nil")
	}
}

func TestNew_ConfiguredNameAndRetention(t *testing.T) {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	twcdkutil.StoreConfig(app, &twcdkutil.Config{
		Qualifier:     "testqual",
		PrimaryRegion: "us-east-1",
		Deployments:   []string{"dev"},
	})
	stack := awscdk.NewStack(app, jsii.String("TestStack"), nil)
	twcdkutil.StoreDeploymentIdent(stack, "dev")

	twcdkloggroup.New(stack, "WebLogs", twcdkloggroup.Props{
		Purpose:       jsii.String("web application logs"),
		Name:          jsii.String("web"),
		RetentionDays: jsii.Number(30),
	})

	tmpl := templateMap(t, app)
	resources, ok := tmpl["Resources"].(map[string]any)
	if !ok {
		t.Fatal("template should have Resources")
	}

	var found map[string]any
	for _, res := range resources {
		m, ok := res.(map[string]any)
		if !ok || m["Type"] != "AWS::Logs::LogGroup" {
			continue
		}
		found = m
		break
	}
	if found == nil {
		t.Fatal("template should have a log group")
	}

	props, _ := found["Properties"].(map[string]any)
	if got := props["LogGroupName"]; got != "testqual-dev-web" {
		t.Errorf("LogGroupName = %v, want testqual-dev-web", got)
	}
	if got := props["RetentionInDays"]; got != float64(30) {
		t.Errorf("RetentionInDays = %v, want 30", got)
	}
}

func TestRetentionFromDays(t *testing.T) {
	defer jsii.Close()

	tests := []struct {
		days int
		want awslogs.RetentionDays
	}{
		{1, awslogs.RetentionDays_ONE_DAY},
		{7, awslogs.RetentionDays_ONE_WEEK},
		{30, awslogs.RetentionDays_ONE_MONTH},
		// Unsupported day counts round up to the next period.
		{10, awslogs.RetentionDays_TWO_WEEKS},
		{45, awslogs.RetentionDays_TWO_MONTHS},
		{365, awslogs.RetentionDays_ONE_YEAR},
		{9999, awslogs.RetentionDays_TEN_YEARS},
	}
	for _, tt := range tests {
		if got := twcdkloggroup.RetentionFromDays(tt.days); got != tt.want {
			t.Errorf("RetentionFromDays(%d) = %v, want %v", tt.days, got, tt.want)
		}
	}
}

func TestNew_CreatesOutput(t *testing.T) {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	stack := awscdk.NewStack(app, jsii.String("TestStack"), nil)

	twcdkloggroup.New(stack, "MyLogs", twcdkloggroup.Props{
		Purpose: jsii.String("Lambda function logs"),
	})

	tmpl := templateMap(t, app)
	outputs, ok := tmpl["Outputs"].(map[string]any)
	if !ok {
		t.Fatal("template should have Outputs")
	}

	var foundOutput map[string]any
	for _, val := range outputs {
		if m, ok := val.(map[string]any); ok {
			if desc, ok := m["Description"].(string); ok && desc == "CloudWatch Log Group for Lambda function logs" {
				foundOutput = m
				break
			}
		}
	}
	if foundOutput == nil {
		t.Fatalf("template should have output with expected description, got outputs: %v", outputs)
	}
}

func TestNew_MultipleLogGroups(t *testing.T) {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	stack := awscdk.NewStack(app, jsii.String("TestStack"), nil)

	lg1 := twcdkloggroup.New(stack, "FirstLogs", twcdkloggroup.Props{
		Purpose: jsii.String("first purpose"),
	})
	lg2 := twcdkloggroup.New(stack, "SecondLogs", twcdkloggroup.Props{
		Purpose: jsii.String("second purpose"),
	})

	if lg1.LogGroup() == nil {
		t.Error("first LogGroup() should not be nil")
	}
	if lg2.LogGroup() == nil {
		t.Error("second LogGroup() should not be nil")
	}

	tmpl := templateMap(t, app)
	outputs, ok := tmpl["Outputs"].(map[string]any)
	if !ok {
		t.Fatal("template should have Outputs")
	}

	foundFirst := false
	foundSecond := false
	for _, val := range outputs {
		desc := extractDescription(val)
		if desc == "CloudWatch Log Group for first purpose" {
			foundFirst = true
		}
		if desc == "CloudWatch Log Group for second purpose" {
			foundSecond = true
		}
	}
	if !foundFirst {
		t.Error("template should have output for first purpose")
	}
	if !foundSecond {
		t.Error("template should have output for second purpose")
	}
}

func templateMap(t *testing.T, app awscdk.App) map[string]any {
	t.Helper()

	template := app.Synth(nil).GetStackByName(jsii.String("TestStack")).Template()
	templateJSON, err := json.Marshal(template)
	if err != nil {
		t.Fatalf("failed to marshal template: %v", err)
	}
	var tmpl map[string]any
	if err := json.Unmarshal(templateJSON, &tmpl); err != nil {
		t.Fatalf("failed to unmarshal template: %v", err)
	}
	return tmpl
}

func extractDescription(val any) string {
	m, ok := val.(map[string]any)
	if !ok {
		return ""
	}
	desc, ok := m["Description"].(string)
	if !ok {
		return ""
	}
	return desc
}
