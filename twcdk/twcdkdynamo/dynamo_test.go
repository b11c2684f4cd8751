//nolint:paralleltest // jsii runtime doesn't support parallel tests
package twcdkdynamo_test

import (
	"encoding/json"
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/jsii-runtime-go"
	"github.com/tidewaterhq/twapp/twcdk/twcdkdynamo"
	"github.com/tidewaterhq/twapp/twcdk/twcdkutil"
)

// testConfig returns a Config for testing.
func testConfig() *twcdkutil.Config {
	return &twcdkutil.Config{
		Qualifier:        "testqual",
		PrimaryRegion:    "us-east-1",
		SecondaryRegions: []string{"eu-west-1"},
		Deployments:      []string{"dev", "Prod"},
	}
}

func newPrimaryStack(app awscdk.App) awscdk.Stack {
	twcdkutil.StoreConfig(app, testConfig())
	stack := awscdk.NewStack(app, jsii.String("TestStack"), &awscdk.StackProps{
		Env: &awscdk.Environment{
			Region: jsii.String("us-east-1"),
		},
	})
	twcdkutil.StoreDeploymentIdent(stack, "dev")
	return stack
}

func TestNew_PrimaryRegion_Defaults(t *testing.T) {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	stack := newPrimaryStack(app)

	dynamo := twcdkdynamo.New(stack, twcdkdynamo.Props{})

	if dynamo.Table() == nil {
		t.Error("Table() should not be nil")
	}
	if got := *dynamo.TableName(); got != "testqual-dev-main-table" {
		t.Errorf("TableName() = %q, want %q", got, "testqual-dev-main-table")
	}

	table := findTable(t, app, "testqual-dev-main-table")
	keySchema, ok := dig(table, "Properties", "KeySchema").([]any)
	if !ok || len(keySchema) != 1 {
		t.Fatalf("expected single-attribute key schema, got %v", dig(table, "Properties", "KeySchema"))
	}
	if got := dig(keySchema[0], "AttributeName"); got != "pk" {
		t.Errorf("partition key = %v, want pk", got)
	}
	if got := dig(table, "Properties", "BillingMode"); got != "PAY_PER_REQUEST" {
		t.Errorf("BillingMode = %v, want PAY_PER_REQUEST", got)
	}
}

func TestNew_ConfiguredNameAndPartitionKey(t *testing.T) {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	stack := newPrimaryStack(app)

	dynamo := twcdkdynamo.New(stack, twcdkdynamo.Props{
		Name:         jsii.String("items"),
		PartitionKey: jsii.String("item_id"),
	})

	if got := *dynamo.TableName(); got != "testqual-dev-items" {
		t.Errorf("TableName() = %q, want %q", got, "testqual-dev-items")
	}

	table := findTable(t, app, "testqual-dev-items")
	keySchema, ok := dig(table, "Properties", "KeySchema").([]any)
	if !ok || len(keySchema) != 1 {
		t.Fatalf("expected single-attribute key schema, got %v", dig(table, "Properties", "KeySchema"))
	}
	if got := dig(keySchema[0], "AttributeName"); got != "item_id" {
		t.Errorf("partition key = %v, want item_id", got)
	}
}

func TestNew_WithSortKey(t *testing.T) {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	stack := newPrimaryStack(app)

	twcdkdynamo.New(stack, twcdkdynamo.Props{
		SortKey: jsii.String("sk"),
	})

	table := findTable(t, app, "testqual-dev-main-table")
	keySchema, ok := dig(table, "Properties", "KeySchema").([]any)
	if !ok || len(keySchema) != 2 {
		t.Fatalf("expected two-attribute key schema, got %v", dig(table, "Properties", "KeySchema"))
	}
}

func TestNew_ReplicasFromSecondaryRegions(t *testing.T) {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	stack := newPrimaryStack(app)

	twcdkdynamo.New(stack, twcdkdynamo.Props{})

	table := findTable(t, app, "testqual-dev-main-table")
	replicas, ok := dig(table, "Properties", "Replicas").([]any)
	if !ok {
		t.Fatalf("expected replica list, got %v", dig(table, "Properties", "Replicas"))
	}
	// The primary region itself plus one secondary region.
	if len(replicas) != 2 {
		t.Fatalf("expected 2 replicas, got %d", len(replicas))
	}
	regions := map[any]bool{}
	for _, r := range replicas {
		regions[dig(r, "Region")] = true
	}
	if !regions["us-east-1"] || !regions["eu-west-1"] {
		t.Errorf("replicas should cover us-east-1 and eu-west-1, got %v", regions)
	}
}

func TestNew_SecondaryRegion_LooksUpTable(t *testing.T) {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	twcdkutil.StoreConfig(app, testConfig())
	stack := awscdk.NewStack(app, jsii.String("TestStack"), &awscdk.StackProps{
		Env: &awscdk.Environment{
			Region: jsii.String("eu-west-1"),
		},
	})
	twcdkutil.StoreDeploymentIdent(stack, "dev")

	dynamo := twcdkdynamo.New(stack, twcdkdynamo.Props{})

	if dynamo.Table() == nil {
		t.Error("Table() should not be nil")
	}
	if dynamo.TableName() == nil {
		t.Error("TableName() should not be nil")
	}

	// No table resource in secondary regions, only the name lookup.
	tmpl := templateMap(t, app)
	resources := tmpl["Resources"].(map[string]any)
	for _, res := range resources {
		if m, ok := res.(map[string]any); ok && m["Type"] == "AWS::DynamoDB::GlobalTable" {
			t.Error("secondary region should not create a table resource")
		}
	}
	foundLookup := false
	for _, res := range resources {
		if m, ok := res.(map[string]any); ok && m["Type"] == "Custom::AWS" {
			foundLookup = true
		}
	}
	if !foundLookup {
		t.Error("secondary region should look the table name up from the primary region")
	}
}

func TestNew_MultipleTablesInSameStack(t *testing.T) {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	stack := newPrimaryStack(app)

	dynamo1 := twcdkdynamo.New(stack, twcdkdynamo.Props{
		Identifier: jsii.String("main"),
	})
	dynamo2 := twcdkdynamo.New(stack, twcdkdynamo.Props{
		Identifier: jsii.String("events"),
	})

	if dynamo1.Table() == nil {
		t.Error("first Table() should not be nil")
	}
	if dynamo2.Table() == nil {
		t.Error("second Table() should not be nil")
	}
	if *dynamo1.TableName() == *dynamo2.TableName() {
		t.Error("tables should have different names")
	}
}

func TestNew_GrantReadWriteData(t *testing.T) {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	stack := newPrimaryStack(app)

	dynamo := twcdkdynamo.New(stack, twcdkdynamo.Props{})

	// Create a Lambda function to grant permissions to
	fn := awslambda.NewFunction(stack, jsii.String("TestFn"), &awslambda.FunctionProps{
		Runtime: awslambda.Runtime_NODEJS_22_X(),
		Handler: jsii.String("index.handler"),
		Code:    awslambda.Code_FromInline(jsii.String("exports.handler = async () => {}")),
	})

	// Should not panic
	dynamo.GrantReadWriteData(fn)
	dynamo.GrantReadData(fn)
}

func findTable(t *testing.T, app awscdk.App, name string) map[string]any {
	t.Helper()

	tmpl := templateMap(t, app)
	resources, ok := tmpl["Resources"].(map[string]any)
	if !ok {
		t.Fatal("template should have Resources")
	}
	for _, res := range resources {
		m, ok := res.(map[string]any)
		if !ok || m["Type"] != "AWS::DynamoDB::GlobalTable" {
			continue
		}
		if dig(m, "Properties", "TableName") == name {
			return m
		}
	}
	t.Fatalf("template should have global table %q", name)
	return nil
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

// dig walks nested map[string]any values by key.
func dig(val any, keys ...string) any {
	for _, key := range keys {
		m, ok := val.(map[string]any)
		if !ok {
			return nil
		}
		val = m[key]
	}
	return val
}
