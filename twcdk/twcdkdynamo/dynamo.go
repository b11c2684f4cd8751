// Package twcdkdynamo provides a reusable cross-region DynamoDB Global Table
// construct for multi-region CDK deployments.
//
// The construct creates a DynamoDB Global Table in the primary region with
// automatic replication to all secondary regions. Key schema and indexes are
// configurable; by default the table has a single string partition key.
package twcdkdynamo

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/tidewaterhq/twapp/twcdk/twcdkparams"
	"github.com/tidewaterhq/twapp/twcdk/twcdkutil"
)

const paramsNamespace = "dynamo"

// defaultPartitionKey is the partition key attribute name when none is configured.
const defaultPartitionKey = "pk"

// Dynamo provides access to a DynamoDB Global Table that works across regions.
type Dynamo interface {
	// Table returns the DynamoDB table.
	// In the primary region, this is the actual table.
	// In secondary regions, this is a reference to the replicated table.
	Table() awsdynamodb.ITableV2

	// TableName returns the table name. In secondary regions the value is
	// resolved from the primary region at deploy time.
	TableName() *string

	// GrantReadData grants read-only permissions to the table and its indexes.
	GrantReadData(grantee awsiam.IGrantable)

	// GrantReadWriteData grants read/write permissions to the table and its indexes.
	GrantReadWriteData(grantee awsiam.IGrantable)
}

// Props configures the Dynamo construct.
type Props struct {
	// Identifier distinguishes this table from others in the same deployment.
	// Used in construct ids and SSM parameter paths.
	// Optional. Defaults to "main".
	Identifier *string
	// Name is the resource-name label for the table.
	// Optional. Defaults to "{identifier}-table".
	Name *string
	// PartitionKey is the name of the string partition key attribute.
	// Optional. Defaults to "pk".
	PartitionKey *string
	// SortKey is the name of the string sort key attribute.
	// Optional. When empty the table has no sort key.
	SortKey *string
	// GlobalSecondaryIndexes to create on the table.
	// Optional.
	GlobalSecondaryIndexes *[]*awsdynamodb.GlobalSecondaryIndexPropsV2
}

type dynamo struct {
	table      awsdynamodb.ITableV2
	tableName  *string
	identifier string
}

// New creates a Dynamo construct that manages a DynamoDB Global Table.
//
// In the primary region: Creates a new Global Table with replicas in all
// secondary regions and stores the table name in SSM Parameter Store.
//
// In secondary regions: Looks up the table name from SSM and creates a
// reference to the replicated table.
func New(scope constructs.Construct, props Props) Dynamo {
	identifier := "main"
	if props.Identifier != nil && *props.Identifier != "" {
		identifier = *props.Identifier
	}

	constructID := "Dynamo" + twcdkutil.ResourceName(scope, identifier, twcdkutil.CasingCamel)
	scope = constructs.NewConstruct(scope, jsii.String(constructID))
	con := &dynamo{identifier: identifier}

	label := identifier + "-table"
	if props.Name != nil && *props.Name != "" {
		label = *props.Name
	}

	region := *awscdk.Stack_Of(scope).Region()
	tableName := twcdkutil.ResourceName(scope, label, twcdkutil.CasingKebab)
	paramName := identifier + "/table-name"

	if twcdkutil.IsPrimaryRegion(scope, region) {
		cfg := twcdkutil.ConfigFromScope(scope)
		replicas := buildReplicas(cfg.SecondaryRegions)

		table := awsdynamodb.NewTableV2(scope, jsii.String("Table"), &awsdynamodb.TablePropsV2{
			TableName:     jsii.String(tableName),
			PartitionKey:  stringAttribute(props.PartitionKey, defaultPartitionKey),
			SortKey:       stringAttribute(props.SortKey, ""),
			Billing:       awsdynamodb.Billing_OnDemand(nil),
			RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
			Replicas:      &replicas,
			PointInTimeRecoverySpecification: &awsdynamodb.PointInTimeRecoverySpecification{
				PointInTimeRecoveryEnabled: jsii.Bool(true),
			},
			GlobalSecondaryIndexes: props.GlobalSecondaryIndexes,
		})
		con.table = table
		con.tableName = jsii.String(tableName)

		twcdkparams.Store(scope, "TableNameParam", paramsNamespace, paramName, jsii.String(tableName))
	} else {
		tableNameLookup := twcdkparams.Lookup(scope, "LookupTableName",
			paramsNamespace, paramName, identifier+"-table-name-lookup")

		con.table = awsdynamodb.TableV2_FromTableName(scope, jsii.String("Table"), tableNameLookup)
		con.tableName = tableNameLookup
	}

	return con
}

// LookupDynamo retrieves a DynamoDB table from SSM Parameter Store.
// Use this to get a table reference without creating cross-stack dependencies.
func LookupDynamo(scope constructs.Construct, identifier *string) awsdynamodb.ITableV2 {
	ident := "main"
	if identifier != nil && *identifier != "" {
		ident = *identifier
	}

	tableName := twcdkparams.LookupLocal(scope, paramsNamespace, ident+"/table-name")

	lookupID := "LookupDynamo"
	if identifier != nil && *identifier != "" {
		lookupID = "LookupDynamo" + *identifier
	}

	return awsdynamodb.TableV2_FromTableName(scope, jsii.String(lookupID), tableName)
}

func (d *dynamo) Table() awsdynamodb.ITableV2 {
	return d.table
}

func (d *dynamo) TableName() *string {
	return d.tableName
}

func (d *dynamo) GrantReadData(grantee awsiam.IGrantable) {
	d.table.GrantReadData(grantee)

	indexArn := jsii.Sprintf("%s/index/*", *d.table.TableArn())
	awsiam.Grant_AddToPrincipal(&awsiam.GrantOnPrincipalOptions{
		Grantee:      grantee,
		ResourceArns: &[]*string{indexArn},
		Actions: &[]*string{
			jsii.String("dynamodb:Query"),
			jsii.String("dynamodb:Scan"),
			jsii.String("dynamodb:GetItem"),
			jsii.String("dynamodb:BatchGetItem"),
			jsii.String("dynamodb:ConditionCheckItem"),
		},
	})
}

func (d *dynamo) GrantReadWriteData(grantee awsiam.IGrantable) {
	d.table.GrantReadWriteData(grantee)

	indexArn := jsii.Sprintf("%s/index/*", *d.table.TableArn())
	awsiam.Grant_AddToPrincipal(&awsiam.GrantOnPrincipalOptions{
		Grantee:      grantee,
		ResourceArns: &[]*string{indexArn},
		Actions: &[]*string{
			jsii.String("dynamodb:Query"),
			jsii.String("dynamodb:Scan"),
			jsii.String("dynamodb:GetItem"),
			jsii.String("dynamodb:BatchGetItem"),
			jsii.String("dynamodb:ConditionCheckItem"),
		},
	})
}

// stringAttribute builds a string-typed key attribute, falling back to the
// given default name. Returns nil when both are empty so optional keys can
// be omitted entirely.
func stringAttribute(name *string, fallback string) *awsdynamodb.Attribute {
	attrName := fallback
	if name != nil && *name != "" {
		attrName = *name
	}
	if attrName == "" {
		return nil
	}
	return &awsdynamodb.Attribute{
		Name: jsii.String(attrName),
		Type: awsdynamodb.AttributeType_STRING,
	}
}

func buildReplicas(secondaryRegions []string) []*awsdynamodb.ReplicaTableProps {
	replicas := make([]*awsdynamodb.ReplicaTableProps, 0, len(secondaryRegions))
	for _, region := range secondaryRegions {
		replicas = append(replicas, &awsdynamodb.ReplicaTableProps{
			Region: jsii.String(region),
			PointInTimeRecoverySpecification: &awsdynamodb.PointInTimeRecoverySpecification{
				PointInTimeRecoveryEnabled: jsii.Bool(true),
			},
		})
	}
	return replicas
}
