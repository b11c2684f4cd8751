// Package twcdkloggroup provides a reusable CloudWatch Log Group construct
// with standardized retention, removal policy, and CloudFormation outputs.
//
// All log groups created with this construct automatically export their names
// as stack outputs, enabling easy discovery via AWS CLI queries.
package twcdkloggroup

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/tidewaterhq/twapp/twcdk/twcdkutil"
)

// LogGroup provides access to a CloudWatch Log Group with standardized configuration.
type LogGroup interface {
	// LogGroup returns the underlying CDK log group.
	LogGroup() awslogs.ILogGroup
}

// Props configures the LogGroup construct.
type Props struct {
	// Purpose describes what this log group is for (e.g., "Lambda function logs").
	// Used in the CfnOutput description.
	// Required.
	Purpose *string
	// Name is the resource-name label for the log group. Optional. When
	// empty the log group name is generated by CloudFormation.
	Name *string
	// RetentionDays is how long log events are kept. The value maps onto
	// the nearest CloudWatch retention period that keeps events at least
	// that long. Optional. Defaults to one week.
	RetentionDays *float64
}

type logGroup struct {
	lg awslogs.ILogGroup
}

// New creates a LogGroup construct with standardized configuration.
//
// The log group is created with:
//   - Retention: RetentionDays mapped to a CloudWatch period, ONE_WEEK by default
//   - RemovalPolicy: DESTROY (log groups are deleted with the stack)
//
// A CfnOutput is created with:
//   - Key: "{id}LogGroup" where id is derived from the construct path
//   - Value: The log group name (for CLI queries)
//   - Description: "CloudWatch Log Group for {Purpose}"
func New(scope constructs.Construct, id string, props Props) LogGroup {
	scope = constructs.NewConstruct(scope, jsii.String(id))
	con := &logGroup{}

	retention := awslogs.RetentionDays_ONE_WEEK
	if props.RetentionDays != nil {
		retention = RetentionFromDays(int(*props.RetentionDays))
	}

	var name *string
	if props.Name != nil && *props.Name != "" {
		name = jsii.String(twcdkutil.ResourceName(scope, *props.Name, twcdkutil.CasingKebab))
	}

	con.lg = awslogs.NewLogGroup(scope, jsii.String("LogGroup"), &awslogs.LogGroupProps{
		LogGroupName:  name,
		Retention:     retention,
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
	})

	awscdk.NewCfnOutput(scope, jsii.String("LogGroupOutput"), &awscdk.CfnOutputProps{
		Key:         jsii.String(id + "LogGroup"),
		Description: jsii.String("CloudWatch Log Group for " + *props.Purpose),
		Value:       con.lg.LogGroupName(),
	})

	return con
}

// RetentionFromDays maps a day count onto the CloudWatch retention period
// that keeps events at least that long. Day counts beyond ten years clamp
// to the longest finite period.
func RetentionFromDays(days int) awslogs.RetentionDays {
	periods := []struct {
		days      int
		retention awslogs.RetentionDays
	}{
		{1, awslogs.RetentionDays_ONE_DAY},
		{3, awslogs.RetentionDays_THREE_DAYS},
		{5, awslogs.RetentionDays_FIVE_DAYS},
		{7, awslogs.RetentionDays_ONE_WEEK},
		{14, awslogs.RetentionDays_TWO_WEEKS},
		{30, awslogs.RetentionDays_ONE_MONTH},
		{60, awslogs.RetentionDays_TWO_MONTHS},
		{90, awslogs.RetentionDays_THREE_MONTHS},
		{120, awslogs.RetentionDays_FOUR_MONTHS},
		{150, awslogs.RetentionDays_FIVE_MONTHS},
		{180, awslogs.RetentionDays_SIX_MONTHS},
		{365, awslogs.RetentionDays_ONE_YEAR},
		{400, awslogs.RetentionDays_THIRTEEN_MONTHS},
		{545, awslogs.RetentionDays_EIGHTEEN_MONTHS},
		{731, awslogs.RetentionDays_TWO_YEARS},
		{1096, awslogs.RetentionDays_THREE_YEARS},
		{1827, awslogs.RetentionDays_FIVE_YEARS},
		{2192, awslogs.RetentionDays_SIX_YEARS},
		{2557, awslogs.RetentionDays_SEVEN_YEARS},
		{2922, awslogs.RetentionDays_EIGHT_YEARS},
		{3288, awslogs.RetentionDays_NINE_YEARS},
		{3653, awslogs.RetentionDays_TEN_YEARS},
	}
	for _, p := range periods {
		if days <= p.days {
			return p.retention
		}
	}
	return awslogs.RetentionDays_TEN_YEARS
}

func (l *logGroup) LogGroup() awslogs.ILogGroup {
	return l.lg
}
