// Package twcdkhttpgateway provides the HTTP API gateway construct that
// fronts the web component's Lambda function.
//
// The gateway is an API Gateway v2 HTTP API with CORS preflight for the
// configured origins, an explicit auto-deployed stage, JSON access logs,
// and a Cognito JWT authorizer on every route not listed as public.
package twcdkhttpgateway

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigatewayv2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigatewayv2authorizers"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigatewayv2integrations"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/tidewaterhq/twapp/twcdk/twcdkutil"
)

// defaultStageName is used when no stage name is configured.
const defaultStageName = "v1"

// HTTPGateway provides access to the web component's HTTP API.
type HTTPGateway interface {
	// Api returns the HTTP API.
	Api() awsapigatewayv2.HttpApi
	// Stage returns the API's deployed stage.
	Stage() awsapigatewayv2.HttpStage
	// URL returns the invoke URL of the stage.
	URL() *string
}

// Props configures the HTTPGateway construct.
type Props struct {
	// Function is the Lambda all routes proxy to. Required.
	Function awslambda.IFunction
	// AccessLogGroup receives the gateway's access logs. Required.
	AccessLogGroup awslogs.ILogGroup
	// Issuer is the OIDC issuer URL of the user pool that signs API tokens.
	// Required.
	Issuer *string
	// Audience is the app client ids accepted in tokens. Required.
	Audience *[]*string
	// ProtectedRoutes are the paths behind the user pool authorizer.
	// Use {proxy+} for greedy matching (e.g., "/api/{proxy+}"). Required.
	ProtectedRoutes *[]*string
	// PublicRoutes are the paths reachable without authorization, such as
	// health checks. Optional.
	PublicRoutes *[]*string
	// AllowedOrigins are the origins allowed in CORS preflight responses.
	// Optional. Without it the API answers no preflight requests.
	AllowedOrigins *[]*string
	// StageName names the deployed stage. Optional. Defaults to "v1".
	StageName *string
}

type httpGateway struct {
	api   awsapigatewayv2.HttpApi
	stage awsapigatewayv2.HttpStage
}

// New creates the HTTP API, its stage, and the routes.
//
// All routes share one Lambda proxy integration. Protected routes carry a
// JWT authorizer validating tokens against the given issuer and audience;
// public routes skip authorization entirely.
func New(scope constructs.Construct, props Props) HTTPGateway {
	if props.Function == nil {
		panic("twcdkhttpgateway: Props.Function is required")
	}
	if props.AccessLogGroup == nil {
		panic("twcdkhttpgateway: Props.AccessLogGroup is required")
	}
	if props.Issuer == nil || props.Audience == nil {
		panic("twcdkhttpgateway: Props.Issuer and Props.Audience are required")
	}
	if props.ProtectedRoutes == nil || len(*props.ProtectedRoutes) == 0 {
		panic("twcdkhttpgateway: Props.ProtectedRoutes is required")
	}

	scope = constructs.NewConstruct(scope, jsii.String("HttpGateway"))
	con := &httpGateway{}

	apiName := twcdkutil.ResourceName(scope, "gateway", twcdkutil.CasingKebab)

	apiProps := &awsapigatewayv2.HttpApiProps{
		ApiName:            jsii.String(apiName),
		CreateDefaultStage: jsii.Bool(false),
	}
	if props.AllowedOrigins != nil && len(*props.AllowedOrigins) > 0 {
		apiProps.CorsPreflight = &awsapigatewayv2.CorsPreflightOptions{
			AllowOrigins: props.AllowedOrigins,
			AllowMethods: &[]awsapigatewayv2.CorsHttpMethod{
				awsapigatewayv2.CorsHttpMethod_GET,
				awsapigatewayv2.CorsHttpMethod_POST,
				awsapigatewayv2.CorsHttpMethod_PUT,
				awsapigatewayv2.CorsHttpMethod_DELETE,
				awsapigatewayv2.CorsHttpMethod_HEAD,
			},
			AllowHeaders: &[]*string{
				jsii.String("Authorization"),
				jsii.String("Content-Type"),
			},
			MaxAge: awscdk.Duration_Hours(jsii.Number(1)),
		}
	}

	con.api = awsapigatewayv2.NewHttpApi(scope, jsii.String("Api"), apiProps)

	stageName := defaultStageName
	if props.StageName != nil && *props.StageName != "" {
		stageName = *props.StageName
	}

	con.stage = awsapigatewayv2.NewHttpStage(scope, jsii.String("Stage"), &awsapigatewayv2.HttpStageProps{
		HttpApi:    con.api,
		StageName:  jsii.String(stageName),
		AutoDeploy: jsii.Bool(true),
	})

	// The L2 stage has no access-log surface, so configure it on the
	// underlying CfnStage.
	cfnStage := con.stage.Node().DefaultChild().(awsapigatewayv2.CfnStage)
	cfnStage.SetAccessLogSettings(&awsapigatewayv2.CfnStage_AccessLogSettingsProperty{
		DestinationArn: props.AccessLogGroup.LogGroupArn(),
		Format: jsii.String(`{"requestId":"$context.requestId",` +
			`"ip":"$context.identity.sourceIp",` +
			`"caller":"$context.identity.caller",` +
			`"user":"$context.identity.user",` +
			`"requestTime":"$context.requestTime",` +
			`"httpMethod":"$context.httpMethod",` +
			`"routeKey":"$context.routeKey",` +
			`"status":"$context.status",` +
			`"protocol":"$context.protocol",` +
			`"responseLength":"$context.responseLength"}`),
	})

	integration := awsapigatewayv2integrations.NewHttpLambdaIntegration(
		jsii.String("LambdaIntegration"), props.Function, nil)

	authorizer := awsapigatewayv2authorizers.NewHttpJwtAuthorizer(
		jsii.String("UserPoolAuthorizer"), props.Issuer,
		&awsapigatewayv2authorizers.HttpJwtAuthorizerProps{
			JwtAudience: props.Audience,
		})

	for _, route := range *props.ProtectedRoutes {
		con.api.AddRoutes(&awsapigatewayv2.AddRoutesOptions{
			Path:        route,
			Methods:     &[]awsapigatewayv2.HttpMethod{awsapigatewayv2.HttpMethod_ANY},
			Integration: integration,
			Authorizer:  authorizer,
		})
	}
	if props.PublicRoutes != nil {
		for _, route := range *props.PublicRoutes {
			con.api.AddRoutes(&awsapigatewayv2.AddRoutesOptions{
				Path:        route,
				Methods:     &[]awsapigatewayv2.HttpMethod{awsapigatewayv2.HttpMethod_ANY},
				Integration: integration,
			})
		}
	}

	// Export the invoke URL as a stack output for easy retrieval via AWS CLI.
	awscdk.NewCfnOutput(scope, jsii.String("GatewayURL"), &awscdk.CfnOutputProps{
		Key:         jsii.String("ApiGatewayURL"),
		Description: jsii.String("HTTP API invoke URL including the stage"),
		Value:       con.stage.Url(),
	})

	return con
}

func (g *httpGateway) Api() awsapigatewayv2.HttpApi {
	return g.api
}

func (g *httpGateway) Stage() awsapigatewayv2.HttpStage {
	return g.stage
}

func (g *httpGateway) URL() *string {
	return g.stage.Url()
}
