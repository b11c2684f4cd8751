package cdk

import (
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/tidewaterhq/twapp/twcdk/twcdkcache"
	"github.com/tidewaterhq/twapp/twcdk/twcdkdynamo"
	"github.com/tidewaterhq/twapp/twcdk/twcdkhttpgateway"
	"github.com/tidewaterhq/twapp/twcdk/twcdkloggroup"
	"github.com/tidewaterhq/twapp/twcdk/twcdklwalambda"
	"github.com/tidewaterhq/twapp/twcdk/twcdknetwork"
	"github.com/tidewaterhq/twapp/twcdk/twcdkuserpool"
	"github.com/tidewaterhq/twapp/twcdk/twcdkutil"
)

// NewWeb builds the web application component: the network, the item
// table, the user pool, the cache cluster, the log groups, the webapi
// function, and the HTTP API fronting it.
//
// The function runs inside the VPC so it shares a security group with
// the cache cluster. The gateway validates Cognito JWTs against the
// primary-region pool before forwarding /api routes.
func NewWeb(stack awscdk.Stack, shared *Shared, deploymentIdent string) {
	web := twcdkutil.ConfigFromScope(stack).Web

	network := twcdknetwork.New(stack, twcdknetwork.Props{
		CachePort: jsii.Number(twcdkcache.PortForEngine(web.CacheEngine)),
	})

	table := twcdkdynamo.New(stack, twcdkdynamo.Props{
		Name:         jsii.String(web.TableName),
		PartitionKey: jsii.String(web.TablePartitionKey),
	})

	pool := twcdkuserpool.New(stack, twcdkuserpool.Props{
		Name: jsii.String(web.UserPoolName),
	})

	cache := twcdkcache.New(stack, twcdkcache.Props{
		Vpc:           network.Vpc(),
		SecurityGroup: network.AppSecurityGroup(),
		ClusterID:     jsii.String(web.CacheClusterID),
		NodeType:      jsii.String(web.CacheNodeType),
		Engine:        jsii.String(web.CacheEngine),
	})

	functionLogs := twcdkloggroup.New(stack, "Webapi", twcdkloggroup.Props{
		Purpose:       jsii.String("the webapi function"),
		Name:          jsii.String(web.LogGroupName),
		RetentionDays: jsii.Number(float64(web.LogRetentionDays)),
	})

	accessLogs := twcdkloggroup.New(stack, "GatewayAccess", twcdkloggroup.Props{
		Purpose:       jsii.String("gateway access logs"),
		Name:          jsii.String(web.LogGroupName + "-access"),
		RetentionDays: jsii.Number(float64(web.LogRetentionDays)),
	})

	function := twcdklwalambda.New(stack, twcdklwalambda.Props{
		Entry: jsii.String("backend/cmd/webapi"),
		Environment: &map[string]*string{
			"TW_MAIN_TABLE_NAME":     table.TableName(),
			"TW_MAIN_TABLE_HASH_KEY": jsii.String(web.TablePartitionKey),
			"TW_CACHE_ENDPOINT":      cache.Endpoint(),
			"TW_CACHE_ENGINE":        jsii.String(web.CacheEngine),
			"TW_ALLOWED_ORIGINS":     jsii.String(strings.Join(web.AllowedOrigins, " ")),
		},
		Vpc:           network.Vpc(),
		SecurityGroup: network.AppSecurityGroup(),
		LogGroup:      functionLogs.LogGroup(),
	})

	table.GrantReadWriteData(function.Function())

	_ = twcdkhttpgateway.New(stack, twcdkhttpgateway.Props{
		Function:        function.Function(),
		AccessLogGroup:  accessLogs.LogGroup(),
		Issuer:          pool.IssuerURL(),
		Audience:        &[]*string{pool.WebClientID()},
		ProtectedRoutes: jsii.Strings("/api/{proxy+}"),
		PublicRoutes:    jsii.Strings("/health"),
		AllowedOrigins:  jsii.Strings(web.AllowedOrigins...),
		StageName:       jsii.String(web.APIStageName),
	})
}
