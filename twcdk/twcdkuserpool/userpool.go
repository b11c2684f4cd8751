// Package twcdkuserpool provides the Cognito user pool construct that
// authenticates web application users.
//
// Cognito user pools are regional. The pool and its web client live in the
// primary region; secondary regions import the pool by id so every region
// validates the same tokens.
package twcdkuserpool

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscognito"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/tidewaterhq/twapp/twcdk/twcdkparams"
	"github.com/tidewaterhq/twapp/twcdk/twcdkutil"
)

const paramsNamespace = "identity"

// UserPool provides access to the deployment's Cognito user pool.
type UserPool interface {
	// Pool returns the user pool. In secondary regions this is an
	// imported reference to the primary region's pool.
	Pool() awscognito.IUserPool

	// PoolID returns the user pool id. In secondary regions the value is
	// resolved from the primary region at deploy time.
	PoolID() *string

	// WebClientID returns the id of the web app client.
	WebClientID() *string

	// IssuerURL returns the OIDC issuer URL tokens from this pool carry.
	// The issuer always names the primary region, where the pool lives.
	IssuerURL() *string
}

// Props configures the UserPool construct.
type Props struct {
	// Name is the resource-name label for the user pool.
	// Optional. Defaults to "users".
	Name *string
}

type userPool struct {
	pool        awscognito.IUserPool
	poolID      *string
	webClientID *string
	issuerURL   *string
}

// New creates the user pool construct.
//
// In the primary region: Creates the pool with email sign-in, self
// sign-up, and verified-email account recovery, plus one web app client
// using SRP without a client secret. Pool id and client id are stored in
// SSM Parameter Store.
//
// In secondary regions: Looks both ids up from the primary region and
// imports the pool.
func New(scope constructs.Construct, props Props) UserPool {
	label := "users"
	if props.Name != nil && *props.Name != "" {
		label = *props.Name
	}

	scope = constructs.NewConstruct(scope, jsii.String("UserPool"))
	con := &userPool{}

	region := *awscdk.Stack_Of(scope).Region()
	poolName := twcdkutil.ResourceName(scope, label, twcdkutil.CasingKebab)

	if twcdkutil.IsPrimaryRegion(scope, region) {
		pool := awscognito.NewUserPool(scope, jsii.String("Pool"), &awscognito.UserPoolProps{
			UserPoolName:      jsii.String(poolName),
			SelfSignUpEnabled: jsii.Bool(true),
			SignInAliases: &awscognito.SignInAliases{
				Email: jsii.Bool(true),
			},
			AutoVerify: &awscognito.AutoVerifiedAttrs{
				Email: jsii.Bool(true),
			},
			AccountRecovery: awscognito.AccountRecovery_EMAIL_ONLY,
			RemovalPolicy:   awscdk.RemovalPolicy_DESTROY,
		})

		webClient := awscognito.NewUserPoolClient(scope, jsii.String("WebClient"), &awscognito.UserPoolClientProps{
			UserPool:       pool,
			GenerateSecret: jsii.Bool(false),
			AuthFlows: &awscognito.AuthFlow{
				UserSrp: jsii.Bool(true),
			},
		})

		con.pool = pool
		con.poolID = pool.UserPoolId()
		con.webClientID = webClient.UserPoolClientId()

		twcdkparams.Store(scope, "PoolIDParam", paramsNamespace, "user-pool-id", con.poolID)
		twcdkparams.Store(scope, "WebClientIDParam", paramsNamespace, "web-client-id", con.webClientID)
	} else {
		con.poolID = twcdkparams.Lookup(scope, "LookupPoolID",
			paramsNamespace, "user-pool-id", "user-pool-id-lookup")
		con.webClientID = twcdkparams.Lookup(scope, "LookupWebClientID",
			paramsNamespace, "web-client-id", "web-client-id-lookup")

		con.pool = awscognito.UserPool_FromUserPoolId(scope, jsii.String("Pool"), con.poolID)
	}

	con.issuerURL = jsii.String(
		"https://cognito-idp." + twcdkutil.PrimaryRegion(scope) + ".amazonaws.com/" + *con.poolID)

	awscdk.NewCfnOutput(scope, jsii.String("PoolIDOutput"), &awscdk.CfnOutputProps{
		Key:         jsii.String("UserPoolID"),
		Description: jsii.String("Cognito user pool id"),
		Value:       con.poolID,
	})
	awscdk.NewCfnOutput(scope, jsii.String("WebClientIDOutput"), &awscdk.CfnOutputProps{
		Key:         jsii.String("UserPoolWebClientID"),
		Description: jsii.String("Cognito app client id for the web client"),
		Value:       con.webClientID,
	})

	return con
}

func (u *userPool) Pool() awscognito.IUserPool {
	return u.pool
}

func (u *userPool) PoolID() *string {
	return u.poolID
}

func (u *userPool) WebClientID() *string {
	return u.webClientID
}

func (u *userPool) IssuerURL() *string {
	return u.issuerURL
}
