// Package twcdksite provides the static site construct: a private S3
// bucket behind a CloudFront distribution, with the site assets deployed
// from the repository on every synth.
package twcdksite

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfrontorigins"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3deployment"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/iancoleman/strcase"
	"github.com/tidewaterhq/twapp/twcdk/twcdkutil"
)

// defaultBucketLabel names the site bucket when no override is configured.
const defaultBucketLabel = "site"

// defaultSourcePath is where the deployable site assets live,
// relative to the repository root.
const defaultSourcePath = "site/public"

// Site provides access to the static site resources.
type Site interface {
	// Bucket returns the S3 bucket holding the site assets.
	Bucket() awss3.IBucket
	// Distribution returns the CloudFront distribution serving the site.
	Distribution() awscloudfront.Distribution
}

// Props configures the Site construct.
type Props struct {
	// AccessLogBucket receives the distribution's access logs.
	// Typically the per-region shared bucket. Required.
	AccessLogBucket awss3.IBucket
	// SourcePath is the directory with the site assets, relative to the
	// repository root. Optional. Defaults to "site/public".
	SourcePath *string
}

type site struct {
	bucket       awss3.IBucket
	distribution awscloudfront.Distribution
}

// New creates the static site resources.
//
// The bucket label comes from the site-bucket-name context value when set.
// The region identifier is appended because bucket names are global and the
// site deploys per region.
//
// The distribution serves a single-page app: 403 and 404 responses rewrite
// to /index.html with a 200 status so client-side routes resolve.
func New(scope constructs.Construct, props Props) Site {
	if props.AccessLogBucket == nil {
		panic("twcdksite: Props.AccessLogBucket is required")
	}

	cfg := twcdkutil.ConfigFromScope(scope)
	label := cfg.Site.BucketName
	if label == "" {
		label = defaultBucketLabel
	}

	scope = constructs.NewConstruct(scope, jsii.String("Site"+strcase.ToCamel(label)))
	con := &site{}

	stack := awscdk.Stack_Of(scope)
	bucketName := twcdkutil.ResourceName(scope, label, twcdkutil.CasingKebab) +
		"-" + twcdkutil.RegionIdentLower(*stack.Region())

	con.bucket = awss3.NewBucket(scope, jsii.String("Bucket"), &awss3.BucketProps{
		BucketName:        jsii.String(bucketName),
		BlockPublicAccess: awss3.BlockPublicAccess_BLOCK_ALL(),
		Encryption:        awss3.BucketEncryption_S3_MANAGED,
		EnforceSSL:        jsii.Bool(true),
		RemovalPolicy:     awscdk.RemovalPolicy_DESTROY,
		AutoDeleteObjects: jsii.Bool(true),
	})

	oai := awscloudfront.NewOriginAccessIdentity(scope, jsii.String("OAI"), &awscloudfront.OriginAccessIdentityProps{
		Comment: jsii.String("Access identity for " + bucketName),
	})

	con.distribution = awscloudfront.NewDistribution(scope, jsii.String("Distribution"), &awscloudfront.DistributionProps{
		DefaultBehavior: &awscloudfront.BehaviorOptions{
			Origin: awscloudfrontorigins.S3BucketOrigin_WithOriginAccessIdentity(con.bucket,
				&awscloudfrontorigins.S3BucketOriginWithOAIProps{
					OriginAccessIdentity: oai,
				}),
			ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
			Compress:             jsii.Bool(true),
		},
		DefaultRootObject: jsii.String("index.html"),
		ErrorResponses: &[]*awscloudfront.ErrorResponse{
			{
				HttpStatus:         jsii.Number(403),
				ResponseHttpStatus: jsii.Number(200),
				ResponsePagePath:   jsii.String("/index.html"),
				Ttl:                awscdk.Duration_Minutes(jsii.Number(5)),
			},
			{
				HttpStatus:         jsii.Number(404),
				ResponseHttpStatus: jsii.Number(200),
				ResponsePagePath:   jsii.String("/index.html"),
				Ttl:                awscdk.Duration_Minutes(jsii.Number(5)),
			},
		},
		PriceClass:    awscloudfront.PriceClass_PRICE_CLASS_100,
		EnableLogging: jsii.Bool(true),
		LogBucket:     props.AccessLogBucket,
		LogFilePrefix: jsii.String(bucketName + "/"),
	})

	sourcePath := props.SourcePath
	if sourcePath == nil {
		sourcePath = jsii.String(defaultSourcePath)
	}

	awss3deployment.NewBucketDeployment(scope, jsii.String("DeployAssets"), &awss3deployment.BucketDeploymentProps{
		Sources: &[]awss3deployment.ISource{
			awss3deployment.Source_Asset(sourcePath, nil),
		},
		DestinationBucket: con.bucket,
		Distribution:      con.distribution,
		DistributionPaths: &[]*string{jsii.String("/*")},
	})

	// Export site coordinates as stack outputs for easy retrieval via AWS CLI.
	awscdk.NewCfnOutput(scope, jsii.String("BucketNameOutput"), &awscdk.CfnOutputProps{
		Key:         jsii.String("SiteBucketName"),
		Description: jsii.String("S3 bucket holding the static site assets"),
		Value:       con.bucket.BucketName(),
	})
	awscdk.NewCfnOutput(scope, jsii.String("DistributionIDOutput"), &awscdk.CfnOutputProps{
		Key:         jsii.String("SiteDistributionID"),
		Description: jsii.String("CloudFront distribution id for the static site"),
		Value:       con.distribution.DistributionId(),
	})
	awscdk.NewCfnOutput(scope, jsii.String("DomainNameOutput"), &awscdk.CfnOutputProps{
		Key:         jsii.String("SiteDomainName"),
		Description: jsii.String("CloudFront domain name serving the static site"),
		Value:       con.distribution.DistributionDomainName(),
	})

	return con
}

func (s *site) Bucket() awss3.IBucket {
	return s.bucket
}

func (s *site) Distribution() awscloudfront.Distribution {
	return s.distribution
}
