// Package twcdkbase provides the per-region shared foundation that
// deployment components build on.
//
// Shared stacks deploy once per region and hold the resources every
// deployment in that region uses, such as the bucket that CDN
// distributions write their access logs to.
package twcdkbase

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// defaultLogExpiryDays is how long access logs are kept before S3 expires them.
const defaultLogExpiryDays = 30

// Base provides access to the per-region shared foundation resources.
type Base interface {
	// AccessLogBucket returns the bucket that collects access logs from
	// CDN distributions in this region.
	AccessLogBucket() awss3.IBucket
}

// Props configures the Base construct.
type Props struct {
	// LogExpiryDays overrides how long access logs are retained.
	// Optional. Defaults to 30 days.
	LogExpiryDays *float64
}

type base struct {
	accessLogBucket awss3.IBucket
}

// New creates the per-region shared foundation resources.
//
// The access-log bucket uses object-writer ownership because CloudFront
// log delivery writes ACL'd objects and requires ACLs to be enabled on
// the target bucket.
func New(scope constructs.Construct, props Props) Base {
	scope = constructs.NewConstruct(scope, jsii.String("Base"))
	con := &base{}

	expiry := props.LogExpiryDays
	if expiry == nil {
		expiry = jsii.Number(defaultLogExpiryDays)
	}

	con.accessLogBucket = awss3.NewBucket(scope, jsii.String("AccessLogBucket"), &awss3.BucketProps{
		BlockPublicAccess: awss3.BlockPublicAccess_BLOCK_ALL(),
		Encryption:        awss3.BucketEncryption_S3_MANAGED,
		ObjectOwnership:   awss3.ObjectOwnership_OBJECT_WRITER,
		EnforceSSL:        jsii.Bool(true),
		LifecycleRules: &[]*awss3.LifecycleRule{{
			Expiration: awscdk.Duration_Days(expiry),
		}},
		RemovalPolicy:     awscdk.RemovalPolicy_DESTROY,
		AutoDeleteObjects: jsii.Bool(true),
	})

	awscdk.NewCfnOutput(scope, jsii.String("AccessLogBucketName"), &awscdk.CfnOutputProps{
		Key:         jsii.String("SharedAccessLogBucket"),
		Description: jsii.String("S3 bucket collecting CDN access logs for this region"),
		Value:       con.accessLogBucket.BucketName(),
	})

	return con
}

func (b *base) AccessLogBucket() awss3.IBucket {
	return b.accessLogBucket
}
