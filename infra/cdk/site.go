package cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/tidewaterhq/twapp/twcdk/twcdksite"
)

// NewSite builds the static site component: the asset bucket and the
// CDN distribution in front of it. Distribution access logs go to the
// shared per-region bucket.
func NewSite(stack awscdk.Stack, shared *Shared, deploymentIdent string) {
	_ = twcdksite.New(stack, twcdksite.Props{
		AccessLogBucket: shared.Base.AccessLogBucket(),
	})
}
