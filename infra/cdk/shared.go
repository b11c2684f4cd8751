// Package cdk defines the deployment infrastructure: the per-region
// shared foundation and the Site and Web components every deployment
// consists of.
package cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/tidewaterhq/twapp/twcdk/twcdkbase"
)

// Shared holds the per-region resources all deployments in that region
// build on.
type Shared struct {
	Base twcdkbase.Base
}

// NewShared creates the shared resources for one region.
func NewShared(stack awscdk.Stack) *Shared {
	shared := &Shared{}
	shared.Base = twcdkbase.New(stack, twcdkbase.Props{})

	return shared
}
