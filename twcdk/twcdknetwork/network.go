// Package twcdknetwork provides the VPC and security group the web
// component's function and cache cluster run in.
package twcdknetwork

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// Network provides access to the web component's network resources.
type Network interface {
	// Vpc returns the VPC the web component runs in.
	Vpc() awsec2.IVpc
	// AppSecurityGroup returns the security group shared by the function
	// and the cache cluster.
	AppSecurityGroup() awsec2.ISecurityGroup
}

// Props configures the Network construct.
type Props struct {
	// CachePort is the port the cache cluster listens on. The security
	// group allows ingress on it from itself so the function can reach
	// the cluster. Required.
	CachePort *float64
}

type network struct {
	vpc awsec2.IVpc
	sg  awsec2.ISecurityGroup
}

// New creates a VPC spanning two availability zones with a single NAT
// gateway, plus the application security group.
//
// The function and the cache cluster share one security group with a
// self-referencing ingress rule on the cache port. Members can reach
// the cache without maintaining separate group-to-group rules.
func New(scope constructs.Construct, props Props) Network {
	if props.CachePort == nil {
		panic("twcdknetwork: Props.CachePort is required")
	}

	scope = constructs.NewConstruct(scope, jsii.String("Network"))
	con := &network{}

	con.vpc = awsec2.NewVpc(scope, jsii.String("Vpc"), &awsec2.VpcProps{
		MaxAzs:      jsii.Number(2),
		NatGateways: jsii.Number(1),
		SubnetConfiguration: &[]*awsec2.SubnetConfiguration{
			{
				Name:       jsii.String("public"),
				SubnetType: awsec2.SubnetType_PUBLIC,
				CidrMask:   jsii.Number(24),
			},
			{
				Name:       jsii.String("private"),
				SubnetType: awsec2.SubnetType_PRIVATE_WITH_EGRESS,
				CidrMask:   jsii.Number(24),
			},
		},
	})

	sg := awsec2.NewSecurityGroup(scope, jsii.String("AppSecurityGroup"), &awsec2.SecurityGroupProps{
		Vpc:              con.vpc,
		Description:      jsii.String("Application security group shared by the function and the cache cluster"),
		AllowAllOutbound: jsii.Bool(true),
	})
	sg.AddIngressRule(
		sg,
		awsec2.Port_Tcp(props.CachePort),
		jsii.String("cache access from group members"),
		nil,
	)
	con.sg = sg

	return con
}

func (n *network) Vpc() awsec2.IVpc {
	return n.vpc
}

func (n *network) AppSecurityGroup() awsec2.ISecurityGroup {
	return n.sg
}
