// Package twcdkcache provides the managed cache cluster for the web
// component.
//
// ElastiCache has no CDK L2 constructs, so the package wires the L1
// CfnSubnetGroup and CfnCacheCluster directly: a subnet group over the
// VPC's private subnets and a single-node cluster attached to the
// application security group.
package twcdkcache

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awselasticache"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/tidewaterhq/twapp/twcdk/twcdkutil"
)

// Engine values the cluster supports.
const (
	EngineRedis     = "redis"
	EngineMemcached = "memcached"
)

// Cache provides access to the web component's cache cluster.
type Cache interface {
	// Cluster returns the underlying CfnCacheCluster.
	Cluster() awselasticache.CfnCacheCluster
	// EndpointAddress returns the hostname clients connect to.
	EndpointAddress() *string
	// EndpointPort returns the port clients connect to.
	EndpointPort() *string
	// Endpoint returns "address:port" for client configuration.
	Endpoint() *string
}

// Props configures the Cache construct.
type Props struct {
	// Vpc is the VPC whose private subnets host the cluster. Required.
	Vpc awsec2.IVpc
	// SecurityGroup controls network access to the cluster. Required.
	SecurityGroup awsec2.ISecurityGroup
	// ClusterID is the resource-name label for the cluster. Optional.
	// Defaults to "cache".
	ClusterID *string
	// NodeType is the instance type of the cache node. Optional.
	// Defaults to cache.t4g.micro.
	NodeType *string
	// Engine is "redis" or "memcached". Optional. Defaults to "redis".
	Engine *string
}

type cache struct {
	cluster awselasticache.CfnCacheCluster
	engine  string
}

// PortForEngine returns the default listen port for a cache engine.
// It panics on engines the construct does not support.
func PortForEngine(engine string) float64 {
	switch engine {
	case EngineRedis:
		return 6379
	case EngineMemcached:
		return 11211
	default:
		panic("twcdkcache: unsupported cache engine: " + engine)
	}
}

// New creates the subnet group and the single-node cache cluster.
//
// The cluster lives in the VPC's private subnets and is reachable only
// through the given security group.
func New(scope constructs.Construct, props Props) Cache {
	if props.Vpc == nil {
		panic("twcdkcache: Props.Vpc is required")
	}
	if props.SecurityGroup == nil {
		panic("twcdkcache: Props.SecurityGroup is required")
	}

	label := "cache"
	if props.ClusterID != nil && *props.ClusterID != "" {
		label = *props.ClusterID
	}
	nodeType := "cache.t4g.micro"
	if props.NodeType != nil && *props.NodeType != "" {
		nodeType = *props.NodeType
	}
	engine := EngineRedis
	if props.Engine != nil && *props.Engine != "" {
		engine = *props.Engine
	}
	// Validates the engine before any resource is created.
	port := PortForEngine(engine)

	scope = constructs.NewConstruct(scope, jsii.String("Cache"))
	con := &cache{engine: engine}

	subnetIDs := make([]interface{}, 0)
	for _, subnet := range *props.Vpc.PrivateSubnets() {
		subnetIDs = append(subnetIDs, subnet.SubnetId())
	}

	subnetGroup := awselasticache.NewCfnSubnetGroup(scope, jsii.String("SubnetGroup"),
		&awselasticache.CfnSubnetGroupProps{
			CacheSubnetGroupName: jsii.String(twcdkutil.ResourceName(scope, label+"-subnets", twcdkutil.CasingKebab)),
			Description:          jsii.String("Private subnets for the " + label + " cluster"),
			SubnetIds:            &subnetIDs,
		})

	con.cluster = awselasticache.NewCfnCacheCluster(scope, jsii.String("Cluster"),
		&awselasticache.CfnCacheClusterProps{
			ClusterName:          jsii.String(twcdkutil.ResourceName(scope, label, twcdkutil.CasingKebab)),
			Engine:               jsii.String(engine),
			CacheNodeType:        jsii.String(nodeType),
			NumCacheNodes:        jsii.Number(1),
			Port:                 jsii.Number(port),
			CacheSubnetGroupName: subnetGroup.Ref(),
			VpcSecurityGroupIds:  &[]*string{props.SecurityGroup.SecurityGroupId()},
		})

	awscdk.NewCfnOutput(scope, jsii.String("EndpointOutput"), &awscdk.CfnOutputProps{
		Key:         jsii.String("CacheEndpoint"),
		Description: jsii.String("Endpoint of the " + engine + " cache cluster"),
		Value:       con.Endpoint(),
	})

	return con
}

func (c *cache) Cluster() awselasticache.CfnCacheCluster {
	return c.cluster
}

func (c *cache) EndpointAddress() *string {
	// Redis exposes a node endpoint, memcached a configuration endpoint.
	if c.engine == EngineMemcached {
		return c.cluster.AttrConfigurationEndpointAddress()
	}
	return c.cluster.AttrRedisEndpointAddress()
}

func (c *cache) EndpointPort() *string {
	if c.engine == EngineMemcached {
		return c.cluster.AttrConfigurationEndpointPort()
	}
	return c.cluster.AttrRedisEndpointPort()
}

func (c *cache) Endpoint() *string {
	return jsii.Sprintf("%s:%s", *c.EndpointAddress(), *c.EndpointPort())
}
