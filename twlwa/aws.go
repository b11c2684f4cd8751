package twlwa

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Region selects which AWS region a registered client targets. Use the
// same selector at registration (via ForPrimaryRegion/ForRegion) and at
// retrieval (via AWS).
type Region interface {
	resolve(env Environment) string
	cacheKey() string
}

// localRegion targets the region the service itself runs in (AWS_REGION).
type localRegion struct{}

func (localRegion) resolve(env Environment) string { return env.localRegion() }
func (localRegion) cacheKey() string               { return "local" }

// LocalRegion selects the region the service runs in. This is the
// default for registered clients.
func LocalRegion() Region { return localRegion{} }

// primaryRegionSel targets the primary deployment region (TW_PRIMARY_REGION).
type primaryRegionSel struct{}

func (primaryRegionSel) resolve(env Environment) string { return env.primaryRegion() }
func (primaryRegionSel) cacheKey() string               { return "primary" }

// PrimaryRegion selects the primary deployment region. Global resources
// such as the main table's writable replica live there.
func PrimaryRegion() Region { return primaryRegionSel{} }

// fixedRegion targets one specific region regardless of deployment.
type fixedRegion struct {
	region string
}

func (f fixedRegion) resolve(Environment) string { return f.region }
func (f fixedRegion) cacheKey() string           { return f.region }

// FixedRegion selects a specific region by name.
func FixedRegion(region string) Region { return fixedRegion{region: region} }

// clientOptions holds configuration for AWS client registration.
type clientOptions struct {
	region Region
}

// ClientOption configures AWS client registration.
type ClientOption func(*clientOptions)

// ForPrimaryRegion registers the client against the primary deployment
// region instead of the local one. Retrieve it with
// AWS[T](ctx, PrimaryRegion()).
func ForPrimaryRegion() ClientOption {
	return func(o *clientOptions) {
		o.region = PrimaryRegion()
	}
}

// ForRegion registers the client against a specific fixed region.
// Retrieve it with AWS[T](ctx, FixedRegion(region)).
func ForRegion(region string) ClientOption {
	return func(o *clientOptions) {
		o.region = FixedRegion(region)
	}
}

// AWSClientFactory describes one registered AWS client: how to build it
// and which region it targets.
type AWSClientFactory struct {
	// Region the client is registered for, LocalRegion by default.
	Region Region

	typeName func() string
	build    func(aws.Config) any
}

// RegisterAWSClient describes an AWS client registration. The factory
// receives an aws.Config with the selected region already resolved.
// Pass the result to an App via WithAWSClient, which calls this for you.
func RegisterAWSClient[T any](factory func(cfg aws.Config) *T, opts ...ClientOption) *AWSClientFactory {
	options := &clientOptions{
		region: LocalRegion(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &AWSClientFactory{
		Region:   options.region,
		typeName: typeKey[T],
		build:    func(cfg aws.Config) any { return factory(cfg) },
	}
}

// newClient builds the client with the registered region resolved
// against the environment. Returns the retrieval key and the client.
func (f *AWSClientFactory) newClient(cfg aws.Config, env Environment) (string, any) {
	awsCfg := cfg.Copy()
	if r := f.Region.resolve(env); r != "" {
		awsCfg.Region = r
	}
	return clientKey(f.typeName(), f.Region), f.build(awsCfg)
}

// clientKey combines client type and region so the same client type can
// be registered once per region.
func clientKey(typeName string, region Region) string {
	return typeName + "@" + region.cacheKey()
}

const awsConfigTimeout = 10 * time.Second

// NewAWSConfig loads the default AWS SDK v2 configuration.
func NewAWSConfig(ctx context.Context) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx)
}

// provideAWSConfig is an fx provider that loads AWS config with a timeout.
// It automatically instruments the config with OpenTelemetry for AWS SDK tracing.
// The TracerProvider and Propagator are explicitly injected to avoid global state.
func provideAWSConfig(tp trace.TracerProvider, prop propagation.TextMapPropagator) (aws.Config, error) {
	ctx, cancel := context.WithTimeout(context.Background(), awsConfigTimeout)
	defer cancel()
	cfg, err := NewAWSConfig(ctx)
	if err != nil {
		return cfg, err
	}
	otelaws.AppendMiddlewares(&cfg.APIOptions,
		otelaws.WithTracerProvider(tp),
		otelaws.WithTextMapPropagator(prop),
	)
	return cfg, nil
}
