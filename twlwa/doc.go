// Package twlwa provides a batteries-included framework for building HTTP services
// that run on AWS Lambda with Lambda Web Adapter (LWA).
//
// # Overview
//
// twlwa handles the boilerplate of setting up an HTTP server optimized for Lambda:
// environment parsing, structured logging, OpenTelemetry tracing, AWS SDK clients,
// and graceful shutdown. A complete application can be created in a single call:
//
//	twlwa.NewApp[Env](func(m *twlwa.Mux, h *Handlers) {
//	    m.HandleFunc("GET /items", h.ListItems)
//	    m.HandleFunc("GET /items/{id}", h.GetItem, "get-item")
//	},
//	    twlwa.WithAWSClient(func(cfg aws.Config) *dynamodb.Client {
//	        return dynamodb.NewFromConfig(cfg)
//	    }),
//	    twlwa.WithFx(fx.Provide(NewHandlers)),
//	).Run()
//
// # Environment Configuration
//
// Define your environment by embedding [BaseEnvironment]:
//
//	type Env struct {
//	    twlwa.BaseEnvironment
//	    MainTableName string `env:"TW_MAIN_TABLE_NAME,required"`
//	}
//
// BaseEnvironment provides the following environment variables:
//
//	| Variable                      | Required | Default | Description                                      |
//	|-------------------------------|----------|---------|--------------------------------------------------|
//	| AWS_LWA_PORT                  | Yes      | -       | Port the HTTP server listens on                  |
//	| AWS_LWA_READINESS_CHECK_PATH  | Yes      | -       | Health check endpoint path for LWA readiness     |
//	| AWS_REGION                    | Yes      | -       | AWS region (set automatically by Lambda runtime) |
//	| TW_SERVICE_NAME               | Yes      | -       | Service name for logging and tracing             |
//	| TW_PRIMARY_REGION             | Yes      | -       | Primary deployment region (injected by CDK)      |
//	| TW_LOG_LEVEL                  | No       | info    | Log level (debug, info, warn, error)             |
//	| TW_OTEL_EXPORTER              | No       | stdout  | Trace exporter: "stdout" or "xrayudp"            |
//
// The AWS_LWA_* variables match the official Lambda Web Adapter configuration,
// so values you set for LWA are automatically picked up by twlwa.
// AWS_REGION is set automatically by the Lambda runtime, while TW_PRIMARY_REGION
// is injected by the twcdklwalambda CDK construct.
//
// # Context Functions
//
// All request context is accessed through typed functions:
//
//   - [Log] returns a trace-correlated zap logger
//   - [Span] returns the current OpenTelemetry span for custom instrumentation
//   - [Env] retrieves the typed environment configuration
//   - [AWS] retrieves a registered AWS SDK client by type
//   - [LWA] retrieves Lambda execution context (request ID, deadline, etc.)
//   - [Reverse] generates URLs for named routes
//
// Example handler using context functions:
//
//	func (h *Handlers) GetItem(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error {
//	    log := twlwa.Log(ctx)           // trace-correlated logger
//	    env := twlwa.Env[Env](ctx)      // typed environment
//	    dynamo := twlwa.AWS[dynamodb.Client](ctx)  // AWS client
//
//	    twlwa.Span(ctx).AddEvent("fetching item")
//
//	    // ... handler logic
//	}
//
// # Tracing
//
// OpenTelemetry tracing is configured automatically based on TW_OTEL_EXPORTER:
//
//   - "stdout" (default): Pretty-printed spans for local development
//   - "xrayudp": X-Ray UDP exporter for Lambda with proper trace ID format
//
// The tracer provider and propagator are injected explicitly (no globals),
// allowing for proper testing and isolation. Set OTEL_SDK_DISABLED=true to
// replace the pipeline with a non-sampling provider.
//
// # AWS Clients
//
// Register AWS SDK v2 clients with [WithAWSClient]:
//
//	twlwa.WithAWSClient(func(cfg aws.Config) *dynamodb.Client {
//	    return dynamodb.NewFromConfig(cfg)
//	})
//
// Clients are automatically instrumented with OpenTelemetry and accessible
// via [AWS] in handlers.
//
// # Cross-Region AWS Clients
//
// By default, AWS clients target the local region (AWS_REGION). For cross-region
// operations, register clients for specific regions:
//
//	// Primary deployment region (uses TW_PRIMARY_REGION env var)
//	twlwa.WithAWSClient(func(cfg aws.Config) *ssm.Client {
//	    return ssm.NewFromConfig(cfg)
//	}, twlwa.ForPrimaryRegion())
//
//	// Fixed region
//	twlwa.WithAWSClient(func(cfg aws.Config) *sqs.Client {
//	    return sqs.NewFromConfig(cfg)
//	}, twlwa.ForRegion("us-east-1"))
//
// Retrieve clients in handlers with an optional region argument:
//
//	dynamo := twlwa.AWS[dynamodb.Client](ctx)                          // local region
//	ssmClient := twlwa.AWS[ssm.Client](ctx, twlwa.PrimaryRegion())     // primary region
//	sqsClient := twlwa.AWS[sqs.Client](ctx, twlwa.FixedRegion("us-east-1"))
//
// Common use cases for cross-region clients:
//   - Reading shared configuration from primary region DynamoDB/SSM
//   - Publishing to centralized SQS queues
//   - Accessing S3 buckets in specific regions
//
// # Health Checks
//
// A health endpoint is automatically registered at AWS_LWA_READINESS_CHECK_PATH
// (required env var). Lambda Web Adapter uses this to determine readiness.
// Customize with [WithHealthHandler].
//
// # Dependency Injection
//
// twlwa uses [go.uber.org/fx] for dependency injection. Add custom providers
// with [WithFx]:
//
//	twlwa.WithFx(
//	    fx.Provide(NewHandlers),
//	    fx.Provide(NewRepository),
//	)
package twlwa
