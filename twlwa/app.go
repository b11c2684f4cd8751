package twlwa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/advdv/bhttp"
	"github.com/aws/aws-sdk-go-v2/aws"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const shutdownTimeout = 10 * time.Second

// healthHandler is the signature for readiness check handlers.
type healthHandler = func(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error

// appOptions holds configuration collected from Option values.
type appOptions struct {
	fxOptions []fx.Option
	clients   []*AWSClientFactory
	health    healthHandler
}

// Option configures the application.
type Option func(*appOptions)

// WithFx adds fx options (providers, invokes, supplies) to the
// application graph. Use this to provide handler constructors.
func WithFx(opts ...fx.Option) Option {
	return func(o *appOptions) {
		o.fxOptions = append(o.fxOptions, opts...)
	}
}

// WithAWSClient registers an AWS SDK v2 client for retrieval via [AWS].
// The factory receives an aws.Config that is already instrumented for
// tracing and has the selected region resolved.
//
//	twlwa.WithAWSClient(func(cfg aws.Config) *dynamodb.Client {
//	    return dynamodb.NewFromConfig(cfg)
//	})
//
// Register the same client type once per region:
//
//	twlwa.WithAWSClient(func(cfg aws.Config) *ssm.Client {
//	    return ssm.NewFromConfig(cfg)
//	}, twlwa.ForPrimaryRegion())
func WithAWSClient[T any](factory func(cfg aws.Config) *T, opts ...ClientOption) Option {
	reg := RegisterAWSClient(factory, opts...)
	return func(o *appOptions) {
		o.clients = append(o.clients, reg)
	}
}

// WithHealthHandler replaces the default readiness check response. The
// handler is registered at AWS_LWA_READINESS_CHECK_PATH, which the app
// owns.
func WithHealthHandler(h func(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error) Option {
	return func(o *appOptions) {
		o.health = h
	}
}

// App is a fully assembled application. Create one with NewApp, then
// call Run (production) or Start (tests).
type App[E Environment] struct {
	fxApp *fx.App
}

// NewApp assembles the application around the register function, which
// is invoked through fx and may request *Mux plus anything provided via
// WithFx:
//
//	app := twlwa.NewApp[Env](
//	    func(m *twlwa.Mux, h *Handlers) {
//	        m.HandleFunc("GET /items", h.ListItems)
//	    },
//	    twlwa.WithAWSClient(func(cfg aws.Config) *dynamodb.Client {
//	        return dynamodb.NewFromConfig(cfg)
//	    }),
//	    twlwa.WithFx(fx.Provide(NewHandlers)),
//	)
//	app.Run()
func NewApp[E Environment](register any, opts ...Option) *App[E] {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}

	fxOpts := []fx.Option{
		fx.WithLogger(newFxLogger),
		fx.Provide(
			ParseEnv[E](),
			func(env E) Environment { return env },
			NewLogger,
			NewTracerProvider,
			NewPropagator,
			provideAWSConfig,
			newDeps(o.clients),
			newAppMux,
			NewRuntime[E],
		),
	}
	fxOpts = append(fxOpts, o.fxOptions...)
	fxOpts = append(fxOpts,
		fx.Invoke(register),
		fx.Invoke(registerHealth(o.health)),
		fx.Invoke(startServer),
	)

	return &App[E]{fxApp: fx.New(fxOpts...)}
}

// Start starts the application and blocks until ctx is canceled, then
// shuts it down. The HTTP listener is bound before Start's startup phase
// completes, so requests can be sent as soon as startup returns.
func (a *App[E]) Start(ctx context.Context) error {
	if err := a.fxApp.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.fxApp.Stop(stopCtx)
}

// Run starts the application and stops it again on SIGINT or SIGTERM.
// Lambda sends SIGTERM before reclaiming the sandbox.
func (a *App[E]) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "twlwa:", err)
		os.Exit(1)
	}
}

// newFxLogger routes fx's own events to the service logger at debug
// level so they stay out of production logs but remain inspectable.
func newFxLogger(log *zap.Logger) fxevent.Logger {
	zl := &fxevent.ZapLogger{Logger: log.Named("fx")}
	zl.UseLogLevel(zapcore.DebugLevel)
	return zl
}

// newDeps builds the request-scoped dependency container, including one
// AWS client per registration keyed by type and region.
func newDeps(clients []*AWSClientFactory) func(cfg aws.Config, env Environment, logger *zap.Logger) *deps {
	return func(cfg aws.Config, env Environment, logger *zap.Logger) *deps {
		awsClients := make(map[string]any, len(clients))
		for _, c := range clients {
			key, client := c.newClient(cfg, env)
			awsClients[key] = client
		}
		return &deps{
			logger:     logger,
			env:        env,
			awsClients: awsClients,
		}
	}
}

// newAppMux creates the mux with the context middleware attached before
// any routes are registered. The deps carry the mux so Reverse works
// from handler contexts.
func newAppMux(d *deps) *Mux {
	m := NewMux()
	d.mux = m
	m.Use(withDeps(d))
	m.Use(withLWAContext())
	return m
}

// registerHealth registers the readiness check route after all
// application routes.
func registerHealth(custom healthHandler) func(m *Mux, env Environment) {
	return func(m *Mux, env Environment) {
		h := custom
		if h == nil {
			h = func(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error {
				w.Header().Set("Content-Type", "application/json")
				return json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
			}
		}
		m.HandleFunc("GET "+env.readinessCheckPath(), h)
	}
}

// startServer binds the HTTP listener during startup and serves until
// shutdown. Binding in OnStart (instead of inside the serve goroutine)
// guarantees the port is ready once fx startup completes.
func startServer(
	lc fx.Lifecycle,
	env Environment,
	mux *Mux,
	tp trace.TracerProvider,
	prop propagation.TextMapPropagator,
	log *zap.Logger,
) {
	handler := withTracing(tp, prop, env.serviceName(), env.readinessCheckPath())(mux)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", env.port()),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening",
				zap.String("addr", srv.Addr),
				zap.String("readiness_check_path", env.readinessCheckPath()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
