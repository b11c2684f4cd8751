package twlwa

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewLogger creates the service logger: structured JSON on stdout at the
// level the environment configures. Lambda forwards stdout to CloudWatch,
// so there is no file or rotation handling.
func NewLogger(lc fx.Lifecycle, env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stdout"}
	cfg.InitialFields = map[string]any{
		"service": env.serviceName(),
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = logger.Sync() // stdout sync errors are expected and harmless
			return nil
		},
	})

	return logger, nil
}
