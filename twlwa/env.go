package twlwa

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	port() int
	serviceName() string
	readinessCheckPath() string
	logLevel() zapcore.Level
	otelExporter() string
	primaryRegion() string
	localRegion() string
}

// BaseEnvironment contains the required LWA environment variables.
// Embed this in your custom environment struct.
type BaseEnvironment struct {
	Port               int           `env:"AWS_LWA_PORT,required"`
	ReadinessCheckPath string        `env:"AWS_LWA_READINESS_CHECK_PATH,required"`
	AWSRegion          string        `env:"AWS_REGION,required"`
	ServiceName        string        `env:"TW_SERVICE_NAME,required"`
	PrimaryRegion      string        `env:"TW_PRIMARY_REGION,required"`
	LogLevel           zapcore.Level `env:"TW_LOG_LEVEL" envDefault:"info"`
	OtelExporter       string        `env:"TW_OTEL_EXPORTER" envDefault:"stdout"`
}

func (e BaseEnvironment) port() int {
	return e.Port
}
func (e BaseEnvironment) serviceName() string {
	return e.ServiceName
}
func (e BaseEnvironment) readinessCheckPath() string {
	return e.ReadinessCheckPath
}
func (e BaseEnvironment) logLevel() zapcore.Level {
	return e.LogLevel
}
func (e BaseEnvironment) otelExporter() string {
	return e.OtelExporter
}
func (e BaseEnvironment) primaryRegion() string {
	return e.PrimaryRegion
}
func (e BaseEnvironment) localRegion() string {
	return e.AWSRegion
}

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, fmt.Errorf("failed to parse environment: %w", err)
		}
		return e, nil
	}
}
