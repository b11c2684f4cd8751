// Package webapi implements the HTTP service behind the web deployment's
// API gateway: a key-value item API over the deployment's DynamoDB table.
// It runs on Lambda behind the Lambda Web Adapter via the twlwa framework.
package webapi

import (
	"net/http"
	"slices"

	"github.com/advdv/bhttp"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/tidewaterhq/twapp/twlwa"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Env defines the environment variables for the webapi service. The
// TW_-prefixed values are injected by the web deployment's CDK stack.
type Env struct {
	twlwa.BaseEnvironment

	MainTableName    string   `env:"TW_MAIN_TABLE_NAME,required"`
	MainTableHashKey string   `env:"TW_MAIN_TABLE_HASH_KEY,required"`
	CacheEndpoint    string   `env:"TW_CACHE_ENDPOINT,required"`
	CacheEngine      string   `env:"TW_CACHE_ENGINE,required"`
	AllowedOrigins   []string `env:"TW_ALLOWED_ORIGINS" envSeparator:" "`
}

// New assembles the webapi application. Call Run on the result to serve.
func New() *twlwa.App[Env] {
	return twlwa.NewApp[Env](
		registerRoutes,
		twlwa.WithAWSClient(func(cfg aws.Config) *dynamodb.Client {
			return dynamodb.NewFromConfig(cfg)
		}),
		twlwa.WithFx(fx.Provide(NewItemHandlers)),
	)
}

func registerRoutes(m *twlwa.Mux, rt *twlwa.Runtime[Env], log *zap.Logger, h *ItemHandlers) {
	env := rt.Env()
	log.Info("webapi configured",
		zap.String("table", env.MainTableName),
		zap.String("cache_endpoint", env.CacheEndpoint),
		zap.String("cache_engine", env.CacheEngine))

	m.Use(allowOrigins(env.AllowedOrigins))

	m.HandleFunc("GET /api/items", h.ListItems)
	m.HandleFunc("POST /api/items", h.CreateItem)
	m.HandleFunc("GET /api/items/{id}", h.GetItem, "get-item")
	m.HandleFunc("PUT /api/items/{id}", h.PutItem)
	m.HandleFunc("DELETE /api/items/{id}", h.DeleteItem)
}

// allowOrigins reflects the request origin on responses when it is in
// the configured allow list. The deployed API gateway handles CORS
// preflight itself; this covers direct (gatewayless) local runs.
func allowOrigins(origins []string) bhttp.Middleware {
	return func(next bhttp.BareHandler) bhttp.BareHandler {
		return bhttp.BareHandlerFunc(func(w bhttp.ResponseWriter, r *http.Request) error {
			if origin := r.Header.Get("Origin"); origin != "" && slices.Contains(origins, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}
			return next.ServeBareBHTTP(w, r)
		})
	}
}
