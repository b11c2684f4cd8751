//nolint:paralleltest // t.Setenv is incompatible with parallel tests
package webapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/tidewaterhq/twapp/backend/internal/webapi"
)

func setBaseEnv(t *testing.T, port string) {
	t.Helper()
	t.Setenv("AWS_LWA_PORT", port)
	t.Setenv("AWS_LWA_READINESS_CHECK_PATH", "/health")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("TW_SERVICE_NAME", "webapi-test")
	t.Setenv("TW_PRIMARY_REGION", "us-east-1")
	t.Setenv("TW_MAIN_TABLE_NAME", "items")
	t.Setenv("TW_MAIN_TABLE_HASH_KEY", "id")
	t.Setenv("TW_CACHE_ENDPOINT", "localhost:6379")
	t.Setenv("TW_CACHE_ENGINE", "redis")
	t.Setenv("TW_ALLOWED_ORIGINS", "https://app.example.com http://localhost:5173")
	t.Setenv("OTEL_SDK_DISABLED", "true")
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
}

func TestNew_ServesHealth(t *testing.T) {
	setBaseEnv(t, "18084")

	app := webapi.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = app.Start(ctx) }()
	time.Sleep(100 * time.Millisecond)

	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://localhost:18084/health", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Origin", "https://app.example.com")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode health body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf(`health status = %q, want "ok"`, body["status"])
	}

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q, want the allowed origin reflected", got)
	}

	cancel()
	time.Sleep(100 * time.Millisecond)
}

func TestNew_DisallowedOriginNotReflected(t *testing.T) {
	setBaseEnv(t, "18085")

	app := webapi.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = app.Start(ctx) }()
	time.Sleep(100 * time.Millisecond)

	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://localhost:18085/health", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Origin", "https://evil.example.com")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want empty for unknown origin", got)
	}

	cancel()
	time.Sleep(100 * time.Millisecond)
}

func TestNew_MissingTableEnvFailsStartup(t *testing.T) {
	setBaseEnv(t, "18086")
	// t.Setenv above registered the restore; drop the var for this test.
	os.Unsetenv("TW_MAIN_TABLE_NAME")

	app := webapi.New()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Start(ctx); err == nil {
		t.Fatal("expected startup to fail without TW_MAIN_TABLE_NAME")
	}
}
