package cdkctx_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/tidewaterhq/twapp/cmd/internal/cdkctx"
	"github.com/tidewaterhq/twapp/cmd/internal/testutil"
)

const testCdkJSON = `{
  "app": "go run ./cdk",
  "context": {
    "@aws-cdk/core:bootstrapQualifier": "twapp"
  }
}`

const testContextJSON = `{
  "twapp-primary-region": "us-east-1",
  "twapp-deployments": ["Dev1", "Dev2", "Stag", "Prod"],
  "twapp-region-ident-ap-southeast-2": "Apse2",
  "twapp-site-bucket-name": "site",
  "twapp-log-retention-days": 30
}`

func TestLoadReadsContext(t *testing.T) {
	t.Parallel()

	dir := testutil.Setup(t, map[string]string{
		"cdk.json":         testCdkJSON,
		"cdk.context.json": testContextJSON,
	})

	cctx, err := cdkctx.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cctx.Qualifier != "twapp" || cctx.Prefix != "twapp-" {
		t.Errorf("qualifier/prefix: got %q/%q", cctx.Qualifier, cctx.Prefix)
	}
	if cctx.PrimaryRegion != "us-east-1" {
		t.Errorf("primary region: got %q", cctx.PrimaryRegion)
	}
	if want := []string{"Dev1", "Dev2", "Stag", "Prod"}; !slices.Equal(cctx.Deployments, want) {
		t.Errorf("deployments: got %v, want %v", cctx.Deployments, want)
	}

	if got := cctx.RegionIdents["Use1"]; got != "us-east-1" {
		t.Errorf("default region ident Use1: got %q", got)
	}
	if got := cctx.RegionIdents["Apse2"]; got != "ap-southeast-2" {
		t.Errorf("overridden region ident Apse2: got %q", got)
	}

	for key, want := range map[string]string{
		"qualifier":          "twapp",
		"site-bucket-name":   "site",
		"log-retention-days": "30",
	} {
		if got := cctx.ContextValues[key]; got != want {
			t.Errorf("context value %q: got %q, want %q", key, got, want)
		}
	}
	if _, ok := cctx.ContextValues["deployments"]; ok {
		t.Error("array context entries must not appear in ContextValues")
	}
}

func TestLoadMissingQualifier(t *testing.T) {
	t.Parallel()

	dir := testutil.Setup(t, map[string]string{
		"cdk.json":         `{"app": "go run ./cdk", "context": {}}`,
		"cdk.context.json": testContextJSON,
	})

	_, err := cdkctx.Load(dir)
	if err == nil || !strings.Contains(err.Error(), "missing @aws-cdk/core:bootstrapQualifier") {
		t.Fatalf("expected missing qualifier error, got: %v", err)
	}
}

func TestLoadMissingPrimaryRegion(t *testing.T) {
	t.Parallel()

	dir := testutil.Setup(t, map[string]string{
		"cdk.json":         testCdkJSON,
		"cdk.context.json": `{"twapp-deployments": ["Dev1"]}`,
	})

	_, err := cdkctx.Load(dir)
	if err == nil || !strings.Contains(err.Error(), `context key "twapp-primary-region" is not set`) {
		t.Fatalf("expected missing primary region error, got: %v", err)
	}
}

func TestDevSlots(t *testing.T) {
	t.Parallel()

	cctx := &cdkctx.CDKContext{Deployments: []string{"Dev1", "Dev2", "Stag", "Prod"}}
	if got, want := cctx.DevSlots(), []string{"Dev1", "Dev2"}; !slices.Equal(got, want) {
		t.Fatalf("dev slots: got %v, want %v", got, want)
	}
}

func TestBootstrapBucket(t *testing.T) {
	t.Parallel()

	cctx := &cdkctx.CDKContext{Qualifier: "twapp", PrimaryRegion: "us-east-1"}
	if got, want := cctx.BootstrapBucket("123456789012"), "cdk-twapp-assets-123456789012-us-east-1"; got != want {
		t.Fatalf("bootstrap bucket: got %q, want %q", got, want)
	}
}

func TestResolveStackRegion(t *testing.T) {
	t.Parallel()

	cctx := &cdkctx.CDKContext{
		Qualifier: "twapp",
		RegionIdents: map[string]string{
			"Use1": "us-east-1",
			"Euw1": "eu-west-1",
		},
	}

	for _, tt := range []struct {
		stack  string
		region string
		ok     bool
	}{
		{"twappUse1SiteDev1", "us-east-1", true},
		{"twappEuw1SiteDev1", "eu-west-1", true},
		{"twappShared", "", false},
		{"otherUse1SiteDev1", "", false},
	} {
		region, ok := cctx.ResolveStackRegion(tt.stack)
		if region != tt.region || ok != tt.ok {
			t.Errorf("ResolveStackRegion(%q) = %q, %v; want %q, %v",
				tt.stack, region, ok, tt.region, tt.ok)
		}
	}
}

func TestIsValidDeployment(t *testing.T) {
	t.Parallel()

	cctx := &cdkctx.CDKContext{Deployments: []string{"Dev1", "Prod"}}
	if !cctx.IsValidDeployment("Dev1") || cctx.IsValidDeployment("Dev9") {
		t.Fatal("deployment validity mismatch")
	}
}
