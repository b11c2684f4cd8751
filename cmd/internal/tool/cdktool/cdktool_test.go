package cdktool

import (
	"slices"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

func decodeConfig(t *testing.T, src string) (any, error) {
	t.Helper()

	var doc struct {
		CDK toml.Primitive `toml:"cdk"`
	}
	meta, err := toml.Decode(src, &doc)
	if err != nil {
		t.Fatalf("decoding toml: %v", err)
	}
	return New().DecodeConfig(meta, doc.CDK)
}

func TestDecodeConfig(t *testing.T) {
	t.Parallel()

	cfg, err := decodeConfig(t, `
[cdk]
profile = "tidewater-dev"
dev-strategy = "iam-username"
legacy-bootstrap = true

[cdk.pre-bootstrap]
template = "pre-bootstrap.yaml"

[cdk.pre-bootstrap.parameters]
Qualifier = "{{qualifier}}"
`)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}

	c, ok := cfg.(cdkConfig)
	if !ok {
		t.Fatalf("expected cdkConfig, got %T", cfg)
	}
	if c.Profile != "tidewater-dev" {
		t.Errorf("expected profile tidewater-dev, got %q", c.Profile)
	}
	if c.DevStrategy != "iam-username" {
		t.Errorf("expected dev-strategy iam-username, got %q", c.DevStrategy)
	}
	if !c.LegacyBootstrap {
		t.Error("expected legacy-bootstrap to be true")
	}
	if c.PreBootstrap == nil || c.PreBootstrap.Template != "pre-bootstrap.yaml" {
		t.Errorf("expected pre-bootstrap template, got %+v", c.PreBootstrap)
	}
	if got := c.PreBootstrap.Parameters["Qualifier"]; got != "{{qualifier}}" {
		t.Errorf("expected raw placeholder parameter, got %q", got)
	}
}

func TestDecodeConfigRejectsUnknownDevStrategy(t *testing.T) {
	t.Parallel()

	_, err := decodeConfig(t, `
[cdk]
dev-strategy = "round-robin"
`)
	if err == nil {
		t.Fatal("expected error for unknown dev-strategy")
	}
	if !strings.Contains(err.Error(), `dev-strategy must be "iam-username"`) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDecodeConfigRequiresPreBootstrapTemplate(t *testing.T) {
	t.Parallel()

	_, err := decodeConfig(t, `
[cdk.pre-bootstrap]
parameters = {}
`)
	if err == nil {
		t.Fatal("expected error for missing pre-bootstrap template")
	}
	if !strings.Contains(err.Error(), "pre-bootstrap.template is required") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDecodeConfigRejectsAbsoluteTemplatePath(t *testing.T) {
	t.Parallel()

	_, err := decodeConfig(t, `
[cdk.pre-bootstrap]
template = "/etc/pre-bootstrap.yaml"
`)
	if err == nil {
		t.Fatal("expected error for absolute template path")
	}
	if !strings.Contains(err.Error(), "must be relative") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCDKArgs(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		cfg  cdkConfig
		want []string
	}{
		{name: "empty", cfg: cdkConfig{}, want: nil},
		{
			name: "profile",
			cfg:  cdkConfig{Profile: "dev"},
			want: []string{"--profile", "dev"},
		},
		{
			name: "legacy bootstrap does not leak into regular commands",
			cfg:  cdkConfig{Profile: "dev", LegacyBootstrap: true},
			want: []string{"--profile", "dev"},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.cfg.cdkArgs(); !slices.Equal(got, tt.want) {
				t.Errorf("cdkArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBootstrapArgs(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		cfg  cdkConfig
		want []string
	}{
		{name: "modern bootstrap", cfg: cdkConfig{}, want: nil},
		{
			name: "legacy bootstrap",
			cfg:  cdkConfig{LegacyBootstrap: true},
			want: []string{"--qualifier", "twapp", "--toolkit-stack-name", "twappBootstrap"},
		},
		{
			name: "legacy bootstrap with profile",
			cfg:  cdkConfig{Profile: "dev", LegacyBootstrap: true},
			want: []string{"--qualifier", "twapp", "--toolkit-stack-name", "twappBootstrap", "--profile", "dev"},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.cfg.bootstrapArgs("twapp"); !slices.Equal(got, tt.want) {
				t.Errorf("bootstrapArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterProfileArgs(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "removes profile pair",
			in:   []string{"bootstrap", "--profile", "dev", "--template", "x.yaml"},
			want: []string{"bootstrap", "--template", "x.yaml"},
		},
		{
			name: "no profile",
			in:   []string{"bootstrap", "--template", "x.yaml"},
			want: []string{"bootstrap", "--template", "x.yaml"},
		},
		{
			name: "trailing profile flag without value",
			in:   []string{"bootstrap", "--profile"},
			want: []string{"bootstrap", "--profile"},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := filterProfileArgs(tt.in); !slices.Equal(got, tt.want) {
				t.Errorf("filterProfileArgs(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestProfileFromConfig(t *testing.T) {
	t.Parallel()

	if got := ProfileFromConfig(cdkConfig{Profile: "dev"}); got != "dev" {
		t.Errorf("expected dev, got %q", got)
	}
	if got := ProfileFromConfig(nil); got != "" {
		t.Errorf("expected empty profile for nil config, got %q", got)
	}
	if got := ProfileFromConfig("not a cdk config"); got != "" {
		t.Errorf("expected empty profile for foreign config, got %q", got)
	}
}

func TestInspectionNames(t *testing.T) {
	t.Parallel()

	var names []string
	for _, insp := range New().Inspections() {
		names = append(names, insp.Name)
	}
	if !slices.Equal(names, []string{"endpoints", "logs"}) {
		t.Errorf("unexpected inspection names: %v", names)
	}
}
