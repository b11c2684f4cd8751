// Package cdkctx reads the CDK app's context files. The CLI shares the
// qualifier, regions, and deployment list with the CDK app itself, so
// both sides read the same cdk.json and cdk.context.json rather than
// duplicating the values in twapp.toml.
package cdkctx

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tidewaterhq/twapp/twcdk/twcdkutil"
)

type CDKContext struct {
	Qualifier     string
	Prefix        string
	PrimaryRegion string
	Deployments   []string

	// RegionIdents maps the stack-name region identifier to the region,
	// for example Use1 to us-east-1.
	RegionIdents map[string]string

	// ContextValues holds every scalar context entry with the qualifier
	// prefix stripped, plus "qualifier" itself. Pre-bootstrap templates
	// interpolate these.
	ContextValues map[string]string
}

func Load(cdkDir string) (*CDKContext, error) {
	qualifier, err := readQualifier(cdkDir)
	if err != nil {
		return nil, err
	}

	prefix := qualifier + "-"

	ctxFile := filepath.Join(cdkDir, "cdk.context.json")
	ctxData, err := os.ReadFile(ctxFile)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", ctxFile)
	}

	var ctxMap map[string]json.RawMessage
	if err := json.Unmarshal(ctxData, &ctxMap); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", ctxFile)
	}

	primaryRegion, err := contextValue[string](ctxMap, prefix+"primary-region", "a string")
	if err != nil {
		return nil, errors.Wrapf(err, "in %s", ctxFile)
	}

	deployments, err := contextValue[[]string](ctxMap, prefix+"deployments", "an array of strings")
	if err != nil {
		return nil, errors.Wrapf(err, "in %s", ctxFile)
	}

	regionIdents := make(map[string]string)
	regionIdentPrefix := prefix + "region-ident-"
	for key := range ctxMap {
		if !strings.HasPrefix(key, regionIdentPrefix) {
			continue
		}
		region := strings.TrimPrefix(key, regionIdentPrefix)
		ident, err := contextValue[string](ctxMap, key, "a string")
		if err != nil {
			return nil, errors.Wrapf(err, "in %s", ctxFile)
		}
		regionIdents[ident] = region
	}
	for region, ident := range twcdkutil.RegionIdents {
		if _, ok := regionIdents[ident]; !ok {
			regionIdents[ident] = region
		}
	}

	return &CDKContext{
		Qualifier:     qualifier,
		Prefix:        prefix,
		PrimaryRegion: primaryRegion,
		Deployments:   deployments,
		RegionIdents:  regionIdents,
		ContextValues: scalarValues(ctxMap, prefix, qualifier),
	}, nil
}

// DevSlots returns the deployments that act as claimable developer
// slots.
func (c *CDKContext) DevSlots() []string {
	var slots []string
	for _, d := range c.Deployments {
		if strings.HasPrefix(d, "Dev") {
			slots = append(slots, d)
		}
	}
	return slots
}

// BootstrapBucket is the CDK staging bucket name the bootstrap stack
// creates for this qualifier in the primary region.
func (c *CDKContext) BootstrapBucket(accountID string) string {
	return "cdk-" + c.Qualifier + "-assets-" + accountID + "-" + c.PrimaryRegion
}

func (c *CDKContext) IsValidDeployment(name string) bool {
	return slices.Contains(c.Deployments, name)
}

// ResolveStackRegion maps a stack name like twappUse1SiteDev1 to its
// region via the region identifier that follows the qualifier. Longer
// identifiers match first so Usw2 is never shadowed by a shorter one.
func (c *CDKContext) ResolveStackRegion(stackName string) (string, bool) {
	rest := strings.TrimPrefix(stackName, c.Qualifier)
	if rest == stackName {
		return "", false
	}

	idents := make([]string, 0, len(c.RegionIdents))
	for ident := range c.RegionIdents {
		idents = append(idents, ident)
	}
	slices.SortFunc(idents, func(a, b string) int { return len(b) - len(a) })

	for _, ident := range idents {
		if strings.HasPrefix(rest, ident) {
			return c.RegionIdents[ident], true
		}
	}
	return "", false
}

func readQualifier(cdkDir string) (string, error) {
	cdkJSON := filepath.Join(cdkDir, "cdk.json")
	data, err := os.ReadFile(cdkJSON)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", cdkJSON)
	}

	var cfg struct {
		Context map[string]json.RawMessage `json:"context"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return "", errors.Wrapf(err, "parsing %s", cdkJSON)
	}

	raw, ok := cfg.Context["@aws-cdk/core:bootstrapQualifier"]
	if !ok {
		return "", errors.Newf("missing @aws-cdk/core:bootstrapQualifier in %s", cdkJSON)
	}

	var qualifier string
	if err := json.Unmarshal(raw, &qualifier); err != nil {
		return "", errors.Newf("@aws-cdk/core:bootstrapQualifier must be a string in %s", cdkJSON)
	}
	return qualifier, nil
}

func contextValue[T any](m map[string]json.RawMessage, key, want string) (T, error) {
	var v T
	raw, ok := m[key]
	if !ok {
		return v, errors.Newf("context key %q is not set", key)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, errors.Newf("context key %q must be %s", key, want)
	}
	return v, nil
}

// scalarValues keeps strings as decoded and numbers and booleans as
// their JSON text. Arrays and objects are left out.
func scalarValues(m map[string]json.RawMessage, prefix, qualifier string) map[string]string {
	values := map[string]string{"qualifier": qualifier}
	for key, raw := range m {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		name := strings.TrimPrefix(key, prefix)

		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			values[name] = s
			continue
		}
		trimmed := strings.TrimSpace(string(raw))
		if len(trimmed) > 0 && trimmed[0] != '[' && trimmed[0] != '{' {
			values[name] = trimmed
		}
	}
	return values
}
