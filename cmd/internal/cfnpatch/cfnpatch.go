// Package cfnpatch rewrites the CDK bootstrap template before it is
// deployed. Patching operates on the yaml.Node tree instead of decoded
// structs so CloudFormation short tags like !Sub survive untouched.
package cfnpatch

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ruleID names the lifecycle rule this package manages. Patching
// replaces an existing rule with this Id rather than appending a
// duplicate, so re-bootstrapping stays idempotent.
const ruleID = "ExpireDevSlotClaims"

// AddDevSlotLifecycle adds an expiration rule for dev-slot claim
// objects to the bootstrap staging bucket. The rule prefix must match
// the key prefix devslot writes claims under.
func AddDevSlotLifecycle(templateYAML []byte, expirationDays int) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(templateYAML, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing template YAML")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("invalid YAML document")
	}

	rules, err := lookupPath(doc.Content[0],
		"Resources", "StagingBucket", "Properties", "LifecycleConfiguration", "Rules")
	if err != nil {
		return nil, err
	}
	if rules.Kind != yaml.SequenceNode {
		return nil, errors.New("LifecycleConfiguration.Rules is not a sequence")
	}

	rule := claimExpirationRule(expirationDays)
	if idx := indexOfRule(rules, ruleID); idx >= 0 {
		rules.Content[idx] = rule
	} else {
		rules.Content = append(rules.Content, rule)
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling patched template")
	}
	return out, nil
}

func lookupPath(root *yaml.Node, path ...string) (*yaml.Node, error) {
	node := root
	for i, key := range path {
		next, err := mappingValue(node, key)
		if err != nil {
			if i == 0 {
				return nil, err
			}
			return nil, errors.Wrapf(err, "in %s", strings.Join(path[:i], "."))
		}
		node = next
	}
	return node, nil
}

func mappingValue(node *yaml.Node, key string) (*yaml.Node, error) {
	if node.Kind != yaml.MappingNode {
		return nil, errors.Newf("expected mapping node for key %q", key)
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1], nil
		}
	}
	return nil, errors.Newf("key %q not found", key)
}

func indexOfRule(rules *yaml.Node, id string) int {
	for i, rule := range rules.Content {
		if rule.Kind != yaml.MappingNode {
			continue
		}
		for j := 0; j < len(rule.Content)-1; j += 2 {
			if rule.Content[j].Value == "Id" && rule.Content[j+1].Value == id {
				return i
			}
		}
	}
	return -1
}

func claimExpirationRule(expirationDays int) *yaml.Node {
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "Id"},
			{Kind: yaml.ScalarNode, Value: ruleID},
			{Kind: yaml.ScalarNode, Value: "Status"},
			{Kind: yaml.ScalarNode, Value: "Enabled"},
			{Kind: yaml.ScalarNode, Value: "Prefix"},
			{Kind: yaml.ScalarNode, Value: "dev-slots/"},
			{Kind: yaml.ScalarNode, Value: "ExpirationInDays"},
			{Kind: yaml.ScalarNode, Value: strconv.Itoa(expirationDays), Tag: "!!int"},
		},
	}
}
