// Package cfnvalidate sanity-checks CloudFormation templates before
// they are handed to the AWS CLI, so obvious authoring mistakes fail
// fast instead of after a slow deploy round-trip.
package cfnvalidate

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// PreBootstrapTemplate checks that the file parses as YAML and declares
// at least one resource. CloudFormation rejects templates without a
// Resources section.
func PreBootstrapTemplate(templatePath string) error {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return errors.Wrapf(err, "reading template %s", templatePath)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(err, "parsing template YAML")
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return errors.New("invalid YAML document")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return errors.New("template root is not a mapping")
	}

	resources := findMappingValue(root, "Resources")
	if resources == nil {
		return errors.New("template has no Resources section")
	}
	if resources.Kind != yaml.MappingNode || len(resources.Content) == 0 {
		return errors.New("Resources section is empty")
	}

	return nil
}

func findMappingValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
