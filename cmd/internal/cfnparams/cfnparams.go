// Package cfnparams resolves CloudFormation parameter values before a
// stack deploy. Values may reference CDK context entries with
// {{key}} placeholders so templates never hard-code the qualifier or
// region.
package cfnparams

import (
	"regexp"

	"github.com/cockroachdb/errors"
)

var placeholderRe = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Resolve interpolates every parameter value against the context
// values. A placeholder naming an unset context key fails the whole
// resolution.
func Resolve(raw map[string]string, ctxValues map[string]string) (map[string]string, error) {
	resolved := make(map[string]string, len(raw))
	for name, value := range raw {
		interpolated, err := interpolate(value, ctxValues)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %q", name)
		}
		resolved[name] = interpolated
	}
	return resolved, nil
}

func interpolate(value string, ctxValues map[string]string) (string, error) {
	var resolveErr error
	result := placeholderRe.ReplaceAllStringFunc(value, func(match string) string {
		key := placeholderRe.FindStringSubmatch(match)[1]
		resolved, ok := ctxValues[key]
		if !ok {
			resolveErr = errors.Newf("unknown context key %q", key)
			return match
		}
		return resolved
	})
	if resolveErr != nil {
		return "", resolveErr
	}
	return result, nil
}
