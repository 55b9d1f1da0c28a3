package meta

import (
	"os"
	"regexp"
)

var envExpr = regexp.MustCompile(`\$\{env\.([A-Za-z0-9_]*)\}`)

// expandEnv replaces every ${env.KEY} with the value of KEY, empty when
// unset. Malformed expressions are kept literally.
func expandEnv(value string) string {
	if value == "" {
		return value
	}
	return envExpr.ReplaceAllStringFunc(value, func(match string) string {
		key := envExpr.FindStringSubmatch(match)[1]
		return os.Getenv(key)
	})
}
