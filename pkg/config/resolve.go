package config

import (
	"os"
	"regexp"
	"strings"
)

// A value of the exact form ${NAME} is an indirection through the NAME
// environment variable.
var placeholderPattern = regexp.MustCompile(`^\$\{([A-Z0-9_]+)\}$`)

// EnvString returns the named environment variable with surrounding
// whitespace removed, or "" when it is unset or blank.
func EnvString(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

// ResolveString turns a raw config value into a usable string. Blank values
// resolve to "" (absent). Placeholder values are read from the environment
// instead, again yielding "" when the variable is unset or blank.
func ResolveString(value string) string {
	stripped := strings.TrimSpace(value)
	if stripped == "" {
		return ""
	}
	if m := placeholderPattern.FindStringSubmatch(stripped); m != nil {
		return EnvString(m[1])
	}
	return stripped
}

// FirstNonEmpty returns the first value that resolved to something, so
// fallback chains read in precedence order instead of nested ifs.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
