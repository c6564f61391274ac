package domain

import (
	"fmt"
	"sort"
	"strings"
)

const (
	keyPairDelimiter      = "|"
	keyNamespaceDelimiter = ":"
)

// BuildKey produces a canonical cache key from a logical namespace and a
// parameter mapping. Parameters are sorted by name before concatenation, so
// two calls with the same parameters in different insertion order collide to
// the same key.
func BuildKey(namespace string, params map[string]string) (string, error) {
	if namespace == "" {
		return "", &ValidationError{Field: "namespace", Reason: "must not be empty"}
	}
	if strings.ContainsAny(namespace, keyPairDelimiter+keyNamespaceDelimiter) {
		return "", &ValidationError{Field: "namespace", Reason: "must not contain key delimiters"}
	}

	names := make([]string, 0, len(params))
	for name := range params {
		if name == "" {
			return "", &ValidationError{Field: "parameter name", Reason: "must not be empty"}
		}
		if strings.ContainsAny(name, keyPairDelimiter+"=") {
			return "", &ValidationError{
				Field:  "parameter name",
				Reason: fmt.Sprintf("%q contains a key delimiter", name),
			}
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(namespace)
	b.WriteString(keyNamespaceDelimiter)
	for i, name := range names {
		if i > 0 {
			b.WriteString(keyPairDelimiter)
		}
		b.WriteString(name)
		b.WriteString("=")
		b.WriteString(params[name])
	}

	return b.String(), nil
}
