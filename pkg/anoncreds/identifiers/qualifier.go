// Package identifiers implements the Indy identifier grammar used by AnonCreds
// objects, and converts identifiers between their fully-qualified form
// (prefix:method:...) and the legacy unqualified form.
package identifiers

import (
	"fmt"
	"regexp"
	"strings"
)

const delimiter = ":"

var (
	prefixedRegex = regexp.MustCompile(`^(schema|creddef|revreg):([a-z0-9]+):(.+)$`)
	didRegex      = regexp.MustCompile(`^did:([a-z0-9]+):(.+)$`)
)

// qualify prepends prefix:method: to entity
func qualify(prefix, method, entity string) string {
	return fmt.Sprintf("%s%s%s%s%s", prefix, delimiter, method, delimiter, entity)
}

// splitQualified strips a prefix:method: qualifier. ok is false if entity is
// not qualified with the given prefix.
func splitQualified(prefix, entity string) (method, rest string, ok bool) {
	m := prefixedRegex.FindStringSubmatch(entity)
	if m == nil || m[1] != prefix {
		return "", entity, false
	}
	return m[2], m[3], true
}

// splitMarker cuts s around the first occurrence of :marker:
func splitMarker(s, marker string) (before, after string, ok bool) {
	sep := delimiter + marker + delimiter
	idx := strings.Index(s, sep)
	if idx <= 0 {
		return "", "", false
	}
	after = s[idx+len(sep):]
	if after == "" {
		return "", "", false
	}
	return s[:idx], after, true
}

func hasEmptySegment(s string) bool {
	for _, seg := range strings.Split(s, delimiter) {
		if strings.TrimSpace(seg) == "" {
			return true
		}
	}
	return false
}
