package secret

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// refRegex matches ${type:name} patterns
	refRegex = regexp.MustCompile(`\$\{([^:}]+):([^}]+)\}`)
)

// ParseRef parses a single ${type:name} reference.
func ParseRef(input string) (*Ref, error) {
	matches := refRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return nil, fmt.Errorf("invalid secret reference format: %s", input)
	}

	return &Ref{
		Type:     strings.TrimSpace(matches[1]),
		Name:     strings.TrimSpace(matches[2]),
		Original: input,
	}, nil
}

// IsRef returns true if the string contains a secret reference.
func IsRef(input string) bool {
	return refRegex.MatchString(input)
}

// FindRefs finds all secret references in a string.
func FindRefs(input string) []*Ref {
	matches := refRegex.FindAllStringSubmatch(input, -1)
	refs := make([]*Ref, 0, len(matches))

	for _, match := range matches {
		if len(match) == 3 {
			refs = append(refs, &Ref{
				Type:     strings.TrimSpace(match[1]),
				Name:     strings.TrimSpace(match[2]),
				Original: match[0],
			})
		}
	}

	return refs
}

// Mask masks a secret value for safe display.
func Mask(value string) string {
	if len(value) <= 4 {
		return "****"
	}
	if len(value) <= 8 {
		return value[:2] + "****"
	}
	return value[:3] + "****" + value[len(value)-2:]
}
