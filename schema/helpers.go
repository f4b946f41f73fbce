package schema

import (
	"strings"
	"unicode"
)

// cleanParts trims non-alphanumeric punctuation from the ends of each name part
// and drops parts that end up empty.
func cleanParts(parts []string) []string {
	var cleaned []string
	for _, p := range parts {
		cp := strings.TrimFunc(p, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-' && r != '\'' && r != '.'
		})
		cp = strings.TrimSuffix(cp, ".")
		if cp != "" {
			cleaned = append(cleaned, cp)
		}
	}
	return cleaned
}

// AbbreviateName formats "Samuel Huang" to "Samuel H" for narrow table columns.
// Single-word names and bot accounts are returned unchanged.
func AbbreviateName(name string) string {
	trimmedName := strings.TrimSpace(name)
	if strings.HasSuffix(trimmedName, "[bot]") {
		return strings.Join(strings.Fields(trimmedName), " ")
	}

	trimmedName = strings.Trim(trimmedName, "()\"'`")
	cleaned := cleanParts(strings.Fields(trimmedName))

	switch {
	case len(cleaned) >= 2:
		last := []rune(cleaned[len(cleaned)-1])
		return cleaned[0] + " " + string(last[0])
	case len(cleaned) == 1:
		return cleaned[0]
	default:
		return trimmedName
	}
}

// NormalizeDisplayName lowercases a display name, trims it and collapses internal whitespace.
// The result is used as a fallback contributor identity.
func NormalizeDisplayName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// FormatContributors formats the top contributors as "Samuel H, Jane D".
func FormatContributors(names []string, limit int) string {
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	abbreviated := make([]string, 0, len(names))
	for _, n := range names {
		abbreviated = append(abbreviated, AbbreviateName(n))
	}
	return strings.Join(abbreviated, ", ")
}

// IsValidRepositoryID reports whether id has the owner/name shape.
func IsValidRepositoryID(id string) bool {
	owner, name, ok := strings.Cut(id, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return false
	}
	return !strings.ContainsFunc(id, unicode.IsSpace)
}
