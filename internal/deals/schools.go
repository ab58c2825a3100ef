package deals

import "strings"

// referenceSchools is the fixed list the student discount accepts. The
// committed value must be an exact member; the substring search only
// serves the selection UI.
var referenceSchools = []string{
	"Centennial College",
	"George Brown College",
	"Humber College",
	"OCAD University",
	"Seneca College",
	"Toronto Metropolitan University",
	"University of Toronto",
	"York University",
}

// Schools returns a copy of the reference list.
func Schools() []string {
	out := make([]string, len(referenceSchools))
	copy(out, referenceSchools)
	return out
}

// IsReferenceSchool reports whether value is an exact member of the
// reference list.
func IsReferenceSchool(value string) bool {
	for _, school := range referenceSchools {
		if school == value {
			return true
		}
	}
	return false
}

// SearchSchools returns reference entries containing the query,
// case-insensitively. An empty query matches nothing.
func SearchSchools(query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var matches []string
	for _, school := range referenceSchools {
		if strings.Contains(strings.ToLower(school), query) {
			matches = append(matches, school)
		}
	}
	return matches
}
