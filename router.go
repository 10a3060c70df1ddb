package csvsplit

import (
	"regexp"
)

// Sentinel labels.
const (
	NoMatchesOnRegex       = "NoMatchesOnRegex"
	MultipleMatchesOnRegex = "MultipleMatchesOnRegex"
)

// Route returns the labels a row whose group column holds value is written
// to, one entry per write. With rowPerOutputFile unset a value matching
// several times yields one label per match, duplicates included.
// re must have at least one capturing group.
func Route(re *regexp.Regexp, value string, rowPerOutputFile bool) []string {
	matches := re.FindAllStringSubmatch(value, -1)
	switch {
	case len(matches) == 0:
		return []string{NoMatchesOnRegex}
	case len(matches) > 1 && rowPerOutputFile:
		return []string{MultipleMatchesOnRegex}
	}

	labels := make([]string, 0, len(matches))
	for _, m := range matches {
		labels = append(labels, m[1])
	}
	return labels
}
