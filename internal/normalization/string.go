package normalization

import (
	"strings"
)

// Lower trims and lower-cases free-form input such as emails or voice names.
func Lower(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// Topic trims a topic and collapses internal runs of whitespace to one space.
func Topic(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
