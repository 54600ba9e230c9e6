// Package scoring decides whether a free-text model answer matches a
// ground-truth container name.
package scoring

import (
	"regexp"
	"strings"
)

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var negation = regexp.MustCompile(`\b(not|never|no)\b`)

// absenceTruths are answers describing an empty place. They are matched by
// substring and never rejected for negation.
var absenceTruths = map[string]bool{"no one": true, "empty": true}

func normalize(s string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(s)), asciiPunctuation)
}

// Equivalent reports whether answer names truth. Answers containing a
// negation are rejected, so "not in the box" never matches "box".
func Equivalent(answer, truth string) bool {
	a := normalize(answer)
	if a == "" {
		return false
	}
	t := normalize(truth)
	if t == "" {
		return false
	}
	if absenceTruths[t] {
		return strings.Contains(a, t)
	}
	if negation.MatchString(a) {
		return false
	}
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(t) + `\b`).MatchString(a)
}
