// internal/app/system/normalize/normalize.go
package normalize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict strips all HTML from user-supplied free text.
var strict = bluemonday.StrictPolicy()

// Email lower-cases and trims an email address. Emails are the identity key
// for users and the partition key for sheets, so every boundary runs input
// through this before touching a store.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims and strips markup from a display name or title.
func Name(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// Tags lower-cases, trims, and sanitizes tag values, dropping entries that
// end up empty. A nil or all-empty input yields nil, so a form that posts a
// single empty tag field stores no tags at all.
func Tags(in []string) []string {
	var out []string
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(strict.Sanitize(t)))
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Strings trims and sanitizes a list of free-text values (composers,
// instruments), dropping entries that end up empty. Case is preserved.
func Strings(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(strict.Sanitize(s))
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
