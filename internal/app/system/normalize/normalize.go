// Package normalize canonicalizes identity fields before they are stored or
// compared.
package normalize

import (
	"strings"

	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

// Email trims and lowercases.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims and collapses internal runs of whitespace.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Role lowercases; unknown roles become "".
func Role(s string) string {
	switch r := strings.ToLower(strings.TrimSpace(s)); r {
	case models.RoleAdmin, models.RoleVolunteer:
		return r
	default:
		return ""
	}
}

// Status lowercases; unknown statuses become "".
func Status(s string) string {
	switch st := strings.ToLower(strings.TrimSpace(s)); st {
	case models.StatusActive, models.StatusDisabled:
		return st
	default:
		return ""
	}
}

// State uppercases a two-letter state code.
func State(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Zip removes spaces and a single hyphen, so "77001-1234" becomes "770011234".
func Zip(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Replace(s, "-", "", 1)
	return strings.ReplaceAll(s, " ", "")
}

// Strings trims every entry, drops blanks and repeats, keeping first-seen order.
func Strings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
