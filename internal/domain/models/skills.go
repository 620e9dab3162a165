// internal/domain/models/skills.go
package models

// Skills is the catalog volunteers and events choose from.
var Skills = []string{
	"Food Preparation & Serving",
	"Cleaning & Sanitation",
	"First Aid & CPR",
	"Event Planning & Coordination",
	"Counseling & Emotional Support",
	"Child Care",
	"Administrative & Clerical Work",
	"Language Translation & Interpretation",
	"Transportation & Driving",
	"Handyman Skills (Basic Repairs & Maintenance)",
}

var skillSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Skills))
	for _, s := range Skills {
		m[s] = struct{}{}
	}
	return m
}()

// IsSkill reports whether s is in the catalog.
func IsSkill(s string) bool {
	_, ok := skillSet[s]
	return ok
}

// MatchSkills returns the entries of have that also appear in want,
// in the order they appear in have.
func MatchSkills(have, want []string) []string {
	w := make(map[string]struct{}, len(want))
	for _, s := range want {
		w[s] = struct{}{}
	}
	var out []string
	for _, s := range have {
		if _, ok := w[s]; ok {
			out = append(out, s)
			delete(w, s)
		}
	}
	return out
}
