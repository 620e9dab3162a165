package reconcile

import "sort"

// Plan is the set of mutations needed to move one event from its current
// assignments to the selected ones.
type Plan struct {
	EventID    string
	ToAssign   []string
	ToUnassign []string
}

// Empty reports whether the plan requires no mutation at all.
func (p Plan) Empty() bool {
	return len(p.ToAssign) == 0 && len(p.ToUnassign) == 0
}

// Diff computes selected − current (to assign) and current − selected (to
// unassign). Neither input slice is modified. Empty ids are ignored and both
// output lists are deduplicated and sorted.
func Diff(eventID string, current, selected []string) Plan {
	cur := setOf(current)
	sel := setOf(selected)
	return Plan{
		EventID:    eventID,
		ToAssign:   minus(sel, cur),
		ToUnassign: minus(cur, sel),
	}
}

func setOf(ids []string) map[string]struct{} {
	s := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		s[id] = struct{}{}
	}
	return s
}

func minus(a, b map[string]struct{}) []string {
	out := make([]string, 0, len(a))
	for id := range a {
		if _, ok := b[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func normalizeIDs(ids []string) []string {
	s := setOf(ids)
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// intersect returns the ids of want that are present in have, in want's order.
func intersect(want []string, have map[string]struct{}) []string {
	var out []string
	for _, id := range want {
		if _, ok := have[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
