// Package reconcile turns a desired volunteer selection for one event into
// the assign/unassign batches needed to reach it.
//
// The package never talks to storage or the network directly. Everything
// that reads or mutates assignments goes through a Directory, which the
// server implements over Mongo (store/queries/directory) and the CLI
// implements over the REST API (apiclient).
//
// Identities are opaque strings here; callers own the conversion to and
// from their storage identifiers.
package reconcile

import "context"

// UnknownVolunteer is the display name used when a volunteer id cannot be
// resolved against the candidate list.
const UnknownVolunteer = "Unknown volunteer"

// Volunteer is a candidate volunteer as seen by the reconciler.
type Volunteer struct {
	ID       string
	Name     string // username
	FullName string
	Skills   []string
}

// DisplayName returns the username, falling back to the full name and then
// to UnknownVolunteer.
func (v Volunteer) DisplayName() string {
	switch {
	case v.Name != "":
		return v.Name
	case v.FullName != "":
		return v.FullName
	default:
		return UnknownVolunteer
	}
}

// Event is the minimal event view the reconciler needs.
type Event struct {
	ID   string
	Name string
}

// Assignment links one volunteer to one event.
type Assignment struct {
	EventID     string
	VolunteerID string
}

// Directory is the set of collaborator operations the reconciler depends on.
// Implementations decide the transport; the reconciler only looks at the
// returned data and whether each call failed.
//
// BatchAssign and BatchUnassign must be idempotent: re-sending an assign for
// an existing pair must not create a second row, and unassigning an absent
// pair is not an error.
type Directory interface {
	ListEvents(ctx context.Context) ([]Event, error)
	ListCandidateVolunteers(ctx context.Context, eventID string) ([]Volunteer, error)
	ListAssignments(ctx context.Context, eventID string) ([]Assignment, error)
	BatchAssign(ctx context.Context, eventID string, volunteerIDs []string) error
	BatchUnassign(ctx context.Context, eventID string, volunteerIDs []string) error
}

// ChangeReporter is implemented by Directories that can tell which ids a
// batch actually changed: newly assigned for Assign, previously assigned
// for Unassign. The Reconciler prefers it over BatchAssign/BatchUnassign
// when available.
type ChangeReporter interface {
	Assign(ctx context.Context, eventID string, volunteerIDs []string) ([]string, error)
	Unassign(ctx context.Context, eventID string, volunteerIDs []string) ([]string, error)
}

// CurrentFor filters a full assignment list down to the volunteer ids
// assigned to eventID. Rows with a missing event or volunteer reference are
// skipped. The result is deduplicated and sorted.
func CurrentFor(eventID string, all []Assignment) []string {
	ids := make([]string, 0, len(all))
	for _, a := range all {
		if a.EventID == "" || a.VolunteerID == "" || a.EventID != eventID {
			continue
		}
		ids = append(ids, a.VolunteerID)
	}
	return normalizeIDs(ids)
}

// ResolveNames maps volunteer ids to display names using candidates.
// Ids that are not in the list render as UnknownVolunteer.
func ResolveNames(ids []string, candidates []Volunteer) []string {
	byID := make(map[string]Volunteer, len(candidates))
	for _, c := range candidates {
		if c.ID != "" {
			byID[c.ID] = c
		}
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		v, ok := byID[id]
		if !ok {
			names = append(names, UnknownVolunteer)
			continue
		}
		names = append(names, v.DisplayName())
	}
	return names
}
