package reconcile

import (
	"context"
	"sync"
)

// fakeDirectory is an in-memory Directory. Any XxxFunc that is set overrides
// the default behavior for that call. Every call is counted.
type fakeDirectory struct {
	mu sync.Mutex

	events      []Event
	candidates  map[string][]Volunteer
	assignments []Assignment

	ListAssignmentsFunc func(ctx context.Context, eventID string) ([]Assignment, error)
	BatchAssignFunc     func(ctx context.Context, eventID string, ids []string) error
	BatchUnassignFunc   func(ctx context.Context, eventID string, ids []string) error

	calls map[string]int
	sent  map[string][][]string
}

func newFakeDirectory(assignments ...Assignment) *fakeDirectory {
	return &fakeDirectory{
		candidates:  map[string][]Volunteer{},
		assignments: assignments,
		calls:       map[string]int{},
		sent:        map[string][][]string{},
	}
}

func (f *fakeDirectory) count(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeDirectory) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeDirectory) ListEvents(ctx context.Context) ([]Event, error) {
	f.count("ListEvents")
	return f.events, nil
}

func (f *fakeDirectory) ListCandidateVolunteers(ctx context.Context, eventID string) ([]Volunteer, error) {
	f.count("ListCandidateVolunteers")
	return f.candidates[eventID], nil
}

func (f *fakeDirectory) ListAssignments(ctx context.Context, eventID string) ([]Assignment, error) {
	f.count("ListAssignments")
	if f.ListAssignmentsFunc != nil {
		return f.ListAssignmentsFunc(ctx, eventID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Assignment
	for _, a := range f.assignments {
		if a.EventID == eventID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeDirectory) BatchAssign(ctx context.Context, eventID string, ids []string) error {
	f.count("BatchAssign")
	f.mu.Lock()
	f.sent["assign"] = append(f.sent["assign"], ids)
	f.mu.Unlock()
	if f.BatchAssignFunc != nil {
		return f.BatchAssignFunc(ctx, eventID, ids)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		f.assignments = append(f.assignments, Assignment{EventID: eventID, VolunteerID: id})
	}
	return nil
}

func (f *fakeDirectory) BatchUnassign(ctx context.Context, eventID string, ids []string) error {
	f.count("BatchUnassign")
	f.mu.Lock()
	f.sent["unassign"] = append(f.sent["unassign"], ids)
	f.mu.Unlock()
	if f.BatchUnassignFunc != nil {
		return f.BatchUnassignFunc(ctx, eventID, ids)
	}
	drop := setOf(ids)
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.assignments[:0]
	for _, a := range f.assignments {
		if _, ok := drop[a.VolunteerID]; ok && a.EventID == eventID {
			continue
		}
		kept = append(kept, a)
	}
	f.assignments = kept
	return nil
}

// reportingDirectory is a fakeDirectory that also reports which ids each
// batch changed.
type reportingDirectory struct {
	*fakeDirectory
}

func (d reportingDirectory) Assign(ctx context.Context, eventID string, ids []string) ([]string, error) {
	have := d.assigned(eventID)
	if err := d.BatchAssign(ctx, eventID, ids); err != nil {
		return nil, err
	}
	var changed []string
	for _, id := range ids {
		if _, ok := have[id]; !ok {
			changed = append(changed, id)
		}
	}
	return changed, nil
}

func (d reportingDirectory) Unassign(ctx context.Context, eventID string, ids []string) ([]string, error) {
	have := d.assigned(eventID)
	if err := d.BatchUnassign(ctx, eventID, ids); err != nil {
		return nil, err
	}
	var changed []string
	for _, id := range ids {
		if _, ok := have[id]; ok {
			changed = append(changed, id)
		}
	}
	return changed, nil
}

func (d reportingDirectory) assigned(eventID string) map[string]struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := map[string]struct{}{}
	for _, a := range d.assignments {
		if a.EventID == eventID {
			out[a.VolunteerID] = struct{}{}
		}
	}
	return out
}
