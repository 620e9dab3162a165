package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
	batches  map[string]int
}

func (o *recordingObserver) ReconcileFinished(outcome string, _ time.Duration) {
	o.mu.Lock()
	o.outcomes = append(o.outcomes, outcome)
	o.mu.Unlock()
}

func (o *recordingObserver) BatchApplied(action string, size int, err error) {
	o.mu.Lock()
	if o.batches == nil {
		o.batches = map[string]int{}
	}
	if err == nil {
		o.batches[action] += size
	}
	o.mu.Unlock()
}

func TestReconcile_MissingTarget(t *testing.T) {
	dir := newFakeDirectory()
	r := New(dir, zap.NewNop())

	res, err := r.Reconcile(context.Background(), Request{
		EventID:  "  ",
		Selected: []string{"A"},
	})
	if !IsKind(err, MissingTarget) {
		t.Fatalf("expected MissingTarget, got %v", err)
	}
	if res.State != StateAborted {
		t.Errorf("State: got %q, want %q", res.State, StateAborted)
	}
	if n := dir.totalCalls(); n != 0 {
		t.Errorf("expected no directory calls, got %d", n)
	}
}

func TestReconcile_EmptySetsIsTrivialSuccess(t *testing.T) {
	dir := newFakeDirectory()
	r := New(dir, nil)

	res, err := r.Reconcile(context.Background(), Request{EventID: "ev1"})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if res.State != StateUnchanged {
		t.Errorf("State: got %q, want %q", res.State, StateUnchanged)
	}
	if n := dir.totalCalls(); n != 0 {
		t.Errorf("expected no directory calls, got %d", n)
	}
}

func TestReconcile_CommitsSwap(t *testing.T) {
	dir := newFakeDirectory(
		Assignment{EventID: "ev1", VolunteerID: "A"},
		Assignment{EventID: "ev1", VolunteerID: "B"},
	)
	obs := &recordingObserver{}
	r := New(dir, zap.NewNop(), WithObserver(obs))

	res, err := r.Reconcile(context.Background(), Request{
		EventID:  "ev1",
		Current:  []string{"A", "B"},
		Selected: []string{"B", "C"},
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if res.State != StateCommitted {
		t.Errorf("State: got %q, want %q", res.State, StateCommitted)
	}
	if res.RunID == "" {
		t.Error("expected a run id")
	}
	if diff := cmp.Diff([][]string{{"C"}}, dir.sent["assign"]); diff != "" {
		t.Errorf("assign batches (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"A"}}, dir.sent["unassign"]); diff != "" {
		t.Errorf("unassign batches (-want +got):\n%s", diff)
	}

	stored, _ := dir.ListAssignments(context.Background(), "ev1")
	if diff := cmp.Diff([]string{"B", "C"}, CurrentFor("ev1", stored)); diff != "" {
		t.Errorf("stored assignments (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{string(StateCommitted)}, obs.outcomes); diff != "" {
		t.Errorf("observer outcomes (-want +got):\n%s", diff)
	}
	if obs.batches[ActionAssign] != 1 || obs.batches[ActionUnassign] != 1 {
		t.Errorf("observer batches: got %v", obs.batches)
	}
	// Without a ChangeReporter every sent id counts as changed.
	if diff := cmp.Diff([]string{"C"}, res.Assign.Changed); diff != "" {
		t.Errorf("assign changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A"}, res.Unassign.Changed); diff != "" {
		t.Errorf("unassign changed (-want +got):\n%s", diff)
	}
}

// A stale Current can name volunteers that are no longer assigned; only the
// ones actually removed are reported as changed.
func TestReconcile_ChangeReporterNarrowsChanged(t *testing.T) {
	fake := newFakeDirectory(Assignment{EventID: "ev1", VolunteerID: "A"})
	r := New(reportingDirectory{fake}, zap.NewNop())

	res, err := r.Reconcile(context.Background(), Request{
		EventID:  "ev1",
		Current:  []string{"A", "Z"},
		Selected: []string{"B"},
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "Z"}, res.Unassign.IDs); diff != "" {
		t.Errorf("unassign sent (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A"}, res.Unassign.Changed); diff != "" {
		t.Errorf("unassign changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"B"}, res.Assign.Changed); diff != "" {
		t.Errorf("assign changed (-want +got):\n%s", diff)
	}
	if fake.calls["BatchAssign"] != 1 || fake.calls["BatchUnassign"] != 1 {
		t.Errorf("expected one call per batch, got %v", fake.calls)
	}
}

func TestReconcile_IdempotentAfterCommit(t *testing.T) {
	dir := newFakeDirectory(Assignment{EventID: "ev1", VolunteerID: "A"})
	r := New(dir, zap.NewNop())
	ctx := context.Background()

	selected := []string{"A", "B"}
	if _, err := r.Reconcile(ctx, Request{EventID: "ev1", Current: []string{"A"}, Selected: selected}); err != nil {
		t.Fatalf("first Reconcile failed: %v", err)
	}

	// The caller refreshes current from the store before running again.
	stored, _ := dir.ListAssignments(ctx, "ev1")
	current := CurrentFor("ev1", stored)
	before := dir.totalCalls()

	res, err := r.Reconcile(ctx, Request{EventID: "ev1", Current: current, Selected: selected})
	if err != nil {
		t.Fatalf("second Reconcile failed: %v", err)
	}
	if !res.Plan.Empty() {
		t.Errorf("expected empty plan, got %+v", res.Plan)
	}
	if res.State != StateUnchanged {
		t.Errorf("State: got %q, want %q", res.State, StateUnchanged)
	}
	if after := dir.totalCalls(); after != before {
		t.Errorf("expected no directory calls on second run, got %d", after-before)
	}
}

func TestReconcile_DuplicateConflictAgainstStore(t *testing.T) {
	// The caller captured current = {A}; since then someone else assigned C.
	dir := newFakeDirectory(
		Assignment{EventID: "ev1", VolunteerID: "A"},
		Assignment{EventID: "ev1", VolunteerID: "C"},
	)
	r := New(dir, zap.NewNop())

	res, err := r.Reconcile(context.Background(), Request{
		EventID:  "ev1",
		Current:  []string{"A"},
		Selected: []string{"C", "D"},
		Candidates: []Volunteer{
			{ID: "C", Name: "carol"},
			{ID: "D", Name: "dave"},
		},
	})

	var re *Error
	if !errors.As(err, &re) || re.Kind != DuplicateConflict {
		t.Fatalf("expected DuplicateConflict, got %v", err)
	}
	if diff := cmp.Diff([]string{"carol"}, re.Names); diff != "" {
		t.Errorf("Names (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"C"}, res.Duplicates); diff != "" {
		t.Errorf("Duplicates (-want +got):\n%s", diff)
	}
	if res.State != StateAborted {
		t.Errorf("State: got %q, want %q", res.State, StateAborted)
	}
	if dir.calls["BatchAssign"] != 0 || dir.calls["BatchUnassign"] != 0 {
		t.Errorf("expected no batch calls, got assign=%d unassign=%d",
			dir.calls["BatchAssign"], dir.calls["BatchUnassign"])
	}
}

func TestReconcile_DuplicateWithUnknownName(t *testing.T) {
	dir := newFakeDirectory(Assignment{EventID: "ev1", VolunteerID: "X"})
	r := New(dir, zap.NewNop())

	_, err := r.Reconcile(context.Background(), Request{
		EventID:  "ev1",
		Selected: []string{"X"},
	})
	var re *Error
	if !errors.As(err, &re) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if diff := cmp.Diff([]string{UnknownVolunteer}, re.Names); diff != "" {
		t.Errorf("Names (-want +got):\n%s", diff)
	}
}

func TestReconcile_PartialFailureOnUnassign(t *testing.T) {
	dir := newFakeDirectory(
		Assignment{EventID: "ev1", VolunteerID: "A"},
		Assignment{EventID: "ev1", VolunteerID: "B"},
	)
	boom := errors.New("backend unavailable")
	dir.BatchUnassignFunc = func(ctx context.Context, eventID string, ids []string) error {
		return boom
	}
	r := New(dir, zap.NewNop())

	res, err := r.Reconcile(context.Background(), Request{
		EventID:  "ev1",
		Current:  []string{"A", "B"},
		Selected: []string{"B", "C"},
	})
	if !IsKind(err, PartialFailure) {
		t.Fatalf("expected PartialFailure, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected error to wrap the unassign failure, got %v", err)
	}
	if res.State != StatePartial {
		t.Errorf("State: got %q, want %q", res.State, StatePartial)
	}
	if !res.Assign.Succeeded() {
		t.Error("expected assign batch to have succeeded")
	}
	if res.Unassign.Succeeded() || !res.Unassign.Attempted {
		t.Errorf("expected unassign batch to be attempted and failed, got %+v", res.Unassign)
	}
	if res.Unassign.Changed != nil {
		t.Errorf("a failed batch reports no changes, got %v", res.Unassign.Changed)
	}
	if diff := cmp.Diff([]string{"C"}, res.Assign.Changed); diff != "" {
		t.Errorf("assign changed (-want +got):\n%s", diff)
	}
}

func TestReconcile_PartialFailureOnAssign(t *testing.T) {
	dir := newFakeDirectory(Assignment{EventID: "ev1", VolunteerID: "A"})
	dir.BatchAssignFunc = func(ctx context.Context, eventID string, ids []string) error {
		return errors.New("write conflict")
	}
	r := New(dir, zap.NewNop())

	res, err := r.Reconcile(context.Background(), Request{
		EventID:  "ev1",
		Current:  []string{"A"},
		Selected: []string{"C"},
	})
	if !IsKind(err, PartialFailure) {
		t.Fatalf("expected PartialFailure, got %v", err)
	}
	if !res.Unassign.Succeeded() {
		t.Error("expected unassign batch to have been sent despite the assign failure")
	}
}

func TestReconcile_CommitFailure(t *testing.T) {
	tests := []struct {
		name     string
		current  []string
		selected []string
		failA    bool
		failU    bool
	}{
		{name: "only assign attempted", selected: []string{"C"}, failA: true},
		{name: "only unassign attempted", current: []string{"A"}, failU: true},
		{name: "both failed", current: []string{"A"}, selected: []string{"C"}, failA: true, failU: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seed []Assignment
			for _, id := range tt.current {
				seed = append(seed, Assignment{EventID: "ev1", VolunteerID: id})
			}
			dir := newFakeDirectory(seed...)
			if tt.failA {
				dir.BatchAssignFunc = func(context.Context, string, []string) error { return errors.New("assign down") }
			}
			if tt.failU {
				dir.BatchUnassignFunc = func(context.Context, string, []string) error { return errors.New("unassign down") }
			}
			r := New(dir, zap.NewNop())

			res, err := r.Reconcile(context.Background(), Request{
				EventID:  "ev1",
				Current:  tt.current,
				Selected: tt.selected,
			})
			if !IsKind(err, CommitFailure) {
				t.Fatalf("expected CommitFailure, got %v", err)
			}
			if res.State != StateFailed {
				t.Errorf("State: got %q, want %q", res.State, StateFailed)
			}
		})
	}
}

func TestReconcile_FetchFailureBeforeCommit(t *testing.T) {
	dir := newFakeDirectory()
	dir.ListAssignmentsFunc = func(ctx context.Context, eventID string) ([]Assignment, error) {
		return nil, errors.New("timeout")
	}
	r := New(dir, zap.NewNop())

	_, err := r.Reconcile(context.Background(), Request{EventID: "ev1", Selected: []string{"A"}})
	if !IsKind(err, FetchFailure) {
		t.Fatalf("expected FetchFailure, got %v", err)
	}
	if dir.calls["BatchAssign"] != 0 {
		t.Error("expected no assign batch after fetch failure")
	}
}

func TestReconcile_UnassignOnlySkipsStoreRead(t *testing.T) {
	dir := newFakeDirectory(Assignment{EventID: "ev1", VolunteerID: "A"})
	r := New(dir, zap.NewNop())

	res, err := r.Reconcile(context.Background(), Request{EventID: "ev1", Current: []string{"A"}})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if res.Assign.Attempted {
		t.Error("empty assign batch must not be sent")
	}
	if dir.calls["ListAssignments"] != 0 {
		t.Errorf("expected no assignment re-read, got %d", dir.calls["ListAssignments"])
	}
	if dir.calls["BatchUnassign"] != 1 {
		t.Errorf("expected one unassign batch, got %d", dir.calls["BatchUnassign"])
	}
}

func TestReconcile_InFlightGuard(t *testing.T) {
	dir := newFakeDirectory()
	entered := make(chan struct{})
	releaseAssign := make(chan struct{})
	dir.BatchAssignFunc = func(ctx context.Context, eventID string, ids []string) error {
		close(entered)
		<-releaseAssign
		return nil
	}
	r := New(dir, zap.NewNop())
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := r.Reconcile(ctx, Request{EventID: "ev1", Selected: []string{"A"}})
		done <- err
	}()
	<-entered

	_, err := r.Reconcile(ctx, Request{EventID: "ev1", Selected: []string{"B"}})
	if !IsKind(err, InFlight) {
		t.Errorf("expected InFlight, got %v", err)
	}

	// A different event is not blocked.
	dir.BatchAssignFunc = nil
	if _, err := r.Reconcile(ctx, Request{EventID: "ev2", Selected: []string{"B"}}); err != nil {
		t.Errorf("reconcile on another event failed: %v", err)
	}

	close(releaseAssign)
	if err := <-done; err != nil {
		t.Fatalf("first Reconcile failed: %v", err)
	}
}

func TestPrepare(t *testing.T) {
	dir := newFakeDirectory(
		Assignment{EventID: "ev1", VolunteerID: "B"},
		Assignment{EventID: "ev2", VolunteerID: "C"},
	)
	dir.candidates["ev1"] = []Volunteer{{ID: "A", Name: "alice"}, {ID: "B", Name: "bob"}}
	r := New(dir, zap.NewNop())

	req, err := r.Prepare(context.Background(), "ev1")
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if diff := cmp.Diff([]string{"B"}, req.Current); diff != "" {
		t.Errorf("Current (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(req.Current, req.Selected); diff != "" {
		t.Errorf("Selected should start equal to Current (-want +got):\n%s", diff)
	}
	if len(req.Candidates) != 2 {
		t.Errorf("expected 2 candidates, got %d", len(req.Candidates))
	}

	if _, err := r.Prepare(context.Background(), ""); !IsKind(err, MissingTarget) {
		t.Errorf("expected MissingTarget for empty event, got %v", err)
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: DuplicateConflict, Detail: "already assigned", Names: []string{"carol", "dave"}}
	want := "duplicate_conflict: already assigned (carol, dave)"
	if got := err.Error(); got != want {
		t.Errorf("Error(): got %q, want %q", got, want)
	}
}
