package reconcile

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the outcome of one reconciliation run.
type State string

const (
	StateUnchanged State = "unchanged" // nothing to do, no Directory calls made
	StateCommitted State = "committed" // every needed batch succeeded
	StateAborted   State = "aborted"   // rejected before any batch was sent
	StatePartial   State = "partial"   // one batch committed, the other failed
	StateFailed    State = "failed"    // every attempted batch failed
)

// Batch actions, also used as metric labels.
const (
	ActionAssign   = "assign"
	ActionUnassign = "unassign"
)

// Observer receives reconciliation telemetry. See system/metrics.
type Observer interface {
	ReconcileFinished(outcome string, elapsed time.Duration)
	BatchApplied(action string, size int, err error)
}

type nopObserver struct{}

func (nopObserver) ReconcileFinished(string, time.Duration) {}
func (nopObserver) BatchApplied(string, int, error)         {}

// Request is the input to Reconcile.
type Request struct {
	EventID  string
	Current  []string // volunteer ids the caller believes are assigned
	Selected []string // volunteer ids the caller wants assigned
	// Candidates resolve display names for conflict reporting.
	Candidates []Volunteer
}

// BatchOutcome records what happened to one batch.
type BatchOutcome struct {
	IDs       []string
	Attempted bool
	Err       error
	// Changed holds the ids the batch actually changed. It equals IDs on
	// success unless the Directory is a ChangeReporter.
	Changed []string
}

// Succeeded reports whether the batch was sent and accepted.
func (b BatchOutcome) Succeeded() bool { return b.Attempted && b.Err == nil }

// Result describes a reconciliation run. It is returned alongside any error
// so callers can inspect what was sent.
type Result struct {
	RunID    string
	Plan     Plan
	State    State
	Assign   BatchOutcome
	Unassign BatchOutcome
	// Duplicates are volunteer ids found already assigned at commit time.
	Duplicates []string
}

// Reconciler commits selection changes through a Directory.
type Reconciler struct {
	dir Directory
	log *zap.Logger
	obs Observer

	mu       sync.Mutex
	inflight map[string]struct{}
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithObserver attaches telemetry.
func WithObserver(o Observer) Option {
	return func(r *Reconciler) {
		if o != nil {
			r.obs = o
		}
	}
}

// New builds a Reconciler. A nil logger is replaced with a no-op logger.
func New(dir Directory, logger *zap.Logger, opts ...Option) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Reconciler{
		dir:      dir,
		log:      logger,
		obs:      nopObserver{},
		inflight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Prepare loads what an editor needs for one event: the candidate list and
// the event's current assignments. The returned request starts with
// Selected equal to Current.
func (r *Reconciler) Prepare(ctx context.Context, eventID string) (Request, error) {
	if strings.TrimSpace(eventID) == "" {
		return Request{}, &Error{Kind: MissingTarget, Detail: "no event selected"}
	}
	candidates, err := r.dir.ListCandidateVolunteers(ctx, eventID)
	if err != nil {
		return Request{}, &Error{Kind: FetchFailure, Detail: "failed to fetch candidate volunteers", Err: err}
	}
	assigned, err := r.dir.ListAssignments(ctx, eventID)
	if err != nil {
		return Request{}, &Error{Kind: FetchFailure, Detail: "failed to fetch assignments", Err: err}
	}
	current := CurrentFor(eventID, assigned)
	return Request{
		EventID:    eventID,
		Current:    current,
		Selected:   append([]string(nil), current...),
		Candidates: candidates,
	}, nil
}

// Reconcile diffs req.Current against req.Selected and commits the result.
//
// An empty plan returns StateUnchanged without touching the Directory.
// Otherwise the event's assignments are re-read from the Directory; if any
// volunteer in the assign batch is already there the run is aborted with
// DuplicateConflict and no batch is sent. Both batches are then sent
// independently and empty batches are skipped. No rollback is attempted.
func (r *Reconciler) Reconcile(ctx context.Context, req Request) (res Result, err error) {
	start := time.Now()
	res.RunID = uuid.NewString()
	defer func() { r.finish(req.EventID, res, err, time.Since(start)) }()

	if strings.TrimSpace(req.EventID) == "" {
		res.State = StateAborted
		return res, &Error{Kind: MissingTarget, Detail: "no event selected"}
	}

	res.Plan = Diff(req.EventID, req.Current, req.Selected)
	if res.Plan.Empty() {
		res.State = StateUnchanged
		return res, nil
	}

	if !r.acquire(req.EventID) {
		res.State = StateAborted
		return res, &Error{Kind: InFlight, Detail: "a reconciliation for this event is already running"}
	}
	defer r.release(req.EventID)

	if len(res.Plan.ToAssign) > 0 {
		stored, ferr := r.dir.ListAssignments(ctx, req.EventID)
		if ferr != nil {
			res.State = StateAborted
			return res, &Error{Kind: FetchFailure, Detail: "failed to re-read assignments before commit", Err: ferr}
		}
		have := setOf(CurrentFor(req.EventID, stored))
		if dups := intersect(res.Plan.ToAssign, have); len(dups) > 0 {
			res.State = StateAborted
			res.Duplicates = dups
			return res, &Error{
				Kind:   DuplicateConflict,
				Detail: "volunteers already assigned to this event",
				Names:  ResolveNames(dups, req.Candidates),
			}
		}
	}

	assign, unassign := r.batchFuncs()
	res.Assign = r.apply(ctx, ActionAssign, req.EventID, res.Plan.ToAssign, assign)
	res.Unassign = r.apply(ctx, ActionUnassign, req.EventID, res.Plan.ToUnassign, unassign)

	return res, settle(&res)
}

type batchFunc func(ctx context.Context, eventID string, ids []string) ([]string, error)

func (r *Reconciler) batchFuncs() (assign, unassign batchFunc) {
	if cr, ok := r.dir.(ChangeReporter); ok {
		return cr.Assign, cr.Unassign
	}
	return allChanged(r.dir.BatchAssign), allChanged(r.dir.BatchUnassign)
}

func allChanged(fn func(ctx context.Context, eventID string, ids []string) error) batchFunc {
	return func(ctx context.Context, eventID string, ids []string) ([]string, error) {
		if err := fn(ctx, eventID, ids); err != nil {
			return nil, err
		}
		return ids, nil
	}
}

func (r *Reconciler) apply(ctx context.Context, action, eventID string, ids []string, fn batchFunc) BatchOutcome {
	out := BatchOutcome{IDs: ids}
	if len(ids) == 0 {
		return out
	}
	out.Attempted = true
	out.Changed, out.Err = fn(ctx, eventID, ids)
	if out.Err != nil {
		out.Changed = nil
	}
	r.obs.BatchApplied(action, len(ids), out.Err)
	return out
}

// settle derives the final state from the two batch outcomes.
func settle(res *Result) error {
	a, u := res.Assign, res.Unassign
	failedA := a.Attempted && a.Err != nil
	failedU := u.Attempted && u.Err != nil

	switch {
	case !failedA && !failedU:
		res.State = StateCommitted
		return nil
	case failedA && failedU:
		res.State = StateFailed
		return &Error{Kind: CommitFailure, Detail: "assign and unassign batches failed", Err: errors.Join(a.Err, u.Err)}
	case failedA && u.Succeeded():
		res.State = StatePartial
		return &Error{Kind: PartialFailure, Detail: "assign batch failed; unassign batch committed", Err: a.Err}
	case failedU && a.Succeeded():
		res.State = StatePartial
		return &Error{Kind: PartialFailure, Detail: "unassign batch failed; assign batch committed", Err: u.Err}
	case failedA:
		res.State = StateFailed
		return &Error{Kind: CommitFailure, Detail: "assign batch failed", Err: a.Err}
	default:
		res.State = StateFailed
		return &Error{Kind: CommitFailure, Detail: "unassign batch failed", Err: u.Err}
	}
}

func (r *Reconciler) acquire(eventID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.inflight[eventID]; busy {
		return false
	}
	r.inflight[eventID] = struct{}{}
	return true
}

func (r *Reconciler) release(eventID string) {
	r.mu.Lock()
	delete(r.inflight, eventID)
	r.mu.Unlock()
}

func (r *Reconciler) finish(eventID string, res Result, err error, elapsed time.Duration) {
	outcome := string(res.State)
	if k, ok := KindOf(err); ok {
		outcome = string(k)
	}
	r.obs.ReconcileFinished(outcome, elapsed)

	fields := []zap.Field{
		zap.String("run_id", res.RunID),
		zap.String("event_id", eventID),
		zap.String("state", string(res.State)),
		zap.Int("to_assign", len(res.Plan.ToAssign)),
		zap.Int("to_unassign", len(res.Plan.ToUnassign)),
		zap.Duration("took", elapsed),
	}
	if err != nil {
		r.log.Warn("reconciliation did not commit", append(fields, zap.Error(err))...)
		return
	}
	r.log.Info("reconciliation finished", fields...)
}
