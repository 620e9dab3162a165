package apiclient

import (
	"context"

	"github.com/dalemusser/volunteerhub/internal/app/reconcile"
	"golang.org/x/sync/errgroup"
)

// Snapshot is the initial view of the assignment editor.
type Snapshot struct {
	Events      []EventSummary
	Assignments []Matched
}

// CurrentFor returns the volunteer ids assigned to eventID in the snapshot.
func (s Snapshot) CurrentFor(eventID string) []string {
	all := make([]reconcile.Assignment, 0, len(s.Assignments))
	for _, m := range s.Assignments {
		all = append(all, reconcile.Assignment{EventID: m.EventID, VolunteerID: m.VolunteerID})
	}
	return reconcile.CurrentFor(eventID, all)
}

// LoadSnapshot fetches events and assignments concurrently. Either failure
// fails the whole load with a FetchFailure.
func (c *Client) LoadSnapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		evs, err := c.Events(egCtx)
		if err != nil {
			return &reconcile.Error{Kind: reconcile.FetchFailure, Detail: "failed to fetch events", Err: err}
		}
		snap.Events = evs
		return nil
	})
	eg.Go(func() error {
		rows, err := c.Matched(egCtx)
		if err != nil {
			return &reconcile.Error{Kind: reconcile.FetchFailure, Detail: "failed to fetch assignments", Err: err}
		}
		snap.Assignments = rows
		return nil
	})
	if err := eg.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
