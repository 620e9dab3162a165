package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/volunteerhub/internal/app/reconcile"
)

var _ reconcile.Directory = (*Client)(nil)

// unknownEvent mirrors the server's placeholder for blank event names.
const unknownEvent = "Unknown event"

// Events returns the full event rows from GET /events/all.
func (c *Client) Events(ctx context.Context) ([]EventSummary, error) {
	var out []EventSummary
	if err := c.do(ctx, http.MethodGet, "/events/all", nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Name == "" {
			out[i].Name = unknownEvent
		}
		if out[i].RequiredSkills == nil {
			out[i].RequiredSkills = []string{}
		}
	}
	return out, nil
}

// ListEvents implements reconcile.Directory.
func (c *Client) ListEvents(ctx context.Context) ([]reconcile.Event, error) {
	rows, err := c.Events(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]reconcile.Event, 0, len(rows))
	for _, e := range rows {
		out = append(out, reconcile.Event{ID: e.ID, Name: e.Name})
	}
	return out, nil
}

// Candidates returns the raw candidate rows for eventID, best match first.
func (c *Client) Candidates(ctx context.Context, eventID string) ([]Candidate, error) {
	var out []Candidate
	if err := c.do(ctx, http.MethodPost, "/matching/match", matchRequest{EventID: eventID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCandidateVolunteers implements reconcile.Directory.
func (c *Client) ListCandidateVolunteers(ctx context.Context, eventID string) ([]reconcile.Volunteer, error) {
	rows, err := c.Candidates(ctx, eventID)
	if err != nil {
		return nil, err
	}
	out := make([]reconcile.Volunteer, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.volunteer())
	}
	return out, nil
}

// Matched returns every assignment row with names resolved by the server.
func (c *Client) Matched(ctx context.Context) ([]Matched, error) {
	var out []Matched
	if err := c.do(ctx, http.MethodGet, "/matching/matched", nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].EventName == "" {
			out[i].EventName = unknownEvent
		}
		if out[i].VolunteerName == "" {
			out[i].VolunteerName = reconcile.UnknownVolunteer
		}
	}
	return out, nil
}

// ListAllAssignments returns every assignment across all events.
func (c *Client) ListAllAssignments(ctx context.Context) ([]reconcile.Assignment, error) {
	rows, err := c.Matched(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]reconcile.Assignment, 0, len(rows))
	for _, r := range rows {
		out = append(out, reconcile.Assignment{EventID: r.EventID, VolunteerID: r.VolunteerID})
	}
	return out, nil
}

// ListAssignments implements reconcile.Directory. The server has no
// per-event listing, so the full list is fetched and filtered here.
func (c *Client) ListAssignments(ctx context.Context, eventID string) ([]reconcile.Assignment, error) {
	all, err := c.ListAllAssignments(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, a := range all {
		if a.EventID == eventID {
			out = append(out, a)
		}
	}
	return out, nil
}

// BatchAssign implements reconcile.Directory.
func (c *Client) BatchAssign(ctx context.Context, eventID string, ids []string) error {
	return c.batch(ctx, reconcile.ActionAssign, eventID, ids)
}

// BatchUnassign implements reconcile.Directory.
func (c *Client) BatchUnassign(ctx context.Context, eventID string, ids []string) error {
	return c.batch(ctx, reconcile.ActionUnassign, eventID, ids)
}

func (c *Client) batch(ctx context.Context, action, eventID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return c.do(ctx, http.MethodPost, "/matching/assign",
		assignRequest{EventID: eventID, VolunteerIDs: ids, Action: action}, nil)
}

// ServerReconcile asks the server to run the reconciliation itself. A nil
// current lets the server read the stored assignments. Error responses
// carrying a reconcile kind come back as *reconcile.Error.
func (c *Client) ServerReconcile(ctx context.Context, eventID string, current, selected []string) (ReconcileResult, error) {
	if selected == nil {
		selected = []string{}
	}
	var out ReconcileResult
	err := c.do(ctx, http.MethodPost, "/matching/reconcile",
		reconcileRequest{EventID: eventID, Selected: selected, Current: current}, &out)
	if err != nil {
		return ReconcileResult{}, asReconcileError(err)
	}
	return out, nil
}

// Whoami returns the user the session token belongs to.
func (c *Client) Whoami(ctx context.Context) (name, role string, err error) {
	var u sessionUser
	if err := c.do(ctx, http.MethodGet, "/session", nil, &u); err != nil {
		return "", "", err
	}
	return u.Name, u.Role, nil
}

var reconcileKinds = map[string]reconcile.Kind{
	string(reconcile.MissingTarget):     reconcile.MissingTarget,
	string(reconcile.DuplicateConflict): reconcile.DuplicateConflict,
	string(reconcile.FetchFailure):      reconcile.FetchFailure,
	string(reconcile.PartialFailure):    reconcile.PartialFailure,
	string(reconcile.CommitFailure):     reconcile.CommitFailure,
	string(reconcile.InFlight):          reconcile.InFlight,
}

func asReconcileError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	k, ok := reconcileKinds[apiErr.Kind]
	if !ok {
		return err
	}
	return &reconcile.Error{Kind: k, Detail: apiErr.Message, Names: apiErr.Names, Err: apiErr}
}
