// internal/app/features/matching/types.go
package matching

import (
	"github.com/dalemusser/volunteerhub/internal/app/reconcile"
	"github.com/dalemusser/volunteerhub/internal/app/system/normalize"
)

// Batch actions accepted by POST /matching/assign.
const (
	actionAssign   = reconcile.ActionAssign
	actionUnassign = reconcile.ActionUnassign
)

// matchForm is the body of POST /matching/match.
type matchForm struct {
	EventID string `json:"eventId" validate:"required,objectid" label:"Event"`
}

// assignForm is the body of POST /matching/assign.
type assignForm struct {
	EventID      string   `json:"eventId" validate:"required,objectid" label:"Event"`
	VolunteerIDs []string `json:"volunteerIds" validate:"required,max=500,objectid" label:"Volunteers"`
	Action       string   `json:"action" validate:"required,oneof=assign unassign" label:"Action"`
}

func (f *assignForm) normalize() {
	f.VolunteerIDs = normalize.Strings(f.VolunteerIDs)
}

// reconcileForm is the body of POST /matching/reconcile. When Current is
// omitted the server reads it from the store; when present it is the
// caller's view, which lets a stale client hit the duplicate check.
type reconcileForm struct {
	EventID  string   `json:"eventId" validate:"required,objectid" label:"Event"`
	Selected []string `json:"selected" validate:"present,max=500,objectid" label:"Selected volunteers"`
	Current  []string `json:"current,omitempty" validate:"max=500,objectid" label:"Current volunteers"`
}

// matchedItem is one row of GET /matching/matched.
type matchedItem struct {
	EventID       string `json:"eventId"`
	EventName     string `json:"eventName"`
	VolunteerID   string `json:"volunteerId"`
	VolunteerName string `json:"volunteerName"`
}

// candidateItem is one row of POST /matching/match.
type candidateItem struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	FullName      string   `json:"fullName"`
	Skills        []string `json:"skills"`
	MatchedSkills []string `json:"matchedSkills"`
}

// assignResponse acknowledges one batch. Count is the number of ids sent,
// Changed the number of pairs actually added or removed.
type assignResponse struct {
	EventID string `json:"eventId"`
	Action  string `json:"action"`
	Count   int    `json:"count"`
	Changed int    `json:"changed"`
}

// reconcileResponse reports a reconciliation that did not fail outright.
type reconcileResponse struct {
	RunID      string   `json:"runId"`
	EventID    string   `json:"eventId"`
	State      string   `json:"state"`
	ToAssign   []string `json:"toAssign"`
	ToUnassign []string `json:"toUnassign"`
}

type eventItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	Location string `json:"location"`
}

// volunteerDetail is one row of GET /matching/volunteer-details.
type volunteerDetail struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Events []eventItem `json:"events"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
