package apiclient

import "github.com/dalemusser/volunteerhub/internal/app/reconcile"

// Wire shapes for the endpoints the client calls. Only the fields the CLI
// uses are decoded.

// EventSummary is one row of GET /events/all.
type EventSummary struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Location       string   `json:"location"`
	Date           string   `json:"date"`
	Urgency        string   `json:"urgency"`
	RequiredSkills []string `json:"requiredSkills"`
}

// Candidate is one row of POST /matching/match.
type Candidate struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	FullName      string   `json:"fullName"`
	Skills        []string `json:"skills"`
	MatchedSkills []string `json:"matchedSkills"`
}

// Matched is one row of GET /matching/matched.
type Matched struct {
	EventID       string `json:"eventId"`
	EventName     string `json:"eventName"`
	VolunteerID   string `json:"volunteerId"`
	VolunteerName string `json:"volunteerName"`
}

// ReconcileResult is the body of a successful POST /matching/reconcile.
type ReconcileResult struct {
	RunID      string   `json:"runId"`
	EventID    string   `json:"eventId"`
	State      string   `json:"state"`
	ToAssign   []string `json:"toAssign"`
	ToUnassign []string `json:"toUnassign"`
}

type matchRequest struct {
	EventID string `json:"eventId"`
}

type assignRequest struct {
	EventID      string   `json:"eventId"`
	VolunteerIDs []string `json:"volunteerIds"`
	Action       string   `json:"action"`
}

type reconcileRequest struct {
	EventID  string   `json:"eventId"`
	Selected []string `json:"selected"`
	Current  []string `json:"current,omitempty"`
}

type sessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (c Candidate) volunteer() reconcile.Volunteer {
	skills := c.Skills
	if skills == nil {
		skills = []string{}
	}
	return reconcile.Volunteer{ID: c.ID, Name: c.Name, FullName: c.FullName, Skills: skills}
}
