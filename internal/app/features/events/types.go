// internal/app/features/events/types.go
package events

import (
	"fmt"
	"strings"

	"github.com/dalemusser/volunteerhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/volunteerhub/internal/app/system/inputval"
	"github.com/dalemusser/volunteerhub/internal/app/system/normalize"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

// EventForm is the body of POST /events/create.
type EventForm struct {
	Name           string   `json:"name" validate:"required,max=100" label:"Event name"`
	Description    string   `json:"description" validate:"required,max=1000" label:"Description"`
	Location       string   `json:"location" validate:"required,max=200" label:"Location"`
	RequiredSkills []string `json:"requiredSkills" validate:"required" label:"Required skills"`
	Urgency        string   `json:"urgency" validate:"required,oneof=Low Medium High" label:"Urgency"`
	Date           string   `json:"date" validate:"required,date" label:"Event date"`
}

// Normalize trims and sanitizes every field in place.
func (f *EventForm) Normalize() {
	f.Name = normalize.Name(htmlsanitize.PlainText(f.Name))
	f.Description = htmlsanitize.Sanitize(f.Description)
	f.Location = htmlsanitize.PlainText(f.Location)
	f.RequiredSkills = normalize.Strings(f.RequiredSkills)
	f.Urgency = strings.TrimSpace(f.Urgency)
	f.Date = strings.TrimSpace(f.Date)
}

// Validate returns field name to message for every invalid field.
// An empty map means the form is valid.
func (f EventForm) Validate() map[string]string {
	res := inputval.Validate(f)
	if !res.Has("requiredSkills") {
		for _, s := range f.RequiredSkills {
			if !models.IsSkill(s) {
				res.Add("requiredSkills", fmt.Sprintf("%q is not a known skill.", s))
				break
			}
		}
	}
	return res.Fields()
}

// Event converts a validated form.
func (f EventForm) Event() models.Event {
	return models.Event{
		Name:           f.Name,
		Description:    f.Description,
		Location:       f.Location,
		RequiredSkills: append([]string{}, f.RequiredSkills...),
		Urgency:        f.Urgency,
		Date:           f.Date,
	}
}

// createResponse wraps the new event the way clients expect: {"data": {...}}.
type createResponse struct {
	Data          models.Event `json:"data"`
	Notifications int          `json:"notifications"`
}

type volunteerItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// reportItem is one row of GET /events/all-with-volunteer-count.
type reportItem struct {
	models.Event
	VolunteerCount int             `json:"volunteerCount"`
	Volunteers     []volunteerItem `json:"volunteers"`
}
