package events

import (
	"strings"
	"testing"

	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

func validForm() EventForm {
	return EventForm{
		Name:           "Food Drive",
		Description:    "Sort and pack donations.",
		Location:       "Community Center",
		RequiredSkills: []string{"Food Preparation & Serving"},
		Urgency:        models.UrgencyHigh,
		Date:           "2030-05-01",
	}
}

func TestEventForm_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EventForm)
		field  string
	}{
		{"valid", func(*EventForm) {}, ""},
		{"missing name", func(f *EventForm) { f.Name = "" }, "name"},
		{"long name", func(f *EventForm) { f.Name = strings.Repeat("x", 101) }, "name"},
		{"missing description", func(f *EventForm) { f.Description = "" }, "description"},
		{"missing location", func(f *EventForm) { f.Location = "" }, "location"},
		{"no skills", func(f *EventForm) { f.RequiredSkills = nil }, "requiredSkills"},
		{"unknown skill", func(f *EventForm) { f.RequiredSkills = []string{"Juggling"} }, "requiredSkills"},
		{"bad urgency", func(f *EventForm) { f.Urgency = "Urgent" }, "urgency"},
		{"bad date", func(f *EventForm) { f.Date = "05/01/2030" }, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)
			errs := f.Validate()
			if tt.field == "" {
				if len(errs) != 0 {
					t.Errorf("expected no errors, got %v", errs)
				}
				return
			}
			if _, ok := errs[tt.field]; !ok {
				t.Errorf("expected an error for %q, got %v", tt.field, errs)
			}
			if len(errs) != 1 {
				t.Errorf("expected exactly one error, got %v", errs)
			}
		})
	}
}

func TestEventForm_Normalize(t *testing.T) {
	f := EventForm{
		Name:           "  Food   <b>Drive</b> ",
		Description:    `<p>Bring gloves</p><script>alert(1)</script>`,
		Location:       " Hall <i>B</i> ",
		RequiredSkills: []string{" Child Care ", "", "Child Care"},
		Urgency:        " Low ",
		Date:           " 2030-05-01 ",
	}
	f.Normalize()

	if f.Name != "Food Drive" {
		t.Errorf("Name: got %q", f.Name)
	}
	if strings.Contains(f.Description, "script") || !strings.Contains(f.Description, "<p>Bring gloves</p>") {
		t.Errorf("Description: got %q", f.Description)
	}
	if f.Location != "Hall B" {
		t.Errorf("Location: got %q", f.Location)
	}
	if len(f.RequiredSkills) != 1 || f.RequiredSkills[0] != "Child Care" {
		t.Errorf("RequiredSkills: got %v", f.RequiredSkills)
	}
	if f.Urgency != "Low" || f.Date != "2030-05-01" {
		t.Errorf("Urgency/Date: got %q %q", f.Urgency, f.Date)
	}
}
