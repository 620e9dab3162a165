// internal/app/features/profile/types.go
package profile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dalemusser/volunteerhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/volunteerhub/internal/app/system/inputval"
	"github.com/dalemusser/volunteerhub/internal/app/system/normalize"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileForm is the body of POST /profile.
type ProfileForm struct {
	FullName     string   `json:"fullName" validate:"required,max=50" label:"Full name"`
	Address1     string   `json:"address1" validate:"required,max=100" label:"Address 1"`
	Address2     string   `json:"address2" validate:"max=100" label:"Address 2"`
	City         string   `json:"city" validate:"required,max=100" label:"City"`
	State        string   `json:"state" validate:"required,len=2" label:"State"`
	Zip          string   `json:"zip" validate:"required,digits" label:"Zip code"`
	Skills       []string `json:"skills" validate:"required" label:"Skills"`
	Preferences  string   `json:"preferences" validate:"max=1000" label:"Preferences"`
	Availability []string `json:"availability" validate:"required,date" label:"Availability"`
}

// Normalize trims and sanitizes every field in place. Availability is
// deduplicated and sorted.
func (f *ProfileForm) Normalize() {
	f.FullName = normalize.Name(htmlsanitize.PlainText(f.FullName))
	f.Address1 = htmlsanitize.PlainText(f.Address1)
	f.Address2 = htmlsanitize.PlainText(f.Address2)
	f.City = htmlsanitize.PlainText(f.City)
	f.State = normalize.State(f.State)
	f.Zip = normalize.Zip(f.Zip)
	f.Skills = normalize.Strings(f.Skills)
	f.Preferences = htmlsanitize.PlainText(f.Preferences)
	f.Availability = normalize.Strings(f.Availability)
	sort.Strings(f.Availability)
}

// Validate returns field name to message for every invalid field.
func (f ProfileForm) Validate() map[string]string {
	res := inputval.Validate(f)
	if !res.Has("state") && strings.IndexFunc(f.State, func(r rune) bool { return r < 'A' || r > 'Z' }) >= 0 {
		res.Add("state", "State must be a two-letter code.")
	}
	if !res.Has("zip") && len(f.Zip) != 5 && len(f.Zip) != 9 {
		res.Add("zip", "Zip code must be 5 or 9 digits.")
	}
	if !res.Has("skills") {
		for _, s := range f.Skills {
			if !models.IsSkill(s) {
				res.Add("skills", fmt.Sprintf("%q is not a known skill.", s))
				break
			}
		}
	}
	return res.Fields()
}

// Profile converts a validated form for userID.
func (f ProfileForm) Profile(userID primitive.ObjectID) models.Profile {
	return models.Profile{
		UserID:       userID,
		FullName:     f.FullName,
		Address1:     f.Address1,
		Address2:     f.Address2,
		City:         f.City,
		State:        f.State,
		Zip:          f.Zip,
		Skills:       append([]string{}, f.Skills...),
		Preferences:  f.Preferences,
		Availability: append([]string{}, f.Availability...),
	}
}
