// Package reportqueries provides read-only queries that join events,
// volunteers and assignments for the matching and report endpoints.
package reportqueries

import (
	"context"
	"sort"

	"github.com/dalemusser/volunteerhub/internal/app/reconcile"
	assignmentstore "github.com/dalemusser/volunteerhub/internal/app/store/assignments"
	eventstore "github.com/dalemusser/volunteerhub/internal/app/store/events"
	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MatchedRow is one assignment joined with its event and volunteer names.
type MatchedRow struct {
	EventID       primitive.ObjectID
	EventName     string
	VolunteerID   primitive.ObjectID
	VolunteerName string
}

// Matched returns every assignment with event and volunteer names resolved.
// Missing references render as models.UnknownEvent and
// reconcile.UnknownVolunteer. Rows are sorted by event name then volunteer name.
func Matched(ctx context.Context, db *mongo.Database) ([]MatchedRow, error) {
	pipeline := []bson.M{
		{"$lookup": bson.M{
			"from":         "events",
			"localField":   "event_id",
			"foreignField": "_id",
			"as":           "event",
		}},
		{"$unwind": bson.M{"path": "$event", "preserveNullAndEmptyArrays": true}},
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "volunteer_id",
			"foreignField": "_id",
			"as":           "volunteer",
		}},
		{"$unwind": bson.M{"path": "$volunteer", "preserveNullAndEmptyArrays": true}},
		{"$project": bson.M{
			"event_id":       1,
			"volunteer_id":   1,
			"event_name":     "$event.name",
			"volunteer_name": "$volunteer.name",
		}},
	}

	cur, err := db.Collection("assignments").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []MatchedRow{}
	for cur.Next(ctx) {
		var row struct {
			EventID       primitive.ObjectID `bson:"event_id"`
			EventName     string             `bson:"event_name"`
			VolunteerID   primitive.ObjectID `bson:"volunteer_id"`
			VolunteerName string             `bson:"volunteer_name"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		if row.EventName == "" {
			row.EventName = models.UnknownEvent
		}
		if row.VolunteerName == "" {
			row.VolunteerName = reconcile.UnknownVolunteer
		}
		out = append(out, MatchedRow(row))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		if a, b := text.Fold(out[i].EventName), text.Fold(out[j].EventName); a != b {
			return a < b
		}
		return text.Fold(out[i].VolunteerName) < text.Fold(out[j].VolunteerName)
	})
	return out, nil
}

// VolunteerRef is a volunteer listed under an event.
type VolunteerRef struct {
	ID    primitive.ObjectID
	Name  string
	Email string
}

// EventReportRow is one event with its assigned volunteers.
type EventReportRow struct {
	Event          models.Event
	VolunteerCount int
	Volunteers     []VolunteerRef
}

// EventReport lists every event (date, then name) with its assigned
// volunteers sorted by username. Assignments pointing at a deleted user
// count toward VolunteerCount and render as reconcile.UnknownVolunteer.
func EventReport(ctx context.Context, db *mongo.Database) ([]EventReportRow, error) {
	events, err := eventstore.New(db).List(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := assignmentstore.New(db).ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byEvent := make(map[primitive.ObjectID][]primitive.ObjectID)
	var volIDs []primitive.ObjectID
	seen := make(map[primitive.ObjectID]struct{})
	for _, a := range rows {
		if a.EventID.IsZero() || a.VolunteerID.IsZero() {
			continue
		}
		byEvent[a.EventID] = append(byEvent[a.EventID], a.VolunteerID)
		if _, ok := seen[a.VolunteerID]; !ok {
			seen[a.VolunteerID] = struct{}{}
			volIDs = append(volIDs, a.VolunteerID)
		}
	}

	users, err := userstore.New(db).ListByIDs(ctx, volIDs)
	if err != nil {
		return nil, err
	}
	userByID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	out := make([]EventReportRow, 0, len(events))
	for _, ev := range events {
		ids := byEvent[ev.ID]
		vols := make([]VolunteerRef, 0, len(ids))
		for _, id := range ids {
			ref := VolunteerRef{ID: id, Name: reconcile.UnknownVolunteer}
			if u, ok := userByID[id]; ok {
				ref.Name = u.Name
				ref.Email = u.Email
			}
			vols = append(vols, ref)
		}
		sort.SliceStable(vols, func(i, j int) bool {
			return text.Fold(vols[i].Name) < text.Fold(vols[j].Name)
		})
		out = append(out, EventReportRow{
			Event:          ev,
			VolunteerCount: len(vols),
			Volunteers:     vols,
		})
	}
	return out, nil
}

// EventRef is an event listed under a volunteer.
type EventRef struct {
	ID       primitive.ObjectID
	Name     string
	Date     string
	Location string
}

// VolunteerReportRow is one volunteer with the events they are assigned to.
type VolunteerReportRow struct {
	Volunteer models.User
	Events    []EventRef
}

// VolunteerReport lists every volunteer (by username) with assigned events
// sorted by date then name. Assignments to deleted events are skipped.
func VolunteerReport(ctx context.Context, db *mongo.Database) ([]VolunteerReportRow, error) {
	vols, err := userstore.New(db).ListVolunteers(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := assignmentstore.New(db).ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byVol := make(map[primitive.ObjectID][]primitive.ObjectID)
	var evIDs []primitive.ObjectID
	seen := make(map[primitive.ObjectID]struct{})
	for _, a := range rows {
		if a.EventID.IsZero() || a.VolunteerID.IsZero() {
			continue
		}
		byVol[a.VolunteerID] = append(byVol[a.VolunteerID], a.EventID)
		if _, ok := seen[a.EventID]; !ok {
			seen[a.EventID] = struct{}{}
			evIDs = append(evIDs, a.EventID)
		}
	}

	events, err := eventstore.New(db).ListByIDs(ctx, evIDs)
	if err != nil {
		return nil, err
	}

	out := make([]VolunteerReportRow, 0, len(vols))
	for _, v := range vols {
		refs := []EventRef{}
		for _, id := range byVol[v.ID] {
			ev, ok := events[id]
			if !ok {
				continue
			}
			refs = append(refs, EventRef{ID: ev.ID, Name: ev.DisplayName(), Date: ev.Date, Location: ev.Location})
		}
		sort.SliceStable(refs, func(i, j int) bool {
			if refs[i].Date != refs[j].Date {
				return refs[i].Date < refs[j].Date
			}
			return text.Fold(refs[i].Name) < text.Fold(refs[j].Name)
		})
		out = append(out, VolunteerReportRow{Volunteer: v, Events: refs})
	}
	return out, nil
}
