// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type collectionSpec struct {
	name   string
	schema func() bson.M
}

// collections lists every collection the app owns. A nil schema means the
// collection is created without a validator.
var collections = []collectionSpec{
	{"users", usersSchema},
	{"profiles", profilesSchema},
	{"events", eventsSchema},
	{"assignments", assignmentsSchema},
	{"notifications", notificationsSchema},
	{"audit_events", nil},
}

// EnsureAll creates the app's collections and attaches JSON-Schema
// validators. Servers without collMod validator support are skipped with an
// info log. Problems are collected so one bad collection does not hide the
// rest.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		// Fall through to CreateCollection, which tolerates races.
		zap.L().Warn("list collections failed", zap.Error(err))
	}
	have := make(map[string]bool, len(existing))
	for _, n := range existing {
		have[n] = true
	}

	var problems []string
	for _, c := range collections {
		if !have[c.name] {
			if err := createCollection(ctx, db, c.name); err != nil {
				problems = append(problems, c.name+": "+err.Error())
				continue
			}
		}
		if c.schema == nil {
			continue
		}
		if err := setValidator(ctx, db, c.name, c.schema()); err != nil {
			if unsupported(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", c.name))
				continue
			}
			problems = append(problems, c.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func createCollection(ctx context.Context, db *mongo.Database, name string) error {
	err := db.CreateCollection(ctx, name)
	switch {
	case err == nil:
		zap.L().Info("created collection", zap.String("collection", name))
		return nil
	case namespaceExists(err):
		return nil
	default:
		zap.L().Warn("create collection failed", zap.String("collection", name), zap.Error(err))
		return err
	}
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Debug("validator ensured", zap.String("collection", name))
	return nil
}

// commandErr reports whether err is a server command error with one of the
// given codes, or whose text contains one of the phrases.
func commandErr(err error, codes []int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		for _, c := range codes {
			if ce.Code == c {
				return true
			}
		}
	}
	msg := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// NamespaceExists (48).
func namespaceExists(err error) bool {
	return commandErr(err, []int32{48}, "already exists", "namespace exists")
}

// CommandNotFound (59) or NotImplemented (115), as seen on DocumentDB and
// some managed offerings.
func unsupported(err error) bool {
	return commandErr(err, []int32{59, 115}, "no such command", "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func stringsEnum(vals []string) bson.A {
	out := make(bson.A, 0, len(vals))
	for _, v := range vals {
		out = append(out, v)
	}
	return out
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "email", "role", "status"},
			"properties": bson.M{
				"name":   nonBlank,
				"email":  nonBlank,
				"role":   bson.M{"enum": bson.A{models.RoleAdmin, models.RoleVolunteer}},
				"status": bson.M{"enum": bson.A{models.StatusActive, models.StatusDisabled}},
			},
		},
	}
}

func profilesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "full_name", "skills"},
			"properties": bson.M{
				"user_id":   bson.M{"bsonType": "objectId"},
				"full_name": nonBlank,
				"state":     bson.M{"bsonType": "string", "pattern": "^[A-Z]{2}$"},
				"zip":       bson.M{"bsonType": "string", "pattern": "^([0-9]{5}|[0-9]{9})$"},
				"skills": bson.M{
					"bsonType": "array",
					"items":    bson.M{"enum": stringsEnum(models.Skills)},
				},
				"availability": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			},
		},
	}
}

func eventsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "urgency", "date"},
			"properties": bson.M{
				"name":    nonBlank,
				"name_ci": nonBlank,
				"urgency": bson.M{"enum": stringsEnum(models.Urgencies)},
				"date":    bson.M{"bsonType": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
				"required_skills": bson.M{
					"bsonType": "array",
					"items":    bson.M{"enum": stringsEnum(models.Skills)},
				},
			},
		},
	}
}

func assignmentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"event_id", "volunteer_id"},
			"properties": bson.M{
				"event_id":     bson.M{"bsonType": "objectId"},
				"volunteer_id": bson.M{"bsonType": "objectId"},
				"created_at":   bson.M{"bsonType": "date"},
			},
		},
	}
}

func notificationsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "event_id", "type"},
			"properties": bson.M{
				"user_id":  bson.M{"bsonType": "objectId"},
				"event_id": bson.M{"bsonType": "objectId"},
				"type":     bson.M{"enum": stringsEnum(models.NotificationTypes)},
			},
		},
	}
}
