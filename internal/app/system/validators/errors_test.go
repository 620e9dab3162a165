package validators

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		exists      bool
		unsupported bool
	}{
		{"nil", nil, false, false},
		{"namespace code", mongo.CommandError{Code: 48}, true, false},
		{"namespace text", errors.New("Collection already exists. NS: x.users"), true, false},
		{"no such command", mongo.CommandError{Code: 59, Message: "no such command: 'collMod'"}, false, true},
		{"not implemented code", mongo.CommandError{Code: 115}, false, true},
		{"not supported text", errors.New("validator not supported"), false, true},
		{"other", mongo.CommandError{Code: 121, Message: "Document failed validation"}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := namespaceExists(tt.err); got != tt.exists {
				t.Errorf("namespaceExists: got %v, want %v", got, tt.exists)
			}
			if got := unsupported(tt.err); got != tt.unsupported {
				t.Errorf("unsupported: got %v, want %v", got, tt.unsupported)
			}
		})
	}
}
