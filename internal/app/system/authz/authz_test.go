package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"github.com/dalemusser/volunteerhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx(t *testing.T) {
	id := primitive.NewObjectID()
	tests := []struct {
		name     string
		user     *auth.SessionUser
		wantRole string
		wantOK   bool
	}{
		{"no user", nil, "visitor", false},
		{"malformed id", &auth.SessionUser{ID: "not-hex", Role: "admin"}, "visitor", false},
		{"volunteer", &auth.SessionUser{ID: id.Hex(), Role: "Volunteer"}, "volunteer", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.user != nil {
				req = auth.WithTestUser(req, tt.user)
			}
			role, _, uid, ok := authz.UserCtx(req)
			if role != tt.wantRole || ok != tt.wantOK {
				t.Errorf("got (%q, %v), want (%q, %v)", role, ok, tt.wantRole, tt.wantOK)
			}
			if ok && uid != id {
				t.Errorf("userID: got %v, want %v", uid, id)
			}
		})
	}
}

func TestIsAdminAndHasAnyRole(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: primitive.NewObjectID().Hex(), Role: "admin"})

	if !authz.IsAdmin(req) {
		t.Error("expected admin")
	}
	if authz.HasAnyRole(req, "volunteer") {
		t.Error("admin should not match volunteer")
	}
	if !authz.HasAnyRole(req, "volunteer", " ADMIN ") {
		t.Error("expected case-insensitive match")
	}
}
