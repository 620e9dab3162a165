package profile_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/dalemusser/volunteerhub/internal/app/features/errors"
	"github.com/dalemusser/volunteerhub/internal/app/features/profile"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/dalemusser/volunteerhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*profile.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return profile.NewHandler(db, apperrors.NewErrorLogger(logger), nil, logger), testutil.NewFixtures(t, db)
}

func TestServeProfile_NotFoundBeforeSave(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "amy", "amy@example.com", models.RoleVolunteer)
	rec := httptest.NewRecorder()
	h.ServeProfile(rec, testutil.WithUser(testutil.NewRequest("GET", "/profile"), testutil.AsTestUser(u)))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleUpdate_SaveThenRead(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "amy", "amy@example.com", models.RoleVolunteer)
	body := map[string]any{
		"fullName":     "Amy Adams",
		"address1":     "1 Main St",
		"city":         "Houston",
		"state":        "tx",
		"zip":          "77001",
		"skills":       []string{"Child Care"},
		"availability": []string{"2030-01-01"},
	}
	req := testutil.WithUser(testutil.NewJSONRequest(t, "POST", "/profile", body), testutil.AsTestUser(u))
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("save: got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeProfile(rec, testutil.WithUser(testutil.NewRequest("GET", "/profile"), testutil.AsTestUser(u)))
	if rec.Code != http.StatusOK {
		t.Fatalf("read: got %d", rec.Code)
	}
	var got models.Profile
	testutil.DecodeJSON(t, rec, &got)
	if got.FullName != "Amy Adams" || got.State != "TX" || got.UserID != u.ID {
		t.Errorf("profile: got %+v", got)
	}
}

func TestHandleUpdate_Validation(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "amy", "amy@example.com", models.RoleVolunteer)
	req := testutil.WithUser(testutil.NewJSONRequest(t, "POST", "/profile", map[string]any{"zip": "12"}), testutil.AsTestUser(u))
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
	var resp struct {
		Error struct {
			Fields map[string]string `json:"fields"`
		} `json:"error"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	for _, f := range []string{"fullName", "address1", "city", "state", "zip", "skills", "availability"} {
		if _, ok := resp.Error.Fields[f]; !ok {
			t.Errorf("expected an error for %s, got %v", f, resp.Error.Fields)
		}
	}
}

func TestHandleUpdate_Anonymous(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, testutil.NewJSONRequest(t, "POST", "/profile", map[string]any{}))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
