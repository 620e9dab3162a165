package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/volunteerhub/internal/app/features/session"
	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"github.com/dalemusser/volunteerhub/internal/testutil"
	"go.uber.org/zap"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newRouter(t *testing.T) (http.Handler, *auth.SessionManager) {
	t.Helper()
	sm, err := auth.NewSessionManager(testKey, "test-session", "", 0, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	h := session.NewHandler(sm, zap.NewNop())
	return sm.LoadSessionUser(session.Routes(h, sm)), sm
}

func TestSession_TokenToCookie(t *testing.T) {
	router, sm := newRouter(t)
	user := testutil.AdminUser()
	tok, err := sm.IssueToken(auth.SessionUser{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d: %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	// The cookie alone now identifies the user.
	req = httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("current: got %d", rec.Code)
	}
	var got struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if got.ID != user.ID || got.Role != user.Role {
		t.Errorf("current user: got %+v, want id %s", got, user.ID)
	}
}

func TestSession_Anonymous(t *testing.T) {
	router, _ := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("current: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestSession_Delete(t *testing.T) {
	router, _ := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNoContent)
	}
	var expired bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Error("expected the session cookie to be expired")
	}
}
