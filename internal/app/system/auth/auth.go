// Package auth carries the signed-in user through a request.
//
// A session arrives either as a gorilla session cookie or as an
// "Authorization: Bearer <token>" header whose token is a securecookie
// value minted by IssueToken (see `matchctl token`). Both decode to the
// same SessionUser, which LoadSessionUser places in the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/volunteerhub/internal/app/system/apierr"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
	userName  = "user_name"
	userEmail = "user_email"
	userRole  = "user_role"

	tokenName = "volunteerhub-token"
)

// ErrInvalidToken is returned by ParseToken for tokens that fail to decode,
// are expired, or carry no user id.
var ErrInvalidToken = errors.New("invalid or expired session token")

// SessionUser is the explicit session value handlers read from context.
type SessionUser struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// IsAdmin reports whether the user has the admin role.
func (u *SessionUser) IsAdmin() bool {
	return u != nil && strings.EqualFold(u.Role, "admin")
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	return FromContext(r.Context())
}

// FromContext returns the user stored by WithUser.
func FromContext(ctx context.Context) (*SessionUser, bool) {
	u, ok := ctx.Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *SessionUser) context.Context {
	return context.WithValue(ctx, currentUserKey, u)
}

// WithTestUser injects u directly, bypassing cookies and tokens.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(WithUser(r.Context(), u))
}

// UserFetcher reloads a user on each request so role changes and disabled
// accounts take effect before a token or cookie expires. FetchUser returns
// nil when the user no longer exists or is disabled.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

// SessionManager owns the cookie store and the token codec.
type SessionManager struct {
	store   *sessions.CookieStore
	codec   *securecookie.SecureCookie
	name    string
	maxAge  time.Duration
	log     *zap.Logger
	fetcher UserFetcher
}

// SetUserFetcher enables per-request user refresh.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) {
	sm.fetcher = f
}

// NewSessionManager builds a SessionManager. sessionKey signs both cookies
// and bearer tokens. In production (secure=true) cookies are Secure with
// SameSite=None; in local dev over http use secure=false.
func NewSessionManager(sessionKey, sessionName, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if sessionName == "" {
		sessionName = "volunteerhub-session"
	}
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		store.Options.SameSite = http.SameSiteNoneMode
	}

	codec := securecookie.New([]byte(sessionKey), nil)
	codec.MaxAge(int(maxAge.Seconds()))

	logger.Info("session manager initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{store: store, codec: codec, name: sessionName, maxAge: maxAge, log: logger}, nil
}

// IssueToken encodes u as a bearer token valid for the manager's max age.
func (sm *SessionManager) IssueToken(u SessionUser) (string, error) {
	if u.ID == "" {
		return "", ErrInvalidToken
	}
	return sm.codec.Encode(tokenName, u)
}

// ParseToken decodes a bearer token.
func (sm *SessionManager) ParseToken(token string) (*SessionUser, error) {
	var u SessionUser
	if err := sm.codec.Decode(tokenName, token, &u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if u.ID == "" {
		return nil, ErrInvalidToken
	}
	return &u, nil
}

// SaveCookie stores u in the session cookie.
func (sm *SessionManager) SaveCookie(w http.ResponseWriter, r *http.Request, u SessionUser) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[userName] = u.Name
	sess.Values[userEmail] = u.Email
	sess.Values[userRole] = u.Role
	return sess.Save(r, w)
}

// ClearCookie expires the session cookie.
func (sm *SessionManager) ClearCookie(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// LoadSessionUser injects the user into context when a valid bearer token
// or session cookie is present. A bearer header takes precedence. Invalid
// credentials leave the request anonymous.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := sm.fromRequest(r); u != nil {
			if sm.fetcher != nil {
				u = sm.fetcher.FetchUser(r.Context(), u.ID)
			}
			if u != nil {
				r = WithTestUser(r, u)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (sm *SessionManager) fromRequest(r *http.Request) *SessionUser {
	if tok, ok := bearerToken(r); ok {
		u, err := sm.ParseToken(tok)
		if err != nil {
			sm.log.Debug("rejected bearer token", zap.Error(err))
			return nil
		}
		return u
	}

	sess, _ := sm.store.Get(r, sm.name)
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return nil
	}
	u := &SessionUser{
		ID:    getString(sess, userIDKey),
		Name:  getString(sess, userName),
		Email: getString(sess, userEmail),
		Role:  getString(sess, userRole),
	}
	if u.ID == "" {
		return nil
	}
	return u
}

// RequireSignedIn answers 401 when no user is in context.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			apierr.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole answers 401 when signed out and 403 when the user's role is
// not one of allowed.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				apierr.Unauthorized(w)
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				apierr.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// helpers

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
