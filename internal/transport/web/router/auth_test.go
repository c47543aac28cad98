package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/yolonews/localfeed/internal/command"
	"github.com/yolonews/localfeed/internal/datasources/mocks"
	"github.com/yolonews/localfeed/internal/domain"
	"github.com/yolonews/localfeed/internal/transport/web/oidc"
)

type validatorFunc func(ctx context.Context, token string) (interface{}, error)

func (f validatorFunc) ValidateToken(ctx context.Context, token string) (interface{}, error) {
	return f(ctx, token)
}

func testRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(domain.ContextWithLogger(req.Context(), slog.New(slog.DiscardHandler)))
}

// sessionEcho responds with the email of the authenticated session, or "anonymous".
var sessionEcho = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	session := domain.SessionFromContext(r.Context())
	if session == nil {
		_, _ = w.Write([]byte("anonymous"))
		return
	}
	_, _ = w.Write([]byte(session.Email + "/" + string(domain.AuthMethodFromContext(r.Context()))))
})

func TestAuthMiddleware(t *testing.T) {
	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)
	revokedAt := time.Now().Add(-time.Minute)

	cases := []struct {
		name       string
		cookie     string
		authHeader string
		stored     *domain.StoredSession
		lookupErr  error
		wantLookup bool
		wantStatus int
		wantBody   string
	}{
		{
			name:       "no_credentials",
			wantStatus: http.StatusOK,
			wantBody:   "anonymous",
		},
		{
			name:       "active_session_cookie",
			cookie:     "token",
			stored:     &domain.StoredSession{Session: domain.Session{Email: "a@b.com", Role: domain.RoleUser}, ExpiresAt: future},
			wantLookup: true,
			wantStatus: http.StatusOK,
			wantBody:   "a@b.com/session_cookie",
		},
		{
			name:       "expired_session_cookie",
			cookie:     "token",
			stored:     &domain.StoredSession{Session: domain.Session{Email: "a@b.com"}, ExpiresAt: past},
			wantLookup: true,
			wantStatus: http.StatusOK,
			wantBody:   "anonymous",
		},
		{
			name:   "revoked_session_cookie",
			cookie: "token",
			stored: &domain.StoredSession{
				Session: domain.Session{Email: "a@b.com"}, ExpiresAt: future, RevokedAt: &revokedAt,
			},
			wantLookup: true,
			wantStatus: http.StatusOK,
			wantBody:   "anonymous",
		},
		{
			name:       "unknown_session_cookie",
			cookie:     "token",
			lookupErr:  errors.New("sql: no rows in result set"),
			wantLookup: true,
			wantStatus: http.StatusOK,
			wantBody:   "anonymous",
		},
		{
			name:       "valid_bearer_token",
			authHeader: "Bearer good",
			wantStatus: http.StatusOK,
			wantBody:   "m@b.com/bearer_token",
		},
		{
			name:       "invalid_bearer_token",
			authHeader: "Bearer bad",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed_authorization_header",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sessions := mocks.NewMockSessionRepository(t)
			if tc.wantLookup {
				stored := domain.StoredSession{}
				if tc.stored != nil {
					stored = *tc.stored
				}
				sessions.On("GetSessionByHash", mock.Anything, command.HashSessionToken(tc.cookie)).Return(stored, tc.lookupErr)
			}

			bearer := validatorFunc(func(_ context.Context, token string) (interface{}, error) {
				if token != "good" {
					return nil, errors.New("bad token")
				}
				return &validator.ValidatedClaims{CustomClaims: &oidc.Claims{Email: "m@b.com", Name: "moderator"}}, nil
			})

			handler := NewAuthMiddleware([]AuthValidator{
				NewSessionCookieValidator(sessions),
				NewBearerTokenValidator(bearer),
			})(sessionEcho)

			req := testRequest(http.MethodGet, "/api/user")
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: command.SessionCookieName, Value: tc.cookie})
			}
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantBody != "" {
				assert.Equal(t, tc.wantBody, rec.Body.String())
			}
		})
	}
}

func TestRequireMiddlewares(t *testing.T) {
	withSession := func(role domain.Role) *http.Request {
		req := testRequest(http.MethodDelete, "/api/comments/c1")
		return req.WithContext(domain.ContextWithSession(req.Context(), domain.Session{Email: "a@b.com", Role: role}))
	}

	cases := []struct {
		name       string
		middleware func(http.Handler) http.Handler
		req        *http.Request
		wantStatus int
	}{
		{name: "auth_anonymous", middleware: requireAuthMiddleware, req: testRequest(http.MethodPost, "/api/comments"), wantStatus: http.StatusUnauthorized},
		{name: "auth_user", middleware: requireAuthMiddleware, req: withSession(domain.RoleUser), wantStatus: http.StatusOK},
		{name: "moderator_anonymous", middleware: requireModeratorMiddleware, req: testRequest(http.MethodDelete, "/api/comments/c1"), wantStatus: http.StatusForbidden},
		{name: "moderator_user", middleware: requireModeratorMiddleware, req: withSession(domain.RoleUser), wantStatus: http.StatusForbidden},
		{name: "moderator_moderator", middleware: requireModeratorMiddleware, req: withSession(domain.RoleModerator), wantStatus: http.StatusOK},
		{name: "moderator_admin", middleware: requireModeratorMiddleware, req: withSession(domain.RoleAdmin), wantStatus: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.middleware(sessionEcho).ServeHTTP(rec, tc.req)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	cases := []struct {
		name            string
		allowed         []string
		origin          string
		method          string
		wantOrigin      string
		wantCredentials string
		wantNext        bool
	}{
		{name: "wildcard", origin: "http://any.test", method: http.MethodGet, wantOrigin: "*", wantNext: true},
		{name: "allowed_origin", allowed: []string{"http://localhost:5173"}, origin: "http://localhost:5173", method: http.MethodGet, wantOrigin: "http://localhost:5173", wantCredentials: "true", wantNext: true},
		{name: "other_origin", allowed: []string{"http://localhost:5173"}, origin: "http://evil.test", method: http.MethodGet, wantNext: true},
		{name: "preflight", allowed: []string{"http://localhost:5173"}, origin: "http://localhost:5173", method: http.MethodOptions, wantOrigin: "http://localhost:5173", wantCredentials: "true"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

			req := testRequest(tc.method, "/api/news")
			req.Header.Set("Origin", tc.origin)
			rec := httptest.NewRecorder()

			newCORSMiddleware(tc.allowed)(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tc.wantCredentials, rec.Header().Get("Access-Control-Allow-Credentials"))
			assert.Equal(t, tc.wantNext, called)
		})
	}
}
