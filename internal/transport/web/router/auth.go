package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/yolonews/localfeed/internal/command"
	"github.com/yolonews/localfeed/internal/datasources"
	"github.com/yolonews/localfeed/internal/domain"
	"github.com/yolonews/localfeed/internal/transport/web/oidc"
)

// AuthResult represents the result of a successful authentication.
type AuthResult struct {
	Session domain.Session
	Method  domain.AuthMethod
}

// AuthValidator attempts to validate authentication from a request.
// Returns nil, nil if this validator doesn't apply (wrong auth type).
// Returns AuthResult, nil on success.
// Returns nil, error if validation was attempted but failed.
type AuthValidator func(r *http.Request) (*AuthResult, error)

// NewAuthMiddleware creates a middleware that validates requests using multiple authentication methods.
// Requests no validator applies to continue anonymously; endpoints that need a session wrap
// themselves in requireAuthMiddleware.
func NewAuthMiddleware(validators []AuthValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, validate := range validators {
				result, err := validate(r)
				if result == nil && err == nil {
					continue
				}

				if err != nil {
					logger := domain.LoggerFromContext(r.Context())
					logger.WarnContext(r.Context(), "authentication failed", "error", err)
					writeJSONError(w, http.StatusUnauthorized, err.Error())
					return
				}

				ctx := domain.ContextWithSession(r.Context(), result.Session)
				ctx = domain.ContextWithAuthMethod(ctx, result.Method)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// NewSessionCookieValidator authenticates browsers by their session cookie.
// Stale cookies (unknown, revoked or expired sessions) are treated as anonymous rather than
// rejected, so a logged-out browser can still read the public feed.
func NewSessionCookieValidator(sessions datasources.SessionByHashGetter) AuthValidator {
	return func(r *http.Request) (*AuthResult, error) {
		cookie, err := r.Cookie(command.SessionCookieName)
		if err != nil || cookie.Value == "" {
			return nil, nil
		}

		stored, err := sessions.GetSessionByHash(r.Context(), command.HashSessionToken(cookie.Value))
		if err != nil {
			logger := domain.LoggerFromContext(r.Context())
			logger.DebugContext(r.Context(), "session cookie does not match a session", "error", err)
			return nil, nil
		}
		if !stored.IsActive() {
			return nil, nil
		}

		return &AuthResult{
			Session: stored.Session,
			Method:  domain.AuthMethodSessionCookie,
		}, nil
	}
}

// NewBearerTokenValidator authenticates API clients presenting an ID token from the OIDC provider.
func NewBearerTokenValidator(tokenValidator oidc.TokenValidator) AuthValidator {
	return func(r *http.Request) (*AuthResult, error) {
		token, err := jwtmiddleware.AuthHeaderTokenExtractor(r)
		if err != nil {
			return nil, fmt.Errorf("malformed authorization header")
		}
		if token == "" {
			return nil, nil
		}

		claims, err := oidc.ClaimsFromToken(r.Context(), tokenValidator, token)
		if err != nil {
			return nil, errors.New("invalid JWT token")
		}

		return &AuthResult{
			Session: claims.Session(),
			Method:  domain.AuthMethodBearerToken,
		}, nil
	}
}

// loggerMiddleware attaches the request's method and path to the context logger.
func loggerMiddleware(ctx context.Context) func(http.Handler) http.Handler {
	base := domain.LoggerFromContext(ctx)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base.With("method", r.Method, "path", r.URL.Path)
			next.ServeHTTP(w, r.WithContext(domain.ContextWithLogger(r.Context(), logger)))
		})
	}
}
