package command

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yolonews/localfeed/internal/datasources"
	"github.com/yolonews/localfeed/internal/domain"
)

// SessionCookieName is the cookie holding the session token.
const SessionCookieName = "session"

// HashSessionToken returns the hex SHA256 under which a session token is stored.
func HashSessionToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// CreateSessionRequest is the request for the CreateSession command.
type CreateSessionRequest struct {
	Session domain.Session
}

// CreateSessionResponse is the response from the CreateSession command.
type CreateSessionResponse struct {
	Token     string
	ExpiresAt time.Time
}

var (
	_ Command[CreateSessionRequest, CreateSessionResponse] = (*CreateSession)(nil)
	_ Command[string, Empty]                               = (*EndSession)(nil)
)

// CreateSession starts a server-side login session after the identity provider has vouched for the user.
type CreateSession struct {
	SessionCreator datasources.SessionCreator
	TTL            time.Duration
}

// NewCreateSession creates a properly initialized CreateSession command.
func NewCreateSession(sessionCreator datasources.SessionCreator, ttl time.Duration) *CreateSession {
	return &CreateSession{
		SessionCreator: sessionCreator,
		TTL:            ttl,
	}
}

// Execute stores the session and returns the cookie token. Only the token's hash is persisted.
func (c *CreateSession) Execute(ctx context.Context, req CreateSessionRequest) (CreateSessionResponse, error) {
	if req.Session.Email == "" {
		return CreateSessionResponse{}, fmt.Errorf("session has no email")
	}

	// 32 bytes = 64 hex chars
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return CreateSessionResponse{}, fmt.Errorf("generating random token: %w", err)
	}
	token := hex.EncodeToString(tokenBytes)
	expiresAt := time.Now().Add(c.TTL)

	if err := c.SessionCreator.CreateSession(
		ctx, uuid.New().String(), HashSessionToken(token), req.Session, expiresAt,
	); err != nil {
		return CreateSessionResponse{}, fmt.Errorf("creating session: %w", err)
	}

	return CreateSessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// EndSession revokes the session behind a cookie token.
type EndSession struct {
	SessionRevoker datasources.SessionRevoker
}

func NewEndSession(sessionRevoker datasources.SessionRevoker) *EndSession {
	return &EndSession{SessionRevoker: sessionRevoker}
}

func (c *EndSession) Execute(ctx context.Context, token string) (Empty, error) {
	if token == "" {
		return Empty{}, nil
	}
	if err := c.SessionRevoker.RevokeSessionByHash(ctx, HashSessionToken(token)); err != nil {
		return Empty{}, fmt.Errorf("revoking session: %w", err)
	}
	return Empty{}, nil
}
