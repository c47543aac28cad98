package datasources

import (
	"context"
	"time"

	"github.com/yolonews/localfeed/internal/domain"
)

type SessionCreator interface {
	CreateSession(
		ctx context.Context,
		id, tokenHash string,
		session domain.Session,
		expiresAt time.Time,
	) error
}

// SessionByHashGetter retrieves a stored session by the hash of its cookie token.
type SessionByHashGetter interface {
	GetSessionByHash(ctx context.Context, tokenHash string) (domain.StoredSession, error)
}

type SessionRevoker interface {
	RevokeSessionByHash(ctx context.Context, tokenHash string) error
}

// SessionRepository combines all login session operations.
type SessionRepository interface {
	SessionCreator
	SessionByHashGetter
	SessionRevoker
}
