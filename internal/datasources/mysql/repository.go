package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/yolonews/localfeed/internal/datasources"
	"github.com/yolonews/localfeed/internal/domain"
)

var _ datasources.CommentRepository = (*Repository)(nil)
var _ datasources.SessionRepository = (*Repository)(nil)

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListArticleComments(ctx context.Context, articleID string) ([]domain.Comment, error) {
	sb := sqlbuilder.Select("id", "article_id", "username", "role", "content", "parent_id", "created_at")
	sb.From("comments")
	sb.Where(sb.Equal("article_id", articleID))
	sb.OrderBy("created_at", "id")

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running comments query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		var role string
		var parentID sql.NullString
		if err := rows.Scan(
			&c.ID,
			&c.ArticleID,
			&c.Username,
			&role,
			&c.Content,
			&parentID,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning comments: %w", err)
		}
		c.Role = domain.Role(role)
		if parentID.Valid {
			c.ParentID = &parentID.String
		}
		comments = append(comments, c)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("closing rows iterator: %w", err)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return comments, nil
}

func (r *Repository) CreateComment(ctx context.Context, comment domain.Comment) error {
	var parentID sql.NullString
	if comment.ParentID != nil {
		parentID = sql.NullString{String: *comment.ParentID, Valid: true}
	}

	ib := sqlbuilder.InsertInto("comments")
	ib.Cols("id", "article_id", "username", "role", "content", "parent_id", "created_at")
	ib.Values(
		comment.ID,
		comment.ArticleID,
		comment.Username,
		string(comment.Role),
		comment.Content,
		parentID,
		comment.CreatedAt,
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}
	return nil
}

func (r *Repository) DeleteComment(ctx context.Context, commentID string) (int64, error) {
	dlb := sqlbuilder.DeleteFrom("comments")
	dlb.Where(dlb.Equal("id", commentID))

	query, args := dlb.Build()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting comment: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading deleted row count: %w", err)
	}
	return deleted, nil
}

// UpdateCommentContent checks for the comment inside the same transaction as the update,
// since MySQL reports zero affected rows when the content is unchanged.
func (r *Repository) UpdateCommentContent(ctx context.Context, commentID, content string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	sb := sqlbuilder.Select("COUNT(*)")
	sb.From("comments")
	sb.Where(sb.Equal("id", commentID))
	sb.ForUpdate()

	query, args := sb.Build()
	var count int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return fmt.Errorf("checking comment exists: %w", err)
	}
	if count == 0 {
		return domain.ErrCommentNotFound
	}

	ub := sqlbuilder.Update("comments")
	ub.Set(ub.Assign("content", content))
	ub.Where(ub.Equal("id", commentID))

	query, args = ub.Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating comment content: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (r *Repository) CountCommentsByArticle(ctx context.Context) (domain.CommentCounts, error) {
	sb := sqlbuilder.Select("article_id", "COUNT(*)")
	sb.From("comments")
	sb.GroupBy("article_id")

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running comment counts query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := domain.CommentCounts{}
	for rows.Next() {
		var articleID string
		var count int
		if err := rows.Scan(&articleID, &count); err != nil {
			return nil, fmt.Errorf("scanning comment counts: %w", err)
		}
		counts[articleID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return counts, nil
}

func (r *Repository) CreateSession(
	ctx context.Context,
	id, tokenHash string,
	session domain.Session,
	expiresAt time.Time,
) error {
	ib := sqlbuilder.InsertInto("sessions")
	ib.Cols("id", "token_hash", "email", "role", "created_at", "expires_at")
	ib.Values(id, tokenHash, session.Email, string(session.Role), time.Now().UTC(), expiresAt.UTC())

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (r *Repository) GetSessionByHash(ctx context.Context, tokenHash string) (domain.StoredSession, error) {
	sb := sqlbuilder.Select("id", "token_hash", "email", "role", "created_at", "expires_at", "revoked_at")
	sb.From("sessions")
	sb.Where(sb.Equal("token_hash", tokenHash))

	query, args := sb.Build()
	var s domain.StoredSession
	var role string
	var revokedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.TokenHash,
		&s.Session.Email,
		&role,
		&s.CreatedAt,
		&s.ExpiresAt,
		&revokedAt,
	)
	if err != nil {
		return domain.StoredSession{}, fmt.Errorf("fetching session by hash: %w", err)
	}

	s.Session.Role = domain.Role(role)
	if revokedAt.Valid {
		s.RevokedAt = &revokedAt.Time
	}
	return s, nil
}

func (r *Repository) RevokeSessionByHash(ctx context.Context, tokenHash string) error {
	ub := sqlbuilder.Update("sessions")
	ub.Set(ub.Assign("revoked_at", time.Now().UTC()))
	ub.Where(ub.Equal("token_hash", tokenHash), ub.IsNull("revoked_at"))

	query, args := ub.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}
