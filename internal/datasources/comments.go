package datasources

import (
	"context"

	"github.com/yolonews/localfeed/internal/domain"
)

type CommentRepository interface {
	CommentLister
	CommentCreator
	CommentDeleter
	CommentContentUpdater
	CommentCounter
}

// CommentLister lists an article's comments, oldest first.
type CommentLister interface {
	ListArticleComments(ctx context.Context, articleID string) ([]domain.Comment, error)
}

type CommentCreator interface {
	CreateComment(ctx context.Context, comment domain.Comment) error
}

// CommentDeleter deletes a comment, returning the number of rows removed.
type CommentDeleter interface {
	DeleteComment(ctx context.Context, commentID string) (int64, error)
}

// CommentContentUpdater replaces a comment's content.
// Returns domain.ErrCommentNotFound if no such comment exists.
type CommentContentUpdater interface {
	UpdateCommentContent(ctx context.Context, commentID, content string) error
}

type CommentCounter interface {
	CountCommentsByArticle(ctx context.Context) (domain.CommentCounts, error)
}
