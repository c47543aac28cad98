package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yolonews/localfeed/internal/datasources"
	"github.com/yolonews/localfeed/internal/domain"
)

var (
	// ErrForbidden is returned when the session's role may not perform the operation.
	ErrForbidden = errors.New("forbidden")

	ErrMissingArticleID = errors.New("article_id is required")
)

// PostCommentRequest is the request for the PostComment command.
type PostCommentRequest struct {
	Session   domain.Session
	ArticleID string
	Content   string
	ParentID  *string
}

type PostCommentResponse struct {
	ID string
}

var (
	_ Command[PostCommentRequest, PostCommentResponse]     = (*PostComment)(nil)
	_ Command[EditCommentRequest, Empty]                   = (*EditComment)(nil)
	_ Command[DeleteCommentRequest, DeleteCommentResponse] = (*DeleteComment)(nil)
)

// PostComment stores a new comment authored by the logged-in user.
type PostComment struct {
	Creator datasources.CommentCreator
	Now     func() time.Time
}

func NewPostComment(creator datasources.CommentCreator) *PostComment {
	return &PostComment{
		Creator: creator,
		Now:     time.Now,
	}
}

func (c *PostComment) Execute(ctx context.Context, req PostCommentRequest) (PostCommentResponse, error) {
	if req.ArticleID == "" {
		return PostCommentResponse{}, ErrMissingArticleID
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return PostCommentResponse{}, domain.ErrEmptyContent
	}

	var parentID *string
	if req.ParentID != nil && *req.ParentID != "" {
		parentID = req.ParentID
	}

	comment := domain.Comment{
		ID:        uuid.New().String(),
		ArticleID: req.ArticleID,
		Username:  req.Session.Email,
		Role:      domain.RoleFromClaim(string(req.Session.Role)),
		Content:   content,
		ParentID:  parentID,
		CreatedAt: c.Now().UTC(),
	}

	if err := c.Creator.CreateComment(ctx, comment); err != nil {
		return PostCommentResponse{}, fmt.Errorf("creating comment: %w", err)
	}

	return PostCommentResponse{ID: comment.ID}, nil
}

// EditCommentRequest is the request for the EditComment command.
type EditCommentRequest struct {
	Session   domain.Session
	CommentID string
	Content   string
}

// EditComment replaces a comment's content. Only moderators may edit.
type EditComment struct {
	Updater datasources.CommentContentUpdater
}

func NewEditComment(updater datasources.CommentContentUpdater) *EditComment {
	return &EditComment{Updater: updater}
}

func (c *EditComment) Execute(ctx context.Context, req EditCommentRequest) (Empty, error) {
	if !req.Session.Role.CanModerate() {
		return Empty{}, ErrForbidden
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return Empty{}, domain.ErrEmptyContent
	}

	if err := c.Updater.UpdateCommentContent(ctx, req.CommentID, content); err != nil {
		return Empty{}, fmt.Errorf("updating comment: %w", err)
	}
	return Empty{}, nil
}

// DeleteCommentRequest is the request for the DeleteComment command.
type DeleteCommentRequest struct {
	Session   domain.Session
	CommentID string
}

type DeleteCommentResponse struct {
	Deleted int64
}

// DeleteComment removes a comment. Only moderators may delete.
type DeleteComment struct {
	Deleter datasources.CommentDeleter
}

func NewDeleteComment(deleter datasources.CommentDeleter) *DeleteComment {
	return &DeleteComment{Deleter: deleter}
}

func (c *DeleteComment) Execute(ctx context.Context, req DeleteCommentRequest) (DeleteCommentResponse, error) {
	if !req.Session.Role.CanModerate() {
		return DeleteCommentResponse{}, ErrForbidden
	}

	deleted, err := c.Deleter.DeleteComment(ctx, req.CommentID)
	if err != nil {
		return DeleteCommentResponse{}, fmt.Errorf("deleting comment: %w", err)
	}

	logger := domain.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "comment deleted by moderator",
		"comment_id", req.CommentID,
		"moderator", req.Session.Email,
		"deleted", deleted,
	)

	return DeleteCommentResponse{Deleted: deleted}, nil
}
