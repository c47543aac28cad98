package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/yolonews/localfeed/internal/command"
	"github.com/yolonews/localfeed/internal/datasources"
	"github.com/yolonews/localfeed/internal/domain"
)

// CommentsList handles GET /api/comments?article_id=...
type CommentsList struct {
	Lister datasources.CommentLister
}

func (c CommentsList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	articleID := r.URL.Query().Get("article_id")
	if articleID == "" {
		writeJSONError(ctx, w, http.StatusBadRequest, command.ErrMissingArticleID.Error())
		return
	}

	comments, err := c.Lister.ListArticleComments(ctx, articleID)
	if err != nil {
		logger.ErrorContext(ctx, "unable to list comments", "error", err, "article_id", articleID)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, comments)
}

// CommentCreateRequest is the JSON request body for posting a comment.
type CommentCreateRequest struct {
	ArticleID string  `json:"article_id"`
	Content   string  `json:"content"`
	ParentID  *string `json:"parent_id,omitempty"`
}

// CommentCreate handles POST /api/comments.
type CommentCreate struct {
	CreateCmd command.Command[command.PostCommentRequest, command.PostCommentResponse]
}

func (c CommentCreate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	session := domain.SessionFromContext(ctx)
	if session == nil {
		writeJSONError(ctx, w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var reqBody CommentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		logger.ErrorContext(ctx, "unable to parse request body", "error", err)
		writeJSONError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := c.CreateCmd.Execute(ctx, command.PostCommentRequest{
		Session:   *session,
		ArticleID: reqBody.ArticleID,
		Content:   reqBody.Content,
		ParentID:  reqBody.ParentID,
	})
	if errors.Is(err, domain.ErrEmptyContent) || errors.Is(err, command.ErrMissingArticleID) {
		writeJSONError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "unable to post comment", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]string{"id": result.ID})
}

// CommentDelete handles DELETE /api/comments/{comment_id}.
type CommentDelete struct {
	DeleteCmd command.Command[command.DeleteCommentRequest, command.DeleteCommentResponse]
}

func (c CommentDelete) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	commentID := mux.Vars(r)["comment_id"]
	logger := domain.LoggerFromContext(ctx).With("comment_id", commentID)

	session := domain.SessionFromContext(ctx)
	if session == nil {
		writeJSONError(ctx, w, http.StatusForbidden, "Forbidden")
		return
	}

	result, err := c.DeleteCmd.Execute(ctx, command.DeleteCommentRequest{
		Session:   *session,
		CommentID: commentID,
	})
	if errors.Is(err, command.ErrForbidden) {
		writeJSONError(ctx, w, http.StatusForbidden, "Forbidden")
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "unable to delete comment", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]int64{"deleted": result.Deleted})
}

// CommentEditRequest is the JSON request body for editing a comment.
type CommentEditRequest struct {
	Content string `json:"content"`
}

// CommentEdit handles PATCH /api/comments/{comment_id}/edit.
type CommentEdit struct {
	EditCmd command.Command[command.EditCommentRequest, command.Empty]
}

func (c CommentEdit) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	commentID := mux.Vars(r)["comment_id"]
	logger := domain.LoggerFromContext(ctx).With("comment_id", commentID)

	session := domain.SessionFromContext(ctx)
	if session == nil {
		writeJSONError(ctx, w, http.StatusForbidden, "Forbidden")
		return
	}

	var reqBody CommentEditRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		logger.ErrorContext(ctx, "unable to parse request body", "error", err)
		writeJSONError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, err := c.EditCmd.Execute(ctx, command.EditCommentRequest{
		Session:   *session,
		CommentID: commentID,
		Content:   reqBody.Content,
	})
	switch {
	case errors.Is(err, command.ErrForbidden):
		writeJSONError(ctx, w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, domain.ErrEmptyContent):
		writeJSONError(ctx, w, http.StatusBadRequest, "Content cannot be empty")
	case errors.Is(err, domain.ErrCommentNotFound):
		writeJSONError(ctx, w, http.StatusNotFound, "Comment not found")
	case err != nil:
		logger.ErrorContext(ctx, "unable to edit comment", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
	default:
		writeJSON(ctx, w, http.StatusOK, map[string]string{"message": "Comment updated"})
	}
}

// CommentCounts handles GET /api/comments/counts.
type CommentCounts struct {
	Counter datasources.CommentCounter
}

func (c CommentCounts) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	counts, err := c.Counter.CountCommentsByArticle(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "unable to count comments", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, counts)
}
