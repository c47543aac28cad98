package domain

import (
	"errors"
	"time"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrEmptyContent    = errors.New("content cannot be empty")
)

// Comment is a user comment attached to an article, optionally replying to another comment.
type Comment struct {
	ID        string    `json:"_id"`
	ArticleID string    `json:"-"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	ParentID  *string   `json:"parent_id"`
	CreatedAt time.Time `json:"-"`
}

// CommentCounts maps article IDs to their number of comments. Missing keys count as zero.
type CommentCounts map[string]int

func (c CommentCounts) Count(articleID string) int {
	return c[articleID]
}
