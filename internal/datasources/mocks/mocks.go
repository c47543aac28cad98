// Package mocks holds testify mocks of the datasources interfaces.
package mocks

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/yolonews/localfeed/internal/datasources"
	"github.com/yolonews/localfeed/internal/domain"
)

var (
	_ datasources.CommentRepository = (*MockCommentRepository)(nil)
	_ datasources.SessionRepository = (*MockSessionRepository)(nil)
	_ datasources.NewsSearcher      = (*MockNewsSearcher)(nil)
)

type MockCommentRepository struct {
	mock.Mock
}

// NewMockCommentRepository creates a mock whose expectations are asserted when the test finishes.
func NewMockCommentRepository(t *testing.T) *MockCommentRepository {
	m := &MockCommentRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCommentRepository) ListArticleComments(ctx context.Context, articleID string) ([]domain.Comment, error) {
	args := m.Called(ctx, articleID)
	comments, _ := args.Get(0).([]domain.Comment)
	return comments, args.Error(1)
}

func (m *MockCommentRepository) CreateComment(ctx context.Context, comment domain.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockCommentRepository) DeleteComment(ctx context.Context, commentID string) (int64, error) {
	args := m.Called(ctx, commentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepository) UpdateCommentContent(ctx context.Context, commentID, content string) error {
	return m.Called(ctx, commentID, content).Error(0)
}

func (m *MockCommentRepository) CountCommentsByArticle(ctx context.Context) (domain.CommentCounts, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(domain.CommentCounts)
	return counts, args.Error(1)
}

type MockSessionRepository struct {
	mock.Mock
}

func NewMockSessionRepository(t *testing.T) *MockSessionRepository {
	m := &MockSessionRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSessionRepository) CreateSession(
	ctx context.Context,
	id, tokenHash string,
	session domain.Session,
	expiresAt time.Time,
) error {
	return m.Called(ctx, id, tokenHash, session, expiresAt).Error(0)
}

func (m *MockSessionRepository) GetSessionByHash(ctx context.Context, tokenHash string) (domain.StoredSession, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(domain.StoredSession), args.Error(1)
}

func (m *MockSessionRepository) RevokeSessionByHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

type MockNewsSearcher struct {
	mock.Mock
}

func NewMockNewsSearcher(t *testing.T) *MockNewsSearcher {
	m := &MockNewsSearcher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockNewsSearcher) SearchNews(ctx context.Context, page int) (json.RawMessage, error) {
	args := m.Called(ctx, page)
	payload, _ := args.Get(0).(json.RawMessage)
	return payload, args.Error(1)
}
