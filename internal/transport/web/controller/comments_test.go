package controller

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/yolonews/localfeed/internal/command"
	"github.com/yolonews/localfeed/internal/datasources/mocks"
	"github.com/yolonews/localfeed/internal/domain"
)

var (
	testUser      = domain.Session{Email: "a@b.com", Role: domain.RoleUser}
	testModerator = domain.Session{Email: "mod@b.com", Role: domain.RoleModerator}
)

func TestCommentsList_ServeHTTP(t *testing.T) {
	parent := "c1"

	cases := []struct {
		name        string
		queryString string
		comments    []domain.Comment
		listErr     error
		skipList    bool
		wantStatus  int
		wantBody    string
	}{
		{
			name:        "lists_comments",
			queryString: "article_id=nyt://article/1",
			comments: []domain.Comment{
				{ID: "c1", ArticleID: "nyt://article/1", Username: "a@b.com", Role: domain.RoleUser, Content: "First"},
				{ID: "c2", ArticleID: "nyt://article/1", Username: "mod@b.com", Role: domain.RoleModerator, Content: "Reply", ParentID: &parent},
			},
			wantStatus: http.StatusOK,
			wantBody: `[
				{"_id":"c1","username":"a@b.com","role":"user","content":"First","parent_id":null},
				{"_id":"c2","username":"mod@b.com","role":"moderator","content":"Reply","parent_id":"c1"}
			]`,
		},
		{
			name:        "no_comments",
			queryString: "article_id=nyt://article/2",
			comments:    []domain.Comment{},
			wantStatus:  http.StatusOK,
			wantBody:    `[]`,
		},
		{
			name:       "missing_article_id",
			skipList:   true,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"article_id is required"}`,
		},
		{
			name:        "list_error",
			queryString: "article_id=nyt://article/1",
			listErr:     errors.New("database error"),
			wantStatus:  http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := mocks.NewMockCommentRepository(t)
			if !tc.skipList {
				repo.On("ListArticleComments", mock.Anything, mock.AnythingOfType("string")).Return(tc.comments, tc.listErr)
			}

			req := testContext()(httptest.NewRequest(http.MethodGet, "/api/comments?"+tc.queryString, nil))
			rec := httptest.NewRecorder()

			CommentsList{Lister: repo}.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantBody != "" {
				assert.JSONEq(t, tc.wantBody, rec.Body.String())
			}
		})
	}
}

func TestCommentCreate_ServeHTTP(t *testing.T) {
	cases := []struct {
		name         string
		setupContext func(r *http.Request) *http.Request
		body         string
		createErr    error
		wantCreate   bool
		wantStatus   int
	}{
		{
			name:         "creates_comment",
			setupContext: testContextWithSession(testUser),
			body:         `{"article_id":"nyt://article/1","content":"Nice"}`,
			wantCreate:   true,
			wantStatus:   http.StatusOK,
		},
		{
			name:         "anonymous",
			setupContext: testContext(),
			body:         `{"article_id":"nyt://article/1","content":"Nice"}`,
			wantStatus:   http.StatusUnauthorized,
		},
		{
			name:         "invalid_body",
			setupContext: testContextWithSession(testUser),
			body:         `{`,
			wantStatus:   http.StatusBadRequest,
		},
		{
			name:         "empty_content",
			setupContext: testContextWithSession(testUser),
			body:         `{"article_id":"nyt://article/1","content":"  "}`,
			wantStatus:   http.StatusBadRequest,
		},
		{
			name:         "missing_article",
			setupContext: testContextWithSession(testUser),
			body:         `{"content":"Nice"}`,
			wantStatus:   http.StatusBadRequest,
		},
		{
			name:         "create_error",
			setupContext: testContextWithSession(testUser),
			body:         `{"article_id":"nyt://article/1","content":"Nice"}`,
			createErr:    errors.New("database error"),
			wantCreate:   true,
			wantStatus:   http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := mocks.NewMockCommentRepository(t)
			if tc.wantCreate {
				repo.On("CreateComment", mock.Anything, mock.MatchedBy(func(c domain.Comment) bool {
					return c.ArticleID == "nyt://article/1" && c.Username == testUser.Email && c.Content == "Nice"
				})).Return(tc.createErr)
			}

			cmd := command.NewPostComment(repo)
			cmd.Now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

			req := tc.setupContext(httptest.NewRequest(http.MethodPost, "/api/comments", strings.NewReader(tc.body)))
			rec := httptest.NewRecorder()

			CommentCreate{CreateCmd: cmd}.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"id":"`)
			}
		})
	}
}

func TestCommentDelete_ServeHTTP(t *testing.T) {
	cases := []struct {
		name         string
		setupContext func(r *http.Request) *http.Request
		deleted      int64
		deleteErr    error
		wantDelete   bool
		wantStatus   int
		wantBody     string
	}{
		{
			name:         "moderator_deletes",
			setupContext: testContextWithSession(testModerator),
			deleted:      1,
			wantDelete:   true,
			wantStatus:   http.StatusOK,
			wantBody:     `{"deleted":1}`,
		},
		{
			name:         "user_forbidden",
			setupContext: testContextWithSession(testUser),
			wantStatus:   http.StatusForbidden,
			wantBody:     `{"error":"Forbidden"}`,
		},
		{
			name:         "anonymous_forbidden",
			setupContext: testContext(),
			wantStatus:   http.StatusForbidden,
			wantBody:     `{"error":"Forbidden"}`,
		},
		{
			name:         "delete_error",
			setupContext: testContextWithSession(testModerator),
			deleteErr:    errors.New("database error"),
			wantDelete:   true,
			wantStatus:   http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := mocks.NewMockCommentRepository(t)
			if tc.wantDelete {
				repo.On("DeleteComment", mock.Anything, "c1").Return(tc.deleted, tc.deleteErr)
			}

			req := tc.setupContext(httptest.NewRequest(http.MethodDelete, "/api/comments/c1", nil))
			req = mux.SetURLVars(req, map[string]string{"comment_id": "c1"})
			rec := httptest.NewRecorder()

			CommentDelete{DeleteCmd: command.NewDeleteComment(repo)}.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantBody != "" {
				assert.JSONEq(t, tc.wantBody, rec.Body.String())
			}
		})
	}
}

func TestCommentEdit_ServeHTTP(t *testing.T) {
	cases := []struct {
		name         string
		setupContext func(r *http.Request) *http.Request
		body         string
		updateErr    error
		wantUpdate   bool
		wantStatus   int
		wantBody     string
	}{
		{
			name:         "moderator_edits",
			setupContext: testContextWithSession(testModerator),
			body:         `{"content":" Edited "}`,
			wantUpdate:   true,
			wantStatus:   http.StatusOK,
			wantBody:     `{"message":"Comment updated"}`,
		},
		{
			name:         "empty_content",
			setupContext: testContextWithSession(testModerator),
			body:         `{"content":""}`,
			wantStatus:   http.StatusBadRequest,
			wantBody:     `{"error":"Content cannot be empty"}`,
		},
		{
			name:         "user_forbidden",
			setupContext: testContextWithSession(testUser),
			body:         `{"content":"Edited"}`,
			wantStatus:   http.StatusForbidden,
		},
		{
			name:         "not_found",
			setupContext: testContextWithSession(testModerator),
			body:         `{"content":"Edited"}`,
			updateErr:    domain.ErrCommentNotFound,
			wantUpdate:   true,
			wantStatus:   http.StatusNotFound,
		},
		{
			name:         "invalid_body",
			setupContext: testContextWithSession(testModerator),
			body:         `nope`,
			wantStatus:   http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := mocks.NewMockCommentRepository(t)
			if tc.wantUpdate {
				repo.On("UpdateCommentContent", mock.Anything, "c1", "Edited").Return(tc.updateErr)
			}

			req := tc.setupContext(httptest.NewRequest(http.MethodPatch, "/api/comments/c1/edit", strings.NewReader(tc.body)))
			req = mux.SetURLVars(req, map[string]string{"comment_id": "c1"})
			rec := httptest.NewRecorder()

			CommentEdit{EditCmd: command.NewEditComment(repo)}.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantBody != "" {
				assert.JSONEq(t, tc.wantBody, rec.Body.String())
			}
		})
	}
}

func TestCommentCounts_ServeHTTP(t *testing.T) {
	t.Run("counts", func(t *testing.T) {
		repo := mocks.NewMockCommentRepository(t)
		repo.On("CountCommentsByArticle", mock.Anything).Return(domain.CommentCounts{"nyt://article/1": 2}, nil)

		req := testContext()(httptest.NewRequest(http.MethodGet, "/api/comments/counts", nil))
		rec := httptest.NewRecorder()

		CommentCounts{Counter: repo}.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"nyt://article/1":2}`, rec.Body.String())
	})

	t.Run("error", func(t *testing.T) {
		repo := mocks.NewMockCommentRepository(t)
		repo.On("CountCommentsByArticle", mock.Anything).Return(nil, errors.New("database error"))

		req := testContext()(httptest.NewRequest(http.MethodGet, "/api/comments/counts", nil))
		rec := httptest.NewRecorder()

		CommentCounts{Counter: repo}.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
