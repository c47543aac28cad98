package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/yolonews/localfeed/internal/command"
	"github.com/yolonews/localfeed/internal/datasources"
	"github.com/yolonews/localfeed/internal/feedview"
	"github.com/yolonews/localfeed/internal/transport/web/controller"
	"github.com/yolonews/localfeed/internal/transport/web/oidc"
)

// Config holds the settings the routes need beyond their datasources.
type Config struct {
	NewsAPIKey         string
	NewsCacheMaxAge    time.Duration
	RSSFeedBaseURL     string
	RSSFeedAuthorName  string
	RSSFeedAuthorEmail string
	CORSAllowedOrigins []string
	FrontendURL        string
	APIBaseURL         string
	SecureCookies      bool
	Location           *time.Location
}

// Commands groups the use cases the routes execute.
type Commands struct {
	PostComment   command.Command[command.PostCommentRequest, command.PostCommentResponse]
	EditComment   command.Command[command.EditCommentRequest, command.Empty]
	DeleteComment command.Command[command.DeleteCommentRequest, command.DeleteCommentResponse]
	CreateSession command.Command[command.CreateSessionRequest, command.CreateSessionResponse]
	EndSession    command.Command[string, command.Empty]
}

func MakeRouter(
	ctx context.Context,
	cfg Config,
	comments datasources.CommentRepository,
	news datasources.NewsSearcher,
	authFlow controller.AuthCodeFlow,
	idTokenValidator oidc.TokenValidator,
	pageClient feedview.Doer,
	authMiddleware func(http.Handler) http.Handler,
	cmds Commands,
) (http.Handler, error) {
	r := mux.NewRouter()
	r.Use(loggerMiddleware(ctx))
	r.Use(newCORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(authMiddleware)

	r.Handle("/", controller.FeedPage{
		Client:     pageClient,
		APIBaseURL: cfg.APIBaseURL,
		Location:   cfg.Location,
	}).Methods(http.MethodGet)

	r.Handle("/api/key", controller.APIKeyGet{
		APIKey: cfg.NewsAPIKey,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/api/news", controller.NewsGet{
		Searcher:    news,
		CacheMaxAge: cfg.NewsCacheMaxAge,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/api/user", controller.UserGet{}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/api/comments/counts", controller.CommentCounts{
		Counter: comments,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/api/comments", controller.CommentsList{
		Lister: comments,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/api/comments", requireAuthMiddleware(controller.CommentCreate{
		CreateCmd: cmds.PostComment,
	})).Methods(http.MethodPost)

	r.Handle("/api/comments/{comment_id}", requireModeratorMiddleware(controller.CommentDelete{
		DeleteCmd: cmds.DeleteComment,
	})).Methods(http.MethodDelete)

	r.Handle("/api/comments/{comment_id}/edit", requireModeratorMiddleware(controller.CommentEdit{
		EditCmd: cmds.EditComment,
	})).Methods(http.MethodPatch)

	r.Handle("/login", controller.Login{
		Flow:          authFlow,
		SecureCookies: cfg.SecureCookies,
	}).Methods(http.MethodGet)

	r.Handle("/authorize", controller.Authorize{
		Flow:             authFlow,
		IDTokenValidator: idTokenValidator,
		CreateSessionCmd: cmds.CreateSession,
		RedirectURL:      cfg.FrontendURL,
		SecureCookies:    cfg.SecureCookies,
	}).Methods(http.MethodGet)

	r.Handle("/logout", controller.Logout{
		EndSessionCmd: cmds.EndSession,
		RedirectURL:   cfg.FrontendURL,
		SecureCookies: cfg.SecureCookies,
	}).Methods(http.MethodGet)

	rssFeeds := []controller.RSS{
		{
			FeedHostname:    cfg.RSSFeedBaseURL,
			FeedPath:        "/rss",
			FeedAuthorName:  cfg.RSSFeedAuthorName,
			FeedAuthorEmail: cfg.RSSFeedAuthorEmail,
			Searcher:        news,
			CacheMaxAge:     cfg.NewsCacheMaxAge,
		},
	}

	for _, feed := range rssFeeds {
		r.Handle(feed.FeedPath, feed).Methods(http.MethodGet)
	}

	return r, nil
}
