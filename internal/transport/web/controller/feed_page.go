package controller

import (
	"bytes"
	"net/http"
	"time"

	"github.com/yolonews/localfeed/internal/command"
	"github.com/yolonews/localfeed/internal/domain"
	"github.com/yolonews/localfeed/internal/feedview"
)

// FeedPage renders the front page server-side. It loads the page through the public API,
// forwarding the caller's session cookie, exactly as a browser client would.
type FeedPage struct {
	Client     feedview.Doer
	APIBaseURL string
	Location   *time.Location
}

func (c FeedPage) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	opts := []feedview.Option{
		feedview.WithRequestDecorator(func(req *http.Request) {
			if cookie, err := r.Cookie(command.SessionCookieName); err == nil {
				req.AddCookie(cookie)
			}
		}),
	}
	if c.Location != nil {
		opts = append(opts, feedview.WithLocation(c.Location))
	}

	view := feedview.New(c.Client, c.APIBaseURL, opts...)
	defer view.Unmount()
	view.Load(ctx)

	var buf bytes.Buffer
	if err := view.Render(&buf); err != nil {
		logger.ErrorContext(ctx, "unable to render feed page", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.ErrorContext(ctx, "unable to write feed page to response", "error", err)
	}
}
