package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	"github.com/yolonews/localfeed/internal/datasources"
	"github.com/yolonews/localfeed/internal/domain"
)

type RSS struct {
	FeedHostname    string
	FeedPath        string
	FeedAuthorName  string
	FeedAuthorEmail string
	Searcher        datasources.NewsSearcher
	CacheMaxAge     time.Duration
}

func (c RSS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	feed := &feeds.Feed{
		Title:       "Sacramento Area News",
		Link:        &feeds.Link{Href: c.FeedHostname + c.FeedPath},
		Description: "Latest news about Sacramento, Davis and Yolo County",
		Author:      &feeds.Author{Name: c.FeedAuthorName, Email: c.FeedAuthorEmail},
		Created:     time.Now(),
	}

	page, err := parsePage(r.URL.Query())
	if err != nil {
		logger.ErrorContext(ctx, "unable to parse page in query string", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	payload, err := c.Searcher.SearchNews(ctx, page)
	if err != nil {
		logger.ErrorContext(ctx, "unable to fetch news for feed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	articles, err := domain.ParseArticleSearch(payload)
	if err != nil {
		logger.ErrorContext(ctx, "unable to parse news for feed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	for _, a := range articles {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          a.ID,
			IsPermaLink: "false",
			Title:       a.Headline,
			Link:        &feeds.Link{Href: a.URL},
			Description: a.Snippet,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		logger.ErrorContext(ctx, "unable to format feed as RSS", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.CacheMaxAge.Seconds())))

	if _, err := w.Write([]byte(rss)); err != nil {
		logger.ErrorContext(ctx, "unable to write feed to response", "error", err)
	}
}
