package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/yolonews/localfeed/internal/datasources"
	"github.com/yolonews/localfeed/internal/datasources/nytimes"
	"github.com/yolonews/localfeed/internal/domain"
)

// NewsGet proxies the news provider's search results through unchanged.
type NewsGet struct {
	Searcher    datasources.NewsSearcher
	CacheMaxAge time.Duration
}

func (c NewsGet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	page, err := parsePage(r.URL.Query())
	if err != nil {
		logger.ErrorContext(ctx, "unable to parse page in query string", "error", err)
		writeJSONError(ctx, w, http.StatusBadRequest, "invalid page")
		return
	}

	payload, err := c.Searcher.SearchNews(ctx, page)
	if errors.Is(err, nytimes.ErrMissingAPIKey) {
		logger.ErrorContext(ctx, "news provider API key is not configured")
		writeJSONError(ctx, w, http.StatusInternalServerError, "API key missing")
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "unable to fetch news", "error", err, "page", page)
		writeJSONError(ctx, w, http.StatusInternalServerError, "unable to fetch news")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.CacheMaxAge.Seconds())))
	if _, err := w.Write(payload); err != nil {
		logger.ErrorContext(ctx, "unable to write news to response", "error", err)
	}
}

// APIKeyGet exposes the news provider API key to frontends that query the provider directly.
type APIKeyGet struct {
	APIKey string
}

func (c APIKeyGet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"apiKey": c.APIKey})
}
