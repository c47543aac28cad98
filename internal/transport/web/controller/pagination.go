package controller

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	defaultPage = 1
	maxPage     = 100
)

// parsePage reads the provider page number from the query string.
func parsePage(q url.Values) (int, error) {
	if !q.Has("page") {
		return defaultPage, nil
	}

	p, err := strconv.ParseInt(q.Get("page"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("unable to parse page from query: %w", err)
	}
	if p < 0 || p > maxPage {
		return 0, fmt.Errorf("invalid page value [%d]", p)
	}
	return int(p), nil
}
