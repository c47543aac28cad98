package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Article is one news document normalised for display.
type Article struct {
	ID       string      `json:"id"`
	Headline string      `json:"headline"`
	Snippet  string      `json:"snippet"`
	URL      string      `json:"url"`
	Media    []MediaItem `json:"media"`
}

type MediaItem struct {
	URL     string `json:"url"`
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
	Caption string `json:"caption"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// ErrMissingDocs is returned when a provider payload lacks the response.docs list.
var ErrMissingDocs = errors.New("provider payload has no response.docs list")

type articleSearchPayload struct {
	Response *struct {
		Docs *[]json.RawMessage `json:"docs"`
	} `json:"response"`
}

// ParseArticleSearch extracts articles from an Article Search payload, preserving provider order.
// Only a missing response.docs is an error; malformed fields inside a document default to zero values.
func ParseArticleSearch(data []byte) ([]Article, error) {
	var payload articleSearchPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding article search payload: %w", err)
	}
	if payload.Response == nil || payload.Response.Docs == nil {
		return nil, ErrMissingDocs
	}

	docs := *payload.Response.Docs
	articles := make([]Article, 0, len(docs))
	for _, doc := range docs {
		articles = append(articles, articleFromDocument(doc))
	}
	return articles, nil
}

func articleFromDocument(doc json.RawMessage) Article {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return Article{Media: []MediaItem{}}
	}

	var headline struct {
		Main string `json:"main"`
	}
	_ = json.Unmarshal(fields["headline"], &headline)

	return Article{
		ID:       stringField(fields["_id"]),
		Headline: headline.Main,
		Snippet:  stringField(fields["snippet"]),
		URL:      stringField(fields["web_url"]),
		Media:    mediaFromField(fields["multimedia"]),
	}
}

func stringField(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func mediaFromField(raw json.RawMessage) []MediaItem {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []MediaItem{}
	}

	media := make([]MediaItem, 0, len(items))
	for _, item := range items {
		var m MediaItem
		if err := json.Unmarshal(item, &m); err != nil {
			continue
		}
		media = append(media, m)
	}
	return media
}
