package datasources

import (
	"context"
	"encoding/json"
)

// NewsSearcher fetches one page of the news provider's search results, returned verbatim.
type NewsSearcher interface {
	SearchNews(ctx context.Context, page int) (json.RawMessage, error)
}

// NullNewsSearcher is a null implementation of NewsSearcher that always finds nothing.
type NullNewsSearcher struct{}

var _ NewsSearcher = NullNewsSearcher{}

func (NullNewsSearcher) SearchNews(_ context.Context, _ int) (json.RawMessage, error) {
	return json.RawMessage(`{"status":"OK","response":{"docs":[],"meta":{"hits":0,"offset":0}}}`), nil
}
