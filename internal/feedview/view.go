// Package feedview loads the session, news and comment counts behind the front page
// and renders them. Each loader owns one region of the page, so a failure in one
// never changes what another region shows.
package feedview

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yolonews/localfeed/internal/domain"
	"golang.org/x/sync/errgroup"
)

const (
	sessionPath = "/api/user"
	newsPath    = "/api/news"
	countsPath  = "/api/comments/counts"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type View struct {
	client   Doer
	baseURL  string
	now      func() time.Time
	location *time.Location
	decorate func(*http.Request)

	mu        sync.Mutex
	state     State
	mounted   bool
	unmounted bool
	cancel    context.CancelFunc
	done      chan struct{}
}

type Option func(*View)

// WithClock overrides the wall clock used for the date header.
func WithClock(now func() time.Time) Option {
	return func(v *View) { v.now = now }
}

// WithLocation sets the time zone the date header is computed in.
func WithLocation(loc *time.Location) Option {
	return func(v *View) { v.location = loc }
}

// WithRequestDecorator lets callers attach credentials, such as a session cookie, to every request.
func WithRequestDecorator(decorate func(*http.Request)) Option {
	return func(v *View) { v.decorate = decorate }
}

func New(client Doer, baseURL string, opts ...Option) *View {
	v := &View{
		client:   client,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		now:      time.Now,
		location: time.Local,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Mount starts the load cycle and returns immediately. The session and news loaders run
// concurrently; the counts loader starts once the news loader has finished, however it finished.
// Only the first call has any effect.
func (v *View) Mount(ctx context.Context) {
	v.mu.Lock()
	if v.mounted || v.unmounted {
		v.mu.Unlock()
		return
	}
	v.mounted = true
	ctx, v.cancel = context.WithCancel(ctx)
	v.mu.Unlock()

	go func() {
		defer close(v.done)
		defer v.cancel()

		var grp errgroup.Group
		grp.Go(func() error {
			v.loadSession(ctx)
			return nil
		})
		grp.Go(func() error {
			v.loadArticles(ctx)
			v.loadCounts(ctx)
			return nil
		})
		_ = grp.Wait()
	}()
}

// Wait blocks until every loader has finished. It returns immediately if the view was never mounted.
func (v *View) Wait() {
	v.mu.Lock()
	mounted := v.mounted
	v.mu.Unlock()

	if mounted {
		<-v.done
	}
}

// Load mounts the view and waits for all loaders.
func (v *View) Load(ctx context.Context) State {
	v.Mount(ctx)
	v.Wait()
	return v.State()
}

// Unmount cancels in-flight requests. Results that arrive afterwards are discarded.
func (v *View) Unmount() {
	v.mu.Lock()
	v.unmounted = true
	cancel := v.cancel
	v.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.clone()
}

// Today is the date header for the view's clock and location.
func (v *View) Today() string {
	return FormatToday(v.now().In(v.location))
}

// Render writes the current state as an HTML page.
func (v *View) Render(w io.Writer) error {
	return Render(w, v.State(), v.now().In(v.location))
}

// update applies fn while the view is still mounted. It reports false when the result was discarded.
func (v *View) update(fn func(s *State)) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.unmounted {
		return false
	}
	fn(&v.state)
	return true
}

func (v *View) loadSession(ctx context.Context) {
	logger := domain.LoggerFromContext(ctx)

	var session *domain.Session
	err := v.getJSON(ctx, sessionPath, &session)
	if err != nil {
		logger.DebugContext(ctx, "session unavailable, rendering anonymous view", "error", err)
	}

	v.update(func(s *State) {
		if s.SessionStatus != Pending {
			return
		}
		if err != nil {
			s.SessionStatus = Failed
			return
		}
		s.Session = session
		s.SessionStatus = Success
	})
}

func (v *View) loadArticles(ctx context.Context) {
	logger := domain.LoggerFromContext(ctx)

	articles, err := v.fetchArticles(ctx)
	if err != nil {
		logger.WarnContext(ctx, "unable to load articles", "error", err)
	}

	v.update(func(s *State) {
		if s.ArticlesStatus != Pending {
			return
		}
		if err != nil {
			s.Articles = nil
			s.ArticlesStatus = Failed
			return
		}
		s.Articles = articles
		s.ArticlesStatus = Success
	})
}

func (v *View) fetchArticles(ctx context.Context) ([]domain.Article, error) {
	body, err := v.get(ctx, newsPath)
	if err != nil {
		return nil, err
	}

	articles, err := domain.ParseArticleSearch(body)
	if err != nil {
		return nil, fmt.Errorf("parsing news payload: %w", err)
	}
	return articles, nil
}

func (v *View) loadCounts(ctx context.Context) {
	logger := domain.LoggerFromContext(ctx)

	var raw map[string]json.RawMessage
	err := v.getJSON(ctx, countsPath, &raw)
	if err != nil {
		logger.DebugContext(ctx, "comment counts unavailable, defaulting to zero", "error", err)
	}

	counts := domain.CommentCounts{}
	for id, value := range raw {
		n, convErr := strconv.Atoi(string(value))
		if convErr != nil || n < 0 {
			continue
		}
		counts[id] = n
	}

	v.update(func(s *State) {
		if s.CountsStatus != Pending {
			return
		}
		if err != nil {
			s.Counts = domain.CommentCounts{}
			s.CountsStatus = Failed
			return
		}
		s.Counts = counts
		s.CountsStatus = Success
	})
}

func (v *View) getJSON(ctx context.Context, path string, result any) error {
	body, err := v.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func (v *View) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if v.decorate != nil {
		v.decorate(req)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}
	return body, nil
}
