package feedview

import "github.com/yolonews/localfeed/internal/domain"

// LoadStatus is the outcome of one loader. A loader only ever moves from Pending to Success or Failed.
type LoadStatus int

const (
	Pending LoadStatus = iota
	Success
	Failed
)

func (s LoadStatus) String() string {
	switch s {
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// State is a snapshot of everything the view renders from.
type State struct {
	Session       *domain.Session
	SessionStatus LoadStatus

	Articles       []domain.Article
	ArticlesStatus LoadStatus

	Counts       domain.CommentCounts
	CountsStatus LoadStatus
}

func (s State) clone() State {
	c := s
	if s.Session != nil {
		session := *s.Session
		c.Session = &session
	}
	if s.Articles != nil {
		c.Articles = append([]domain.Article(nil), s.Articles...)
		for i, a := range s.Articles {
			if a.Media != nil {
				c.Articles[i].Media = append([]domain.MediaItem(nil), a.Media...)
			}
		}
	}
	if s.Counts != nil {
		c.Counts = make(domain.CommentCounts, len(s.Counts))
		for k, v := range s.Counts {
			c.Counts[k] = v
		}
	}
	return c
}
