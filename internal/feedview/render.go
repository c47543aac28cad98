package feedview

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/yolonews/localfeed/internal/domain"
)

// ArticlesErrorMessage is shown in place of the article list when the news could not be loaded.
const ArticlesErrorMessage = "Could not load articles."

const (
	signInLabel  = "Sign in"
	accountLabel = "Account"

	mediaBaseURL = "https://www.nytimes.com/"
)

// FormatToday formats t as a long-form date, e.g. "Thursday, January 1, 2025".
func FormatToday(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

func commentLabel(n int) string {
	if n == 1 {
		return "1 comment"
	}
	return fmt.Sprintf("%d comments", n)
}

// mediaURL returns an absolute URL for the first image attached to the article, if any.
func mediaURL(media []domain.MediaItem) string {
	for _, m := range media {
		if m.Type != "" && m.Type != "image" {
			continue
		}
		if m.URL == "" {
			continue
		}
		if strings.HasPrefix(m.URL, "http://") || strings.HasPrefix(m.URL, "https://") {
			return m.URL
		}
		return mediaBaseURL + strings.TrimPrefix(m.URL, "/")
	}
	return ""
}

type pageData struct {
	Today          string
	Session        *domain.Session
	ArticlesStatus string
	Articles       []articleData
	ErrorMessage   string
	SignInLabel    string
	AccountLabel   string
}

type articleData struct {
	domain.Article
	ImageURL     string
	CommentLabel string
}

func newPageData(st State, now time.Time) pageData {
	data := pageData{
		Today:          FormatToday(now),
		Session:        st.Session,
		ArticlesStatus: st.ArticlesStatus.String(),
		ErrorMessage:   ArticlesErrorMessage,
		SignInLabel:    signInLabel,
		AccountLabel:   accountLabel,
	}

	if st.ArticlesStatus == Success {
		data.Articles = make([]articleData, 0, len(st.Articles))
		for _, a := range st.Articles {
			data.Articles = append(data.Articles, articleData{
				Article:      a,
				ImageURL:     mediaURL(a.Media),
				CommentLabel: commentLabel(st.Counts.Count(a.ID)),
			})
		}
	}
	return data
}

var pageTemplate = template.Must(template.New("feed").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Local News</title>
</head>
<body>
<header>
<h1 class="today">{{.Today}}</h1>
<nav class="auth">
{{- if .Session}}<a class="account" href="/account" title="{{.Session.Email}}">{{.AccountLabel}}</a>
{{- else}}<a class="sign-in" href="/login">{{.SignInLabel}}</a>{{end -}}
</nav>
</header>
<main>
<section class="articles" data-status="{{.ArticlesStatus}}">
{{- if eq .ArticlesStatus "failed"}}
<p class="error">{{.ErrorMessage}}</p>
{{- else if eq .ArticlesStatus "success"}}
<ul>
{{- range .Articles}}
<li class="article" data-article-id="{{.ID}}">
{{- if .ImageURL}}<img src="{{.ImageURL}}" alt="">{{end}}
<h2><a href="{{.URL}}">{{.Headline}}</a></h2>
<p class="snippet">{{.Snippet}}</p>
<span class="comment-count">{{.CommentLabel}}</span>
</li>
{{- end}}
</ul>
{{- else}}
<div class="loading" aria-busy="true"></div>
{{- end}}
</section>
</main>
</body>
</html>
`))

// Render writes st as an HTML page with the date header computed from now.
// It depends only on its arguments, so identical states render identically.
func Render(w io.Writer, st State, now time.Time) error {
	if err := pageTemplate.Execute(w, newPageData(st, now)); err != nil {
		return fmt.Errorf("rendering feed page: %w", err)
	}
	return nil
}

var (
	dateStyle     = lipgloss.NewStyle().Bold(true)
	authStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	headlineStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// RenderText writes st for a terminal.
func RenderText(w io.Writer, st State, now time.Time) error {
	data := newPageData(st, now)

	var b strings.Builder
	auth := data.SignInLabel
	if data.Session != nil {
		auth = data.AccountLabel
	}
	b.WriteString(dateStyle.Render(data.Today) + "  " + authStyle.Render("["+auth+"]") + "\n\n")

	switch st.ArticlesStatus {
	case Failed:
		b.WriteString(errorStyle.Render(data.ErrorMessage) + "\n")
	case Success:
		for _, a := range data.Articles {
			b.WriteString(headlineStyle.Render(a.Headline) + " " + mutedStyle.Render("("+a.CommentLabel+")") + "\n")
			if a.Snippet != "" {
				b.WriteString("  " + a.Snippet + "\n")
			}
			if a.URL != "" {
				b.WriteString("  " + mutedStyle.Render(a.URL) + "\n")
			}
			b.WriteString("\n")
		}
	default:
		b.WriteString(mutedStyle.Render("Loading…") + "\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing feed: %w", err)
	}
	return nil
}
