// Package main provides a terminal client that loads the local news feed from a running service.
//
// Configuration:
//
//	LOCALFEED_API_URL - Base URL of the service (default: http://localhost:8080)
//	LOCALFEED_SESSION - Session cookie value to load the feed as a signed-in user
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"github.com/yolonews/localfeed/internal/app"
	"github.com/yolonews/localfeed/internal/command"
	"github.com/yolonews/localfeed/internal/feedview"
)

const defaultAPIURL = "http://localhost:8080"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		baseURL     string
		session     string
		bearerToken string
		timeout     time.Duration
		asHTML      bool
		location    string
	)

	cmd := &cobra.Command{
		Use:   "feedview",
		Short: "Show today's local news feed",
		Long:  "Loads the session, articles and comment counts from the feed service and prints the page.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc, err := time.LoadLocation(location)
			if err != nil {
				return fmt.Errorf("loading time zone %q: %w", location, err)
			}

			view := feedview.New(&http.Client{}, baseURL,
				feedview.WithLocation(loc),
				feedview.WithRequestDecorator(func(r *http.Request) {
					if session != "" {
						r.AddCookie(&http.Cookie{Name: command.SessionCookieName, Value: session})
					}
					if bearerToken != "" {
						r.Header.Set("Authorization", "Bearer "+bearerToken)
					}
				}),
			)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			st := view.Load(ctx)
			if asHTML {
				return feedview.Render(cmd.OutOrStdout(), st, time.Now().In(loc))
			}
			return feedview.RenderText(cmd.OutOrStdout(), st, time.Now().In(loc))
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", app.GetEnvAsStringOr("LOCALFEED_API_URL", defaultAPIURL), "base URL of the feed service")
	cmd.Flags().StringVar(&session, "session", os.Getenv("LOCALFEED_SESSION"), "session cookie value")
	cmd.Flags().StringVar(&bearerToken, "token", "", "OIDC ID token sent as a bearer token")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall deadline for loading the feed")
	cmd.Flags().BoolVar(&asHTML, "html", false, "print the HTML page instead of terminal output")
	cmd.Flags().StringVar(&location, "tz", "Local", "time zone for the date header")

	return cmd
}
