package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yolonews/localfeed/internal/command"
	"github.com/yolonews/localfeed/internal/datasources"
	"github.com/yolonews/localfeed/internal/datasources/mysql"
	"github.com/yolonews/localfeed/internal/datasources/nytimes"
	"github.com/yolonews/localfeed/internal/domain"
	"github.com/yolonews/localfeed/internal/transport/web/oidc"
	"github.com/yolonews/localfeed/internal/transport/web/router"
	"github.com/yolonews/localfeed/internal/transport/web/server"
	"golang.org/x/oauth2"
)

const (
	defaultSessionTTL  = 7 * 24 * time.Hour
	defaultOIDCScopes  = "openid,email,profile"
	defaultPageTimeout = 15 * time.Second
)

type Component interface {
	Run(ctx context.Context) error
}

func Setup(ctx context.Context) ([]Component, error) {
	repo, err := setupRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("setting up repository: %w", err)
	}

	news, err := setupNewsSearcher(ctx)
	if err != nil {
		return nil, fmt.Errorf("setting up news searcher: %w", err)
	}

	idTokenValidator, err := oidc.NewValidator(
		MustGetEnvAsString(ctx, "OIDC_ISSUER"),
		MustGetEnvAsString(ctx, "OIDC_CLIENT_ID"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ID token validator: %w", err)
	}

	authMiddleware, err := setupAuthMiddleware(ctx, repo, idTokenValidator)
	if err != nil {
		return nil, fmt.Errorf("setting up auth middleware: %w", err)
	}

	sessionTTL := defaultSessionTTL
	if GetEnvAsStringOr("SESSION_TTL", "") != "" {
		sessionTTL = MustGetEnvAsDuration(ctx, "SESSION_TTL")
	}

	cmds := router.Commands{
		PostComment:   command.NewPostComment(repo),
		EditComment:   command.NewEditComment(repo),
		DeleteComment: command.NewDeleteComment(repo),
		CreateSession: command.NewCreateSession(repo, sessionTTL),
		EndSession:    command.NewEndSession(repo),
	}

	port := MustGetEnvAsInt(ctx, "PORT")
	tlsDisabled := MustGetEnvAsBoolean(ctx, "HTTP_TLS_DISABLED")
	autocertHostnames := MustGetEnvAsStrings(ctx, "HTTP_AUTOCERT_HOSTNAMES")
	cfg := router.Config{
		NewsAPIKey:         GetEnvAsStringOr("NYT_API_KEY", ""),
		NewsCacheMaxAge:    MustGetEnvAsDuration(ctx, "NEWS_CACHE_MAX_AGE"),
		RSSFeedBaseURL:     MustGetEnvAsString(ctx, "RSS_FEED_BASE_URL"),
		RSSFeedAuthorName:  MustGetEnvAsString(ctx, "RSS_FEED_AUTHOR_NAME"),
		RSSFeedAuthorEmail: MustGetEnvAsString(ctx, "RSS_FEED_AUTHOR_EMAIL"),
		CORSAllowedOrigins: MustGetEnvAsStrings(ctx, "CORS_ALLOWED_ORIGINS"),
		FrontendURL:        GetEnvAsStringOr("FRONTEND_URL", "/"),
		APIBaseURL:         apiBaseURL(ctx, tlsDisabled, port, autocertHostnames),
		SecureCookies:      !tlsDisabled,
		Location:           MustGetEnvAsLocation(ctx, "FEED_TIME_ZONE"),
	}

	httpRouter, err := router.MakeRouter(
		ctx,
		cfg,
		repo,
		news,
		setupAuthCodeFlow(ctx),
		idTokenValidator,
		&http.Client{Timeout: defaultPageTimeout},
		authMiddleware,
		cmds,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create HTTP router: %w", err)
	}

	return []Component{
		&server.Server{
			TLSDisabled:       tlsDisabled,
			TLSDisabledPort:   port,
			AutocertHostnames: autocertHostnames,
			Router:            httpRouter,
		},
	}, nil
}

// apiBaseURL is where the server-side page sends its API requests. Without API_BASE_URL it
// targets the listener this process serves on: PORT in plain HTTP mode, the first autocert
// hostname over TLS.
func apiBaseURL(ctx context.Context, tlsDisabled bool, port int, autocertHostnames []string) string {
	if baseURL := GetEnvAsStringOr("API_BASE_URL", ""); baseURL != "" {
		return baseURL
	}
	if tlsDisabled {
		return fmt.Sprintf("http://localhost:%d", port)
	}
	if len(autocertHostnames) == 0 {
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "API_BASE_URL is required when TLS is enabled without autocert hostnames")
		panic("missing environment variable [API_BASE_URL]")
	}
	return "https://" + autocertHostnames[0]
}

func setupRepository(ctx context.Context) (*mysql.Repository, error) {
	db, err := mysql.Connect(ctx, MustGetEnvAsString(ctx, "MYSQL_URI"))
	if err != nil {
		return nil, fmt.Errorf("connecting to MySQL: %w", err)
	}
	if err := mysql.EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("ensuring MySQL schema: %w", err)
	}
	return mysql.New(db), nil
}

func setupNewsSearcher(ctx context.Context) (datasources.NewsSearcher, error) {
	switch driver := MustGetEnvAsString(ctx, "NEWS_DRIVER"); driver {
	case "null":
		return datasources.NullNewsSearcher{}, nil
	case "nytimes":
		var opts []nytimes.Option
		if baseURL := GetEnvAsStringOr("NYT_BASE_URL", ""); baseURL != "" {
			opts = append(opts, nytimes.WithBaseURL(baseURL))
		}
		return nytimes.NewClient(GetEnvAsStringOr("NYT_API_KEY", ""), opts...), nil
	default:
		return nil, fmt.Errorf("unknown news driver [%s]", driver)
	}
}

// setupAuthCodeFlow configures the authorization-code flow against the OIDC provider.
// Endpoint paths default to dex's layout under the issuer.
func setupAuthCodeFlow(ctx context.Context) *oauth2.Config {
	issuer := strings.TrimSuffix(MustGetEnvAsString(ctx, "OIDC_ISSUER"), "/")

	return &oauth2.Config{
		ClientID:     MustGetEnvAsString(ctx, "OIDC_CLIENT_ID"),
		ClientSecret: MustGetEnvAsString(ctx, "OIDC_CLIENT_SECRET"),
		RedirectURL:  MustGetEnvAsString(ctx, "OIDC_REDIRECT_URL"),
		Endpoint: oauth2.Endpoint{
			AuthURL:  GetEnvAsStringOr("OIDC_AUTH_URL", issuer+"/auth"),
			TokenURL: GetEnvAsStringOr("OIDC_TOKEN_URL", issuer+"/token"),
		},
		Scopes: strings.Split(GetEnvAsStringOr("OIDC_SCOPES", defaultOIDCScopes), ","),
	}
}

func setupAuthMiddleware(
	ctx context.Context,
	sessions datasources.SessionByHashGetter,
	idTokenValidator oidc.TokenValidator,
) (func(http.Handler) http.Handler, error) {
	var validators []router.AuthValidator

	for _, driver := range MustGetEnvAsStrings(ctx, "AUTH_DRIVERS") {
		switch driver {
		case "session_cookie":
			validators = append(validators, router.NewSessionCookieValidator(sessions))
		case "bearer":
			validators = append(validators, router.NewBearerTokenValidator(idTokenValidator))
		default:
			return nil, fmt.Errorf("unknown auth driver [%s]", driver)
		}
	}

	return router.NewAuthMiddleware(validators), nil
}
