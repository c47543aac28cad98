package controller

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/yolonews/localfeed/internal/command"
	"github.com/yolonews/localfeed/internal/domain"
	"github.com/yolonews/localfeed/internal/transport/web/oidc"
	"golang.org/x/oauth2"
)

const (
	stateCookieName = "oidc_state"
	nonceCookieName = "oidc_nonce"
	loginCookieTTL  = 10 * time.Minute
)

// AuthCodeFlow is the part of *oauth2.Config the login handlers use.
type AuthCodeFlow interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
}

func randomToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating random token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func setShortLivedCookie(w http.ResponseWriter, name, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(loginCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Login handles GET /login by redirecting to the identity provider.
type Login struct {
	Flow          AuthCodeFlow
	SecureCookies bool
}

func (c Login) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	state, err := randomToken()
	if err != nil {
		logger.ErrorContext(ctx, "unable to generate login state", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	nonce, err := randomToken()
	if err != nil {
		logger.ErrorContext(ctx, "unable to generate login nonce", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	setShortLivedCookie(w, stateCookieName, state, c.SecureCookies)
	setShortLivedCookie(w, nonceCookieName, nonce, c.SecureCookies)

	http.Redirect(w, r, c.Flow.AuthCodeURL(state, oauth2.SetAuthURLParam("nonce", nonce)), http.StatusFound)
}

// Authorize handles the identity provider's redirect back to GET /authorize.
type Authorize struct {
	Flow             AuthCodeFlow
	IDTokenValidator oidc.TokenValidator
	CreateSessionCmd command.Command[command.CreateSessionRequest, command.CreateSessionResponse]
	RedirectURL      string
	SecureCookies    bool
}

func (c Authorize) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		logger.WarnContext(ctx, "login state mismatch")
		writeJSONError(ctx, w, http.StatusBadRequest, "invalid login state")
		return
	}
	nonceCookie, err := r.Cookie(nonceCookieName)
	if err != nil || nonceCookie.Value == "" {
		logger.WarnContext(ctx, "login nonce missing")
		writeJSONError(ctx, w, http.StatusBadRequest, "invalid login state")
		return
	}
	clearCookie(w, stateCookieName, c.SecureCookies)
	clearCookie(w, nonceCookieName, c.SecureCookies)

	token, err := c.Flow.Exchange(ctx, r.URL.Query().Get("code"))
	if err != nil {
		logger.WarnContext(ctx, "unable to exchange authorization code", "error", err)
		writeJSONError(ctx, w, http.StatusUnauthorized, "login failed")
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		logger.WarnContext(ctx, "token response has no ID token")
		writeJSONError(ctx, w, http.StatusUnauthorized, "login failed")
		return
	}

	claims, err := oidc.ClaimsFromToken(ctx, c.IDTokenValidator, rawIDToken)
	if err != nil {
		logger.WarnContext(ctx, "unable to validate ID token", "error", err)
		writeJSONError(ctx, w, http.StatusUnauthorized, "login failed")
		return
	}
	if claims.Nonce != nonceCookie.Value {
		logger.WarnContext(ctx, "ID token nonce mismatch")
		writeJSONError(ctx, w, http.StatusUnauthorized, "login failed")
		return
	}

	result, err := c.CreateSessionCmd.Execute(ctx, command.CreateSessionRequest{Session: claims.Session()})
	if err != nil {
		logger.ErrorContext(ctx, "unable to create session", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	logger.InfoContext(ctx, "user logged in", "email", claims.Email)

	http.SetCookie(w, &http.Cookie{
		Name:     command.SessionCookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.ExpiresAt,
		HttpOnly: true,
		Secure:   c.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, c.RedirectURL, http.StatusFound)
}

// Logout handles GET /logout.
type Logout struct {
	EndSessionCmd command.Command[string, command.Empty]
	RedirectURL   string
	SecureCookies bool
}

func (c Logout) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	if cookie, err := r.Cookie(command.SessionCookieName); err == nil {
		if _, err := c.EndSessionCmd.Execute(ctx, cookie.Value); err != nil {
			logger.ErrorContext(ctx, "unable to end session", "error", err)
		}
	}

	clearCookie(w, command.SessionCookieName, c.SecureCookies)
	http.Redirect(w, r, c.RedirectURL, http.StatusFound)
}
