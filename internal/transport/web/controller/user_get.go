package controller

import (
	"net/http"

	"github.com/yolonews/localfeed/internal/domain"
)

// UserGet returns the logged-in user's email and role.
type UserGet struct{}

func (c UserGet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session := domain.SessionFromContext(ctx)
	if session == nil {
		writeJSONError(ctx, w, http.StatusUnauthorized, "Not logged in")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(ctx, w, http.StatusOK, session)
}
