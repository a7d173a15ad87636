package httpapi

import (
	"context"
	"net/http"
	"strings"

	"noirqr/menu-svc/internal/service"
)

const (
	AdminTokenHeader = "x-admin-token"
	AuthTokenHeader  = "x-auth-token"
)

type ctxKey int

const principalKey ctxKey = iota

// sessionToken reads the user token from "Authorization: Bearer" or x-auth-token.
func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return strings.TrimSpace(r.Header.Get(AuthTokenHeader))
}

// requireAuth resolves the caller and stores the principal in the request context.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.Auth.Authenticate(r.Context(), sessionToken(r), r.Header.Get(AdminTokenHeader))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), principalKey, p)))
	}
}

func principalFrom(ctx context.Context) service.Principal {
	p, _ := ctx.Value(principalKey).(service.Principal)
	return p
}
