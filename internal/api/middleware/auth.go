package middleware

import (
	"context"
	"errors"
	"net/http"

	"pinnacle_metals/internal/common"
	"pinnacle_metals/internal/common/security"
	"pinnacle_metals/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserIDCtxKey   contextKey = "userID"
	UserRoleCtxKey contextKey = "userRole"
)

// CredentialFinder extracts a raw session token from a request, or "".
type CredentialFinder func(r *http.Request) string

func CookieFinder(name string) CredentialFinder {
	return func(r *http.Request) string {
		c, err := r.Cookie(name)
		if err != nil {
			return ""
		}
		return c.Value
	}
}

func QueryFinder(param string) CredentialFinder {
	return func(r *http.Request) string {
		return r.URL.Query().Get(param)
	}
}

// DefaultFinders checks the session cookie, then the Bearer header, then the query string.
func DefaultFinders(cookieName, queryParam string) []CredentialFinder {
	return []CredentialFinder{
		CookieFinder(cookieName),
		jwtauth.TokenFromHeader,
		QueryFinder(queryParam),
	}
}

// RoleSource reports an account's current role from the store.
type RoleSource interface {
	CurrentRole(ctx context.Context, userID string) (string, error)
}

type Auth struct {
	tokens  *security.TokenService
	finders []CredentialFinder
	roles   RoleSource
}

// NewAuth builds the gate. roles may be nil, in which case RequireAdmin
// trusts the role embedded in the token.
func NewAuth(tokens *security.TokenService, finders []CredentialFinder, roles RoleSource) *Auth {
	return &Auth{tokens: tokens, finders: finders, roles: roles}
}

// FindToken returns the first non-empty credential. Sources are never merged:
// a bad cookie is not rescued by a good header.
func (a *Auth) FindToken(r *http.Request) string {
	for _, find := range a.finders {
		if tok := find(r); tok != "" {
			return tok
		}
	}
	return ""
}

func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := a.FindToken(r)
		if tok == "" {
			common.RespondWithServiceError(w, r, common.ErrUnauthenticated)
			return
		}

		claims, err := a.tokens.Verify(tok)
		if err != nil {
			// expired and malformed look the same to the client
			common.LoggerFrom(r.Context()).Debug("rejected session token", "error", err)
			common.RespondWithServiceError(w, r, common.ErrUnauthenticated)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, claims.Subject)
		ctx = context.WithValue(ctx, UserRoleCtxKey, claims.Role)
		ctx = common.WithLogger(ctx, common.LoggerFrom(ctx).With("user_id", claims.Subject))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin must run after Authenticate.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			common.RespondWithServiceError(w, r, common.ErrUnauthenticated)
			return
		}
		role, _ := RoleFromContext(r.Context())

		if a.roles != nil {
			current, err := a.roles.CurrentRole(r.Context(), userID)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					common.RespondWithServiceError(w, r, common.ErrUnauthenticated)
					return
				}
				common.RespondWithServiceError(w, r, err)
				return
			}
			role = current
		}

		if role != model.RoleAdmin {
			common.RespondWithServiceError(w, r, common.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDCtxKey).(string)
	return id, ok && id != ""
}

func RoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleCtxKey).(string)
	return role, ok
}
