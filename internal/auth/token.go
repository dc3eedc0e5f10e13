package auth

import (
	"context"
	"log/slog"
	"strings"

	dom "github.com/nicolaskelepuris/refactor-rails-app/internal/domain"
)

// UserFinder resolves a token to its user. ok is false when nobody holds it.
type UserFinder interface {
	FindByToken(ctx context.Context, token string) (u dom.User, ok bool, err error)
}

// Resolver maps bearer tokens to user ids, consulting the cache first when one is set.
type Resolver struct {
	users UserFinder
	cache *TokenCache
}

// NewResolver returns a Resolver. If cache is nil, every lookup hits users.
func NewResolver(users UserFinder, cache *TokenCache) *Resolver {
	return &Resolver{users: users, cache: cache}
}

// Resolve returns the id of the user holding token.
func (r *Resolver) Resolve(ctx context.Context, token string) (int64, bool, error) {
	if r.cache != nil {
		id, ok, err := r.cache.Lookup(ctx, token)
		if err != nil {
			slog.Warn("token cache lookup failed", "err", err)
		} else if ok {
			return id, true, nil
		}
	}
	u, ok, err := r.users.FindByToken(ctx, token)
	if err != nil || !ok {
		return 0, false, err
	}
	if r.cache != nil {
		if err := r.cache.Remember(ctx, token, u.ID); err != nil {
			slog.Warn("token cache write failed", "err", err)
		}
	}
	return u.ID, true, nil
}

// ParseToken extracts the token from an Authorization header. Accepted forms:
//
//	Bearer <token>
//	Bearer token="<token>"
//	Token token="<token>"
func ParseToken(header string) (string, bool) {
	scheme, rest, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}
	if !strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token") {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "token=") {
		if rest == "" || strings.ContainsAny(rest, " \t,") {
			return "", false
		}
		return rest, true
	}
	for _, part := range strings.Split(rest, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found || strings.TrimSpace(k) != "token" {
			continue
		}
		v = strings.Trim(strings.TrimSpace(v), `"`)
		return v, v != ""
	}
	return "", false
}
