package mockserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"banking-dashboard/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

const tokenTTL = 24 * time.Hour

type claims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// principal is the authenticated caller attached to the request context.
type principal struct {
	ID       int64
	Username string
	Roles    domain.RoleSet
}

func (p principal) IDString() string {
	return strconv.FormatInt(p.ID, 10)
}

func (p principal) IsAdmin() bool {
	return p.Roles.Has(domain.RoleAdmin)
}

type ctxKey struct{}

func principalFrom(ctx context.Context) (principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(principal)
	return p, ok
}

func (s *Server) issueToken(p domain.Profile) (string, error) {
	roles := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles.Sorted() {
		roles = append(roles, string(r))
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: p.Username,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *Server) parseToken(raw string) (principal, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return principal{}, err
	}

	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return principal{}, fmt.Errorf("invalid subject: %w", err)
	}

	roles := make([]domain.Role, 0, len(c.Roles))
	for _, r := range c.Roles {
		roles = append(roles, domain.Role(r))
	}
	return principal{ID: id, Username: c.Username, Roles: domain.NewRoleSet(roles...)}, nil
}

// requireAuth rejects requests without a valid bearer token with 401.
func (s *Server) requireAuth() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, raw, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || raw == "" {
				writeMessage(w, http.StatusUnauthorized, "Full authentication is required to access this resource")
				return
			}

			p, err := s.parseToken(raw)
			if err != nil {
				msg := "Invalid JWT token"
				if errors.Is(err, jwt.ErrTokenExpired) {
					msg = "JWT token is expired"
				}
				s.log.Debug("rejected token", "err", err)
				writeMessage(w, http.StatusUnauthorized, msg)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, p)))
		})
	}
}

// adminOnly wraps a handler that only ROLE_ADMIN may call.
func adminOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principalFrom(r.Context())
		if !ok || !p.IsAdmin() {
			writeMessage(w, http.StatusForbidden, "Access denied")
			return
		}
		h(w, r)
	}
}

// selfOrAdmin reports whether the caller may read data owned by userID.
func selfOrAdmin(r *http.Request, userID string) bool {
	p, ok := principalFrom(r.Context())
	return ok && (p.IsAdmin() || p.IDString() == userID)
}
