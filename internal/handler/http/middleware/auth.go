package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/auth"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// Principal is the signed-in user as read from the access token.
type Principal struct {
	UserID    string
	Name      string
	Role      string
	Token     string
	ExpiresAt int64
}

type principalKey struct{}

// AuthRequired must run after jwtauth.Verifier. It rejects missing, revoked and
// non-access tokens and stores the Principal in the request context.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			raw := jwtauth.TokenFromHeader(r)
			if jwtService.IsTokenRevoked(raw) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			userID, _ := claims["user_id"].(string)
			if userID == "" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			name, _ := claims["name"].(string)
			role, _ := claims["role"].(string)

			p := Principal{
				UserID:    userID,
				Name:      name,
				Role:      role,
				Token:     raw,
				ExpiresAt: token.Expiration().Unix(),
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		}
		return http.HandlerFunc(hfn)
	}
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
