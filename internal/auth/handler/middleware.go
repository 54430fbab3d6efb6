package handler

import (
	"net/http"
	"strings"

	"github.com/newwork/people-service/internal/auth/jwt"
	"github.com/newwork/people-service/pkg/errors"
	"github.com/newwork/people-service/pkg/httputil"
	"github.com/newwork/people-service/pkg/principal"
)

// Authenticate validates the bearer token and attaches the principal to
// the request context. Requests without a valid token never reach the
// wrapped handler.
func Authenticate(tokens *jwt.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httputil.Error(w, errors.Unauthorized("missing authorization header"))
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				httputil.Error(w, errors.Unauthorized("malformed authorization header"))
				return
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				httputil.Error(w, err)
				return
			}

			ctx := principal.WithPrincipal(r.Context(), &principal.Principal{
				UserID:     claims.UserID,
				Email:      claims.Email,
				EmployeeID: claims.EmployeeID,
				Role:       claims.Role,
				ManagerID:  claims.ManagerID,
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
