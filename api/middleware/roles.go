package middleware

import (
	"net/http"

	"github.com/medsup-innovation/medsup-backend/api/responses"
	"github.com/medsup-innovation/medsup-backend/pkg/enums"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
)

// RequireRole allows the request through when the actor holds one of the
// listed roles.
func RequireRole(logg *logger.Logger, roles ...enums.UserRole) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[string(role)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := allowed[RoleFromContext(r.Context())]; !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
