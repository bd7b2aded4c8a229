package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/medsup-innovation/medsup-backend/api/middleware"
	"github.com/medsup-innovation/medsup-backend/api/responses"
	"github.com/medsup-innovation/medsup-backend/api/validators"
	authsvc "github.com/medsup-innovation/medsup-backend/internal/auth"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
)

// Login verifies credentials and returns an access token.
func Login(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload authsvc.LoginInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// Me returns the authenticated operator.
func Me(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}
		uid, err := uuid.Parse(userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id"))
			return
		}

		user, err := svc.CurrentUser(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}
