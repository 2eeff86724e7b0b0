package controllers

import (
	"net/http"

	"github.com/chamber122/chamber122-backend/api/responses"
	"github.com/chamber122/chamber122-backend/internal/businesses"
	"github.com/chamber122/chamber122-backend/internal/users"
	pkgerrors "github.com/chamber122/chamber122-backend/pkg/errors"
	"github.com/chamber122/chamber122-backend/pkg/logger"
	"github.com/chamber122/chamber122-backend/pkg/types"
)

// AuthMe returns the signed-in user and their business profile, if any.
func AuthMe(userSvc users.Service, businessSvc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if userSvc == nil || businessSvc == nil {
			serviceUnavailable(w, r, logg, "auth")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		user, err := userSvc.FindByID(r.Context(), userID)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				err = pkgerrors.New(pkgerrors.CodeUnauthorized, "User not found")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := businessSvc.GetMine(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Payload{"user": user, "business": detail.Business})
	}
}
