package controllers

import (
	"net/http"

	"github.com/chamber122/chamber122-backend/api/middleware"
	"github.com/chamber122/chamber122-backend/api/responses"
	"github.com/chamber122/chamber122-backend/api/validators"
	"github.com/chamber122/chamber122-backend/internal/bulletins"
	"github.com/chamber122/chamber122-backend/pkg/logger"
	"github.com/chamber122/chamber122-backend/pkg/types"
)

// BulletinsList returns published bulletins, pinned first, newest first.
func BulletinsList(svc bulletins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "bulletin")
			return
		}
		list, err := svc.ListPublished(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Payload{"bulletins": nonNil(list)})
	}
}

func BulletinGet(svc bulletins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "bulletin")
			return
		}
		id, err := validators.PathParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bulletin, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Payload{"bulletin": bulletin})
	}
}

// BulletinRegister records a public response to a published bulletin.
func BulletinRegister(svc bulletins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "bulletin")
			return
		}
		id, err := validators.PathParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input bulletins.RegistrationInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		registration, err := svc.Register(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Payload{"registration": registration})
	}
}

func BulletinCreate(svc bulletins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "bulletin")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		var input bulletins.Input
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bulletin, err := svc.Create(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, types.Payload{"bulletin": bulletin})
	}
}

func BulletinUpdate(svc bulletins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "bulletin")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		id, err := validators.PathParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input bulletins.Input
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bulletin, err := svc.Update(r.Context(), userID, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Payload{"bulletin": bulletin})
	}
}

func BulletinDelete(svc bulletins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "bulletin")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		id, err := validators.PathParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), userID, middleware.IsAdmin(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Payload{"message": "Bulletin deleted"})
	}
}
