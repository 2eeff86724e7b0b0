package controllers

import (
	"net/http"

	"github.com/chamber122/chamber122-backend/api/responses"
	"github.com/chamber122/chamber122-backend/api/validators"
	"github.com/chamber122/chamber122-backend/internal/dashboard"
	"github.com/chamber122/chamber122-backend/pkg/logger"
	"github.com/chamber122/chamber122-backend/pkg/types"
)

// DashboardMyEvents lists the caller's events with registration counts.
func DashboardMyEvents(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "dashboard")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		list, err := svc.MyEvents(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Payload{"events": nonNil(list)})
	}
}

func DashboardEventRegistrations(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "dashboard")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		eventID, err := validators.PathParam(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.EventRegistrations(r.Context(), userID, eventID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Payload{"registrations": nonNil(list)})
	}
}

func DashboardMyBulletins(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "dashboard")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		list, err := svc.MyBulletins(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Payload{"bulletins": nonNil(list)})
	}
}

func DashboardBulletinRegistrations(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "dashboard")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		bulletinID, err := validators.PathParam(r, "bulletinId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.BulletinRegistrations(r.Context(), userID, bulletinID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Payload{"registrations": nonNil(list)})
	}
}
