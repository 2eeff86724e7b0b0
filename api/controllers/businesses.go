package controllers

import (
	"net/http"

	"github.com/chamber122/chamber122-backend/api/middleware"
	"github.com/chamber122/chamber122-backend/api/responses"
	"github.com/chamber122/chamber122-backend/api/validators"
	"github.com/chamber122/chamber122-backend/internal/businesses"
	"github.com/chamber122/chamber122-backend/pkg/logger"
	"github.com/chamber122/chamber122-backend/pkg/types"
)

// BusinessesPublic lists active directory entries.
func BusinessesPublic(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "business")
			return
		}
		list, err := svc.ListPublic(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Payload{"businesses": nonNil(list)})
	}
}

// BusinessesAll lists every business regardless of status. Admin only.
func BusinessesAll(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "business")
			return
		}
		list, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Payload{"businesses": nonNil(list)})
	}
}

func BusinessGet(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "business")
			return
		}
		id, err := validators.PathParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeDetail(w, detail)
	}
}

// BusinessMine returns the caller's profile. An owner without a business gets
// a null business and no media.
func BusinessMine(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "business")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		detail, err := svc.GetMine(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeDetail(w, detail)
	}
}

// BusinessUpsertMine creates or updates the caller's profile.
func BusinessUpsertMine(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "business")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		var input businesses.ProfileInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.UpsertMine(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeDetail(w, detail)
	}
}

// BusinessUpdate edits a profile the caller owns.
func BusinessUpdate(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "business")
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
		var input businesses.ProfileInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.UpdateOwned(r.Context(), userID, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeDetail(w, detail)
	}
}

// BusinessDelete removes a business and its media. Owners and admins only.
func BusinessDelete(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "business")
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
		if err := svc.DeleteOwned(r.Context(), userID, middleware.IsAdmin(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Payload{"message": "Business deleted successfully", "deletedId": id})
	}
}

// BusinessAdminUpdate applies a moderation status and/or active flag.
func BusinessAdminUpdate(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "business")
			return
		}
		id, err := validators.PathParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input businesses.AdminUpdateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		business, err := svc.AdminUpdateStatus(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"business_id": id,
				"status":      string(business.Status),
				"is_active":   business.IsActive,
			})
			logg.Info(ctx, "business.admin_updated")
		}
		responses.WriteSuccess(w, types.Payload{"business": business})
	}
}

// BusinessAdminDelete removes an account and everything it owns.
func BusinessAdminDelete(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "business")
			return
		}
		id, err := validators.PathParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.AdminDelete(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			ctx := logg.WithBusinessID(r.Context(), id)
			logg.Info(logg.WithUserID(ctx, result.OwnerID), "business.admin_deleted")
		}
		responses.WriteSuccess(w, types.Payload{
			"message":   "Account and all related data deleted successfully",
			"deletedId": result.DeletedID,
			"ownerId":   result.OwnerID,
			"deleted":   result.Deleted,
		})
	}
}

// BusinessAddMedia records an uploaded file against the caller's business.
func BusinessAddMedia(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "business")
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
		var input businesses.MediaInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		media, err := svc.AddMedia(r.Context(), userID, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, types.Payload{"media": media})
	}
}

func BusinessDeleteMedia(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "business")
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
		mediaID, err := validators.PathParam(r, "mediaId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteMedia(r.Context(), userID, id, mediaID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Payload{"message": "Media deleted", "deletedId": mediaID})
	}
}

func writeDetail(w http.ResponseWriter, detail *businesses.Detail) {
	if detail == nil {
		detail = &businesses.Detail{}
	}
	responses.WriteSuccess(w, types.Payload{"business": detail.Business, "media": nonNil(detail.Media)})
}
