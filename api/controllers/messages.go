package controllers

import (
	"net/http"

	"github.com/chamber122/chamber122-backend/api/responses"
	"github.com/chamber122/chamber122-backend/api/validators"
	"github.com/chamber122/chamber122-backend/internal/messages"
	"github.com/chamber122/chamber122-backend/pkg/logger"
	"github.com/chamber122/chamber122-backend/pkg/types"
)

type startConversationRequest struct {
	OtherUserID string `json:"other_user_id"`
}

// MessagesConversations lists the caller's conversations, most recent first.
func MessagesConversations(svc messages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "message")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		list, err := svc.ListConversations(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Payload{"conversations": nonNil(list)})
	}
}

// MessagesThread returns one conversation and marks incoming messages read.
func MessagesThread(svc messages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "message")
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
		thread, err := svc.GetConversation(r.Context(), userID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Payload{"conversation": thread.Conversation, "messages": nonNil(thread.Messages)})
	}
}

func MessagesStart(svc messages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "message")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		var req startConversationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		conversation, err := svc.StartConversation(r.Context(), userID, req.OtherUserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Payload{"conversation": conversation})
	}
}

func MessagesSend(svc messages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "message")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		var input messages.SendInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		message, err := svc.Send(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Payload{"message": message})
	}
}
