package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notegenius/internal/assistant"
)

// AssistantFeatures handles GET /api/assistant.
func (h *Handler) AssistantFeatures(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, AssistantFeaturesResponse{
		Enabled:  h.ai != nil && h.ai.Enabled(),
		Features: assistant.Features,
	})
}

// AssistantRun handles POST /api/assistant/{feature}.
//
//	@Summary		Generate text with an assistant feature
//	@Tags			assistant
//	@Accept			json
//	@Produce		json
//	@Param			feature	path		string				true	"Feature id"
//	@Param			body	body		AssistantRequest	true	"Note content and optional input"
//	@Success		200		{object}	AssistantResponse
//	@Failure		400		{object}	errResponse
//	@Failure		503		{object}	errResponse
//	@Router			/assistant/{feature} [post]
func (h *Handler) AssistantRun(w http.ResponseWriter, r *http.Request) {
	f, err := assistant.ParseFeature(chi.URLParam(r, "feature"))
	if err != nil {
		writeError(w, r, "assistant", err)
		return
	}
	var req AssistantRequest
	if !decode(w, r, &req) {
		return
	}
	ai := h.ai
	if ai == nil {
		ai = assistant.New(nil, assistant.DefaultOptions)
	}
	text, err := ai.Run(r.Context(), f, assistant.Request{NoteContent: req.Content, Input: req.Input})
	if err != nil {
		writeError(w, r, "assistant", err)
		return
	}
	writeJSON(w, http.StatusOK, AssistantResponse{Feature: f, Text: text})
}

// AssistantAccept handles POST /api/assistant/accept.
func (h *Handler) AssistantAccept(w http.ResponseWriter, r *http.Request) {
	var req AcceptRequest
	if !decode(w, r, &req) {
		return
	}
	f, err := assistant.ParseFeature(req.Feature)
	if err != nil {
		writeError(w, r, "assistant accept", err)
		return
	}
	n, err := assistant.Accept(f, req.Text)
	if err != nil {
		writeError(w, r, "assistant accept", err)
		return
	}
	note, err := h.svc.CreateNote(r.Context(), n)
	if err != nil {
		writeError(w, r, "assistant accept", err)
		return
	}
	writeNote(w, http.StatusCreated, note)
}
