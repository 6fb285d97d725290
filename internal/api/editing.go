package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notegenius/internal/editor"
	"github.com/starford/notegenius/internal/preview"
)

// NoteTasks handles GET /api/notes/{id}/tasks.
func (h *Handler) NoteTasks(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Tasks(r.Context(), noteID(r))
	if err != nil {
		writeError(w, r, "list tasks", err)
		return
	}
	resp := TasksResponse{Tasks: items, Total: len(items)}
	for _, t := range items {
		if t.Completed {
			resp.Completed++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ToggleTask handles POST /api/notes/{id}/tasks/{index}/toggle.
//
//	@Summary		Flip the completion of the task at index
//	@Tags			tasks
//	@Produce		json
//	@Param			id		path		string	true	"Note id"
//	@Param			index	path		int		true	"Zero-based task position"
//	@Success		200		{object}	NoteDetail
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Router			/notes/{id}/tasks/{index}/toggle [post]
func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("task index must be an integer"))
		return
	}
	note, err := h.svc.ToggleTask(r.Context(), noteID(r), idx)
	if err != nil {
		writeError(w, r, "toggle task", err)
		return
	}
	writeNote(w, http.StatusOK, note)
}

// NoteStats handles GET /api/notes/{id}/stats.
func (h *Handler) NoteStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context(), noteID(r))
	if err != nil {
		writeError(w, r, "note stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Preview handles GET /api/notes/{id}/preview.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.Get(r.Context(), noteID(r))
	if err != nil {
		writeError(w, r, "preview", err)
		return
	}
	out, err := preview.HTML(note.Content)
	if err != nil {
		writeError(w, r, "preview", err)
		return
	}
	writeJSON(w, http.StatusOK, PreviewResponse{HTML: out})
}

// Undo handles POST /api/notes/{id}/undo. An empty undo stack is not an
// error; the note is returned unchanged.
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.Undo(r.Context(), noteID(r))
	if err != nil {
		writeError(w, r, "undo", err)
		return
	}
	writeNote(w, http.StatusOK, note)
}

// Redo handles POST /api/notes/{id}/redo.
func (h *Handler) Redo(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.Redo(r.Context(), noteID(r))
	if err != nil {
		writeError(w, r, "redo", err)
		return
	}
	writeNote(w, http.StatusOK, note)
}

// Format handles POST /api/notes/{id}/format.
func (h *Handler) Format(w http.ResponseWriter, r *http.Request) {
	var req FormatRequest
	if !decode(w, r, &req) {
		return
	}
	f, err := editor.ParseFormat(req.Format)
	if err != nil {
		writeError(w, r, "format", err)
		return
	}
	note, err := h.svc.Format(r.Context(), noteID(r), f, req.selection())
	if err != nil {
		writeError(w, r, "format", err)
		return
	}
	writeNote(w, http.StatusOK, note)
}

// Replace handles POST /api/notes/{id}/replace.
func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	var req ReplaceRequest
	if !decode(w, r, &req) {
		return
	}
	note, n, err := h.svc.Replace(r.Context(), noteID(r), req.Find, req.Replace)
	if err != nil {
		writeError(w, r, "replace", err)
		return
	}
	w.Header().Set("ETag", strconv.Quote(note.Checksum))
	writeJSON(w, http.StatusOK, ReplaceResponse{Note: note, Count: n})
}

// Insert handles POST /api/notes/{id}/insert.
func (h *Handler) Insert(w http.ResponseWriter, r *http.Request) {
	var req InsertRequest
	if !decode(w, r, &req) {
		return
	}
	kind, err := editor.ParseInsert(req.Kind)
	if err != nil {
		writeError(w, r, "insert", err)
		return
	}
	note, err := h.svc.Insert(r.Context(), noteID(r), kind, editor.InsertOptions{
		Now:      time.Now(),
		Language: req.Language,
	})
	if err != nil {
		writeError(w, r, "insert", err)
		return
	}
	writeNote(w, http.StatusOK, note)
}

// AddTag handles POST /api/notes/{id}/tags.
func (h *Handler) AddTag(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if !decode(w, r, &req) {
		return
	}
	note, err := h.svc.AddTag(r.Context(), noteID(r), req.Tag)
	if err != nil {
		writeError(w, r, "add tag", err)
		return
	}
	writeNote(w, http.StatusOK, note)
}

// RemoveTag handles DELETE /api/notes/{id}/tags?tag=.
func (h *Handler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	tag := r.URL.Query().Get("tag")
	if tag == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'tag' is required"))
		return
	}
	note, err := h.svc.RemoveTag(r.Context(), noteID(r), tag)
	if err != nil {
		writeError(w, r, "remove tag", err)
		return
	}
	writeNote(w, http.StatusOK, note)
}

// Move handles POST /api/notes/{id}/move.
func (h *Handler) Move(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if !decode(w, r, &req) {
		return
	}
	note, err := h.svc.Move(r.Context(), noteID(r), req.Folder)
	if err != nil {
		writeError(w, r, "move note", err)
		return
	}
	writeNote(w, http.StatusOK, note)
}

// SetPrivacy handles POST /api/notes/{id}/privacy.
func (h *Handler) SetPrivacy(w http.ResponseWriter, r *http.Request) {
	var req PrivacyRequest
	if !decode(w, r, &req) {
		return
	}
	note, err := h.svc.SetPrivate(r.Context(), noteID(r), req.Private)
	if err != nil {
		writeError(w, r, "set privacy", err)
		return
	}
	writeNote(w, http.StatusOK, note)
}
