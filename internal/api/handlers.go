package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notegenius/internal/apperr"
	"github.com/starford/notegenius/internal/assistant"
	"github.com/starford/notegenius/internal/index"
	"github.com/starford/notegenius/internal/models"
	"github.com/starford/notegenius/internal/noteservice"
	"github.com/starford/notegenius/internal/tasks"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
	ai  *assistant.Assistant
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service, ai *assistant.Assistant) *Handler {
	return &Handler{svc: svc, ai: ai}
}

func noteID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// boolParam parses an optional boolean query parameter.
func boolParam(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("query parameter %q must be a boolean: %w", name, apperr.ErrInvalidInput)
	}
	return b, nil
}

// intParam parses an optional integer query parameter.
func intParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q must be an integer: %w", name, apperr.ErrInvalidInput)
	}
	return n, nil
}

// writeNote responds with a note and its checksum as ETag.
func writeNote(w http.ResponseWriter, status int, note *NoteDetail) {
	w.Header().Set("ETag", strconv.Quote(note.Checksum))
	writeJSON(w, status, note)
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes with optional pagination and filtering
//	@Tags			notes
//	@Produce		json
//	@Param			limit					query		int		false	"Page size"
//	@Param			offset					query		int		false	"Page offset"
//	@Param			folder					query		string	false	"Filter by folder"
//	@Param			tag						query		string	false	"Filter by tag"
//	@Param			type					query		string	false	"Filter by note type"	Enums(note, checklist, task)
//	@Param			tasks					query		string	false	"Filter by task state"	Enums(all, pending, completed, overdue)
//	@Param			sort					query		string	false	"Sort field"			Enums(updated, created, title)
//	@Param			include_private			query		bool	false	"Include private notes"
//	@Param			include_placeholders	query		bool	false	"Include folder placeholders"
//	@Success		200						{object}	NoteListResponse
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lq := index.ListQuery{
		Folder: q.Get("folder"),
		Tag:    q.Get("tag"),
		Type:   models.NoteType(q.Get("type")),
		Sort:   q.Get("sort"),
	}
	if lq.Type != "" && !lq.Type.Valid() {
		writeJSON(w, http.StatusBadRequest, errorBody("unknown note type"))
		return
	}
	if v := q.Get("tasks"); v != "" {
		f, err := tasks.ParseFilter(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		lq.Tasks = f
	}
	var err error
	if lq.Limit, err = intParam(r, "limit"); err != nil {
		writeError(w, r, "list notes", err)
		return
	}
	if lq.Offset, err = intParam(r, "offset"); err != nil {
		writeError(w, r, "list notes", err)
		return
	}
	if lq.IncludePrivate, err = boolParam(r, "include_private"); err != nil {
		writeError(w, r, "list notes", err)
		return
	}
	if lq.IncludePlaceholders, err = boolParam(r, "include_placeholders"); err != nil {
		writeError(w, r, "list notes", err)
		return
	}

	items, total, err := h.svc.List(r.Context(), lq)
	if err != nil {
		writeError(w, r, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: items, Total: total})
}

// GetNote handles GET /api/notes/{id}.
//
//	@Summary		Get a single note with its tasks, statistics and history state
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	NoteDetail
//	@Failure		404	{object}	errResponse
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.Get(r.Context(), noteID(r))
	if err != nil {
		writeError(w, r, "get note", err)
		return
	}
	writeNote(w, http.StatusOK, note)
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create a new note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to create"
//	@Success		201		{object}	NoteDetail
//	@Failure		400		{object}	errResponse
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if !decode(w, r, &req) {
		return
	}
	note, err := h.svc.Create(r.Context(), req.input())
	if err != nil {
		writeError(w, r, "create note", err)
		return
	}
	writeNote(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /api/notes/{id}.
//
//	@Summary		Update a note with optimistic concurrency
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string				true	"Note id"
//	@Param			If-Match	header		string				false	"Checksum for optimistic concurrency"
//	@Param			body		body		UpdateNoteRequest	true	"Fields to change"
//	@Success		200			{object}	NoteDetail
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Router			/notes/{id} [put]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req UpdateNoteRequest
	if !decode(w, r, &req) {
		return
	}
	// Strip surrounding quotes if present (standard ETag format).
	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)

	note, err := h.svc.Update(r.Context(), noteID(r), req.input(), ifMatch)
	if err != nil {
		writeError(w, r, "update note", err)
		return
	}
	writeNote(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id}.
//
//	@Summary		Delete a note
//	@Tags			notes
//	@Param			id	path	string	true	"Note id"
//	@Success		204	"Note deleted"
//	@Failure		404	{object}	errResponse
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), noteID(r)); err != nil {
		writeError(w, r, "delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across notes
//	@Tags			search
//	@Produce		json
//	@Param			q				query		string	true	"Search query"
//	@Param			limit			query		int		false	"Max results"
//	@Param			include_private	query		bool	false	"Include private notes"
//	@Success		200				{object}	SearchResponse
//	@Failure		400				{object}	errResponse
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		writeError(w, r, "search", err)
		return
	}
	private, err := boolParam(r, "include_private")
	if err != nil {
		writeError(w, r, "search", err)
		return
	}
	results, err := h.svc.Search(r.Context(), q, limit, private)
	if err != nil {
		writeError(w, r, "search", err)
		return
	}
	if results == nil {
		results = []index.SearchResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
