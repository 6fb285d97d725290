package api

import (
	"net/http"
	"time"

	"github.com/starford/notegenius/internal/index"
	"github.com/starford/notegenius/internal/tasks"
)

// TaskSummary handles GET /api/tasks?filter=.
//
//	@Summary		Aggregate tasks across notes
//	@Tags			tasks
//	@Produce		json
//	@Param			filter	query		string	false	"Task filter"	Enums(all, pending, completed, overdue)
//	@Success		200		{object}	noteservice.TaskOverview
//	@Router			/tasks [get]
func (h *Handler) TaskSummary(w http.ResponseWriter, r *http.Request) {
	f, err := tasks.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	overview, err := h.svc.TaskSummary(r.Context(), f)
	if err != nil {
		writeError(w, r, "task summary", err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// QuickAddTask handles POST /api/tasks.
func (h *Handler) QuickAddTask(w http.ResponseWriter, r *http.Request) {
	var req QuickAddRequest
	if !decode(w, r, &req) {
		return
	}
	note, err := h.svc.QuickAddTask(r.Context(), req.Title)
	if err != nil {
		writeError(w, r, "quick add task", err)
		return
	}
	writeNote(w, http.StatusCreated, note)
}

// Folders handles GET /api/folders.
func (h *Handler) Folders(w http.ResponseWriter, r *http.Request) {
	private, err := boolParam(r, "include_private")
	if err != nil {
		writeError(w, r, "list folders", err)
		return
	}
	folders, err := h.svc.Folders(r.Context(), private)
	if err != nil {
		writeError(w, r, "list folders", err)
		return
	}
	if folders == nil {
		folders = []index.FolderStat{}
	}
	writeJSON(w, http.StatusOK, FoldersResponse{Folders: folders})
}

// CreateFolder handles POST /api/folders.
func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req FolderRequest
	if !decode(w, r, &req) {
		return
	}
	note, err := h.svc.CreateFolder(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, "create folder", err)
		return
	}
	writeNote(w, http.StatusCreated, note)
}

// Reminders handles GET /api/reminders?date=YYYY-MM-DD. The date defaults
// to today.
func (h *Handler) Reminders(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, v, time.Local)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("date must be YYYY-MM-DD"))
			return
		}
		day = parsed
	}
	private, err := boolParam(r, "include_private")
	if err != nil {
		writeError(w, r, "reminders", err)
		return
	}
	items, err := h.svc.Reminders(r.Context(), day, private)
	if err != nil {
		writeError(w, r, "reminders", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: items, Total: len(items)})
}
