package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/starford/notegenius/internal/assistant"
	"github.com/starford/notegenius/internal/noteservice"
)

// maxBodyBytes caps request bodies; notes are plain text.
const maxBodyBytes = 10 << 20

// NewRouter creates a chi router with all API routes mounted.
// events, if non-nil, is mounted at GET /events.
// corsOrigins lists the browser origins allowed to call the API; empty
// disables CORS headers.
func NewRouter(svc *noteservice.Service, ai *assistant.Assistant, events http.Handler, corsOrigins []string) chi.Router {
	h := NewHandler(svc, ai)

	r := chi.NewRouter()
	if len(corsOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type", "If-Match"},
			ExposedHeaders: []string{"ETag"},
		}).Handler)
	}
	r.Use(LimitBody(maxBodyBytes))

	// Notes CRUD.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Route("/notes/{id}", func(r chi.Router) {
		r.Get("/", h.GetNote)
		r.Put("/", h.UpdateNote)
		r.Delete("/", h.DeleteNote)

		// Derived views.
		r.Get("/tasks", h.NoteTasks)
		r.Post("/tasks/{index}/toggle", h.ToggleTask)
		r.Get("/stats", h.NoteStats)
		r.Get("/preview", h.Preview)

		// Editing.
		r.Post("/undo", h.Undo)
		r.Post("/redo", h.Redo)
		r.Post("/format", h.Format)
		r.Post("/replace", h.Replace)
		r.Post("/insert", h.Insert)
		r.Post("/tags", h.AddTag)
		r.Delete("/tags", h.RemoveTag)
		r.Post("/move", h.Move)
		r.Post("/privacy", h.SetPrivacy)
	})

	// Aggregates.
	r.Get("/tasks", h.TaskSummary)
	r.Post("/tasks", h.QuickAddTask)
	r.Get("/folders", h.Folders)
	r.Post("/folders", h.CreateFolder)
	r.Get("/reminders", h.Reminders)
	r.Get("/search", h.Search)

	// Assistant.
	r.Get("/assistant", h.AssistantFeatures)
	r.Post("/assistant/accept", h.AssistantAccept)
	r.Post("/assistant/{feature}", h.AssistantRun)

	if events != nil {
		r.Get("/events", events.ServeHTTP)
	}

	return r
}
