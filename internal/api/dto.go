package api

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/notegenius/internal/assistant"
	"github.com/starford/notegenius/internal/editor"
	"github.com/starford/notegenius/internal/index"
	"github.com/starford/notegenius/internal/models"
	"github.com/starford/notegenius/internal/noteservice"
)

var noteTypes = []any{string(models.TypeNote), string(models.TypeChecklist), string(models.TypeTask)}

// notBlank rejects strings made only of whitespace.
var notBlank = validation.By(func(v any) error {
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return validation.NewError("validation_blank", "cannot be blank")
	}
	return nil
})

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title     string     `json:"title" example:"Groceries"`
	Content   string     `json:"content" example:"- [ ] Buy milk"`
	Tags      []string   `json:"tags,omitempty"`
	Folder    string     `json:"folder,omitempty" example:"General"`
	Type      string     `json:"type,omitempty" example:"checklist"`
	Reminder  *time.Time `json:"reminder,omitempty"`
	IsPrivate bool       `json:"is_private"`
	IsLocked  bool       `json:"is_locked"`
}

// Validate validates the request.
func (r *CreateNoteRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Length(0, 500)),
		validation.Field(&r.Type, validation.In(noteTypes...)),
	)
}

func (r *CreateNoteRequest) input() noteservice.CreateInput {
	return noteservice.CreateInput{
		Title:     r.Title,
		Content:   r.Content,
		Tags:      r.Tags,
		Folder:    r.Folder,
		Type:      models.NoteType(r.Type),
		Reminder:  r.Reminder,
		IsPrivate: r.IsPrivate,
		IsLocked:  r.IsLocked,
	}
}

// UpdateNoteRequest is a partial update; omitted fields are unchanged.
type UpdateNoteRequest struct {
	Title         *string    `json:"title,omitempty"`
	Content       *string    `json:"content,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Folder        *string    `json:"folder,omitempty"`
	Type          *string    `json:"type,omitempty"`
	Reminder      *time.Time `json:"reminder,omitempty"`
	ClearReminder bool       `json:"clear_reminder,omitempty"`
	IsPrivate     *bool      `json:"is_private,omitempty"`
	IsLocked      *bool      `json:"is_locked,omitempty"`
}

// Validate validates the request.
func (r *UpdateNoteRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Length(0, 500)),
		validation.Field(&r.Folder, validation.NilOrNotEmpty),
		validation.Field(&r.Type, validation.NilOrNotEmpty, validation.In(noteTypes...)),
	)
}

func (r *UpdateNoteRequest) input() noteservice.UpdateInput {
	in := noteservice.UpdateInput{
		Title:         r.Title,
		Content:       r.Content,
		Tags:          r.Tags,
		Folder:        r.Folder,
		Reminder:      r.Reminder,
		ClearReminder: r.ClearReminder,
		IsPrivate:     r.IsPrivate,
		IsLocked:      r.IsLocked,
	}
	if r.Type != nil {
		t := models.NoteType(*r.Type)
		in.Type = &t
	}
	return in
}

// FormatRequest applies a formatting action to a selection.
type FormatRequest struct {
	Format string `json:"format" example:"bold"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// Validate validates the request.
func (r *FormatRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Format, validation.Required),
		validation.Field(&r.Start, validation.Min(0)),
		validation.Field(&r.End, validation.Min(r.Start)),
	)
}

func (r *FormatRequest) selection() editor.Selection {
	return editor.Selection{Start: r.Start, End: r.End}
}

// ReplaceRequest replaces every occurrence of Find.
type ReplaceRequest struct {
	Find    string `json:"find" example:"milk"`
	Replace string `json:"replace" example:"oat milk"`
}

// Validate validates the request.
func (r *ReplaceRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Find, validation.Required),
		validation.Field(&r.Replace, validation.Required),
	)
}

// ReplaceResponse reports the edited note and the number of replacements.
type ReplaceResponse struct {
	Note  *NoteDetail `json:"note"`
	Count int         `json:"count" example:"2"`
}

// InsertRequest appends generated content.
type InsertRequest struct {
	Kind     string `json:"kind" example:"checkbox"`
	Language string `json:"language,omitempty" example:"go"`
}

// Validate validates the request.
func (r *InsertRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Kind, validation.Required),
	)
}

// TagRequest names a tag.
type TagRequest struct {
	Tag string `json:"tag" example:"work"`
}

// Validate validates the request.
func (r *TagRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Tag, validation.Required, notBlank),
	)
}

// MoveRequest moves a note to a folder.
type MoveRequest struct {
	Folder string `json:"folder" example:"Work"`
}

// Validate validates the request.
func (r *MoveRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Folder, validation.Required, notBlank),
	)
}

// PrivacyRequest sets the private flag.
type PrivacyRequest struct {
	Private bool `json:"private"`
}

// Validate validates the request.
func (r *PrivacyRequest) Validate() error { return nil }

// QuickAddRequest creates a one-item checklist.
type QuickAddRequest struct {
	Title string `json:"title" example:"Call Sam"`
}

// Validate validates the request.
func (r *QuickAddRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required, notBlank),
	)
}

// FolderRequest creates a folder.
type FolderRequest struct {
	Name string `json:"name" example:"Work"`
}

// Validate validates the request.
func (r *FolderRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, notBlank),
	)
}

// AssistantRequest runs an assistant feature.
type AssistantRequest struct {
	Content string `json:"content"`
	Input   string `json:"input,omitempty"`
}

// Validate validates the request.
func (r *AssistantRequest) Validate() error { return nil }

// AssistantResponse carries generated text.
type AssistantResponse struct {
	Feature assistant.Feature `json:"feature" example:"summarize"`
	Text    string            `json:"text"`
}

// AcceptRequest turns generated text into a note.
type AcceptRequest struct {
	Feature string `json:"feature" example:"summarize"`
	Text    string `json:"text"`
}

// Validate validates the request.
func (r *AcceptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Feature, validation.Required),
		validation.Field(&r.Text, validation.Required, notBlank),
	)
}

// AssistantFeaturesResponse lists the assistant features.
type AssistantFeaturesResponse struct {
	Enabled  bool             `json:"enabled"`
	Features []assistant.Info `json:"features"`
}

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteListItem is a lightweight item in a list response (aliased from the domain layer).
type NoteListItem = noteservice.NoteListItem

// NoteListResponse wraps paginated note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// TasksResponse lists the checklist items of a note.
type TasksResponse struct {
	Tasks     []models.Task `json:"tasks"`
	Total     int           `json:"total"`
	Completed int           `json:"completed"`
}

// PreviewResponse carries rendered HTML.
type PreviewResponse struct {
	HTML string `json:"html"`
}

// FoldersResponse wraps folder stats.
type FoldersResponse struct {
	Folders []index.FolderStat `json:"folders"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}
