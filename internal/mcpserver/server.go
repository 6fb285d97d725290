// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes notegenius tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/notegenius/internal/apperr"
	"github.com/starford/notegenius/internal/index"
	"github.com/starford/notegenius/internal/models"
	"github.com/starford/notegenius/internal/noteservice"
	"github.com/starford/notegenius/internal/parser"
	"github.com/starford/notegenius/internal/tasks"
)

// Server wraps the MCP server with notegenius tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all notegenius tools registered.
func New(svc *noteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"notegenius",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Full-text search through note titles, content and tags. Private notes are excluded."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a note as Markdown with its YAML frontmatter."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new note. Task lines in content MUST follow the checklist "+
			"format; read it first via the get_checklist_contract tool or the "+
			ChecklistFormatURI+" resource."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("content", mcp.Description("Markdown body")),
		mcp.WithString("folder", mcp.Description("Folder name (default General)")),
		mcp.WithString("type", mcp.Description("Note type"), mcp.Enum("note", "checklist", "task")),
		mcp.WithArray("tags", mcp.WithStringItems(), mcp.Description("Tags")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List public notes, newest first, optionally filtered by folder or tag."),
		mcp.WithString("folder", mcp.Description("Optional folder (empty for all)")),
		mcp.WithString("tag", mcp.Description("Optional tag")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("With id: the tasks of one note with their indices. "+
			"Without id: the task summary across notes and the notes matching filter."),
		mcp.WithString("id", mcp.Description("Optional note id")),
		mcp.WithString("filter", mcp.Description("Task filter when no id is given"),
			mcp.Enum(string(tasks.FilterAll), string(tasks.FilterPending), string(tasks.FilterCompleted), string(tasks.FilterOverdue))),
	), s.listTasks)

	s.mcp.AddTool(mcp.NewTool("toggle_task",
		mcp.WithDescription("Flip the completion state of the task at index in a note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based task position")),
	), s.toggleTask)

	s.mcp.AddTool(mcp.NewTool("note_stats",
		mcp.WithDescription("Word, sentence and paragraph counts, reading time and readability of a note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.noteStats)

	s.mcp.AddTool(mcp.NewTool("get_checklist_contract",
		mcp.WithDescription("Returns the checklist line format. "+
			"Call this before writing task lines into notes."),
	), s.getChecklistContract)

	// Resource: checklist format contract.
	s.mcp.AddResource(
		mcp.NewResource(ChecklistFormatURI, "Checklist Format Contract",
			mcp.WithResourceDescription("Canonical task line format inside note bodies."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readChecklistResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func errorResult(id string, err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id))
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, req.GetInt("limit", 20), false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no notes found"), nil
	}
	return jsonResult(results), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.Get(ctx, id)
	if err != nil {
		return errorResult(id, err), nil
	}
	data, err := parser.Marshal(&note.Note)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.Create(ctx, noteservice.CreateInput{
		Title:   title,
		Content: req.GetString("content", ""),
		Folder:  req.GetString("folder", ""),
		Type:    models.NoteType(req.GetString("type", "")),
		Tags:    req.GetStringSlice("tags", nil),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", note.ID)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, _, err := s.svc.List(ctx, index.ListQuery{
		Folder: req.GetString("folder", ""),
		Tag:    req.GetString("tag", ""),
		Limit:  500,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("no notes found"), nil
	}
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "%s\t%s\t%s", it.ID, it.Folder, it.Title)
		if it.TaskTotal > 0 {
			fmt.Fprintf(&b, "\t%d/%d tasks", it.TaskCompleted, it.TaskTotal)
		}
		b.WriteByte('\n')
	}
	return mcp.NewToolResultText(b.String()), nil
}

type indexedTask struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

func (s *Server) listTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if id := req.GetString("id", ""); id != "" {
		items, err := s.svc.Tasks(ctx, id)
		if err != nil {
			return errorResult(id, err), nil
		}
		out := make([]indexedTask, len(items))
		for i, t := range items {
			out[i] = indexedTask{Index: i, Text: t.Text, Completed: t.Completed}
		}
		return jsonResult(out), nil
	}

	f, err := tasks.ParseFilter(req.GetString("filter", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	overview, err := s.svc.TaskSummary(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(overview), nil
}

func (s *Server) toggleTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	idx, err := req.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.ToggleTask(ctx, id, idx)
	if err != nil {
		return errorResult(id, err), nil
	}
	state := "open"
	if note.Tasks[idx].Completed {
		state = "completed"
	}
	return mcp.NewToolResultText(fmt.Sprintf("task %d is now %s: %s", idx, state, note.Tasks[idx].Text)), nil
}

func (s *Server) noteStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	stats, err := s.svc.Stats(ctx, id)
	if err != nil {
		return errorResult(id, err), nil
	}
	return jsonResult(stats), nil
}

func (s *Server) getChecklistContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ChecklistContract), nil
}

func (s *Server) readChecklistResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ChecklistFormatURI,
			MIMEType: "text/markdown",
			Text:     ChecklistContract,
		},
	}, nil
}
