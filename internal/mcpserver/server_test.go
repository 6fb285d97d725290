package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/notegenius/internal/noteservice"
	"github.com/starford/notegenius/internal/testutil"
)

func testServer(t *testing.T) (*Server, *noteservice.Service) {
	t.Helper()
	_, store := testutil.TestStore(t)
	db := testutil.TestDB(t)
	svc := noteservice.NewService(store, db, noteservice.WithLogger(testutil.QuietLogger()))
	return New(svc, "test"), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so handlers are
	// invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_notes":
		result, err = srv.searchNotes(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "create_note":
		result, err = srv.createNote(ctx, req)
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "list_tasks":
		result, err = srv.listTasks(ctx, req)
	case "toggle_task":
		result, err = srv.toggleTask(ctx, req)
	case "note_stats":
		result, err = srv.noteStats(ctx, req)
	case "get_checklist_contract":
		result, err = srv.getChecklistContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func createID(t *testing.T, srv *Server, args map[string]interface{}) string {
	t.Helper()
	r := callTool(t, srv, "create_note", args)
	text := resultText(r)
	if r.IsError || !strings.HasPrefix(text, "created: ") {
		t.Fatalf("create result = %q", text)
	}
	return strings.TrimPrefix(text, "created: ")
}

func TestCreateAndReadNote(t *testing.T) {
	srv, _ := testServer(t)
	id := createID(t, srv, map[string]interface{}{
		"title":   "Groceries",
		"content": "- [ ] Buy milk",
		"type":    "checklist",
		"tags":    []interface{}{"home", "weekly"},
	})

	r := callTool(t, srv, "read_note", map[string]interface{}{"id": id})
	text := resultText(r)
	for _, want := range []string{"title: Groceries", "type: checklist", "- home", "---\n- [ ] Buy milk"} {
		if !strings.Contains(text, want) {
			t.Errorf("read result missing %q:\n%s", want, text)
		}
	}
}

func TestCreateNoteInvalid(t *testing.T) {
	srv, _ := testServer(t)
	if r := callTool(t, srv, "create_note", map[string]interface{}{}); !r.IsError {
		t.Error("expected error without title")
	}
	if r := callTool(t, srv, "create_note", map[string]interface{}{"title": "x", "type": "diary"}); !r.IsError {
		t.Error("expected error for unknown type")
	}
}

func TestReadNoteMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_note", map[string]interface{}{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
	if got := resultText(r); got != "not found: nope" {
		t.Errorf("error = %q", got)
	}
}

func TestListAndSearchNotes(t *testing.T) {
	srv, _ := testServer(t)
	if got := resultText(callTool(t, srv, "list_notes", map[string]interface{}{})); got != "no notes found" {
		t.Errorf("empty list = %q", got)
	}

	createID(t, srv, map[string]interface{}{"title": "Alpha", "content": "- [x] done", "folder": "Work"})
	createID(t, srv, map[string]interface{}{"title": "Beta", "content": "marmalade recipe"})

	text := resultText(callTool(t, srv, "list_notes", map[string]interface{}{"folder": "Work"}))
	if !strings.Contains(text, "Alpha") || strings.Contains(text, "Beta") {
		t.Errorf("list = %q", text)
	}
	if !strings.Contains(text, "1/1 tasks") {
		t.Errorf("expected task counts in %q", text)
	}

	text = resultText(callTool(t, srv, "search_notes", map[string]interface{}{"query": "marmalade"}))
	if !strings.Contains(text, "Beta") {
		t.Errorf("search = %q", text)
	}
	text = resultText(callTool(t, srv, "search_notes", map[string]interface{}{"query": "zzzz"}))
	if text != "no notes found" {
		t.Errorf("empty search = %q", text)
	}
}

func TestTasksTools(t *testing.T) {
	srv, _ := testServer(t)
	id := createID(t, srv, map[string]interface{}{
		"title":   "Errands",
		"content": "- [ ] Buy milk\n- [ ] Pay rent\n- [ ] Call Sam",
	})

	r := callTool(t, srv, "toggle_task", map[string]interface{}{"id": id, "index": float64(1)})
	if r.IsError {
		t.Fatalf("toggle: %s", resultText(r))
	}
	if got := resultText(r); got != "task 1 is now completed: Pay rent" {
		t.Errorf("toggle = %q", got)
	}

	var items []indexedTask
	if err := json.Unmarshal([]byte(resultText(callTool(t, srv, "list_tasks", map[string]interface{}{"id": id}))), &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 || !items[1].Completed || items[2].Index != 2 {
		t.Errorf("tasks = %+v", items)
	}

	var overview noteservice.TaskOverview
	if err := json.Unmarshal([]byte(resultText(callTool(t, srv, "list_tasks", map[string]interface{}{"filter": "pending"}))), &overview); err != nil {
		t.Fatal(err)
	}
	if overview.Summary.Total != 3 || overview.Summary.Completed != 1 || overview.Summary.CompletionRate != 33 {
		t.Errorf("summary = %+v", overview.Summary)
	}

	if r := callTool(t, srv, "toggle_task", map[string]interface{}{"id": id, "index": float64(3)}); !r.IsError {
		t.Error("expected out of range error")
	}
	if r := callTool(t, srv, "list_tasks", map[string]interface{}{"filter": "someday"}); !r.IsError {
		t.Error("expected filter error")
	}
}

func TestNoteStats(t *testing.T) {
	srv, _ := testServer(t)
	id := createID(t, srv, map[string]interface{}{"title": "S", "content": "Hello world. This is a test."})

	var stats map[string]any
	if err := json.Unmarshal([]byte(resultText(callTool(t, srv, "note_stats", map[string]interface{}{"id": id}))), &stats); err != nil {
		t.Fatal(err)
	}
	if stats["words"] != float64(6) || stats["paragraphs"] != float64(1) {
		t.Errorf("stats = %v", stats)
	}
}

func TestChecklistContract(t *testing.T) {
	srv, _ := testServer(t)
	text := resultText(callTool(t, srv, "get_checklist_contract", nil))
	if !strings.Contains(text, "- [ ] Open task text") || !strings.Contains(text, "- [x] Completed task text") {
		t.Errorf("contract = %q", text)
	}

	res, err := srv.readChecklistResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := res[0].(mcp.TextResourceContents)
	if !ok || tc.URI != ChecklistFormatURI || tc.Text != ChecklistContract {
		t.Errorf("resource = %+v", res)
	}
}
