package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"clickup/internal/config"
	"clickup/internal/service"
	"clickup/internal/testutil"
)

func newTestServer(t *testing.T, fake *testutil.FakeService) *Server {
	t.Helper()
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cfg.SetAPIToken("pk_test")
	return New(cfg, func(cfg *config.Config) (service.Service, error) {
		return fake, nil
	})
}

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty result content")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return text.Text
}

func TestCreateTaskTool(t *testing.T) {
	fake := testutil.NewFakeService()
	srv := newTestServer(t, fake)

	res, err := srv.handleCreateTask(context.Background(), toolRequest("create_task", map[string]any{
		"name":    "New feature",
		"list_id": "list1",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	if !strings.Contains(resultText(t, res), "Created task: New feature") {
		t.Errorf("unexpected text: %q", resultText(t, res))
	}
	if fake.CreateCalls != 1 {
		t.Errorf("create calls = %d", fake.CreateCalls)
	}
}

func TestCreateTaskTool_MissingArgument(t *testing.T) {
	srv := newTestServer(t, testutil.NewFakeService())

	res, err := srv.handleCreateTask(context.Background(), toolRequest("create_task", map[string]any{
		"name": "No list",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Fatal("expected error result")
	}
}

func TestCreateTaskTool_NoCredentials(t *testing.T) {
	t.Setenv("CLICKUP_API_TOKEN", "")
	t.Setenv("CLICKUP_TOKEN", "")
	t.Setenv("CLICKUP_CLIENT_ID", "")
	t.Setenv("CLICKUP_OAUTH_CLIENT_ID", "")
	t.Setenv("CLICKUP_CLIENT_SECRET", "")
	t.Setenv("CLICKUP_OAUTH_CLIENT_SECRET", "")

	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := New(cfg, func(cfg *config.Config) (service.Service, error) {
		return testutil.NewFakeService(), nil
	})

	res, err := srv.handleCreateTask(context.Background(), toolRequest("create_task", map[string]any{
		"name":    "X",
		"list_id": "list1",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(resultText(t, res), "ClickUp API token not configured") {
		t.Errorf("unexpected text: %q", resultText(t, res))
	}
}

func TestGetTaskTool(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddTask("list1", service.Task{
		ID:       "t1",
		Name:     "Inspect",
		Status:   &service.Status{Status: "open"},
		Priority: &service.Priority{Priority: "high"},
	})
	srv := newTestServer(t, fake)

	res, err := srv.handleGetTask(context.Background(), toolRequest("get_task", map[string]any{"task_id": "t1"}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, res)
	for _, want := range []string{"Task: Inspect", "Status: open", "Priority: high", "Assignees: Unassigned"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in %q", want, text)
		}
	}
}

func TestGetTaskTool_NotFound(t *testing.T) {
	srv := newTestServer(t, testutil.NewFakeService())

	res, err := srv.handleGetTask(context.Background(), toolRequest("get_task", map[string]any{"task_id": "nope"}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(resultText(t, res), "ClickUp API Error") {
		t.Errorf("unexpected text: %q", resultText(t, res))
	}
}

func TestUpdateTaskTool_NoUpdates(t *testing.T) {
	srv := newTestServer(t, testutil.NewFakeService())

	res, err := srv.handleUpdateTask(context.Background(), toolRequest("update_task", map[string]any{"task_id": "t1"}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError || !strings.Contains(resultText(t, res), "No updates provided") {
		t.Errorf("unexpected result: %q", resultText(t, res))
	}
}

func TestListTasksTool(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddTask("list1", service.Task{ID: "t1", Name: "One"})
	fake.AddTask("list1", service.Task{ID: "t2", Name: "Two"})
	srv := newTestServer(t, fake)

	res, err := srv.handleListTasks(context.Background(), toolRequest("list_tasks", map[string]any{"list_id": "list1"}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "Found 2 tasks") || !strings.Contains(text, "One") {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestListTasksTool_NegativeLimit(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddTask("list1", service.Task{ID: "t1", Name: "One"})
	fake.AddTask("list1", service.Task{ID: "t2", Name: "Two"})
	srv := newTestServer(t, fake)

	res, err := srv.handleListTasks(context.Background(), toolRequest("list_tasks", map[string]any{
		"list_id": "list1",
		"limit":   -1,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resultText(t, res), "Found 2 tasks") {
		t.Errorf("unexpected text: %q", resultText(t, res))
	}
}

func TestSearchTasksTool_NegativeLimit(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddTask("list1", service.Task{ID: "t1", Name: "Fix login"})
	srv := newTestServer(t, fake)

	res, err := srv.handleSearchTasks(context.Background(), toolRequest("search_tasks", map[string]any{
		"team_id": "team1",
		"query":   "login",
		"limit":   -1,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resultText(t, res), "Found 1 tasks") {
		t.Errorf("unexpected text: %q", resultText(t, res))
	}
}

func TestListTasksTool_Empty(t *testing.T) {
	srv := newTestServer(t, testutil.NewFakeService())

	res, err := srv.handleListTasks(context.Background(), toolRequest("list_tasks", map[string]any{"list_id": "list1"}))
	if err != nil {
		t.Fatal(err)
	}
	if resultText(t, res) != "No tasks found" {
		t.Errorf("unexpected text: %q", resultText(t, res))
	}
}

func TestSearchTasksTool(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddTask("list1", service.Task{ID: "t1", Name: "Fix login"})
	srv := newTestServer(t, fake)

	res, err := srv.handleSearchTasks(context.Background(), toolRequest("search_tasks", map[string]any{
		"team_id": "team1",
		"query":   "login",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resultText(t, res), `Found 1 tasks for "login"`) {
		t.Errorf("unexpected text: %q", resultText(t, res))
	}
}

func TestDeleteTaskTool(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddTask("list1", service.Task{ID: "t1", Name: "Doomed"})
	srv := newTestServer(t, fake)

	res, err := srv.handleDeleteTask(context.Background(), toolRequest("delete_task", map[string]any{"task_id": "t1"}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resultText(t, res), "Deleted task t1") {
		t.Errorf("unexpected text: %q", resultText(t, res))
	}
	if fake.DeleteCalls != 1 {
		t.Errorf("delete calls = %d", fake.DeleteCalls)
	}
}

func TestCreateCommentTool(t *testing.T) {
	fake := testutil.NewFakeService()
	srv := newTestServer(t, fake)

	res, err := srv.handleCreateComment(context.Background(), toolRequest("create_comment", map[string]any{
		"task_id": "t1",
		"comment": "looks good",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resultText(t, res), "Added comment to task t1") {
		t.Errorf("unexpected text: %q", resultText(t, res))
	}
}

func readRequest(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func TestWorkspacesResource(t *testing.T) {
	srv := newTestServer(t, testutil.NewFakeService())

	contents, err := srv.handleWorkspacesResource(context.Background(), readRequest("clickup://workspaces"))
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d", len(contents))
	}
	text := contents[0].(mcp.TextResourceContents)
	if text.MIMEType != "application/json" {
		t.Errorf("mime = %q", text.MIMEType)
	}
	if !strings.Contains(text.Text, `"name": "Acme"`) {
		t.Errorf("unexpected payload: %s", text.Text)
	}
}

func TestSpacesResource(t *testing.T) {
	srv := newTestServer(t, testutil.NewFakeService())

	contents, err := srv.handleSpacesResource(context.Background(), readRequest("clickup://spaces/team1"))
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents)
	if !strings.Contains(text.Text, "Engineering") {
		t.Errorf("unexpected payload: %s", text.Text)
	}
}

func TestResource_APIErrorAsPayload(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.TeamsErr = service.NewServerError("server error: 500", 500)
	srv := newTestServer(t, fake)

	contents, err := srv.handleWorkspacesResource(context.Background(), readRequest("clickup://workspaces"))
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents)
	if !strings.Contains(text.Text, "ClickUp API Error") {
		t.Errorf("unexpected payload: %s", text.Text)
	}
}

func promptRequest(args map[string]string) mcp.GetPromptRequest {
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = args
	return req
}

func TestDailyStandupPrompt(t *testing.T) {
	srv := newTestServer(t, testutil.NewFakeService())

	res, err := srv.handleDailyStandup(context.Background(), promptRequest(map[string]string{
		"team_id":  "team1",
		"assignee": "alice",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Messages) != 1 || res.Messages[0].Role != mcp.RoleUser {
		t.Fatalf("messages = %+v", res.Messages)
	}
	text := res.Messages[0].Content.(mcp.TextContent).Text
	if !strings.Contains(text, "team team1") || !strings.Contains(text, "alice") {
		t.Errorf("unexpected prompt: %q", text)
	}
}

func TestBugTriagePrompt_DefaultSeverity(t *testing.T) {
	srv := newTestServer(t, testutil.NewFakeService())

	res, err := srv.handleBugTriage(context.Background(), promptRequest(map[string]string{"list_id": "list1"}))
	if err != nil {
		t.Fatal(err)
	}
	text := res.Messages[0].Content.(mcp.TextContent).Text
	if !strings.Contains(text, "severity: medium") || !strings.Contains(text, "Severity: MEDIUM") {
		t.Errorf("unexpected prompt: %q", text)
	}
}
