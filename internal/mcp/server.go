// Package mcp exposes ClickUp operations to AI assistants over the Model
// Context Protocol. Tool and resource handlers report missing credentials
// and API failures as textual results rather than protocol errors so that
// assistants can relay them to the user.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"clickup/internal/backend/clickup"
	"clickup/internal/commands"
	"clickup/internal/config"
	"clickup/internal/service"
)

// Factory builds the backing service. Tests substitute a fake.
type Factory func(cfg *config.Config) (service.Service, error)

// Server wires tools, resources and prompts into an MCP server backed by the
// ClickUp API. The service is created lazily on first use so the server can
// start without credentials.
type Server struct {
	cfg     *config.Config
	factory Factory
	srv     *server.MCPServer

	mu  sync.Mutex
	svc service.Service
}

// New creates a fully wired MCP server. A nil factory uses the HTTP backend.
func New(cfg *config.Config, factory Factory) *Server {
	if factory == nil {
		factory = func(cfg *config.Config) (service.Service, error) {
			return clickup.New(cfg)
		}
	}
	s := &Server{
		cfg:     cfg,
		factory: factory,
		srv: server.NewMCPServer(
			"clickup",
			commands.Version,
			server.WithToolCapabilities(true),
			server.WithResourceCapabilities(true, true),
			server.WithPromptCapabilities(true),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	s.registerResources()
	s.registerPrompts()
	return s
}

// ServeStdio blocks serving the MCP protocol on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.srv)
}

// service returns the lazily constructed backend, or an error when no
// credentials are configured.
func (s *Server) service() (service.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.svc != nil {
		return s.svc, nil
	}
	if !s.cfg.HasCredentials() {
		return nil, fmt.Errorf("ClickUp API token not configured")
	}
	svc, err := s.factory(s.cfg)
	if err != nil {
		return nil, err
	}
	s.svc = svc
	return svc, nil
}

func apiErrorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("ClickUp API Error: %v", err))
}

func (s *Server) registerTools() {
	s.srv.AddTool(mcp.NewTool("create_task",
		mcp.WithDescription("Create a new task in ClickUp"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Task name")),
		mcp.WithString("list_id", mcp.Required(), mcp.Description("List ID to create task in")),
		mcp.WithString("description", mcp.Description("Task description (optional)")),
		mcp.WithNumber("priority", mcp.Description("Priority 1-4 (1=urgent, 4=low) (optional)")),
		mcp.WithString("assignee", mcp.Description("Assignee user ID (optional)")),
		mcp.WithString("due_date", mcp.Description("Due date in YYYY-MM-DD format (optional)")),
	), s.handleCreateTask)

	s.srv.AddTool(mcp.NewTool("get_task",
		mcp.WithDescription("Get detailed information about a specific task"),
		mcp.WithString("task_id", mcp.Required(), mcp.Description("Task ID")),
	), s.handleGetTask)

	s.srv.AddTool(mcp.NewTool("update_task",
		mcp.WithDescription("Update an existing task"),
		mcp.WithString("task_id", mcp.Required(), mcp.Description("Task ID")),
		mcp.WithString("name", mcp.Description("New task name (optional)")),
		mcp.WithString("description", mcp.Description("New description (optional)")),
		mcp.WithString("status", mcp.Description("New status (optional)")),
		mcp.WithNumber("priority", mcp.Description("New priority 1-4 (optional)")),
	), s.handleUpdateTask)

	s.srv.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks from a specific list"),
		mcp.WithString("list_id", mcp.Required(), mcp.Description("List ID")),
		mcp.WithString("status", mcp.Description("Filter by status (optional)")),
		mcp.WithString("assignee", mcp.Description("Filter by assignee (optional)")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of tasks (default: 50)")),
	), s.handleListTasks)

	s.srv.AddTool(mcp.NewTool("search_tasks",
		mcp.WithDescription("Search for tasks across a team/workspace"),
		mcp.WithString("team_id", mcp.Required(), mcp.Description("Team/workspace ID")),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default: 50)")),
	), s.handleSearchTasks)

	s.srv.AddTool(mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task"),
		mcp.WithString("task_id", mcp.Required(), mcp.Description("Task ID to delete")),
	), s.handleDeleteTask)

	s.srv.AddTool(mcp.NewTool("create_comment",
		mcp.WithDescription("Add a comment to a task"),
		mcp.WithString("task_id", mcp.Required(), mcp.Description("Task ID")),
		mcp.WithString("comment", mcp.Required(), mcp.Description("Comment text")),
	), s.handleCreateComment)
}

func (s *Server) handleCreateTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	listID, err := req.RequireString("list_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	svc, err := s.service()
	if err != nil {
		return apiErrorResult(err), nil
	}

	taskReq := service.TaskRequest{
		Name:        name,
		Description: req.GetString("description", ""),
		Priority:    req.GetInt("priority", 0),
		DueDate:     req.GetString("due_date", ""),
	}
	if assignee := req.GetString("assignee", ""); assignee != "" {
		var id int
		if _, err := fmt.Sscanf(assignee, "%d", &id); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("assignee must be a numeric user id: %q", assignee)), nil
		}
		taskReq.Assignees = []int{id}
	}

	task, err := svc.CreateTask(ctx, listID, taskReq)
	if err != nil {
		return apiErrorResult(err), nil
	}
	url := task.URL
	if url == "" {
		url = "N/A"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Created task: %s\nID: %s\nURL: %s", task.Name, task.ID, url)), nil
}

func (s *Server) handleGetTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := req.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	svc, err := s.service()
	if err != nil {
		return apiErrorResult(err), nil
	}

	task, err := svc.GetTask(ctx, taskID)
	if err != nil {
		return apiErrorResult(err), nil
	}

	url := task.URL
	if url == "" {
		url = "N/A"
	}
	description := task.Description
	if description == "" {
		description = "None"
	}
	dueDate := task.DueDate
	if dueDate == "" {
		dueDate = "None"
	}
	text := fmt.Sprintf("Task: %s\nID: %s\nStatus: %s\nAssignees: %s\nPriority: %s\nDue Date: %s\nDescription: %s\nURL: %s",
		task.Name, task.ID, task.StatusName(), task.AssigneeNames(), task.PriorityName(), dueDate, description, url)
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleUpdateTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := req.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	taskReq := service.TaskRequest{
		Name:        req.GetString("name", ""),
		Description: req.GetString("description", ""),
		Status:      req.GetString("status", ""),
		Priority:    req.GetInt("priority", 0),
	}
	if taskReq.Name == "" && taskReq.Description == "" && taskReq.Status == "" && taskReq.Priority == 0 {
		return mcp.NewToolResultError("No updates provided"), nil
	}

	svc, err := s.service()
	if err != nil {
		return apiErrorResult(err), nil
	}
	task, err := svc.UpdateTask(ctx, taskID, taskReq)
	if err != nil {
		return apiErrorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Updated task: %s\nID: %s", task.Name, task.ID)), nil
}

func (s *Server) handleListTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	listID, err := req.RequireString("list_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	svc, err := s.service()
	if err != nil {
		return apiErrorResult(err), nil
	}

	filter := service.TaskFilter{}
	if status := req.GetString("status", ""); status != "" {
		filter.Statuses = []string{status}
	}
	if assignee := req.GetString("assignee", ""); assignee != "" {
		filter.Assignees = []string{assignee}
	}
	limit := req.GetInt("limit", 50)

	tasks, err := svc.GetTasks(ctx, listID, filter)
	if err != nil {
		return apiErrorResult(err), nil
	}
	if limit >= 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	if len(tasks) == 0 {
		return mcp.NewToolResultText("No tasks found"), nil
	}

	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, fmt.Sprintf("- %s (ID: %s) - %s - %s", t.Name, t.ID, t.StatusName(), t.AssigneeNames()))
	}
	return mcp.NewToolResultText(fmt.Sprintf("Found %d tasks:\n\n%s", len(tasks), strings.Join(lines, "\n"))), nil
}

func (s *Server) handleSearchTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	teamID, err := req.RequireString("team_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	svc, err := s.service()
	if err != nil {
		return apiErrorResult(err), nil
	}

	limit := req.GetInt("limit", 50)
	tasks, err := svc.SearchTasks(ctx, teamID, query)
	if err != nil {
		return apiErrorResult(err), nil
	}
	if limit >= 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	if len(tasks) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No tasks found for query: %s", query)), nil
	}

	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, fmt.Sprintf("- %s (ID: %s) - %s", t.Name, t.ID, t.StatusName()))
	}
	return mcp.NewToolResultText(fmt.Sprintf("Found %d tasks for %q:\n\n%s", len(tasks), query, strings.Join(lines, "\n"))), nil
}

func (s *Server) handleDeleteTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := req.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	svc, err := s.service()
	if err != nil {
		return apiErrorResult(err), nil
	}
	if err := svc.DeleteTask(ctx, taskID); err != nil {
		return apiErrorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted task %s", taskID)), nil
}

func (s *Server) handleCreateComment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := req.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	comment, err := req.RequireString("comment")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	svc, err := s.service()
	if err != nil {
		return apiErrorResult(err), nil
	}
	if _, err := svc.CreateComment(ctx, taskID, comment); err != nil {
		return apiErrorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Added comment to task %s", taskID)), nil
}

func (s *Server) registerResources() {
	s.srv.AddResource(mcp.NewResource(
		"clickup://workspaces", "Workspaces",
		mcp.WithResourceDescription("List of all available workspaces/teams"),
		mcp.WithMIMEType("application/json"),
	), s.handleWorkspacesResource)

	s.srv.AddResourceTemplate(mcp.NewResourceTemplate(
		"clickup://spaces/{workspace_id}", "Spaces",
		mcp.WithTemplateDescription("List of spaces in a workspace"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.handleSpacesResource)

	s.srv.AddResourceTemplate(mcp.NewResourceTemplate(
		"clickup://folders/{space_id}", "Folders",
		mcp.WithTemplateDescription("List of folders in a space"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.handleFoldersResource)

	s.srv.AddResourceTemplate(mcp.NewResourceTemplate(
		"clickup://lists/{folder_id}", "Lists",
		mcp.WithTemplateDescription("List of lists in a folder"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.handleListsResource)

	s.srv.AddResourceTemplate(mcp.NewResourceTemplate(
		"clickup://members/{workspace_id}", "Team Members",
		mcp.WithTemplateDescription("List of members in a workspace"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.handleMembersResource)
}

// lastSegment extracts the trailing path element of a resource URI.
func lastSegment(uri string) string {
	parts := strings.Split(uri, "/")
	return parts[len(parts)-1]
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: uri, MIMEType: "application/json", Text: string(data)},
	}, nil
}

func jsonResourceError(uri string, err error) ([]mcp.ResourceContents, error) {
	return jsonResource(uri, map[string]string{"error": fmt.Sprintf("ClickUp API Error: %v", err)})
}

func (s *Server) handleWorkspacesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	svc, err := s.service()
	if err != nil {
		return jsonResourceError(req.Params.URI, err)
	}
	teams, err := svc.GetTeams(ctx)
	if err != nil {
		return jsonResourceError(req.Params.URI, err)
	}
	payload := make([]map[string]any, 0, len(teams))
	for _, t := range teams {
		payload = append(payload, map[string]any{
			"id": t.ID, "name": t.Name, "color": t.Color, "member_count": len(t.Members),
		})
	}
	return jsonResource(req.Params.URI, payload)
}

func (s *Server) handleSpacesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	svc, err := s.service()
	if err != nil {
		return jsonResourceError(req.Params.URI, err)
	}
	spaces, err := svc.GetSpaces(ctx, lastSegment(req.Params.URI))
	if err != nil {
		return jsonResourceError(req.Params.URI, err)
	}
	payload := make([]map[string]any, 0, len(spaces))
	for _, sp := range spaces {
		payload = append(payload, map[string]any{
			"id": sp.ID, "name": sp.Name, "private": sp.Private, "status_count": len(sp.Statuses),
		})
	}
	return jsonResource(req.Params.URI, payload)
}

func (s *Server) handleFoldersResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	svc, err := s.service()
	if err != nil {
		return jsonResourceError(req.Params.URI, err)
	}
	folders, err := svc.GetFolders(ctx, lastSegment(req.Params.URI))
	if err != nil {
		return jsonResourceError(req.Params.URI, err)
	}
	payload := make([]map[string]any, 0, len(folders))
	for _, f := range folders {
		payload = append(payload, map[string]any{
			"id": f.ID, "name": f.Name, "hidden": f.Hidden, "task_count": f.TaskCount,
		})
	}
	return jsonResource(req.Params.URI, payload)
}

func (s *Server) handleListsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	svc, err := s.service()
	if err != nil {
		return jsonResourceError(req.Params.URI, err)
	}
	lists, err := svc.GetLists(ctx, lastSegment(req.Params.URI))
	if err != nil {
		return jsonResourceError(req.Params.URI, err)
	}
	payload := make([]map[string]any, 0, len(lists))
	for _, l := range lists {
		payload = append(payload, map[string]any{
			"id": l.ID, "name": l.Name, "task_count": l.TaskCount, "archived": l.Archived,
		})
	}
	return jsonResource(req.Params.URI, payload)
}

func (s *Server) handleMembersResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	svc, err := s.service()
	if err != nil {
		return jsonResourceError(req.Params.URI, err)
	}
	members, err := svc.GetTeamMembers(ctx, lastSegment(req.Params.URI))
	if err != nil {
		return jsonResourceError(req.Params.URI, err)
	}
	payload := make([]map[string]any, 0, len(members))
	for _, m := range members {
		payload = append(payload, map[string]any{
			"id": m.ID, "username": m.Username, "email": m.Email, "color": m.Color,
		})
	}
	return jsonResource(req.Params.URI, payload)
}
