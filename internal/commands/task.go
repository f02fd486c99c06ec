package commands

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"clickup/internal/config"
	"clickup/internal/exitcode"
	"clickup/internal/output"
	"clickup/internal/service"
)

func init() {
	Register(&TaskCmd{})
}

// TaskCmd groups the task actions: list, get, create, update, status,
// delete, search, export.
type TaskCmd struct {
	listID      string
	status      string
	assignee    string
	limit       int
	name        string
	description string
	priority    int
	dueDate     string
	parent      string
	workspaceID string
	queryText   string
	outFile     string
	format      string
	inclClosed  bool
	force       bool
	jsonOut     bool

	in io.Reader // prompt source, defaults to os.Stdin
}

func (c *TaskCmd) Name() string      { return "task" }
func (c *TaskCmd) Aliases() []string { return []string{"tasks"} }
func (c *TaskCmd) Synopsis() string  { return "Manage tasks" }
func (c *TaskCmd) Usage() string {
	return "clickup task <list|get|create|update|status|delete|search|export> [flags]"
}
func (c *TaskCmd) NeedsAuth() bool { return true }

func (c *TaskCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listID, "list-id", "", "")
	fs.StringVar(&c.listID, "l", "", "")
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.assignee, "assignee", "", "")
	fs.IntVar(&c.limit, "limit", 50, "")
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.IntVar(&c.priority, "priority", 0, "")
	fs.StringVar(&c.dueDate, "due-date", "", "")
	fs.StringVar(&c.parent, "parent", "", "")
	fs.StringVar(&c.workspaceID, "workspace-id", "", "")
	fs.StringVar(&c.workspaceID, "team-id", "", "")
	fs.StringVar(&c.queryText, "query", "", "")
	fs.StringVar(&c.queryText, "q", "", "")
	fs.StringVar(&c.outFile, "output", "tasks.json", "")
	fs.StringVar(&c.outFile, "o", "tasks.json", "")
	fs.StringVar(&c.format, "format", "json", "")
	fs.BoolVar(&c.inclClosed, "include-completed", true, "")
	fs.BoolVar(&c.force, "force", false, "")
	fs.BoolVar(&c.force, "f", false, "")
	fs.BoolVar(&c.jsonOut, "json", false, "")
}

func (c *TaskCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return usageError(errOut, c.Usage())
	}
	action, rest := args[0], args[1:]
	switch action {
	case "list", "ls":
		return c.runList(ctx, cfg, svc, out, errOut)
	case "get":
		return c.runGet(ctx, svc, rest, out, errOut)
	case "create", "add":
		return c.runCreate(ctx, cfg, svc, rest, out, errOut)
	case "update":
		return c.runUpdate(ctx, svc, rest, out, errOut)
	case "status":
		return c.runStatus(ctx, svc, rest, out, errOut)
	case "delete", "rm":
		return c.runDelete(ctx, cfg, svc, rest, out, errOut)
	case "search":
		return c.runSearch(ctx, cfg, svc, out, errOut)
	case "export":
		return c.runExport(ctx, cfg, svc, out, errOut)
	default:
		fmt.Fprintf(errOut, "error: unknown task action: %s\n", action)
		return exitcode.Error
	}
}

// resolveList applies the list-id flag with a fallback to the configured
// default. A reference matching a configured alias maps to its list id;
// anything else is passed to the remote service as-is.
func resolveList(cfg *config.Config, flagVal string) (string, error) {
	ref := flagVal
	if ref == "" {
		ref = cfg.GetString("default_list_id")
	}
	if ref == "" {
		return "", service.NewConfigError("no list id provided and no default list configured. Use --list-id or 'clickup config set default_list_id <id>'")
	}
	if id, ok := cfg.DefaultLists()[ref]; ok {
		return id, nil
	}
	return ref, nil
}

func (c *TaskCmd) filter() service.TaskFilter {
	filter := service.TaskFilter{}
	if c.status != "" {
		filter.Statuses = []string{c.status}
	}
	if c.assignee != "" {
		filter.Assignees = []string{c.assignee}
	}
	return filter
}

func (c *TaskCmd) runList(ctx context.Context, cfg *config.Config, svc service.Service, out, errOut io.Writer) int {
	listID, err := resolveList(cfg, c.listID)
	if err != nil {
		return fail(errOut, err)
	}

	tasks, err := svc.GetTasks(ctx, listID, c.filter())
	if err != nil {
		return fail(errOut, err)
	}
	if c.limit >= 0 && len(tasks) > c.limit {
		tasks = tasks[:c.limit]
	}

	if c.jsonOut {
		if err := output.JSON(out, tasks); err != nil {
			return fail(errOut, err)
		}
		return exitcode.Success
	}

	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return exitcode.Success
	}
	writeTaskTable(out, tasks)
	return exitcode.Success
}

func writeTaskTable(out io.Writer, tasks []service.Task) {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			t.ID, t.Name, t.StatusName(), t.AssigneeNames(), t.PriorityName(), output.OrNone(t.DueDate),
		})
	}
	output.Table(out, []string{"ID", "NAME", "STATUS", "ASSIGNEES", "PRIORITY", "DUE DATE"}, rows)
}

func (c *TaskCmd) runGet(ctx context.Context, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(errOut, "clickup task get <task-id>")
	}
	task, err := svc.GetTask(ctx, args[0])
	if err != nil {
		return fail(errOut, err)
	}

	if c.jsonOut {
		if err := output.JSON(out, task); err != nil {
			return fail(errOut, err)
		}
		return exitcode.Success
	}

	output.KeyValues(out, [][2]string{
		{"ID", task.ID},
		{"Name", task.Name},
		{"Description", output.OrNone(task.Description)},
		{"Status", task.StatusName()},
		{"Assignees", task.AssigneeNames()},
		{"Priority", task.PriorityName()},
		{"Due Date", output.OrNone(task.DueDate)},
		{"Created", output.OrNone(task.DateCreated)},
		{"Updated", output.OrNone(task.DateUpdated)},
		{"URL", output.OrNone(task.URL)},
	})
	return exitcode.Success
}

// buildRequest assembles the create/update payload from flags. Only supplied
// fields are sent; the remote applies patch semantics.
func (c *TaskCmd) buildRequest(name string) (service.TaskRequest, error) {
	req := service.TaskRequest{
		Name:        name,
		Description: c.description,
		Status:      c.status,
		Priority:    c.priority,
		DueDate:     c.dueDate,
		Parent:      c.parent,
	}
	if c.assignee != "" {
		id, err := strconv.Atoi(c.assignee)
		if err != nil {
			return service.TaskRequest{}, fmt.Errorf("assignee must be a numeric user id: %q", c.assignee)
		}
		req.Assignees = []int{id}
	}
	return req, nil
}

func (c *TaskCmd) runCreate(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return usageError(errOut, "clickup task create <name...> [flags]")
	}
	listID, err := resolveList(cfg, c.listID)
	if err != nil {
		return fail(errOut, err)
	}
	req, err := c.buildRequest(strings.Join(args, " "))
	if err != nil {
		return fail(errOut, err)
	}

	task, err := svc.CreateTask(ctx, listID, req)
	if err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "Created task: %s (ID: %s)\n", task.Name, task.ID)
		if task.URL != "" {
			fmt.Fprintf(out, "URL: %s\n", task.URL)
		}
	}
	return exitcode.Success
}

func (c *TaskCmd) runUpdate(ctx context.Context, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(errOut, "clickup task update <task-id> [flags]")
	}
	if c.name == "" && c.description == "" && c.status == "" && c.priority == 0 &&
		c.dueDate == "" && c.parent == "" && c.assignee == "" {
		fmt.Fprintln(errOut, "error: no updates specified")
		return exitcode.Error
	}
	req, err := c.buildRequest(c.name)
	if err != nil {
		return fail(errOut, err)
	}

	task, err := svc.UpdateTask(ctx, args[0], req)
	if err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintf(out, "Updated task: %s (ID: %s)\n", task.Name, task.ID)
	return exitcode.Success
}

func (c *TaskCmd) runStatus(ctx context.Context, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		return usageError(errOut, "clickup task status <task-id> <status>")
	}
	task, err := svc.UpdateTask(ctx, args[0], service.TaskRequest{Status: args[1]})
	if err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintf(out, "Updated task status: %s -> %s\n", task.Name, args[1])
	return exitcode.Success
}

func (c *TaskCmd) runDelete(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(errOut, "clickup task delete <task-id> [--force]")
	}
	taskID := args[0]

	if !c.force {
		in := c.in
		if in == nil {
			in = os.Stdin
		}
		if !confirm(in, out, fmt.Sprintf("Delete task %s?", taskID)) {
			fmt.Fprintln(out, "Cancelled.")
			return exitcode.Success
		}
	}

	if err := svc.DeleteTask(ctx, taskID); err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "Deleted task %s\n", taskID)
	}
	return exitcode.Success
}

func (c *TaskCmd) runSearch(ctx context.Context, cfg *config.Config, svc service.Service, out, errOut io.Writer) int {
	if c.queryText == "" {
		fmt.Fprintln(errOut, "error: search query required. Use --query")
		return exitcode.Error
	}
	teamID := c.workspaceID
	if teamID == "" {
		teamID = cfg.GetString("default_team_id")
	}
	if teamID == "" {
		fmt.Fprintln(errOut, "error: workspace id required. Use --workspace-id or set a default team")
		return exitcode.Error
	}

	tasks, err := svc.SearchTasks(ctx, teamID, c.queryText)
	if err != nil {
		return fail(errOut, err)
	}

	if c.jsonOut {
		if err := output.JSON(out, tasks); err != nil {
			return fail(errOut, err)
		}
		return exitcode.Success
	}
	if len(tasks) == 0 {
		fmt.Fprintf(out, "No tasks found matching %q\n", c.queryText)
		return exitcode.Success
	}
	writeTaskTable(out, tasks)
	fmt.Fprintf(out, "\nFound %d tasks\n", len(tasks))
	return exitcode.Success
}

func (c *TaskCmd) runExport(ctx context.Context, cfg *config.Config, svc service.Service, out, errOut io.Writer) int {
	listID, err := resolveList(cfg, c.listID)
	if err != nil {
		return fail(errOut, err)
	}

	filter := service.TaskFilter{IncludeClosed: c.inclClosed}
	tasks, err := svc.GetTasks(ctx, listID, filter)
	if err != nil {
		return fail(errOut, err)
	}

	if err := exportTasks(tasks, c.outFile, c.format); err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintf(out, "Exported %d tasks to %s\n", len(tasks), c.outFile)
	return exitcode.Success
}

// exportTasks writes tasks to path as CSV or JSON with flattened status,
// priority and assignee columns.
func exportTasks(tasks []service.Task, path, format string) error {
	switch strings.ToLower(format) {
	case "json":
		flat := make([]map[string]any, 0, len(tasks))
		for _, t := range tasks {
			flat = append(flat, map[string]any{
				"id":           t.ID,
				"name":         t.Name,
				"description":  t.Description,
				"status":       taskStatusRaw(t),
				"priority":     taskPriorityRaw(t),
				"assignees":    assigneeList(t),
				"due_date":     t.DueDate,
				"date_created": t.DateCreated,
				"date_updated": t.DateUpdated,
				"url":          t.URL,
			})
		}
		data, err := json.MarshalIndent(flat, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(path, append(data, '\n'), 0644)
	case "csv":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w := csv.NewWriter(f)
		if err := w.Write([]string{"id", "name", "description", "status", "priority", "assignees", "due_date", "date_created", "date_updated", "url"}); err != nil {
			return err
		}
		for _, t := range tasks {
			record := []string{
				t.ID, t.Name, t.Description, taskStatusRaw(t), taskPriorityRaw(t),
				strings.Join(assigneeList(t), ", "), t.DueDate, t.DateCreated, t.DateUpdated, t.URL,
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

func taskStatusRaw(t service.Task) string {
	if t.Status == nil {
		return ""
	}
	return t.Status.Status
}

func taskPriorityRaw(t service.Task) string {
	if t.Priority == nil {
		return ""
	}
	return t.Priority.Priority
}

func assigneeList(t service.Task) []string {
	names := make([]string, 0, len(t.Assignees))
	for _, a := range t.Assignees {
		names = append(names, a.Username)
	}
	return names
}
