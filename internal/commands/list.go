package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"clickup/internal/config"
	"clickup/internal/exitcode"
	"clickup/internal/output"
	"clickup/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd manages lists inside folders and spaces.
type ListCmd struct {
	folderID string
	spaceID  string
	content  string
	jsonOut  bool
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"lists"} }
func (c *ListCmd) Synopsis() string  { return "Manage lists" }
func (c *ListCmd) Usage() string     { return "clickup list <ls|get|create> [flags]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.folderID, "folder-id", "", "")
	fs.StringVar(&c.spaceID, "space-id", "", "")
	fs.StringVar(&c.content, "content", "", "")
	fs.BoolVar(&c.jsonOut, "json", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return usageError(errOut, c.Usage())
	}
	action, rest := args[0], args[1:]
	switch action {
	case "ls", "list":
		return c.runList(ctx, cfg, svc, out, errOut)
	case "get":
		return c.runGet(ctx, svc, rest, out, errOut)
	case "create", "add":
		return c.runCreate(ctx, svc, rest, out, errOut)
	default:
		fmt.Fprintf(errOut, "error: unknown list action: %s\n", action)
		return exitcode.Error
	}
}

func (c *ListCmd) runList(ctx context.Context, cfg *config.Config, svc service.Service, out, errOut io.Writer) int {
	var (
		lists []service.List
		err   error
	)
	switch {
	case c.folderID != "":
		lists, err = svc.GetLists(ctx, c.folderID)
	case c.spaceID != "":
		lists, err = svc.GetFolderlessLists(ctx, c.spaceID)
	case cfg.GetString("default_space_id") != "":
		lists, err = svc.GetFolderlessLists(ctx, cfg.GetString("default_space_id"))
	default:
		fmt.Fprintln(errOut, "error: provide --folder-id or --space-id, or set a default space")
		return exitcode.Error
	}
	if err != nil {
		return fail(errOut, err)
	}

	if c.jsonOut {
		if err := output.JSON(out, lists); err != nil {
			return fail(errOut, err)
		}
		return exitcode.Success
	}
	if len(lists) == 0 {
		fmt.Fprintln(out, "No lists found.")
		return exitcode.Success
	}
	rows := make([][]string, 0, len(lists))
	for _, l := range lists {
		folder := ""
		if l.Folder != nil {
			folder = l.Folder.Name
		}
		rows = append(rows, []string{l.ID, l.Name, strconv.Itoa(l.TaskCount), output.OrNone(folder)})
	}
	output.Table(out, []string{"ID", "NAME", "TASKS", "FOLDER"}, rows)
	return exitcode.Success
}

func (c *ListCmd) runGet(ctx context.Context, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(errOut, "clickup list get <list-id>")
	}
	list, err := svc.GetList(ctx, args[0])
	if err != nil {
		return fail(errOut, err)
	}

	if c.jsonOut {
		if err := output.JSON(out, list); err != nil {
			return fail(errOut, err)
		}
		return exitcode.Success
	}
	pairs := [][2]string{
		{"ID", list.ID},
		{"Name", list.Name},
		{"Tasks", strconv.Itoa(list.TaskCount)},
		{"Archived", strconv.FormatBool(list.Archived)},
	}
	if list.Folder != nil {
		pairs = append(pairs, [2]string{"Folder", fmt.Sprintf("%s (%s)", list.Folder.Name, list.Folder.ID)})
	}
	if list.Space != nil {
		pairs = append(pairs, [2]string{"Space", fmt.Sprintf("%s (%s)", list.Space.Name, list.Space.ID)})
	}
	output.KeyValues(out, pairs)
	return exitcode.Success
}

func (c *ListCmd) runCreate(ctx context.Context, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return usageError(errOut, "clickup list create <name> (--folder-id <id> | --space-id <id>)")
	}
	req := service.ListRequest{Name: args[0], Content: c.content}

	var (
		list service.List
		err  error
	)
	switch {
	case c.folderID != "":
		list, err = svc.CreateList(ctx, c.folderID, req)
	case c.spaceID != "":
		list, err = svc.CreateFolderlessList(ctx, c.spaceID, req)
	default:
		fmt.Fprintln(errOut, "error: provide --folder-id or --space-id")
		return exitcode.Error
	}
	if err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintf(out, "Created list: %s (ID: %s)\n", list.Name, list.ID)
	return exitcode.Success
}
