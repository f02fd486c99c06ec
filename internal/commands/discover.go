package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"clickup/internal/config"
	"clickup/internal/exitcode"
	"clickup/internal/output"
	"clickup/internal/service"
)

func init() {
	Register(&DiscoverCmd{})
}

// DiscoverCmd walks the workspace hierarchy and prints it as a tree or as a
// flat id listing suitable for seeding config defaults.
type DiscoverCmd struct {
	workspaceID string
	jsonOut     bool
}

func (c *DiscoverCmd) Name() string      { return "discover" }
func (c *DiscoverCmd) Aliases() []string { return nil }
func (c *DiscoverCmd) Synopsis() string  { return "Explore the workspace hierarchy" }
func (c *DiscoverCmd) Usage() string     { return "clickup discover [tree|ids] [flags]" }
func (c *DiscoverCmd) NeedsAuth() bool   { return true }

func (c *DiscoverCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.workspaceID, "workspace-id", "", "")
	fs.StringVar(&c.workspaceID, "team-id", "", "")
	fs.BoolVar(&c.jsonOut, "json", false, "")
}

// node is one level of the discovered hierarchy.
type node struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Children []node `json:"children,omitempty"`
}

func (c *DiscoverCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	action := "tree"
	if len(args) > 0 {
		action = args[0]
	}
	if action != "tree" && action != "ids" {
		fmt.Fprintf(errOut, "error: unknown discover action: %s\n", action)
		return exitcode.Error
	}

	roots, err := c.walk(ctx, cfg, svc)
	if err != nil {
		return fail(errOut, err)
	}

	if c.jsonOut {
		if err := output.JSON(out, roots); err != nil {
			return fail(errOut, err)
		}
		return exitcode.Success
	}

	switch action {
	case "tree":
		var flat []output.TreeNode
		for _, root := range roots {
			flat = appendTree(flat, root, 0)
		}
		output.Tree(out, flat)
	case "ids":
		rows := make([][]string, 0)
		for _, root := range roots {
			rows = appendIDs(rows, root)
		}
		output.Table(out, []string{"KIND", "ID", "NAME"}, rows)
	}
	return exitcode.Success
}

// walk fetches workspaces, spaces, folders and lists. A single workspace id
// restricts the walk; otherwise every visible workspace is traversed.
func (c *DiscoverCmd) walk(ctx context.Context, cfg *config.Config, svc service.Service) ([]node, error) {
	teams, err := svc.GetTeams(ctx)
	if err != nil {
		return nil, err
	}
	teamID := c.workspaceID
	if teamID == "" {
		teamID = cfg.GetString("default_team_id")
	}

	var roots []node
	for _, team := range teams {
		if teamID != "" && team.ID != teamID {
			continue
		}
		root := node{ID: team.ID, Name: team.Name, Kind: "workspace"}
		spaces, err := svc.GetSpaces(ctx, team.ID)
		if err != nil {
			return nil, err
		}
		for _, space := range spaces {
			sn := node{ID: space.ID, Name: space.Name, Kind: "space"}

			folders, err := svc.GetFolders(ctx, space.ID)
			if err != nil {
				return nil, err
			}
			for _, folder := range folders {
				fn := node{ID: folder.ID, Name: folder.Name, Kind: "folder"}
				lists, err := svc.GetLists(ctx, folder.ID)
				if err != nil {
					return nil, err
				}
				for _, list := range lists {
					fn.Children = append(fn.Children, node{ID: list.ID, Name: list.Name, Kind: "list"})
				}
				sn.Children = append(sn.Children, fn)
			}

			loose, err := svc.GetFolderlessLists(ctx, space.ID)
			if err != nil {
				return nil, err
			}
			for _, list := range loose {
				sn.Children = append(sn.Children, node{ID: list.ID, Name: list.Name, Kind: "list"})
			}
			root.Children = append(root.Children, sn)
		}
		roots = append(roots, root)
	}
	return roots, nil
}

func appendTree(flat []output.TreeNode, n node, depth int) []output.TreeNode {
	flat = append(flat, output.TreeNode{Label: fmt.Sprintf("%s (%s: %s)", n.Name, n.Kind, n.ID), Depth: depth})
	for _, child := range n.Children {
		flat = appendTree(flat, child, depth+1)
	}
	return flat
}

func appendIDs(rows [][]string, n node) [][]string {
	rows = append(rows, []string{n.Kind, n.ID, n.Name})
	for _, child := range n.Children {
		rows = appendIDs(rows, child)
	}
	return rows
}
