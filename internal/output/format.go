// Package output provides table, tree and JSON renderers for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table renders rows under a header line, columns aligned with tabs.
func Table(w io.Writer, headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// KeyValues renders a two-column field/value block without a header.
func KeyValues(w io.Writer, pairs [][2]string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, p := range pairs {
		fmt.Fprintf(tw, "%s\t%s\n", p[0], p[1])
	}
	tw.Flush()
}

// JSON renders v as indented JSON, the machine-readable mode every
// list-producing command supports.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// TreeNode is one line of an indented hierarchy render.
type TreeNode struct {
	Label string
	Depth int
}

// Tree renders nodes with two spaces of indent per depth level.
func Tree(w io.Writer, nodes []TreeNode) {
	for _, n := range nodes {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", n.Depth), n.Label)
	}
}

// Truncate shortens s to max runes, appending "..." when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// OrNone substitutes "None" for an empty value.
func OrNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

// Mask hides a secret, keeping a recognizable prefix and suffix when the
// value is long enough.
func Mask(s string) string {
	if len(s) > 12 {
		return s[:8] + "..." + s[len(s)-4:]
	}
	return "***"
}
