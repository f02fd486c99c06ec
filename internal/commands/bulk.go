package commands

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"clickup/internal/config"
	"clickup/internal/exitcode"
	"clickup/internal/service"
)

func init() {
	Register(&BulkCmd{})
}

// BulkCmd performs batch imports, exports and updates against a list.
// Items within a batch run concurrently; a failed item is counted and
// logged without aborting the rest.
type BulkCmd struct {
	listID       string
	file         string
	outFile      string
	format       string
	batchSize    int
	dryRun       bool
	filterStatus string
	status       string
	priority     int
	assignee     string
	force        bool

	in io.Reader
}

func (c *BulkCmd) Name() string      { return "bulk" }
func (c *BulkCmd) Aliases() []string { return nil }
func (c *BulkCmd) Synopsis() string  { return "Batch operations on tasks" }
func (c *BulkCmd) Usage() string     { return "clickup bulk <import|export|update> [flags]" }
func (c *BulkCmd) NeedsAuth() bool   { return true }

func (c *BulkCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listID, "list-id", "", "")
	fs.StringVar(&c.listID, "l", "", "")
	fs.StringVar(&c.file, "file", "", "")
	fs.StringVar(&c.outFile, "output", "tasks.json", "")
	fs.StringVar(&c.outFile, "o", "tasks.json", "")
	fs.StringVar(&c.format, "format", "", "")
	fs.IntVar(&c.batchSize, "batch-size", 10, "")
	fs.BoolVar(&c.dryRun, "dry-run", false, "")
	fs.StringVar(&c.filterStatus, "filter-status", "", "")
	fs.StringVar(&c.status, "status", "", "")
	fs.IntVar(&c.priority, "priority", 0, "")
	fs.StringVar(&c.assignee, "assignee", "", "")
	fs.BoolVar(&c.force, "force", false, "")
	fs.BoolVar(&c.force, "f", false, "")
}

func (c *BulkCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return usageError(errOut, c.Usage())
	}
	if c.batchSize < 1 {
		c.batchSize = 1
	}
	switch args[0] {
	case "import":
		return c.runImport(ctx, cfg, svc, out, errOut)
	case "export":
		return c.runExport(ctx, cfg, svc, out, errOut)
	case "update":
		return c.runUpdate(ctx, cfg, svc, out, errOut)
	default:
		fmt.Fprintf(errOut, "error: unknown bulk action: %s\n", args[0])
		return exitcode.Error
	}
}

// readImportFile parses the import file into task requests. The format is
// taken from --format, falling back to the file extension.
func (c *BulkCmd) readImportFile() ([]service.TaskRequest, error) {
	data, err := os.ReadFile(c.file)
	if err != nil {
		return nil, err
	}

	format := c.format
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(c.file), ".")
	}

	switch strings.ToLower(format) {
	case "json":
		var reqs []service.TaskRequest
		if err := json.Unmarshal(data, &reqs); err != nil {
			return nil, fmt.Errorf("parse %s: %w", c.file, err)
		}
		return reqs, nil
	case "csv":
		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", c.file, err)
		}
		if len(records) < 2 {
			return nil, nil
		}
		cols := map[string]int{}
		for i, name := range records[0] {
			cols[strings.ToLower(strings.TrimSpace(name))] = i
		}
		field := func(record []string, name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		reqs := make([]service.TaskRequest, 0, len(records)-1)
		for _, record := range records[1:] {
			req := service.TaskRequest{
				Name:        field(record, "name"),
				Description: field(record, "description"),
				Status:      field(record, "status"),
				DueDate:     field(record, "due_date"),
			}
			if p := field(record, "priority"); p != "" {
				if n, err := strconv.Atoi(p); err == nil {
					req.Priority = n
				}
			}
			reqs = append(reqs, req)
		}
		return reqs, nil
	default:
		return nil, fmt.Errorf("unsupported import format: %s", format)
	}
}

func (c *BulkCmd) runImport(ctx context.Context, cfg *config.Config, svc service.Service, out, errOut io.Writer) int {
	if c.file == "" {
		fmt.Fprintln(errOut, "error: import file required. Use --file")
		return exitcode.Error
	}
	listID, err := resolveList(cfg, c.listID)
	if err != nil {
		return fail(errOut, err)
	}
	reqs, err := c.readImportFile()
	if err != nil {
		return fail(errOut, err)
	}

	valid := reqs[:0]
	skipped := 0
	for _, req := range reqs {
		if strings.TrimSpace(req.Name) == "" {
			skipped++
			continue
		}
		valid = append(valid, req)
	}
	if skipped > 0 {
		fmt.Fprintf(out, "Skipping %d rows with no name\n", skipped)
	}
	if len(valid) == 0 {
		fmt.Fprintln(out, "Nothing to import.")
		return exitcode.Success
	}

	if c.dryRun {
		fmt.Fprintf(out, "Dry run: would create %d tasks in list %s\n", len(valid), listID)
		for _, req := range valid {
			fmt.Fprintf(out, "  - %s\n", req.Name)
		}
		return exitcode.Success
	}

	created, failed := c.forEachBatch(ctx, len(valid), func(ctx context.Context, i int) error {
		_, err := svc.CreateTask(ctx, listID, valid[i])
		if err != nil {
			logrus.WithError(err).Warnf("create %q failed", valid[i].Name)
		}
		return err
	})

	fmt.Fprintf(out, "Created %d tasks, %d failed\n", created, failed)
	if failed > 0 {
		return exitcode.Error
	}
	return exitcode.Success
}

func (c *BulkCmd) runExport(ctx context.Context, cfg *config.Config, svc service.Service, out, errOut io.Writer) int {
	listID, err := resolveList(cfg, c.listID)
	if err != nil {
		return fail(errOut, err)
	}
	filter := service.TaskFilter{IncludeClosed: true}
	if c.filterStatus != "" {
		filter.Statuses = []string{c.filterStatus}
	}
	tasks, err := svc.GetTasks(ctx, listID, filter)
	if err != nil {
		return fail(errOut, err)
	}

	format := c.format
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(c.outFile), ".")
	}
	if format == "" {
		format = "json"
	}
	if err := exportTasks(tasks, c.outFile, format); err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintf(out, "Exported %d tasks to %s\n", len(tasks), c.outFile)
	return exitcode.Success
}

func (c *BulkCmd) runUpdate(ctx context.Context, cfg *config.Config, svc service.Service, out, errOut io.Writer) int {
	if c.status == "" && c.priority == 0 && c.assignee == "" {
		fmt.Fprintln(errOut, "error: no updates specified. Use --status, --priority or --assignee")
		return exitcode.Error
	}
	listID, err := resolveList(cfg, c.listID)
	if err != nil {
		return fail(errOut, err)
	}

	filter := service.TaskFilter{IncludeClosed: true}
	if c.filterStatus != "" {
		filter.Statuses = []string{c.filterStatus}
	}
	tasks, err := svc.GetTasks(ctx, listID, filter)
	if err != nil {
		return fail(errOut, err)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks matched.")
		return exitcode.Success
	}

	req := service.TaskRequest{Status: c.status, Priority: c.priority}
	if c.assignee != "" {
		id, err := strconv.Atoi(c.assignee)
		if err != nil {
			fmt.Fprintf(errOut, "error: assignee must be a numeric user id: %q\n", c.assignee)
			return exitcode.Error
		}
		req.Assignees = []int{id}
	}

	fmt.Fprintf(out, "Will update %d tasks:\n", len(tasks))
	for _, t := range tasks {
		fmt.Fprintf(out, "  - %s (%s)\n", t.Name, t.ID)
	}
	if c.dryRun {
		fmt.Fprintln(out, "Dry run: no changes made.")
		return exitcode.Success
	}
	if !c.force {
		in := c.in
		if in == nil {
			in = os.Stdin
		}
		if !confirm(in, out, "Proceed?") {
			fmt.Fprintln(out, "Cancelled.")
			return exitcode.Success
		}
	}

	updated, failed := c.forEachBatch(ctx, len(tasks), func(ctx context.Context, i int) error {
		_, err := svc.UpdateTask(ctx, tasks[i].ID, req)
		if err != nil {
			logrus.WithError(err).Warnf("update %s failed", tasks[i].ID)
		}
		return err
	})

	fmt.Fprintf(out, "Updated %d tasks, %d failed\n", updated, failed)
	if failed > 0 {
		return exitcode.Error
	}
	return exitcode.Success
}

// forEachBatch runs fn for indexes 0..n-1 in batches of batchSize goroutines
// and returns succeeded and failed counts.
func (c *BulkCmd) forEachBatch(ctx context.Context, n int, fn func(ctx context.Context, i int) error) (int, int) {
	var (
		mu        sync.Mutex
		succeeded int
		failed    int
	)
	for start := 0; start < n; start += c.batchSize {
		end := start + c.batchSize
		if end > n {
			end = n
		}
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				err := fn(ctx, i)
				mu.Lock()
				if err != nil {
					failed++
				} else {
					succeeded++
				}
				mu.Unlock()
			}(i)
		}
		wg.Wait()
	}
	return succeeded, failed
}
