package service

import "context"

// TaskFilter selects tasks from a list. Zero values are omitted from the
// query string; the remote API is authoritative about which filters exist.
type TaskFilter struct {
	Statuses      []string `url:"statuses[],omitempty" json:"statuses,omitempty"`
	Assignees     []string `url:"assignees[],omitempty" json:"assignees,omitempty"`
	IncludeClosed bool     `url:"include_closed,omitempty" json:"include_closed,omitempty"`
	Subtasks      bool     `url:"subtasks,omitempty" json:"subtasks,omitempty"`
	Page          int      `url:"page,omitempty" json:"page,omitempty"`
	OrderBy       string   `url:"order_by,omitempty" json:"order_by,omitempty"`
	Reverse       bool     `url:"reverse,omitempty" json:"reverse,omitempty"`
}

// TaskRequest carries the fields of a task create or partial update. Only
// non-zero fields are sent; the remote applies patch semantics on update.
type TaskRequest struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status,omitempty"`
	Priority    int      `json:"priority,omitempty"`
	Assignees   []int    `json:"assignees,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	Parent      string   `json:"parent,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ListRequest carries the fields of a list create call.
type ListRequest struct {
	Name     string `json:"name"`
	Content  string `json:"content,omitempty"`
	DueDate  string `json:"due_date,omitempty"`
	Priority int    `json:"priority,omitempty"`
	Assignee int    `json:"assignee,omitempty"`
	Status   string `json:"status,omitempty"`
}

// Service is the interface between the command/automation layers and the
// ClickUp backend. Commands never build HTTP requests directly. Results
// preserve remote response order; collection calls return empty slices when
// the remote omits the collection key.
type Service interface {
	GetTeams(ctx context.Context) ([]Team, error)
	GetTeam(ctx context.Context, teamID string) (Team, error)
	GetTeamMembers(ctx context.Context, teamID string) ([]User, error)

	GetSpaces(ctx context.Context, teamID string) ([]Space, error)
	GetSpace(ctx context.Context, spaceID string) (Space, error)

	GetFolders(ctx context.Context, spaceID string) ([]Folder, error)
	GetFolder(ctx context.Context, folderID string) (Folder, error)

	GetLists(ctx context.Context, folderID string) ([]List, error)
	GetFolderlessLists(ctx context.Context, spaceID string) ([]List, error)
	GetList(ctx context.Context, listID string) (List, error)
	CreateList(ctx context.Context, folderID string, req ListRequest) (List, error)
	CreateFolderlessList(ctx context.Context, spaceID string, req ListRequest) (List, error)

	GetTasks(ctx context.Context, listID string, filter TaskFilter) ([]Task, error)
	GetTask(ctx context.Context, taskID string) (Task, error)
	CreateTask(ctx context.Context, listID string, req TaskRequest) (Task, error)
	UpdateTask(ctx context.Context, taskID string, req TaskRequest) (Task, error)
	DeleteTask(ctx context.Context, taskID string) error
	SearchTasks(ctx context.Context, teamID, query string) ([]Task, error)

	GetTaskComments(ctx context.Context, taskID string) ([]Comment, error)
	CreateComment(ctx context.Context, taskID, text string) (Comment, error)

	GetUser(ctx context.Context) (User, error)

	// ValidateAuth performs a who-am-I call and reduces the outcome to a
	// tri-state instead of returning an error, so callers can present
	// friendly diagnostics.
	ValidateAuth(ctx context.Context) (bool, string, *User)
}
