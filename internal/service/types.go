// Package service defines the backend-agnostic interface for ClickUp operations.
package service

// Records in this package mirror the ClickUp v2 wire format. Parsing is
// lenient: unknown remote fields are ignored, absent fields decode to zero
// values, and remote quirks (numeric user ids, string task_count on folders,
// date fields as opaque strings) are preserved rather than normalized.

// Status carries a task status definition (name, color, ordering).
type Status struct {
	ID         string `json:"id,omitempty"`
	Status     string `json:"status"`
	Color      string `json:"color,omitempty"`
	Type       string `json:"type,omitempty"`
	OrderIndex int    `json:"orderindex,omitempty"`
}

// Priority carries a task priority. OrderIndex is a string on the wire.
type Priority struct {
	ID         string `json:"id,omitempty"`
	Priority   string `json:"priority"`
	Color      string `json:"color,omitempty"`
	OrderIndex string `json:"orderindex,omitempty"`
}

// User is a ClickUp user. The id is numeric, unlike every other entity.
type User struct {
	ID             int    `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email,omitempty"`
	Color          string `json:"color,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// TeamMember wraps a user inside a team's member list.
type TeamMember struct {
	User User `json:"user"`
}

// Team is a ClickUp team, called a workspace in the UI.
type Team struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Color   string       `json:"color,omitempty"`
	Avatar  string       `json:"avatar,omitempty"`
	Members []TeamMember `json:"members,omitempty"`
}

// Space groups folders and lists under a team.
type Space struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Private           bool           `json:"private"`
	Statuses          []Status       `json:"statuses,omitempty"`
	MultipleAssignees bool           `json:"multiple_assignees"`
	Features          map[string]any `json:"features,omitempty"`
	Archived          bool           `json:"archived"`
}

// Ref is a lightweight back-reference (id plus optional name). Endpoints
// embed these instead of full parent objects; either field may be empty.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Folder groups lists inside a space. TaskCount is a string on the wire.
type Folder struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	OrderIndex       int    `json:"orderindex"`
	OverrideStatuses bool   `json:"override_statuses"`
	Hidden           bool   `json:"hidden"`
	Space            Ref    `json:"space"`
	TaskCount        string `json:"task_count"`
	Archived         bool   `json:"archived"`
	Lists            []List `json:"lists,omitempty"`
}

// List holds tasks. Folder and Space are both optional: a folderless list
// lives directly under a space, and some endpoints omit the links entirely.
type List struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	OrderIndex int    `json:"orderindex,omitempty"`
	Content    string `json:"content,omitempty"`
	TaskCount  int    `json:"task_count,omitempty"`
	DueDate    string `json:"due_date,omitempty"`
	StartDate  string `json:"start_date,omitempty"`
	Folder     *Ref   `json:"folder,omitempty"`
	Space      *Ref   `json:"space,omitempty"`
	Archived   bool   `json:"archived"`
}

// Tag is a task tag.
type Tag struct {
	Name    string `json:"name"`
	TagFg   string `json:"tag_fg,omitempty"`
	TagBg   string `json:"tag_bg,omitempty"`
	Creator int    `json:"creator,omitempty"`
}

// CustomField is a custom field value attached to a task.
type CustomField struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value,omitempty"`
}

// Task is a ClickUp task. Date fields are opaque strings (millisecond
// timestamps on the wire) and are never parsed client-side.
type Task struct {
	ID           string           `json:"id"`
	CustomID     string           `json:"custom_id,omitempty"`
	Name         string           `json:"name"`
	TextContent  string           `json:"text_content,omitempty"`
	Description  string           `json:"description,omitempty"`
	Status       *Status          `json:"status,omitempty"`
	OrderIndex   string           `json:"orderindex,omitempty"`
	DateCreated  string           `json:"date_created,omitempty"`
	DateUpdated  string           `json:"date_updated,omitempty"`
	DateClosed   string           `json:"date_closed,omitempty"`
	DateDone     string           `json:"date_done,omitempty"`
	Archived     bool             `json:"archived"`
	Creator      *User            `json:"creator,omitempty"`
	Assignees    []User           `json:"assignees,omitempty"`
	Watchers     []User           `json:"watchers,omitempty"`
	Checklists   []map[string]any `json:"checklists,omitempty"`
	Tags         []Tag            `json:"tags,omitempty"`
	Parent       string           `json:"parent,omitempty"`
	Priority     *Priority        `json:"priority,omitempty"`
	DueDate      string           `json:"due_date,omitempty"`
	StartDate    string           `json:"start_date,omitempty"`
	Points       int              `json:"points,omitempty"`
	TimeEstimate int64            `json:"time_estimate,omitempty"`
	TimeSpent    int64            `json:"time_spent,omitempty"`
	CustomFields []CustomField    `json:"custom_fields,omitempty"`
	Dependencies []map[string]any `json:"dependencies,omitempty"`
	LinkedTasks  []map[string]any `json:"linked_tasks,omitempty"`
	TeamID       string           `json:"team_id,omitempty"`
	URL          string           `json:"url,omitempty"`
	List         *Ref             `json:"list,omitempty"`
	Folder       *Ref             `json:"folder,omitempty"`
	Space        *Ref             `json:"space,omitempty"`
}

// StatusName returns the task's status name, or "Unknown" if unset.
func (t Task) StatusName() string {
	if t.Status == nil || t.Status.Status == "" {
		return "Unknown"
	}
	return t.Status.Status
}

// PriorityName returns the task's priority name, or "None" if unset.
func (t Task) PriorityName() string {
	if t.Priority == nil || t.Priority.Priority == "" {
		return "None"
	}
	return t.Priority.Priority
}

// AssigneeNames returns the comma-joined assignee usernames, or "Unassigned".
func (t Task) AssigneeNames() string {
	if len(t.Assignees) == 0 {
		return "Unassigned"
	}
	s := t.Assignees[0].Username
	for _, a := range t.Assignees[1:] {
		s += ", " + a.Username
	}
	return s
}

// CommentSegment is one rich-text segment of a comment body.
type CommentSegment struct {
	Text       string         `json:"text"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Comment is a task comment.
type Comment struct {
	ID          string           `json:"id"`
	Comment     []CommentSegment `json:"comment,omitempty"`
	CommentText string           `json:"comment_text"`
	User        User             `json:"user"`
	Date        string           `json:"date,omitempty"`
	Resolved    bool             `json:"resolved"`
}
