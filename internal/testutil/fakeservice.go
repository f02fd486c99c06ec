// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"clickup/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu        sync.RWMutex
	teams     []service.Team
	spaces    map[string][]service.Space  // teamID -> spaces
	folders   map[string][]service.Folder // spaceID -> folders
	lists     map[string][]service.List   // folderID -> lists
	looseList map[string][]service.List   // spaceID -> folderless lists
	tasks     map[string][]service.Task   // listID -> tasks
	comments  map[string][]service.Comment
	user      service.User
	nextID    int

	// Call counters for concurrency and batch assertions.
	CreateCalls int
	UpdateCalls int
	DeleteCalls int

	// Error injection
	TeamsErr    error
	SpacesErr   error
	FoldersErr  error
	ListsErr    error
	TasksErr    error
	GetTaskErr  error
	CreateErr   error
	UpdateErr   error
	DeleteErr   error
	SearchErr   error
	CommentsErr error
	UserErr     error
}

// NewFakeService creates a FakeService with a single workspace, space and
// list, and an authenticated user.
func NewFakeService() *FakeService {
	f := &FakeService{
		spaces:    make(map[string][]service.Space),
		folders:   make(map[string][]service.Folder),
		lists:     make(map[string][]service.List),
		looseList: make(map[string][]service.List),
		tasks:     make(map[string][]service.Task),
		comments:  make(map[string][]service.Comment),
		user:      service.User{ID: 1, Username: "tester", Email: "tester@example.com"},
		nextID:    1000,
	}
	f.teams = []service.Team{{ID: "team1", Name: "Acme"}}
	f.spaces["team1"] = []service.Space{{ID: "space1", Name: "Engineering"}}
	f.looseList["space1"] = []service.List{{ID: "list1", Name: "Backlog"}}
	return f
}

// AddTask seeds a task into a list.
func (f *FakeService) AddTask(listID string, task service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[listID] = append(f.tasks[listID], task)
}

// AddList seeds a list into a folder.
func (f *FakeService) AddList(folderID string, list service.List) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists[folderID] = append(f.lists[folderID], list)
}

// AddSpace seeds a space into a team.
func (f *FakeService) AddSpace(teamID string, space service.Space) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spaces[teamID] = append(f.spaces[teamID], space)
}

// AddFolder seeds a folder into a space.
func (f *FakeService) AddFolder(spaceID string, folder service.Folder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.folders[spaceID] = append(f.folders[spaceID], folder)
}

func (f *FakeService) newID() string {
	f.nextID++
	return fmt.Sprintf("t%d", f.nextID)
}

func (f *FakeService) GetTeams(ctx context.Context) ([]service.Team, error) {
	if f.TeamsErr != nil {
		return nil, f.TeamsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Team, len(f.teams))
	copy(out, f.teams)
	return out, nil
}

func (f *FakeService) GetTeam(ctx context.Context, teamID string) (service.Team, error) {
	if f.TeamsErr != nil {
		return service.Team{}, f.TeamsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.teams {
		if t.ID == teamID {
			return t, nil
		}
	}
	return service.Team{}, service.NewNotFoundError("resource not found", 404)
}

func (f *FakeService) GetTeamMembers(ctx context.Context, teamID string) ([]service.User, error) {
	if f.TeamsErr != nil {
		return nil, f.TeamsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.teams {
		if t.ID == teamID {
			users := make([]service.User, 0, len(t.Members))
			for _, m := range t.Members {
				users = append(users, m.User)
			}
			if len(users) == 0 {
				users = append(users, f.user)
			}
			return users, nil
		}
	}
	return nil, service.NewNotFoundError("resource not found", 404)
}

func (f *FakeService) GetSpaces(ctx context.Context, teamID string) ([]service.Space, error) {
	if f.SpacesErr != nil {
		return nil, f.SpacesErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Space, len(f.spaces[teamID]))
	copy(out, f.spaces[teamID])
	return out, nil
}

func (f *FakeService) GetSpace(ctx context.Context, spaceID string) (service.Space, error) {
	if f.SpacesErr != nil {
		return service.Space{}, f.SpacesErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, spaces := range f.spaces {
		for _, s := range spaces {
			if s.ID == spaceID {
				return s, nil
			}
		}
	}
	return service.Space{}, service.NewNotFoundError("resource not found", 404)
}

func (f *FakeService) GetFolders(ctx context.Context, spaceID string) ([]service.Folder, error) {
	if f.FoldersErr != nil {
		return nil, f.FoldersErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Folder, len(f.folders[spaceID]))
	copy(out, f.folders[spaceID])
	return out, nil
}

func (f *FakeService) GetFolder(ctx context.Context, folderID string) (service.Folder, error) {
	if f.FoldersErr != nil {
		return service.Folder{}, f.FoldersErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, folders := range f.folders {
		for _, fo := range folders {
			if fo.ID == folderID {
				return fo, nil
			}
		}
	}
	return service.Folder{}, service.NewNotFoundError("resource not found", 404)
}

func (f *FakeService) GetLists(ctx context.Context, folderID string) ([]service.List, error) {
	if f.ListsErr != nil {
		return nil, f.ListsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.List, len(f.lists[folderID]))
	copy(out, f.lists[folderID])
	return out, nil
}

func (f *FakeService) GetFolderlessLists(ctx context.Context, spaceID string) ([]service.List, error) {
	if f.ListsErr != nil {
		return nil, f.ListsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.List, len(f.looseList[spaceID]))
	copy(out, f.looseList[spaceID])
	return out, nil
}

func (f *FakeService) GetList(ctx context.Context, listID string) (service.List, error) {
	if f.ListsErr != nil {
		return service.List{}, f.ListsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, lists := range f.lists {
		for _, l := range lists {
			if l.ID == listID {
				return l, nil
			}
		}
	}
	for _, lists := range f.looseList {
		for _, l := range lists {
			if l.ID == listID {
				return l, nil
			}
		}
	}
	return service.List{}, service.NewNotFoundError("resource not found", 404)
}

func (f *FakeService) CreateList(ctx context.Context, folderID string, req service.ListRequest) (service.List, error) {
	if f.CreateErr != nil {
		return service.List{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	list := service.List{ID: f.newID(), Name: req.Name, Content: req.Content}
	f.lists[folderID] = append(f.lists[folderID], list)
	return list, nil
}

func (f *FakeService) CreateFolderlessList(ctx context.Context, spaceID string, req service.ListRequest) (service.List, error) {
	if f.CreateErr != nil {
		return service.List{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	list := service.List{ID: f.newID(), Name: req.Name, Content: req.Content}
	f.looseList[spaceID] = append(f.looseList[spaceID], list)
	return list, nil
}

func (f *FakeService) GetTasks(ctx context.Context, listID string, filter service.TaskFilter) ([]service.Task, error) {
	if f.TasksErr != nil {
		return nil, f.TasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []service.Task
	for _, t := range f.tasks[listID] {
		if len(filter.Statuses) > 0 && !statusMatch(t, filter.Statuses) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func statusMatch(t service.Task, statuses []string) bool {
	name := strings.ToLower(t.StatusName())
	for _, s := range statuses {
		if strings.ToLower(s) == name {
			return true
		}
	}
	return false
}

func (f *FakeService) GetTask(ctx context.Context, taskID string) (service.Task, error) {
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, tasks := range f.tasks {
		for _, t := range tasks {
			if t.ID == taskID {
				return t, nil
			}
		}
	}
	return service.Task{}, service.NewNotFoundError("resource not found", 404)
}

func (f *FakeService) CreateTask(ctx context.Context, listID string, req service.TaskRequest) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}
	task := service.Task{
		ID:          f.newID(),
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Status != "" {
		task.Status = &service.Status{Status: req.Status}
	}
	f.tasks[listID] = append(f.tasks[listID], task)
	return task, nil
}

func (f *FakeService) UpdateTask(ctx context.Context, taskID string, req service.TaskRequest) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	if f.UpdateErr != nil {
		return service.Task{}, f.UpdateErr
	}
	for listID, tasks := range f.tasks {
		for i, t := range tasks {
			if t.ID != taskID {
				continue
			}
			if req.Name != "" {
				t.Name = req.Name
			}
			if req.Description != "" {
				t.Description = req.Description
			}
			if req.Status != "" {
				t.Status = &service.Status{Status: req.Status}
			}
			f.tasks[listID][i] = t
			return t, nil
		}
	}
	return service.Task{}, service.NewNotFoundError("resource not found", 404)
}

func (f *FakeService) DeleteTask(ctx context.Context, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for listID, tasks := range f.tasks {
		for i, t := range tasks {
			if t.ID == taskID {
				f.tasks[listID] = append(tasks[:i:i], tasks[i+1:]...)
				return nil
			}
		}
	}
	return service.NewNotFoundError("resource not found", 404)
}

func (f *FakeService) SearchTasks(ctx context.Context, teamID, query string) ([]service.Task, error) {
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	query = strings.ToLower(query)
	var out []service.Task
	for _, tasks := range f.tasks {
		for _, t := range tasks {
			if strings.Contains(strings.ToLower(t.Name), query) ||
				strings.Contains(strings.ToLower(t.Description), query) {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (f *FakeService) GetTaskComments(ctx context.Context, taskID string) ([]service.Comment, error) {
	if f.CommentsErr != nil {
		return nil, f.CommentsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Comment, len(f.comments[taskID]))
	copy(out, f.comments[taskID])
	return out, nil
}

func (f *FakeService) CreateComment(ctx context.Context, taskID, text string) (service.Comment, error) {
	if f.CommentsErr != nil {
		return service.Comment{}, f.CommentsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	comment := service.Comment{ID: f.newID(), CommentText: text, User: f.user}
	f.comments[taskID] = append(f.comments[taskID], comment)
	return comment, nil
}

func (f *FakeService) GetUser(ctx context.Context) (service.User, error) {
	if f.UserErr != nil {
		return service.User{}, f.UserErr
	}
	return f.user, nil
}

func (f *FakeService) ValidateAuth(ctx context.Context) (bool, string, *service.User) {
	if f.UserErr != nil {
		return false, f.UserErr.Error(), nil
	}
	u := f.user
	return true, "ok", &u
}
