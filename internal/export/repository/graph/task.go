package graph

import (
	"context"
	"fmt"

	"todo-export/internal/export/repository"
	"todo-export/internal/model"
	pkgLog "todo-export/pkg/log"
)

type implRepository struct {
	client *Client
	l      pkgLog.Logger
}

// New creates a new Graph-backed source repository.
func New(client *Client, l pkgLog.Logger) repository.SourceRepository {
	return &implRepository{
		client: client,
		l:      l,
	}
}

func (r *implRepository) ListTaskLists(ctx context.Context) ([]model.TaskList, error) {
	wires, err := r.client.ListTaskLists(ctx)
	if err != nil {
		return nil, err
	}

	lists := make([]model.TaskList, 0, len(wires))
	for _, w := range wires {
		list, convErr := listToModel(w)
		if convErr != nil {
			// partial-failure isolation: one bad list never aborts the run
			r.l.Warnf(ctx, "graph repository: skipping list: %v", convErr)
			continue
		}
		lists = append(lists, list)
	}
	return lists, nil
}

func (r *implRepository) ListTasks(ctx context.Context, opt repository.ListTasksOptions) ([]model.Task, error) {
	wires, err := r.client.ListTasks(ctx, opt.ListID, opt.SkipCompleted)
	if err != nil {
		return nil, err
	}

	tasks := make([]model.Task, 0, len(wires))
	for _, w := range wires {
		task, convErr := taskToModel(w, opt.ListName)
		if convErr != nil {
			r.l.Warnf(ctx, "graph repository: skipping task in list %q: %v", opt.ListName, convErr)
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (r *implRepository) ListChecklistItems(ctx context.Context, opt repository.ListChecklistItemsOptions) ([]model.ChecklistItem, error) {
	wires, err := r.client.ListChecklistItems(ctx, opt.ListID, opt.TaskID)
	if err != nil {
		return nil, err
	}

	items := make([]model.ChecklistItem, 0, len(wires))
	for _, w := range wires {
		item, convErr := checklistItemToModel(w, len(items))
		if convErr != nil {
			r.l.Warnf(ctx, "graph repository: skipping checklist item of task %s: %v", opt.TaskID, convErr)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// listToModel converts a Graph todoTaskList to the internal model.
func listToModel(w TodoList) (model.TaskList, error) {
	if w.ID == "" || w.DisplayName == "" {
		return model.TaskList{}, fmt.Errorf("list missing required fields (id=%q, displayName=%q): %w",
			w.ID, w.DisplayName, repository.ErrMalformedItem)
	}
	return model.TaskList{
		ID:            w.ID,
		DisplayName:   w.DisplayName,
		WellKnownName: w.WellKnownName,
	}, nil
}

// taskToModel converts a Graph todoTask to the internal model, joining the
// parent list's display name onto the record.
func taskToModel(w TodoTask, listName string) (model.Task, error) {
	if w.ID == "" || w.Title == "" {
		return model.Task{}, fmt.Errorf("task missing required fields (id=%q, title=%q): %w",
			w.ID, w.Title, repository.ErrMalformedItem)
	}

	body := ""
	if w.Body != nil {
		body = w.Body.Content
	}

	return model.Task{
		ID:    w.ID,
		Title: w.Title,
		Body:  body,
		// importance mapping is total: anything but "high" is unstarred
		Starred:   w.Importance == "high",
		Completed: w.Status == "completed",
		ListName:  listName,
	}, nil
}

// checklistItemToModel converts a Graph checklistItem to the internal model.
// Position is the item's index in the materialized source order.
func checklistItemToModel(w TodoChecklistItem, position int) (model.ChecklistItem, error) {
	if w.DisplayName == "" {
		return model.ChecklistItem{}, fmt.Errorf("checklist item %q missing display text: %w",
			w.ID, repository.ErrMalformedItem)
	}
	return model.ChecklistItem{
		ID:       w.ID,
		Text:     w.DisplayName,
		Checked:  w.IsChecked,
		Position: position,
	}, nil
}
