package repository

import (
	"context"

	"todo-export/internal/model"
)

// SourceRepository is the read-only interface to the remote task service.
// Every method returns the complete, order-preserving collection across all
// pages of the source API.
type SourceRepository interface {
	ListTaskLists(ctx context.Context) ([]model.TaskList, error)
	ListTasks(ctx context.Context, opt ListTasksOptions) ([]model.Task, error)
	ListChecklistItems(ctx context.Context, opt ListChecklistItemsOptions) ([]model.ChecklistItem, error)
}

// NoteRepository persists rendered notes. Implementations must not silently
// overwrite two distinct tasks that map to the same filename.
type NoteRepository interface {
	// SaveNote writes one note file and returns the path it was written to.
	SaveNote(ctx context.Context, opt SaveNoteOptions) (string, error)
}
