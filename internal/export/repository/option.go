package repository

// ListTasksOptions holds the parameters for listing the tasks of one list.
type ListTasksOptions struct {
	ListID        string // source list identifier
	ListName      string // display name joined onto each returned task
	SkipCompleted bool   // ask the source to filter completed tasks server-side
}

// ListChecklistItemsOptions holds the parameters for listing the checklist
// items of one task.
type ListChecklistItemsOptions struct {
	ListID string
	TaskID string
}

// SaveNoteOptions holds the parameters for persisting one rendered note.
type SaveNoteOptions struct {
	ListName string // used for the optional folder-per-list layout
	Filename string // sanitized filename including the note extension
	TaskID   string // disambiguates filename collisions
	Content  []byte
}
