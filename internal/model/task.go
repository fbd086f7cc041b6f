package model

// TaskList is one of the user's To Do lists as returned by the source service.
// Lists exist only for the duration of one export run.
type TaskList struct {
	ID            string // Graph list ID
	DisplayName   string
	WellKnownName string // e.g. "defaultList"; empty for user-created lists
}

// ChecklistItem is a single sub-task line nested under a task.
type ChecklistItem struct {
	ID       string
	Text     string
	Checked  bool
	Position int // zero-based source order within the parent task
}

// Task is the normalized task record. It always carries the display name of
// the list it was fetched from; rendering never touches the wire format.
type Task struct {
	ID             string
	Title          string
	Body           string // optional free-text body, may be empty
	Starred        bool   // source importance "high" collapsed to a boolean
	Completed      bool
	ListName       string
	ChecklistItems []ChecklistItem // source order, never reordered
}

// Frontmatter is the machine-parseable metadata block of a note. Values are
// scalars and booleans only, no nested structures.
type Frontmatter struct {
	Title     string `yaml:"title"`
	List      string `yaml:"list"`
	ID        string `yaml:"id"`
	Completed bool   `yaml:"completed"`
	IsStarred bool   `yaml:"is_starred"`
}

// RenderedNote is the transient result of rendering one Task. The filename is
// a pure function of the task title.
type RenderedNote struct {
	Filename    string
	Frontmatter Frontmatter
	Body        string
}
