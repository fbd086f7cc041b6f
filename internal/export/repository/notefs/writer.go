// Package notefs persists rendered notes as files under an output directory.
package notefs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"todo-export/internal/export/repository"
	"todo-export/pkg/filename"
	pkgLog "todo-export/pkg/log"
)

// collisionNamespace seeds the deterministic UUIDv5 suffix used to
// disambiguate filename collisions.
var collisionNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8") // DNS namespace

type implRepository struct {
	root          string
	folderPerList bool
	written       map[string]string // flat path -> task ID that owns it
	l             pkgLog.Logger
}

// New creates a filesystem note repository rooted at the output folder. With
// folderPerList set, each note lands in a subdirectory named after its list.
func New(root string, folderPerList bool, l pkgLog.Logger) repository.NoteRepository {
	return &implRepository{
		root:          root,
		folderPerList: folderPerList,
		written:       map[string]string{},
		l:             l,
	}
}

// SaveNote writes one note file, creating parent directories as needed. When
// two distinct tasks sanitize to the same filename, the later one gets a
// suffix derived from its task ID instead of overwriting the first. Rewriting
// the same task is an idempotent overwrite.
func (r *implRepository) SaveNote(ctx context.Context, opt repository.SaveNoteOptions) (string, error) {
	dir := r.root
	if r.folderPerList && opt.ListName != "" {
		dir = filepath.Join(dir, filename.SanitizeBase(opt.ListName))
	}

	name := opt.Filename
	flat := filepath.Join(dir, name)
	if owner, taken := r.written[flat]; taken && owner != opt.TaskID {
		base := strings.TrimSuffix(name, filename.Extension)
		name = base + "_" + collisionSuffix(opt.TaskID) + filename.Extension
		r.l.Warnf(ctx, "notefs repository: filename %q already written, disambiguating to %q", opt.Filename, name)
	} else {
		r.written[flat] = opt.TaskID
	}

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %q: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, opt.Content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write note %q: %w", path, err)
	}
	return path, nil
}

// collisionSuffix derives a short, stable suffix from a task ID.
func collisionSuffix(taskID string) string {
	return uuid.NewSHA1(collisionNamespace, []byte(taskID)).String()[:8]
}
