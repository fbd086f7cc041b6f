package usecase

import (
	"todo-export/internal/export/repository"
	"todo-export/internal/note"
	pkgLog "todo-export/pkg/log"
)

type implUseCase struct {
	l        pkgLog.Logger
	source   repository.SourceRepository
	notes    repository.NoteRepository
	renderer note.Service
}

// New creates a new export UseCase instance.
func New(
	l pkgLog.Logger,
	source repository.SourceRepository,
	notes repository.NoteRepository,
	renderer note.Service,
) *implUseCase {
	return &implUseCase{
		l:        l,
		source:   source,
		notes:    notes,
		renderer: renderer,
	}
}
