package usecase

import (
	"context"
	"fmt"

	"todo-export/internal/export"
	"todo-export/internal/export/repository"
)

// Run executes one sequential export pass: lists, then tasks within each
// list, then checklist items within each task. An authentication failure
// aborts the whole run; a task that cannot be written is counted and skipped.
func (uc *implUseCase) Run(ctx context.Context, input export.RunInput) (export.RunReport, error) {
	var report export.RunReport

	uc.l.Info(ctx, "Fetching source lists...")
	lists, err := uc.source.ListTaskLists(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to fetch source lists: %w", err)
	}
	report.Lists = len(lists)

	for _, list := range lists {
		uc.l.Infof(ctx, "Processing list %q (id=%s wellknown=%s)", list.DisplayName, list.ID, list.WellKnownName)

		tasks, err := uc.source.ListTasks(ctx, repository.ListTasksOptions{
			ListID:        list.ID,
			ListName:      list.DisplayName,
			SkipCompleted: input.SkipCompleted,
		})
		if err != nil {
			return report, fmt.Errorf("failed to fetch tasks for list %q: %w", list.DisplayName, err)
		}
		uc.l.Infof(ctx, "Found %d tasks in %q", len(tasks), list.DisplayName)

		exported := 0
		for _, t := range tasks {
			// client-side fallback for sources that ignore the
			// server-side completed filter; both paths must yield
			// the same set
			if input.SkipCompleted && t.Completed {
				report.SkippedCompleted++
				continue
			}

			items, err := uc.source.ListChecklistItems(ctx, repository.ListChecklistItemsOptions{
				ListID: list.ID,
				TaskID: t.ID,
			})
			if err != nil {
				return report, fmt.Errorf("failed to fetch checklist items for task %q: %w", t.Title, err)
			}
			t.ChecklistItems = items

			rendered := uc.renderer.Render(t)
			content, err := uc.renderer.Encode(rendered)
			if err != nil {
				uc.l.Errorf(ctx, "Run: failed to encode note for task %q: %v", t.Title, err)
				report.Failed++
				continue
			}

			path, err := uc.notes.SaveNote(ctx, repository.SaveNoteOptions{
				ListName: t.ListName,
				Filename: rendered.Filename,
				TaskID:   t.ID,
				Content:  content,
			})
			if err != nil {
				uc.l.Errorf(ctx, "Run: failed to write note for task %q: %v", t.Title, err)
				report.Failed++
				continue
			}

			report.Exported++
			exported++
			uc.l.Debugf(ctx, "Run: wrote task %q -> %s", t.Title, path)
		}

		uc.l.Infof(ctx, "Exported %d tasks from %q", exported, list.DisplayName)
	}

	uc.l.Infof(ctx, "Export completed: %d tasks across %d lists (%d skipped, %d failed)",
		report.Exported, report.Lists, report.SkippedCompleted, report.Failed)

	if report.Failed > 0 {
		return report, fmt.Errorf("%w: %d task(s)", export.ErrIncompleteExport, report.Failed)
	}
	return report, nil
}
