package export

import "context"

// UseCase defines the business logic interface for the export domain.
type UseCase interface {
	// Run executes one full export pass: every list, every task in each
	// list, every checklist item in each task, one note file per task.
	Run(ctx context.Context, input RunInput) (RunReport, error)
}
