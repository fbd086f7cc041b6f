package export

// RunInput is the input for one export pass.
type RunInput struct {
	SkipCompleted bool // leave completed tasks out of the export
}

// RunReport summarizes one export pass. A nonzero Failed count means the run
// produced partial output.
type RunReport struct {
	Lists            int // lists fetched from the source
	Exported         int // note files written
	SkippedCompleted int // tasks dropped by the skip-completed filter
	Failed           int // tasks that could not be rendered or written
}
