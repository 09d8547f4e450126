package sync

// Action describes what a sync pass did for one record.
type Action string

const (
	ActionCreated      Action = "created"
	ActionUpdated      Action = "updated"
	ActionLinkedLegacy Action = "linked-legacy"
	ActionDuplicates   Action = "duplicates-detected"
	ActionSkipped      Action = "skipped"
)

// Result is the per-record outcome exposed to callers.
type Result struct {
	Action         Action
	TargetPath     string
	SyncID         string
	DuplicatePaths []string // all candidate paths when Action is duplicates-detected
	Message        string
}

// ItemError is a per-record failure inside a batch. Failures are isolated:
// they are reported here and in the log, never by aborting the batch.
type ItemError struct {
	Index  int // position in the input slice
	SyncID string
	Title  string
	Err    error
}
