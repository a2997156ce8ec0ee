package ingest

// CompletedEvent is published after an upload's transaction commits.
type CompletedEvent struct {
	VendorID   int64
	VendorName string
	Override   bool
	Report     *Report
}
