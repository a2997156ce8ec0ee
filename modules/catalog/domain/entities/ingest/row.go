package ingest

// Row is one normalized data row of an uploaded sheet. Optional fields are
// nil when the cell was empty; TagPath holds the slash-split, trimmed path
// segments relative to the upload's main tag.
type Row struct {
	LineNo      int
	Command     string
	Description *string
	Example     *string
	Version     *string
	TagPath     []string
}

// ParseError is a malformed row surfaced to the coordinator; parsing never
// aborts the whole file on a single bad row.
type ParseError struct {
	LineNo int
	Reason string
}
