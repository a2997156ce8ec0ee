package ingest

// Status strings are rendered as icons by the console; they are part of the
// wire contract and must not be reworded.
const (
	StatusCreated              = "Created"
	StatusCreatedSuccessfully  = "Created Successfully"
	StatusCreatedMainTag       = "Created (Main Tag)"
	StatusCreatedFromCmdTag    = "Created (from Command Tag)"
	StatusUpdatedSuccessfully  = "Updated Successfully"
	StatusSkipped              = "Skipped"
	StatusFailed               = "Failed"
)

// NoMainTagName is the sentinel rendered when an upload carried no main tag.
const NoMainTagName = "None"

const (
	ReasonDuplicateInUpload = "duplicate in upload"
	ReasonAlreadyExists     = "already exists; override not set"
)

type Summary struct {
	TotalCommandsInCSV int `json:"total_commands_in_csv"`
	CommandsCreated    int `json:"commands_created"`
	CommandsUpdated    int `json:"commands_updated"`
	CommandsSkipped    int `json:"commands_skipped"`
	TotalTagsInCSV     int `json:"total_tags_in_csv"`
	TagsCreated        int `json:"tags_created"`
}

type CommandDetail struct {
	Command     string `json:"command"`
	Description string `json:"description"`
	Tag         string `json:"tag"`
	Status      string `json:"status"`
}

type SkippedDetail struct {
	Command string `json:"command"`
	Reason  string `json:"reason"`
	Status  string `json:"status"`
}

type TagDetail struct {
	Name   string  `json:"name"`
	Parent *string `json:"parent"`
	Status string  `json:"status"`
}

type Details struct {
	CreatedCommands []CommandDetail `json:"created_commands"`
	UpdatedCommands []CommandDetail `json:"updated_commands"`
	SkippedCommands []SkippedDetail `json:"skipped_commands"`
	CreatedTags     []TagDetail     `json:"created_tags"`
}

// Report is the `data` object of one upload's response; the client re-exports
// it verbatim as CSV or TXT.
type Report struct {
	VendorName  string  `json:"vendor_name"`
	MainTagName string  `json:"main_tag_name"`
	Summary     Summary `json:"summary"`
	Details     Details `json:"details"`
}

func NewReport(vendorName, mainTagName string) *Report {
	if mainTagName == "" {
		mainTagName = NoMainTagName
	}
	return &Report{
		VendorName:  vendorName,
		MainTagName: mainTagName,
		Details: Details{
			CreatedCommands: []CommandDetail{},
			UpdatedCommands: []CommandDetail{},
			SkippedCommands: []SkippedDetail{},
			CreatedTags:     []TagDetail{},
		},
	}
}

func (r *Report) AddCreated(command, description, tag string) {
	r.Details.CreatedCommands = append(r.Details.CreatedCommands, CommandDetail{
		Command:     command,
		Description: description,
		Tag:         tag,
		Status:      StatusCreatedSuccessfully,
	})
	r.Summary.CommandsCreated++
}

func (r *Report) AddUpdated(command, description, tag string) {
	r.Details.UpdatedCommands = append(r.Details.UpdatedCommands, CommandDetail{
		Command:     command,
		Description: description,
		Tag:         tag,
		Status:      StatusUpdatedSuccessfully,
	})
	r.Summary.CommandsUpdated++
}

func (r *Report) AddSkipped(command, reason string) {
	r.Details.SkippedCommands = append(r.Details.SkippedCommands, SkippedDetail{
		Command: command,
		Reason:  reason,
		Status:  StatusSkipped,
	})
	r.Summary.CommandsSkipped++
}

func (r *Report) AddCreatedTag(name string, parent *string, status string) {
	r.Details.CreatedTags = append(r.Details.CreatedTags, TagDetail{
		Name:   name,
		Parent: parent,
		Status: status,
	})
	r.Summary.TagsCreated++
}
