package model

// Features holds what the extractor found in a job description.
// Empty strings mean "not found".
type Features struct {
	MainTask    string // first sentence longer than 20 characters
	Quantity    string // numeric part of the deliverable, e.g. "1,250"
	Deliverable string // full matched phrase, e.g. "1,250 leads"
	Tool        string // title-cased tool name, e.g. "Google Sheets"
	Urgent      bool
}

// Request is the input to a generation call.
type Request struct {
	JobDescription string
	Experience     string // optional, used verbatim
	AuthorName     string // optional
	Variants       int    // number of proposals to produce; < 1 means 1
}

// Proposal is one generated message. Nothing retains it after it is returned.
type Proposal struct {
	ID        string   `json:"id"`
	Version   int      `json:"version"`
	Text      string   `json:"text"`
	Category  Category `json:"category"`
	WordCount int      `json:"word_count"`
}

// Notifier delivers generated proposals somewhere outside the process.
type Notifier interface {
	Notify(proposals []Proposal) error
}
