package models

// RawSection is one titled block of course material exactly as stored on a
// course record. It is the input to content analysis.
type RawSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ContentSection is the analyzed, validated form of a RawSection used to
// build generation prompts. Computed fresh per generation request and never
// persisted.
type ContentSection struct {
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	Subheadings []string `json:"subheadings,omitempty"`
	KeyTerms    []string `json:"key_terms,omitempty"`
}

// CourseMeta carries the course identity fields the prompt composer embeds
// into generation requests.
type CourseMeta struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
