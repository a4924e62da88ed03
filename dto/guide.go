package dto

type GuideResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	WordCount   int    `json:"word_count"`
}

type EnqueueGuideResponse struct {
	GuideID        string   `json:"guide_id"`
	Added          []string `json:"added"`
	AlreadyPresent []string `json:"already_present"`
}
