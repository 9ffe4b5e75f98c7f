// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package serpapi

// Response holds the subset of a SerpApi JSON response used by
// keyword-research. Absent arrays decode as nil.
type Response struct {
	Metadata         Metadata          `json:"search_metadata"`
	Suggestions      []Suggestion      `json:"suggestions"`
	RelatedSearches  []RelatedSearch   `json:"related_searches"`
	RelatedQuestions []RelatedQuestion `json:"related_questions"`
	Error            string            `json:"error"`
}

// Metadata identifies the search on the SerpApi side.
type Metadata struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Suggestion is one google_autocomplete entry.
type Suggestion struct {
	Value string `json:"value"`
}

// RelatedSearch is one "related searches" entry.
type RelatedSearch struct {
	Query string `json:"query"`
}

// RelatedQuestion is one "people also ask" entry. NextPageToken, when set,
// fetches further questions via the google_related_questions engine.
type RelatedQuestion struct {
	Question      string `json:"question"`
	NextPageToken string `json:"next_page_token"`
}
