package parallelapi

// searchRequest ist der Payload für die Parallel Search API.
type searchRequest struct {
	Objective     string         `json:"objective"`
	SearchQueries []string       `json:"search_queries,omitempty"`
	MaxResults    int            `json:"max_results"`
	Excerpts      excerptOptions `json:"excerpts"`
}

type excerptOptions struct {
	MaxCharsPerResult int `json:"max_chars_per_result"`
}

// searchResponse repräsentiert die JSON-Antwort der Search API.
type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// extractRequest ist der Payload für die Parallel Extract API.
type extractRequest struct {
	URLs        []string       `json:"urls"`
	Objective   string         `json:"objective"`
	Excerpts    excerptOptions `json:"excerpts"`
	FullContent bool           `json:"full_content"`
}

// extractResponse repräsentiert die JSON-Antwort der Extract API.
type extractResponse struct {
	Results []ExtractResult `json:"results"`
}

// ExtractResult ist ein extrahierter Artikel, wie ihn die Extract API liefert.
// Wird auch vom Batch-Ingest-Endpoint und der Ingest-CLI direkt akzeptiert.
type ExtractResult struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Excerpts    []string `json:"excerpts"`
	FullContent string   `json:"full_content"`
	PublishDate string   `json:"publish_date"`
}
