// Package ingest defines the contracts between upstream acquisition
// collaborators (downloaders, scrapers) and the extraction pipeline.
// Acquisition itself happens out of process; these types describe what it
// hands over.
package ingest

// VideoSource describes a locally available video handed to the pipeline.
// CaptionPath is empty when the acquirer found no caption track.
type VideoSource struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	Uploader    string `json:"uploader,omitempty"`
	Description string `json:"description,omitempty"`
	SourceURL   string `json:"source_url,omitempty"`
	CaptionPath string `json:"caption_path,omitempty"`
}

// WebpageContent is the scrape result contract for article sources. The
// pipeline treats it as opaque evidence and persists it alongside other
// session artifacts.
type WebpageContent struct {
	Success     bool   `json:"success"`
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	TextContent string `json:"text_content,omitempty"`
	WordCount   int    `json:"word_count,omitempty"`
	ImageCount  int    `json:"image_count,omitempty"`
	LinkCount   int    `json:"link_count,omitempty"`
	Error       string `json:"error,omitempty"`
}
