package persistence

import "time"

// SessionRecord is one row in the session index: a durable pointer to a
// completed extraction session on disk.
type SessionRecord struct {
	ID            string
	Kind          string
	Title         string
	SourcePath    string
	SessionPath   string
	AudioStatus   string
	AudioMethod   string
	KeyframeCount int
	Placeholder   bool
	CaptionChars  int
	TextChars     int
	ImageBased    bool
	CreatedAt     time.Time
}

const (
	SessionKindVideo    = "video"
	SessionKindDocument = "document"
)
