package entity

// Document is one input file submitted to a batch.
// Data is nil when the file was not read because it exceeds the size ceiling.
type Document struct {
	Name      string `json:"name"`
	Path      string `json:"path,omitempty"`
	MediaType string `json:"media_type"`
	Size      int64  `json:"size"`
	Pages     int    `json:"pages,omitempty"` // PDFs only
	Data      []byte `json:"-"`
}
