package model

// Embedding is one output row: the fixed-length vector for a single input
// image, tagged with its position in the original input order.
type Embedding struct {
	Index  int       `json:"index"`          // position in the input sequence
	Path   string    `json:"path,omitempty"` // source file, when embedding from disk
	Vector []float32 `json:"vector"`
}
