package model

// HiddenWindow holds the last-k-layer hidden states of a vision transformer
// for one batch, as a flat float32 slice indexed (layer, image, token, dim).
// Token position 0 is the class token; positions 1..Tokens-1 are patch tokens.
type HiddenWindow struct {
	Data   []float32 // flat [Layers * Batch * Tokens * Dim]
	Layers int
	Batch  int
	Tokens int
	Dim    int
}

// Len returns the expected flat length for the window's dimensions.
func (w HiddenWindow) Len() int {
	return w.Layers * w.Batch * w.Tokens * w.Dim
}

// AttentionWindow holds the last-k-layer attention weights for one batch,
// as a flat float32 slice indexed (layer, image, head, query, key). Each
// (query, key) entry is the softmax weight from the query token to the key
// token within one layer and head.
type AttentionWindow struct {
	Data   []float32 // flat [Layers * Batch * Heads * Tokens * Tokens]
	Layers int
	Batch  int
	Heads  int
	Tokens int
}

// Len returns the expected flat length for the window's dimensions.
func (w AttentionWindow) Len() int {
	return w.Layers * w.Batch * w.Heads * w.Tokens * w.Tokens
}
