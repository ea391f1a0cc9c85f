// Package reducer collapses a window of per-layer transformer hidden states
// and attention weights into one embedding vector per image.
//
// Instead of taking the class token or averaging patch tokens uniformly, the
// reduction weights each patch token's hidden state by how much attention
// mass the token receives as a key, averaged over the selected layers, all
// heads, and all query positions. The class token is excluded from the
// weighting entirely.
package reducer

import (
	"errors"
	"fmt"

	"github.com/hejijunhao/imgvec/internal/model"
)

var (
	// ErrShapeMismatch indicates the hidden-state and attention windows
	// disagree on layer count, batch size, or token count.
	ErrShapeMismatch = errors.New("reducer: window shape mismatch")

	// ErrBadShape indicates a window with out-of-range dimensions or a data
	// slice whose length does not match its declared dimensions.
	ErrBadShape = errors.New("reducer: bad window shape")

	// ErrDegenerateWeights indicates that, for some image, every patch token
	// received zero attention mass, leaving nothing to normalize against.
	ErrDegenerateWeights = errors.New("reducer: zero attention mass on patch tokens")
)

// Reduce computes one embedding per image from the given windows.
//
// The windows must cover the same k trailing encoder layers and agree on
// batch size and token count. Returns a flat [Batch * Dim] slice; row i is
// the embedding for batch item i. Pure function: deterministic, no retained
// state, inputs are not mutated.
func Reduce(hidden model.HiddenWindow, attn model.AttentionWindow) ([]float32, error) {
	if err := validate(hidden, attn); err != nil {
		return nil, err
	}

	k, b, t, d := hidden.Layers, hidden.Batch, hidden.Tokens, hidden.Dim
	h := attn.Heads

	// 1. Sum hidden states across the k layers. Layers are summed, not
	// averaged; the resulting scale is part of the output.
	summed := make([]float32, b*t*d)
	layerSize := b * t * d
	for l := 0; l < k; l++ {
		layer := hidden.Data[l*layerSize : (l+1)*layerSize]
		for i, v := range layer {
			summed[i] += v
		}
	}

	// 2. Average attention over layers, heads, and query positions, leaving
	// one importance scalar per key token per image: how much total attention
	// the token receives as a key.
	importance := make([]float32, b*t)
	for l := 0; l < k; l++ {
		for bi := 0; bi < b; bi++ {
			for hi := 0; hi < h; hi++ {
				for q := 0; q < t; q++ {
					row := (((l*b+bi)*h+hi)*t + q) * t
					out := importance[bi*t : (bi+1)*t]
					for key, w := range attn.Data[row : row+t] {
						out[key] += w
					}
				}
			}
		}
	}
	inv := 1 / float32(k*h*t)
	for i := range importance {
		importance[i] *= inv
	}

	// 3+4. Zero the class token and renormalize each image's row to sum 1
	// across the remaining positions.
	for bi := 0; bi < b; bi++ {
		row := importance[bi*t : (bi+1)*t]
		row[0] = 0
		var sum float32
		for _, w := range row {
			sum += w
		}
		if sum == 0 {
			return nil, fmt.Errorf("%w: batch item %d", ErrDegenerateWeights, bi)
		}
		for i := range row {
			row[i] /= sum
		}
	}

	// 5. Token-weighted sum of the layer-summed hidden states.
	out := make([]float32, b*d)
	for bi := 0; bi < b; bi++ {
		row := importance[bi*t : (bi+1)*t]
		dst := out[bi*d : (bi+1)*d]
		for ti := 0; ti < t; ti++ {
			w := row[ti]
			if w == 0 {
				continue
			}
			src := summed[(bi*t+ti)*d : (bi*t+ti+1)*d]
			for di, v := range src {
				dst[di] += w * v
			}
		}
	}
	return out, nil
}

// validate rejects out-of-range dimensions, mismatched windows, and data
// slices that disagree with their declared shape. Flat-slice indexing below
// would silently read wrong strides on any mismatch.
func validate(hidden model.HiddenWindow, attn model.AttentionWindow) error {
	if hidden.Layers < 1 || hidden.Batch < 1 || hidden.Dim < 1 {
		return fmt.Errorf("%w: hidden states (k=%d, b=%d, d=%d)",
			ErrBadShape, hidden.Layers, hidden.Batch, hidden.Dim)
	}
	if hidden.Tokens < 2 {
		return fmt.Errorf("%w: need class token plus at least one patch token, got %d tokens",
			ErrBadShape, hidden.Tokens)
	}
	if attn.Heads < 1 {
		return fmt.Errorf("%w: attention heads = %d", ErrBadShape, attn.Heads)
	}
	if len(hidden.Data) != hidden.Len() {
		return fmt.Errorf("%w: hidden state data length %d, want %d",
			ErrBadShape, len(hidden.Data), hidden.Len())
	}
	if len(attn.Data) != attn.Len() {
		return fmt.Errorf("%w: attention data length %d, want %d",
			ErrBadShape, len(attn.Data), attn.Len())
	}
	if hidden.Layers != attn.Layers || hidden.Batch != attn.Batch || hidden.Tokens != attn.Tokens {
		return fmt.Errorf("%w: hidden states (k=%d, b=%d, t=%d) vs attentions (k=%d, b=%d, t=%d)",
			ErrShapeMismatch,
			hidden.Layers, hidden.Batch, hidden.Tokens,
			attn.Layers, attn.Batch, attn.Tokens)
	}
	return nil
}
