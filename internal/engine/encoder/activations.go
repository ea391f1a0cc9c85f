package encoder

import (
	"errors"
	"fmt"

	"github.com/hejijunhao/imgvec/internal/model"
)

// ErrLayerWindow indicates a requested layer window that is not satisfiable
// by the encoder's depth.
var ErrLayerWindow = errors.New("encoder: layer window out of range")

// Activations holds the full per-layer outputs of one forward pass, as flat
// float32 slices with explicit dimensions. Layer 0 is the earliest encoder
// layer; layer Layers-1 is the final one.
type Activations struct {
	HiddenStates []float32 // flat [Layers * Batch * Tokens * Dim]
	Attentions   []float32 // flat [Layers * Batch * Heads * Tokens * Tokens]
	Layers       int
	Batch        int
	Heads        int
	Tokens       int
	Dim          int
}

// Window slices the last k layers of both stacks into the reducer's window
// types. The returned windows alias the activation data; they stay valid as
// long as the Activations value does.
func (a *Activations) Window(k int) (model.HiddenWindow, model.AttentionWindow, error) {
	if k < 1 || k > a.Layers {
		return model.HiddenWindow{}, model.AttentionWindow{},
			fmt.Errorf("%w: k=%d, encoder depth %d", ErrLayerWindow, k, a.Layers)
	}

	hiddenLayer := a.Batch * a.Tokens * a.Dim
	attnLayer := a.Batch * a.Heads * a.Tokens * a.Tokens
	skip := a.Layers - k

	hidden := model.HiddenWindow{
		Data:   a.HiddenStates[skip*hiddenLayer:],
		Layers: k,
		Batch:  a.Batch,
		Tokens: a.Tokens,
		Dim:    a.Dim,
	}
	attn := model.AttentionWindow{
		Data:   a.Attentions[skip*attnLayer:],
		Layers: k,
		Batch:  a.Batch,
		Heads:  a.Heads,
		Tokens: a.Tokens,
	}
	return hidden, attn, nil
}
