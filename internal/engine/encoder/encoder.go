// Package encoder runs a pretrained vision-transformer ONNX model and exposes
// its per-layer hidden states and attention weights.
//
// The model contract is a ViT/CLIP vision tower exported with its activation
// stacks as graph outputs: input pixel_values [batch, 3, size, size], output
// hidden_states [layers, batch, tokens, dim] and attentions
// [layers, batch, heads, tokens, tokens].
package encoder

import "fmt"

// Encoder turns preprocessed pixel batches into raw transformer activations.
type Encoder interface {
	Encode(pixels []float32, batch int) (*Activations, error)
	InputSize() int
	Layers() int
	Dim() int
	Close() error
}

// ONNXEncoder wraps the ONNX runtime session for local vision inference.
type ONNXEncoder struct {
	session *onnxSession
}

// New creates an ONNXEncoder by loading the model at modelPath. Loading is
// expensive; create one encoder and reuse it across batches.
func New(modelPath string) (*ONNXEncoder, error) {
	sess, err := newONNXSession(modelPath)
	if err != nil {
		return nil, fmt.Errorf("encoder: %w", err)
	}
	return &ONNXEncoder{session: sess}, nil
}

// InputSize returns the spatial size the model expects (input is
// [batch, 3, InputSize, InputSize]).
func (e *ONNXEncoder) InputSize() int {
	return int(e.session.inputSize)
}

// Layers returns the encoder depth L.
func (e *ONNXEncoder) Layers() int {
	return int(e.session.layers)
}

// Dim returns the hidden feature dimension D, which is also the
// dimensionality of the final embeddings.
func (e *ONNXEncoder) Dim() int {
	return int(e.session.dim)
}

// Encode runs inference on a flat NCHW pixel batch and returns the full
// activation stacks for all encoder layers.
func (e *ONNXEncoder) Encode(pixels []float32, batch int) (*Activations, error) {
	if batch < 1 {
		return nil, fmt.Errorf("encoder: batch size %d", batch)
	}
	want := batch * 3 * e.InputSize() * e.InputSize()
	if len(pixels) != want {
		return nil, fmt.Errorf("encoder: pixel data length %d, want %d for batch of %d",
			len(pixels), want, batch)
	}

	hidden, attn, err := e.session.infer(pixels, int64(batch))
	if err != nil {
		return nil, fmt.Errorf("encoder: %w", err)
	}

	return &Activations{
		HiddenStates: hidden,
		Attentions:   attn,
		Layers:       e.Layers(),
		Batch:        batch,
		Heads:        int(e.session.heads),
		Tokens:       int(e.session.tokens),
		Dim:          e.Dim(),
	}, nil
}

// Close releases ONNX Runtime resources.
func (e *ONNXEncoder) Close() error {
	if e.session != nil {
		return e.session.close()
	}
	return nil
}
