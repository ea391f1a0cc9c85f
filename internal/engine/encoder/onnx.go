package encoder

import (
	"fmt"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

// initORT initializes the ONNX Runtime environment. Safe to call multiple
// times; only the first call has any effect.
func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// onnxSession wraps a DynamicAdvancedSession for a ViT-style vision tower
// exported with its full hidden-state and attention stacks.
type onnxSession struct {
	session   *ort.DynamicAdvancedSession
	inputName string
	inputSize int64 // model input is [batch, 3, inputSize, inputSize]
	layers    int64 // encoder depth L
	tokens    int64 // sequence length T (class token + patches)
	dim       int64 // hidden feature dimension D
	heads     int64 // attention heads H
}

const (
	inputPixelValues   = "pixel_values"
	outputHiddenStates = "hidden_states"
	outputAttentions   = "attentions"
)

// newONNXSession loads the ONNX model and creates an inference session.
// It validates the model's input/output tensor names and shapes.
func newONNXSession(modelPath string) (*onnxSession, error) {
	// Resolve the ONNX Runtime shared library path. We ship it alongside the
	// model files in the models/ directory.
	modelDir := filepath.Dir(modelPath)
	libPath := filepath.Join(modelDir, "libonnxruntime.so")

	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}

	inputSize, err := validatePixelInput(inputs)
	if err != nil {
		return nil, err
	}

	layers, tokens, dim, heads, err := validateStackOutputs(outputs)
	if err != nil {
		return nil, err
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(4)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{inputPixelValues},
		[]string{outputHiddenStates, outputAttentions},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}

	return &onnxSession{
		session:   session,
		inputName: inputPixelValues,
		inputSize: inputSize,
		layers:    layers,
		tokens:    tokens,
		dim:       dim,
		heads:     heads,
	}, nil
}

// validatePixelInput checks for a single NCHW image input and returns its
// spatial size.
func validatePixelInput(inputs []ort.InputOutputInfo) (int64, error) {
	for _, inp := range inputs {
		if inp.Name != inputPixelValues {
			continue
		}
		dims := inp.Dimensions
		if len(dims) != 4 || dims[1] != 3 {
			return 0, fmt.Errorf("onnx: expected %s with shape [batch, 3, size, size], got %v",
				inputPixelValues, dims)
		}
		size := dims[2]
		if size <= 0 || size != dims[3] {
			return 0, fmt.Errorf("onnx: expected square static input size, got %v", dims)
		}
		return size, nil
	}
	return 0, fmt.Errorf("onnx: model missing required input %q", inputPixelValues)
}

// validateStackOutputs checks for the stacked hidden-state output
// [layers, batch, tokens, dim] and attention output
// [layers, batch, heads, tokens, tokens], and that the two agree on layer
// depth and token count.
func validateStackOutputs(outputs []ort.InputOutputInfo) (layers, tokens, dim, heads int64, err error) {
	var hs, at []int64
	for _, out := range outputs {
		switch out.Name {
		case outputHiddenStates:
			hs = out.Dimensions
		case outputAttentions:
			at = out.Dimensions
		}
	}
	if hs == nil {
		return 0, 0, 0, 0, fmt.Errorf("onnx: model missing required output %q", outputHiddenStates)
	}
	if at == nil {
		return 0, 0, 0, 0, fmt.Errorf("onnx: model missing required output %q", outputAttentions)
	}
	if len(hs) != 4 || hs[0] <= 0 || hs[2] <= 0 || hs[3] <= 0 {
		return 0, 0, 0, 0, fmt.Errorf("onnx: expected %s with static shape [layers, batch, tokens, dim], got %v",
			outputHiddenStates, hs)
	}
	if len(at) != 5 || at[0] <= 0 || at[2] <= 0 || at[3] <= 0 || at[4] <= 0 {
		return 0, 0, 0, 0, fmt.Errorf("onnx: expected %s with static shape [layers, batch, heads, tokens, tokens], got %v",
			outputAttentions, at)
	}
	if hs[0] != at[0] || hs[2] != at[3] || at[3] != at[4] {
		return 0, 0, 0, 0, fmt.Errorf("onnx: hidden state shape %v inconsistent with attention shape %v", hs, at)
	}
	return hs[0], hs[2], hs[3], at[2], nil
}

// infer runs a single inference call. pixels is a flat
// [batch * 3 * inputSize * inputSize] NCHW slice. Returns the raw stacked
// hidden-state and attention tensor data as flat float32 slices.
func (s *onnxSession) infer(pixels []float32, batch int64) (hidden, attn []float32, err error) {
	inShape := ort.NewShape(batch, 3, s.inputSize, s.inputSize)
	tIn, err := ort.NewTensor(inShape, pixels)
	if err != nil {
		return nil, nil, fmt.Errorf("onnx: failed to create %s tensor: %w", inputPixelValues, err)
	}
	defer tIn.Destroy()

	hsShape := ort.NewShape(s.layers, batch, s.tokens, s.dim)
	tHS, err := ort.NewEmptyTensor[float32](hsShape)
	if err != nil {
		return nil, nil, fmt.Errorf("onnx: failed to create %s tensor: %w", outputHiddenStates, err)
	}
	defer tHS.Destroy()

	atShape := ort.NewShape(s.layers, batch, s.heads, s.tokens, s.tokens)
	tAt, err := ort.NewEmptyTensor[float32](atShape)
	if err != nil {
		return nil, nil, fmt.Errorf("onnx: failed to create %s tensor: %w", outputAttentions, err)
	}
	defer tAt.Destroy()

	err = s.session.Run(
		[]ort.Value{tIn},
		[]ort.Value{tHS, tAt},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("onnx: inference failed: %w", err)
	}

	// Copy data out before the tensors are destroyed.
	hidden = make([]float32, len(tHS.GetData()))
	copy(hidden, tHS.GetData())
	attn = make([]float32, len(tAt.GetData()))
	copy(attn, tAt.GetData())
	return hidden, attn, nil
}

// close releases the ONNX session resources.
func (s *onnxSession) close() error {
	return s.session.Destroy()
}
