package ml

import (
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"

	"exoplanet-review/config"
)

// ONNXModel wraps an onnxruntime session over the exported classifier.
// Sessions are safe for concurrent Run calls; the model is loaded once at
// startup and treated as read-only.
type ONNXModel struct {
	session    *ort.DynamicAdvancedSession
	capability Capability
}

func NewONNXModel(cfg config.ML) (*ONNXModel, error) {
	capability, ok := ParseCapability(cfg.Capability)
	if !ok {
		return nil, errors.Errorf("unknown model capability %q", cfg.Capability)
	}

	if !ort.IsInitialized() {
		if cfg.OrtLibPath != "" {
			ort.SetSharedLibraryPath(cfg.OrtLibPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, errors.Wrap(err, "initialize onnxruntime")
		}
	}

	session, err := ort.NewDynamicAdvancedSession(
		cfg.ModelPath,
		[]string{cfg.InputName},
		[]string{cfg.OutputName},
		nil,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "load onnx model %s", cfg.ModelPath)
	}

	return &ONNXModel{session: session, capability: capability}, nil
}

func (m *ONNXModel) Capability() Capability {
	return m.capability
}

func (m *ONNXModel) Close() error {
	if m.session != nil {
		return m.session.Destroy()
	}
	return nil
}

func (m *ONNXModel) Predict(rows [][]float32) ([]Output, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	nCols := len(rows[0])
	flat := make([]float32, 0, len(rows)*nCols)
	for _, row := range rows {
		if len(row) != nCols {
			return nil, errors.Errorf("ragged feature matrix: row has %d columns, expected %d", len(row), nCols)
		}
		flat = append(flat, row...)
	}

	input, err := ort.NewTensor(ort.NewShape(int64(len(rows)), int64(nCols)), flat)
	if err != nil {
		return nil, errors.Wrap(err, "create input tensor")
	}
	defer input.Destroy()

	outputs := []ort.Value{nil}
	if err := m.session.Run([]ort.Value{input}, outputs); err != nil {
		return nil, errors.Wrap(err, "run onnx session")
	}
	defer outputs[0].Destroy()

	return m.parseOutputs(outputs[0], len(rows))
}

func (m *ONNXModel) parseOutputs(value ort.Value, nRows int) ([]Output, error) {
	switch tensor := value.(type) {
	case *ort.Tensor[float32]:
		return m.parseFloatOutputs(tensor, nRows)
	case *ort.Tensor[int64]:
		data := tensor.GetData()
		if len(data) != nRows {
			return nil, errors.Errorf("label output has %d entries for %d rows", len(data), nRows)
		}
		results := make([]Output, nRows)
		for i, class := range data {
			results[i] = Output{Class: class}
		}
		return results, nil
	default:
		return nil, errors.Errorf("unsupported model output tensor type %T", value)
	}
}

func (m *ONNXModel) parseFloatOutputs(tensor *ort.Tensor[float32], nRows int) ([]Output, error) {
	data := tensor.GetData()
	if nRows == 0 || len(data)%nRows != 0 {
		return nil, errors.Errorf("output of %d values does not divide across %d rows", len(data), nRows)
	}
	width := len(data) / nRows

	results := make([]Output, nRows)
	switch m.capability {
	case CapabilityMargin:
		if width != 1 {
			return nil, errors.Errorf("margin model emitted %d values per row", width)
		}
		for i := 0; i < nRows; i++ {
			margin := data[i]
			class := int64(0)
			if margin > 0 {
				class = 1
			}
			results[i] = Output{Class: class, Margin: margin}
		}
	default:
		// Probability models emit one score per class.
		for i := 0; i < nRows; i++ {
			probs := data[i*width : (i+1)*width]
			results[i] = Output{
				Class: argmax(probs),
				Probs: append([]float32(nil), probs...),
			}
		}
	}
	return results, nil
}

func argmax(values []float32) int64 {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return int64(best)
}
