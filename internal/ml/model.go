package ml

// Capability declares which confidence signal a trained model exposes.
// The classifier switches on this tag instead of probing the model at call time.
type Capability string

const (
	CapabilityProbability Capability = "probability"
	CapabilityMargin      Capability = "margin"
	CapabilityNone        Capability = "none"
)

func ParseCapability(s string) (Capability, bool) {
	switch Capability(s) {
	case CapabilityProbability, CapabilityMargin, CapabilityNone:
		return Capability(s), true
	}
	return "", false
}

// Output is one row's raw model result. Probs is populated for probability
// models, Margin for margin models. Label is set instead of Class when the
// model emits string labels directly.
type Output struct {
	Class  int64
	Label  string
	Probs  []float32
	Margin float32
}

// Model is a loaded, immutable classifier shared across concurrent inference
// calls. Prediction is a pure read of model state.
type Model interface {
	Capability() Capability
	Predict(rows [][]float32) ([]Output, error)
	Close() error
}
