package ml

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"exoplanet-review/config"
	"exoplanet-review/internal/model"
	"exoplanet-review/pkg/logger"
	"exoplanet-review/pkg/utils"
)

const (
	LabelFalsePositive = "FALSE POSITIVE"
	LabelConfirmed     = "CONFIRMED"
	LabelCandidate     = "CANDIDATE"

	// defaultConfidence is used when the model exposes neither probabilities
	// nor a decision margin, so every prediction still carries a confidence.
	defaultConfidence = 0.8
)

var classLabels = map[int64]string{
	0: LabelFalsePositive,
	1: LabelConfirmed,
	2: LabelCandidate,
}

// optionalColumns may be absent or entirely null in the input; the
// preprocessor fills them with defaults. Any other feature column with zero
// non-null values across the batch is a hard failure.
var optionalColumns = append(append([]string(nil), FlagColumns...),
	"koi_impact", "koi_duration", "koi_depth", "koi_prad", "koi_insol",
	"koi_steff", "koi_slogg", "koi_srad", "dec",
)

// Prediction is one classified row.
type Prediction struct {
	Label      string
	Confidence float64
}

// Classifier adapts the loaded model for the inference pipeline: input
// validation, preprocessing, batch prediction and confidence extraction.
type Classifier struct {
	model Model
	pre   *Preprocessor
	log   *logger.Logger
}

// NewClassifier loads the ONNX model and scaler described by the config. A
// load failure is logged and leaves the classifier in model-unavailable
// state: every prediction fails until the artifacts are reprovisioned.
func NewClassifier(cfg config.ML, log *logger.Logger) *Classifier {
	var scaler *ScalerParams
	if !cfg.DisableScaler {
		loaded, err := LoadScalerParams(cfg.ScalerPath)
		if err != nil {
			log.Error("Failed to load scaler params", zap.Error(err), zap.String("path", cfg.ScalerPath))
			return &Classifier{log: log}
		}
		scaler = loaded
	}

	onnxModel, err := NewONNXModel(cfg)
	if err != nil {
		log.Error("Failed to load classifier model", zap.Error(err), zap.String("path", cfg.ModelPath))
		return &Classifier{log: log}
	}

	log.Info("Classifier model loaded",
		zap.String("path", cfg.ModelPath),
		zap.String("capability", string(onnxModel.Capability())),
	)
	return &Classifier{
		model: onnxModel,
		pre:   NewPreprocessor(scaler),
		log:   log,
	}
}

// NewClassifierWithModel wires an already constructed model, used by tests
// and alternative model providers.
func NewClassifierWithModel(m Model, pre *Preprocessor, log *logger.Logger) *Classifier {
	return &Classifier{model: m, pre: pre, log: log}
}

// Available reports whether the underlying model loaded successfully.
func (c *Classifier) Available() bool {
	return c.model != nil
}

func (c *Classifier) Close() error {
	if c.model != nil {
		return c.model.Close()
	}
	return nil
}

// ValidateInput verifies that every critical feature column carries at least
// one value across the batch. Optional columns are left to the preprocessor.
func (c *Classifier) ValidateInput(t *Table) error {
	var criticalMissing []string
	for _, col := range FeatureColumns {
		if t.NonNullCount(col) > 0 {
			continue
		}
		if utils.ContainsString(optionalColumns, col) {
			continue
		}
		criticalMissing = append(criticalMissing, col)
	}
	if len(criticalMissing) > 0 {
		return errors.Wrapf(model.ErrBadParameter, "critical feature columns missing: %v", criticalMissing)
	}
	return nil
}

// PredictOne classifies a single-row table.
func (c *Classifier) PredictOne(t *Table) (Prediction, error) {
	if t.NumRows() != 1 {
		return Prediction{}, errors.Wrapf(model.ErrBadParameter, "expected 1 row, got %d", t.NumRows())
	}
	predictions, err := c.PredictBatch(t)
	if err != nil {
		return Prediction{}, err
	}
	return predictions[0], nil
}

// PredictBatch classifies all rows in one native model call, preserving row
// order. The confidence policy is applied uniformly: max class probability,
// else sigmoid of the absolute decision margin, else a fixed default.
func (c *Classifier) PredictBatch(t *Table) ([]Prediction, error) {
	if c.model == nil {
		return nil, model.ErrModelUnavailable
	}

	if err := c.ValidateInput(t); err != nil {
		return nil, err
	}

	features, err := c.pre.Transform(t)
	if err != nil {
		return nil, err
	}

	outputs, err := c.model.Predict(features.Rows)
	if err != nil {
		return nil, errors.Wrap(err, "model prediction failed")
	}
	if len(outputs) != t.NumRows() {
		return nil, errors.Errorf("model returned %d outputs for %d rows", len(outputs), t.NumRows())
	}

	predictions := make([]Prediction, len(outputs))
	for i, out := range outputs {
		predictions[i] = Prediction{
			Label:      c.mapLabel(out),
			Confidence: c.extractConfidence(out),
		}
	}
	return predictions, nil
}

func (c *Classifier) extractConfidence(out Output) float64 {
	var confidence float64
	switch c.model.Capability() {
	case CapabilityProbability:
		confidence = float64(maxFloat32(out.Probs))
	case CapabilityMargin:
		confidence = sigmoid(math.Abs(float64(out.Margin)))
	default:
		confidence = defaultConfidence
	}
	return clamp01(confidence)
}

// mapLabel converts a raw model output into a verdict label. Known string
// labels pass through unchanged; unrecognized outputs map to a sentinel so
// pipeline continuity survives unexpected model behavior.
func (c *Classifier) mapLabel(out Output) string {
	if out.Label != "" {
		switch out.Label {
		case LabelFalsePositive, LabelConfirmed, LabelCandidate:
			return out.Label
		}
		return fmt.Sprintf("UNKNOWN(%s)", out.Label)
	}
	if label, ok := classLabels[out.Class]; ok {
		return label
	}
	return fmt.Sprintf("UNKNOWN(%d)", out.Class)
}

func maxFloat32(values []float32) float32 {
	if len(values) == 0 {
		return 0
	}
	best := values[0]
	for _, v := range values[1:] {
		if v > best {
			best = v
		}
	}
	return best
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
