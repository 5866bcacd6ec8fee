package ml

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exoplanet-review/internal/model"
	"exoplanet-review/pkg/logger"
	"exoplanet-review/pkg/utils"
)

type fakeModel struct {
	capability Capability
	outputs    []Output
	err        error
	gotRows    [][]float32
}

func (m *fakeModel) Capability() Capability { return m.capability }

func (m *fakeModel) Predict(rows [][]float32) ([]Output, error) {
	m.gotRows = rows
	if m.err != nil {
		return nil, m.err
	}
	return m.outputs, nil
}

func (m *fakeModel) Close() error { return nil }

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

// completeTable fills every feature column so input validation passes.
func completeTable(t *testing.T, nRows int) *Table {
	t.Helper()
	table := NewTable(nRows)
	for _, col := range FeatureColumns {
		values := make([]*float64, nRows)
		for i := range values {
			values[i] = utils.ToPointer(1.0)
		}
		require.NoError(t, table.SetColumn(col, values))
	}
	return table
}

func TestClassifier_ExtractConfidence(t *testing.T) {
	tests := []struct {
		name       string
		capability Capability
		output     Output
		wantMin    float64
		wantMax    float64
		wantExact  *float64
	}{
		{
			name:       "probability capability uses max class probability",
			capability: CapabilityProbability,
			output:     Output{Class: 1, Probs: []float32{0.1, 0.7, 0.2}},
			wantExact:  utils.ToPointer(0.7),
		},
		{
			name:       "margin capability squashes through sigmoid",
			capability: CapabilityMargin,
			output:     Output{Class: 1, Margin: -3.0},
			wantMin:    0.5,
			wantMax:    1.0,
		},
		{
			name:       "no capability uses the fixed default",
			capability: CapabilityNone,
			output:     Output{Class: 1},
			wantExact:  utils.ToPointer(0.8),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeModel{capability: tt.capability, outputs: []Output{tt.output}}
			c := NewClassifierWithModel(fake, NewPreprocessor(nil), testLogger(t))

			predictions, err := c.PredictBatch(completeTable(t, 1))
			require.NoError(t, err)
			require.Len(t, predictions, 1)

			got := predictions[0].Confidence
			if tt.wantExact != nil {
				assert.InDelta(t, *tt.wantExact, got, 1e-6)
			} else {
				assert.GreaterOrEqual(t, got, tt.wantMin)
				assert.LessOrEqual(t, got, tt.wantMax)
			}
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestClassifier_MapLabel(t *testing.T) {
	tests := []struct {
		name   string
		output Output
		want   string
	}{
		{name: "class 0", output: Output{Class: 0}, want: "FALSE POSITIVE"},
		{name: "class 1", output: Output{Class: 1}, want: "CONFIRMED"},
		{name: "class 2", output: Output{Class: 2}, want: "CANDIDATE"},
		{name: "unknown class is preserved in the sentinel", output: Output{Class: 7}, want: "UNKNOWN(7)"},
		{name: "known string label passes through", output: Output{Label: "CONFIRMED"}, want: "CONFIRMED"},
		{name: "unknown string label is wrapped", output: Output{Label: "MAYBE"}, want: "UNKNOWN(MAYBE)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeModel{capability: CapabilityNone, outputs: []Output{tt.output}}
			c := NewClassifierWithModel(fake, NewPreprocessor(nil), testLogger(t))

			predictions, err := c.PredictBatch(completeTable(t, 1))
			require.NoError(t, err)
			assert.Equal(t, tt.want, predictions[0].Label)
		})
	}
}

func TestClassifier_PredictBatch(t *testing.T) {
	t.Run("preserves row order", func(t *testing.T) {
		fake := &fakeModel{
			capability: CapabilityNone,
			outputs:    []Output{{Class: 1}, {Class: 0}, {Class: 2}},
		}
		c := NewClassifierWithModel(fake, NewPreprocessor(nil), testLogger(t))

		predictions, err := c.PredictBatch(completeTable(t, 3))
		require.NoError(t, err)
		require.Len(t, predictions, 3)
		assert.Equal(t, "CONFIRMED", predictions[0].Label)
		assert.Equal(t, "FALSE POSITIVE", predictions[1].Label)
		assert.Equal(t, "CANDIDATE", predictions[2].Label)
	})

	t.Run("runs one native call for the whole batch", func(t *testing.T) {
		fake := &fakeModel{
			capability: CapabilityNone,
			outputs:    []Output{{Class: 1}, {Class: 1}},
		}
		c := NewClassifierWithModel(fake, NewPreprocessor(nil), testLogger(t))

		_, err := c.PredictBatch(completeTable(t, 2))
		require.NoError(t, err)
		assert.Len(t, fake.gotRows, 2)
	})

	t.Run("model failure propagates", func(t *testing.T) {
		fake := &fakeModel{capability: CapabilityNone, err: errors.New("session crashed")}
		c := NewClassifierWithModel(fake, NewPreprocessor(nil), testLogger(t))

		_, err := c.PredictBatch(completeTable(t, 1))
		assert.Error(t, err)
	})

	t.Run("unavailable model fails every call", func(t *testing.T) {
		c := NewClassifierWithModel(nil, NewPreprocessor(nil), testLogger(t))
		assert.False(t, c.Available())

		_, err := c.PredictBatch(completeTable(t, 1))
		assert.ErrorIs(t, err, model.ErrModelUnavailable)
	})
}

func TestClassifier_ValidateInput(t *testing.T) {
	log := testLogger(t)
	fake := &fakeModel{capability: CapabilityNone, outputs: []Output{{Class: 1}}}
	c := NewClassifierWithModel(fake, NewPreprocessor(nil), log)

	t.Run("missing critical column fails", func(t *testing.T) {
		table := completeTable(t, 1)
		require.NoError(t, table.SetColumn("koi_period", []*float64{nil}))

		err := c.ValidateInput(table)
		assert.ErrorIs(t, err, model.ErrBadParameter)
	})

	t.Run("missing optional column passes", func(t *testing.T) {
		table := completeTable(t, 1)
		require.NoError(t, table.SetColumn("koi_fpflag_nt", []*float64{nil}))
		require.NoError(t, table.SetColumn("koi_steff", []*float64{nil}))

		assert.NoError(t, c.ValidateInput(table))
	})

	t.Run("one value in the batch is enough", func(t *testing.T) {
		table := completeTable(t, 2)
		require.NoError(t, table.SetColumn("koi_period", []*float64{nil, utils.ToPointer(3.0)}))

		assert.NoError(t, c.ValidateInput(table))
	})
}

func TestClassifier_PredictOne(t *testing.T) {
	t.Run("rejects multi-row tables", func(t *testing.T) {
		fake := &fakeModel{capability: CapabilityNone, outputs: []Output{{Class: 1}}}
		c := NewClassifierWithModel(fake, NewPreprocessor(nil), testLogger(t))

		_, err := c.PredictOne(completeTable(t, 2))
		assert.ErrorIs(t, err, model.ErrBadParameter)
	})

	t.Run("returns the single prediction", func(t *testing.T) {
		fake := &fakeModel{capability: CapabilityProbability, outputs: []Output{{Class: 2, Probs: []float32{0.2, 0.1, 0.7}}}}
		c := NewClassifierWithModel(fake, NewPreprocessor(nil), testLogger(t))

		prediction, err := c.PredictOne(completeTable(t, 1))
		require.NoError(t, err)
		assert.Equal(t, "CANDIDATE", prediction.Label)
		assert.InDelta(t, 0.7, prediction.Confidence, 1e-6)
	})
}
