package ml

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/pkg/errors"
)

// ErrPreprocess marks fatal preprocessing failures. It propagates to the
// caller as a typed error instead of silently producing NaNs.
var ErrPreprocess = errors.New("preprocessing failed")

// FeatureColumns is the fixed feature vector the trained classifier expects,
// in training order.
var FeatureColumns = []string{
	"koi_score",
	"koi_fpflag_nt",
	"koi_fpflag_ss",
	"koi_fpflag_co",
	"koi_fpflag_ec",
	"koi_period",
	"koi_time0bk",
	"koi_impact",
	"koi_duration",
	"koi_depth",
	"koi_prad",
	"koi_teq",
	"koi_insol",
	"koi_model_snr",
	"koi_tce_plnt_num",
	"koi_steff",
	"koi_slogg",
	"koi_srad",
	"ra",
	"dec",
	"koi_kepmag",
}

// FlagColumns are boolean-like false-positive indicators. Missing values and
// missing columns default to 0.
var FlagColumns = []string{
	"koi_fpflag_ss",
	"koi_fpflag_co",
	"koi_fpflag_nt",
	"koi_fpflag_ec",
}

// featureDefaults are substituted when a numeric column is entirely null.
// They are physically motivated typical values; zero is outside the physical
// range for several of these fields.
var featureDefaults = map[string]float64{
	"koi_period":       10.0,
	"koi_time0bk":      131.0,
	"koi_impact":       0.5,
	"koi_duration":     3.0,
	"koi_depth":        100.0,
	"koi_prad":         2.0,
	"koi_teq":          1000.0,
	"koi_insol":        1000.0,
	"koi_model_snr":    10.0,
	"koi_tce_plnt_num": 1,
	"koi_steff":        5000.0,
	"koi_slogg":        4.0,
	"koi_srad":         1.0,
	"ra":               180.0,
	"dec":              0.0,
	"koi_kepmag":       14.0,
	"koi_score":        0.5,
}

// ScalerParams holds the fitted standardization parameters exported from the
// training pipeline.
type ScalerParams struct {
	Columns []string  `json:"columns"`
	Mean    []float64 `json:"mean"`
	Scale   []float64 `json:"scale"`
}

func LoadScalerParams(path string) (*ScalerParams, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scaler params")
	}
	var params ScalerParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, errors.Wrap(err, "parse scaler params")
	}
	if len(params.Mean) != len(params.Columns) || len(params.Scale) != len(params.Columns) {
		return nil, errors.Wrapf(ErrPreprocess, "scaler params shape mismatch: %d columns, %d means, %d scales",
			len(params.Columns), len(params.Mean), len(params.Scale))
	}
	return &params, nil
}

// Preprocessor normalizes a raw table into the dense feature matrix the
// classifier expects: flag columns default to 0, numeric columns are median
// filled (or substituted with a fixed domain default when entirely null) and
// standardized with the fitted scaler.
type Preprocessor struct {
	scaler *ScalerParams
}

func NewPreprocessor(scaler *ScalerParams) *Preprocessor {
	return &Preprocessor{scaler: scaler}
}

func (p *Preprocessor) Transform(t *Table) (*FeatureMatrix, error) {
	nRows := t.NumRows()
	if nRows == 0 {
		return nil, errors.Wrap(ErrPreprocess, "empty input table")
	}

	filled := make(map[string][]float64, len(FeatureColumns))
	for _, col := range FeatureColumns {
		if isFlagColumn(col) {
			filled[col] = fillFlagColumn(t.Column(col), nRows)
			continue
		}
		filled[col] = fillNumericColumn(col, t.Column(col), nRows)
	}

	if p.scaler != nil {
		if err := p.applyScaler(filled, nRows); err != nil {
			return nil, err
		}
	}

	out := &FeatureMatrix{
		Columns: append([]string(nil), FeatureColumns...),
		Rows:    make([][]float32, nRows),
	}
	for i := 0; i < nRows; i++ {
		row := make([]float32, len(FeatureColumns))
		for j, col := range FeatureColumns {
			row[j] = float32(filled[col][i])
		}
		out.Rows[i] = row
	}
	return out, nil
}

func (p *Preprocessor) applyScaler(filled map[string][]float64, nRows int) error {
	if len(p.scaler.Columns) != len(FeatureColumns) {
		return errors.Wrapf(ErrPreprocess, "scaler fitted on %d columns, model expects %d",
			len(p.scaler.Columns), len(FeatureColumns))
	}
	for idx, col := range p.scaler.Columns {
		values, ok := filled[col]
		if !ok {
			return errors.Wrapf(ErrPreprocess, "scaler column %s is not a model feature", col)
		}
		mean, scale := p.scaler.Mean[idx], p.scaler.Scale[idx]
		if scale == 0 {
			return errors.Wrapf(ErrPreprocess, "scaler column %s has zero scale", col)
		}
		for i := 0; i < nRows; i++ {
			values[i] = (values[i] - mean) / scale
		}
	}
	return nil
}

func isFlagColumn(name string) bool {
	for _, c := range FlagColumns {
		if c == name {
			return true
		}
	}
	return false
}

func fillFlagColumn(values []*float64, nRows int) []float64 {
	out := make([]float64, nRows)
	for i := range out {
		if i < len(values) && values[i] != nil {
			out[i] = *values[i]
		}
	}
	return out
}

func fillNumericColumn(name string, values []*float64, nRows int) []float64 {
	nonNull := make([]float64, 0, nRows)
	for _, v := range values {
		if v != nil {
			nonNull = append(nonNull, *v)
		}
	}

	var fallback float64
	if len(nonNull) > 0 {
		fallback = median(nonNull)
	} else {
		fallback = featureDefaults[name]
	}

	out := make([]float64, nRows)
	for i := range out {
		if i < len(values) && values[i] != nil {
			out[i] = *values[i]
		} else {
			out[i] = fallback
		}
	}
	return out
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
