package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"exoplanet-review/internal/model"
	"exoplanet-review/pkg/utils"
)

// RequiredColumns must be present in every upload.
var RequiredColumns = []string{
	"koi_period", "koi_depth", "koi_duration", "koi_impact",
	"koi_insol", "koi_model_snr", "koi_steff", "koi_slogg",
	"koi_srad", "ra", "dec", "koi_kepmag", "koi_score",
}

// OptionalColumns are accepted but not required; missing ones only warn.
var OptionalColumns = []string{
	"kepid", "kepoi_name", "kepler_name", "koi_time0bk", "koi_prad",
	"koi_tce_plnt_num", "koi_disposition", "koi_pdisposition", "koi_teq",
	"koi_fpflag_nt", "koi_fpflag_ss", "koi_fpflag_co", "koi_fpflag_ec",
}

// ErrorColumns carry measurement uncertainties; absent ones are fine.
var ErrorColumns = []string{
	"koi_period_err1", "koi_period_err2", "koi_time0bk_err1", "koi_time0bk_err2",
	"koi_impact_err1", "koi_impact_err2", "koi_duration_err1", "koi_duration_err2",
	"koi_depth_err1", "koi_depth_err2", "koi_prad_err1", "koi_prad_err2",
	"koi_teq_err1", "koi_teq_err2", "koi_insol_err1", "koi_insol_err2",
	"koi_steff_err1", "koi_steff_err2", "koi_slogg_err1", "koi_slogg_err2",
	"koi_srad_err1", "koi_srad_err2",
}

var textColumns = []string{"kepoi_name", "kepler_name", "koi_disposition", "koi_pdisposition"}

type rangeCheck struct {
	min    float64
	max    float64
	hasMax bool
}

// Physical plausibility ranges; violations are warnings, not failures.
var rangeChecks = map[string]rangeCheck{
	"koi_period": {min: 0, max: 10000, hasMax: true},
	"koi_depth":  {min: 0},
	"koi_teq":    {min: 0, max: 5000, hasMax: true},
	"koi_steff":  {min: 2000, max: 10000, hasMax: true},
	"koi_srad":   {min: 0, max: 50, hasMax: true},
	"ra":         {min: 0, max: 360, hasMax: true},
	"dec":        {min: -90, max: 90, hasMax: true},
}

// Dataset is a validated upload: one row per candidate, numeric and text
// columns kept separately, row order preserved.
type Dataset struct {
	NumRows int
	Numeric map[string][]*float64
	Text    map[string][]*string
}

type ValidationReport struct {
	Valid           bool     `json:"valid"`
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings"`
	MissingRequired []string `json:"missing_required"`
	MissingOptional []string `json:"missing_optional"`
	ExtraColumns    []string `json:"extra_columns"`
}

// ParseCSV reads an upload into a Dataset and validates its shape. A missing
// required column fails validation; everything else degrades to warnings.
func ParseCSV(r io.Reader) (*Dataset, *ValidationReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, errors.Wrap(model.ErrBadParameter, "CSV file is empty")
	}
	if err != nil {
		return nil, nil, errors.Wrap(model.ErrBadParameter, err.Error())
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrapf(model.ErrBadParameter, "CSV parsing error: %v", err)
	}
	if len(records) == 0 {
		return nil, nil, errors.Wrap(model.ErrBadParameter, "CSV file has no data rows")
	}

	ds := &Dataset{
		NumRows: len(records),
		Numeric: make(map[string][]*float64),
		Text:    make(map[string][]*string),
	}
	for colIdx, name := range header {
		if utils.ContainsString(textColumns, name) {
			values := make([]*string, len(records))
			for rowIdx, record := range records {
				if cell := strings.TrimSpace(record[colIdx]); cell != "" {
					values[rowIdx] = utils.ToPointer(cell)
				}
			}
			ds.Text[name] = values
			continue
		}

		values := make([]*float64, len(records))
		for rowIdx, record := range records {
			cell := strings.TrimSpace(record[colIdx])
			if cell == "" {
				continue
			}
			parsed, parseErr := strconv.ParseFloat(cell, 64)
			if parseErr != nil {
				continue
			}
			values[rowIdx] = utils.ToPointer(parsed)
		}
		ds.Numeric[name] = values
	}

	report := validate(ds, header)
	return ds, report, nil
}

func validate(ds *Dataset, header []string) *ValidationReport {
	report := &ValidationReport{Valid: true}

	for _, col := range RequiredColumns {
		if !utils.ContainsString(header, col) {
			report.MissingRequired = append(report.MissingRequired, col)
		}
	}
	if len(report.MissingRequired) > 0 {
		report.Valid = false
		report.Errors = append(report.Errors,
			fmt.Sprintf("missing required columns: %s", strings.Join(report.MissingRequired, ", ")))
	}

	for _, col := range OptionalColumns {
		if !utils.ContainsString(header, col) {
			report.MissingOptional = append(report.MissingOptional, col)
		}
	}
	if len(report.MissingOptional) > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("missing optional columns: %s", strings.Join(report.MissingOptional, ", ")))
	}

	known := append(append(append([]string(nil), RequiredColumns...), OptionalColumns...), ErrorColumns...)
	for _, col := range header {
		if !utils.ContainsString(known, col) {
			report.ExtraColumns = append(report.ExtraColumns, col)
		}
	}

	report.Warnings = append(report.Warnings, dataQualityWarnings(ds)...)
	return report
}

func dataQualityWarnings(ds *Dataset) []string {
	var warnings []string

	for _, col := range RequiredColumns {
		values, ok := ds.Numeric[col]
		if !ok {
			continue
		}
		missing := 0
		for _, v := range values {
			if v == nil {
				missing++
			}
		}
		if pct := float64(missing) / float64(ds.NumRows) * 100; pct > 50 {
			warnings = append(warnings, fmt.Sprintf("column %q has %.1f%% missing values", col, pct))
		}
	}

	for col, check := range rangeChecks {
		values, ok := ds.Numeric[col]
		if !ok {
			continue
		}
		outOfRange := 0
		for _, v := range values {
			if v == nil {
				continue
			}
			if *v < check.min || (check.hasMax && *v > check.max) {
				outOfRange++
			}
		}
		if outOfRange > 0 {
			warnings = append(warnings, fmt.Sprintf("column %q has %d values out of expected range", col, outOfRange))
		}
	}

	return warnings
}
