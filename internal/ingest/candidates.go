package ingest

import "exoplanet-review/internal/model"

var numericSetters = map[string]func(*model.ExoplanetCandidate, *float64){
	"koi_period":       func(c *model.ExoplanetCandidate, v *float64) { c.KoiPeriod = v },
	"koi_period_err1":  func(c *model.ExoplanetCandidate, v *float64) { c.KoiPeriodErr1 = v },
	"koi_period_err2":  func(c *model.ExoplanetCandidate, v *float64) { c.KoiPeriodErr2 = v },
	"koi_time0bk":      func(c *model.ExoplanetCandidate, v *float64) { c.KoiTime0bk = v },
	"koi_time0bk_err1": func(c *model.ExoplanetCandidate, v *float64) { c.KoiTime0bkErr1 = v },
	"koi_time0bk_err2": func(c *model.ExoplanetCandidate, v *float64) { c.KoiTime0bkErr2 = v },
	"koi_impact":       func(c *model.ExoplanetCandidate, v *float64) { c.KoiImpact = v },
	"koi_impact_err1":  func(c *model.ExoplanetCandidate, v *float64) { c.KoiImpactErr1 = v },
	"koi_impact_err2":  func(c *model.ExoplanetCandidate, v *float64) { c.KoiImpactErr2 = v },
	"koi_duration":     func(c *model.ExoplanetCandidate, v *float64) { c.KoiDuration = v },
	"koi_duration_err1": func(c *model.ExoplanetCandidate, v *float64) { c.KoiDurationErr1 = v },
	"koi_duration_err2": func(c *model.ExoplanetCandidate, v *float64) { c.KoiDurationErr2 = v },
	"koi_depth":        func(c *model.ExoplanetCandidate, v *float64) { c.KoiDepth = v },
	"koi_depth_err1":   func(c *model.ExoplanetCandidate, v *float64) { c.KoiDepthErr1 = v },
	"koi_depth_err2":   func(c *model.ExoplanetCandidate, v *float64) { c.KoiDepthErr2 = v },
	"koi_fpflag_nt":    func(c *model.ExoplanetCandidate, v *float64) { c.KoiFpflagNt = v },
	"koi_fpflag_ss":    func(c *model.ExoplanetCandidate, v *float64) { c.KoiFpflagSs = v },
	"koi_fpflag_co":    func(c *model.ExoplanetCandidate, v *float64) { c.KoiFpflagCo = v },
	"koi_fpflag_ec":    func(c *model.ExoplanetCandidate, v *float64) { c.KoiFpflagEc = v },
	"koi_prad":         func(c *model.ExoplanetCandidate, v *float64) { c.KoiPrad = v },
	"koi_prad_err1":    func(c *model.ExoplanetCandidate, v *float64) { c.KoiPradErr1 = v },
	"koi_prad_err2":    func(c *model.ExoplanetCandidate, v *float64) { c.KoiPradErr2 = v },
	"koi_teq":          func(c *model.ExoplanetCandidate, v *float64) { c.KoiTeq = v },
	"koi_teq_err1":     func(c *model.ExoplanetCandidate, v *float64) { c.KoiTeqErr1 = v },
	"koi_teq_err2":     func(c *model.ExoplanetCandidate, v *float64) { c.KoiTeqErr2 = v },
	"koi_insol":        func(c *model.ExoplanetCandidate, v *float64) { c.KoiInsol = v },
	"koi_insol_err1":   func(c *model.ExoplanetCandidate, v *float64) { c.KoiInsolErr1 = v },
	"koi_insol_err2":   func(c *model.ExoplanetCandidate, v *float64) { c.KoiInsolErr2 = v },
	"koi_model_snr":    func(c *model.ExoplanetCandidate, v *float64) { c.KoiModelSnr = v },
	"koi_tce_plnt_num": func(c *model.ExoplanetCandidate, v *float64) { c.KoiTcePlntNum = v },
	"koi_steff":        func(c *model.ExoplanetCandidate, v *float64) { c.KoiSteff = v },
	"koi_steff_err1":   func(c *model.ExoplanetCandidate, v *float64) { c.KoiSteffErr1 = v },
	"koi_steff_err2":   func(c *model.ExoplanetCandidate, v *float64) { c.KoiSteffErr2 = v },
	"koi_slogg":        func(c *model.ExoplanetCandidate, v *float64) { c.KoiSlogg = v },
	"koi_slogg_err1":   func(c *model.ExoplanetCandidate, v *float64) { c.KoiSloggErr1 = v },
	"koi_slogg_err2":   func(c *model.ExoplanetCandidate, v *float64) { c.KoiSloggErr2 = v },
	"koi_srad":         func(c *model.ExoplanetCandidate, v *float64) { c.KoiSrad = v },
	"koi_srad_err1":    func(c *model.ExoplanetCandidate, v *float64) { c.KoiSradErr1 = v },
	"koi_srad_err2":    func(c *model.ExoplanetCandidate, v *float64) { c.KoiSradErr2 = v },
	"ra":               func(c *model.ExoplanetCandidate, v *float64) { c.Ra = v },
	"dec":              func(c *model.ExoplanetCandidate, v *float64) { c.Dec = v },
	"koi_kepmag":       func(c *model.ExoplanetCandidate, v *float64) { c.KoiKepmag = v },
	"koi_score":        func(c *model.ExoplanetCandidate, v *float64) { c.KoiScore = v },
	"kepid": func(c *model.ExoplanetCandidate, v *float64) {
		if v != nil {
			id := int64(*v)
			c.KepID = &id
		}
	},
}

var textSetters = map[string]func(*model.ExoplanetCandidate, *string){
	"kepoi_name":       func(c *model.ExoplanetCandidate, v *string) { c.KepoiName = v },
	"kepler_name":      func(c *model.ExoplanetCandidate, v *string) { c.KeplerName = v },
	"koi_disposition":  func(c *model.ExoplanetCandidate, v *string) { c.KoiDisposition = v },
	"koi_pdisposition": func(c *model.ExoplanetCandidate, v *string) { c.KoiPdisposition = v },
}

// ToCandidates materializes one pending candidate per dataset row. Unknown
// columns are ignored.
func (ds *Dataset) ToCandidates(filename string, researcherID uint) []model.ExoplanetCandidate {
	candidates := make([]model.ExoplanetCandidate, ds.NumRows)
	for i := range candidates {
		candidates[i] = model.ExoplanetCandidate{
			OriginalCSVFilename: filename,
			ResearcherID:        researcherID,
			AnalysisStatus:      model.AnalysisStatusPending,
			FinalVerdict:        model.VerdictPending,
		}
	}

	for col, values := range ds.Numeric {
		setter, ok := numericSetters[col]
		if !ok {
			continue
		}
		for i, v := range values {
			setter(&candidates[i], v)
		}
	}
	for col, values := range ds.Text {
		setter, ok := textSetters[col]
		if !ok {
			continue
		}
		for i, v := range values {
			setter(&candidates[i], v)
		}
	}
	return candidates
}
