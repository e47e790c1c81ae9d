package calibration

import "github.com/noshow-ai/platform/pkg/common/config"

// Tier labels follow the scheduler's wire contract.
const (
	TierLow    = "bajo"
	TierMedium = "medio"
	TierHigh   = "alto"
)

// Engine adjusts raw model output for known population bias and turns the
// result into a decision and a risk tier. All correction factors are pure
// scalars in [0,1], so application order does not matter.
type Engine struct {
	threshold          float64
	unregisteredFactor float64
	leadTimeFactor     float64
	leadTimeMin        int
	leadTimeMax        int
	adultFactor        float64
	adultAgeMin        int
	adultAgeMax        int
	tierLowCutoff      float64
	tierHighCutoff     float64
}

func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		threshold:          cfg.DecisionThreshold,
		unregisteredFactor: cfg.UnregisteredFactor,
		leadTimeFactor:     cfg.LeadTimeFactor,
		leadTimeMin:        cfg.LeadTimeFactorMin,
		leadTimeMax:        cfg.LeadTimeFactorMax,
		adultFactor:        cfg.AdultFactor,
		adultAgeMin:        cfg.AdultAgeMin,
		adultAgeMax:        cfg.AdultAgeMax,
		tierLowCutoff:      cfg.TierLowCutoff,
		tierHighCutoff:     cfg.TierHighCutoff,
	}
}

// Context carries the extracted features the correction heuristics read.
type Context struct {
	Registered   bool
	LeadTimeDays int
	Age          int
}

// Calibrate applies the bias-correction multipliers and clamps to [0,1].
// The model is trained on registered-patient history, so it over-penalizes
// patients without one; moderate lead times and working-age adults are
// empirically lower risk than the raw score suggests.
func (e *Engine) Calibrate(rawProbability float64, ctx Context) float64 {
	calibrated := rawProbability
	if !ctx.Registered {
		calibrated *= e.unregisteredFactor
	}
	if ctx.LeadTimeDays >= e.leadTimeMin && ctx.LeadTimeDays <= e.leadTimeMax {
		calibrated *= e.leadTimeFactor
	}
	if ctx.Age >= e.adultAgeMin && ctx.Age <= e.adultAgeMax {
		calibrated *= e.adultFactor
	}
	if calibrated < 0 {
		return 0
	}
	if calibrated > 1 {
		return 1
	}
	return calibrated
}

// Decide is the decision rule: strictly above the threshold.
func (e *Engine) Decide(calibratedProbability float64) bool {
	return calibratedProbability > e.threshold
}

// Tier buckets the calibrated probability into the coarse risk level.
func (e *Engine) Tier(probability float64) string {
	switch {
	case probability < e.tierLowCutoff:
		return TierLow
	case probability < e.tierHighCutoff:
		return TierMedium
	default:
		return TierHigh
	}
}

// Threshold exposes the active decision threshold for the response
// contract.
func (e *Engine) Threshold() float64 {
	return e.threshold
}
