package pipeline

import (
	"errors"
	"fmt"

	"github.com/noshow-ai/platform/pkg/calibration"
	"github.com/noshow-ai/platform/pkg/common/logger"
	"github.com/noshow-ai/platform/pkg/common/models"
	"github.com/noshow-ai/platform/pkg/features"
	"github.com/noshow-ai/platform/pkg/risk"
	"github.com/noshow-ai/platform/pkg/serving/predictor"
)

// Pipeline wires extraction, scoring, calibration and explanation for one
// request. It holds no per-request state: the shared model is read-only,
// so concurrent Predict calls need no locking.
type Pipeline struct {
	extractor *features.Extractor
	gateway   *predictor.Gateway
	engine    *calibration.Engine
}

func New(extractor *features.Extractor, gateway *predictor.Gateway, engine *calibration.Engine) *Pipeline {
	return &Pipeline{extractor: extractor, gateway: gateway, engine: engine}
}

// Predict runs the full pipeline. The returned patient identifier is
// populated even on failure so error contracts can carry it.
func (p *Pipeline) Predict(record *models.AppointmentRecord) (*models.Prediction, string, error) {
	set := p.extractor.Extract(record)

	vector, err := set.Vector()
	if err != nil {
		return nil, set.PatientID, fmt.Errorf("%w: %v", predictor.ErrPredictionFailed, err)
	}

	rawProbability, err := p.gateway.Score(vector)
	if err != nil {
		return nil, set.PatientID, err
	}

	ctx := calibration.Context{
		Registered:   set.Registered,
		LeadTimeDays: int(set.Values["lead_time_days"]),
		Age:          int(set.Values["edad"]),
	}
	probability := p.engine.Calibrate(rawProbability, ctx)

	prediction := &models.Prediction{
		WillNoShow:     p.engine.Decide(probability),
		Probability:    probability,
		RawProbability: rawProbability,
		RiskLevel:      p.engine.Tier(probability),
		RiskFactors:    risk.Factors(set),
		ThresholdUsed:  p.engine.Threshold(),
	}

	logger.Log.WithFields(map[string]interface{}{
		"patient_id":   set.PatientID,
		"registered":   set.Registered,
		"raw":          rawProbability,
		"probability":  probability,
		"risk_level":   prediction.RiskLevel,
		"will_no_show": prediction.WillNoShow,
	}).Debug("Prediction completed")

	return prediction, set.PatientID, nil
}

// Run assembles the wire contract: a PredictionResponse on success, an
// ErrorResponse on any failure. The boolean reports success so process
// callers can set their exit status.
func (p *Pipeline) Run(record *models.AppointmentRecord) (interface{}, bool) {
	prediction, patientID, err := p.Predict(record)
	if err != nil {
		return AssembleError(err, patientID), false
	}
	return &models.PredictionResponse{
		Success:    true,
		Prediction: prediction,
		PatientID:  patientID,
	}, true
}

// ExtractFeatures is the debug mode: the raw extracted mapping instead of
// a prediction, for integration tests against the training pipeline.
func (p *Pipeline) ExtractFeatures(record *models.AppointmentRecord) *models.FeaturesResponse {
	set := p.extractor.Extract(record)
	return &models.FeaturesResponse{Success: true, Features: set.Values}
}

// AssembleError maps pipeline failures onto the converged error contract.
func AssembleError(err error, patientID string) *models.ErrorResponse {
	message := "Error en predicción"
	switch {
	case errors.Is(err, predictor.ErrUnavailable):
		message = "Modelo no disponible"
	case err != nil:
		message = fmt.Sprintf("Error en predicción: %v", err)
	}
	return &models.ErrorResponse{Success: false, Error: message, PatientID: patientID}
}
