package predictor

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/noshow-ai/platform/pkg/common/logger"
	"github.com/noshow-ai/platform/pkg/features"
)

// ErrUnavailable is returned by every call when the artifact failed to
// load at startup. Distinct from ErrPredictionFailed so callers can tell
// a dead model from a bad vector.
var ErrUnavailable = errors.New("model unavailable")

// ErrPredictionFailed wraps faults raised while scoring a loaded model.
var ErrPredictionFailed = errors.New("prediction failed")

// Artifact is the persisted model produced by the offline training
// pipeline: logistic weights plus the exact feature order they index.
type Artifact struct {
	Model struct {
		Type         string   `json:"type"`
		Algorithm    string   `json:"algorithm"`
		Version      string   `json:"version"`
		FeatureNames []string `json:"feature_names"`
		Weights      struct {
			Bias         float64   `json:"bias"`
			Coefficients []float64 `json:"coefficients"`
		} `json:"weights"`
	} `json:"model"`
}

// Gateway owns the single process-lifetime model. It is immutable after
// Load and therefore safe for unlimited concurrent readers.
type Gateway struct {
	artifact *Artifact
	loadErr  error
}

// Load reads the artifact once. Failure does not abort the process: the
// gateway degrades to a permanently unavailable state and every scoring
// call reports ErrUnavailable.
func Load(path string) *Gateway {
	artifact, err := readArtifact(path)
	if err != nil {
		logger.Log.WithError(err).WithField("path", path).Error("Model artifact unavailable")
		return &Gateway{loadErr: err}
	}
	logger.Log.WithFields(map[string]interface{}{
		"path":      path,
		"algorithm": artifact.Model.Algorithm,
		"features":  len(artifact.Model.FeatureNames),
	}).Info("Model artifact loaded")
	return &Gateway{artifact: artifact}
}

func readArtifact(path string) (*Artifact, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	var artifact Artifact
	if err := json.Unmarshal(content, &artifact); err != nil {
		return nil, fmt.Errorf("malformed artifact: %w", err)
	}
	names := artifact.Model.FeatureNames
	if len(names) == 0 {
		return nil, errors.New("artifact missing feature names")
	}
	if len(names) != len(artifact.Model.Weights.Coefficients) {
		return nil, fmt.Errorf("artifact has %d feature names but %d coefficients",
			len(names), len(artifact.Model.Weights.Coefficients))
	}
	// An artifact trained on a different feature order would score without
	// error and corrupt every prediction; refuse it here instead.
	if len(names) != len(features.Names) {
		return nil, fmt.Errorf("artifact expects %d features, extractor produces %d",
			len(names), len(features.Names))
	}
	for i, name := range features.Names {
		if names[i] != name {
			return nil, fmt.Errorf("artifact feature %d is %q, extractor produces %q", i, names[i], name)
		}
	}
	return &artifact, nil
}

// Available reports whether the artifact loaded at startup.
func (g *Gateway) Available() bool {
	return g.artifact != nil
}

// Score returns the raw no-show probability for an ordered feature
// vector.
func (g *Gateway) Score(vector []float64) (float64, error) {
	if g.artifact == nil {
		return 0, ErrUnavailable
	}
	if len(vector) != len(g.artifact.Model.FeatureNames) {
		return 0, fmt.Errorf("%w: vector has %d values, model expects %d",
			ErrPredictionFailed, len(vector), len(g.artifact.Model.FeatureNames))
	}
	sum := g.artifact.Model.Weights.Bias
	for i, coeff := range g.artifact.Model.Weights.Coefficients {
		sum += coeff * vector[i]
	}
	return sigmoid(sum), nil
}

// Classify applies the model's own 0.5 cut to the raw probability, the
// label the artifact's predict() would emit.
func (g *Gateway) Classify(vector []float64) (int, error) {
	probability, err := g.Score(vector)
	if err != nil {
		return 0, err
	}
	if probability >= 0.5 {
		return 1, nil
	}
	return 0, nil
}

// Version returns the artifact version, or empty when unavailable.
func (g *Gateway) Version() string {
	if g.artifact == nil {
		return ""
	}
	return g.artifact.Model.Version
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
