package predictor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/noshow-ai/platform/pkg/common/logger"
	"github.com/noshow-ai/platform/pkg/features"
)

func TestMain(m *testing.M) {
	os.Setenv("LOG_SILENT", "true")
	logger.Init()
	os.Exit(m.Run())
}

func writeArtifact(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "noshow_latest.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func validArtifact(t *testing.T) string {
	t.Helper()
	names := `"edad","genero","alergias_flag","lead_time_days","dow","hour","is_weekend","categoria_servicio","precio_servicio","duration_min","paid_flag","tratamiento_pendiente","total_citas","total_no_shows","pct_no_show_historico","dias_desde_ultima_cita"`
	return writeArtifact(t, `{
		"model": {
			"type": "classification",
			"algorithm": "logistic_regression",
			"version": "2024.01",
			"feature_names": [`+names+`],
			"weights": {
				"bias": 0,
				"coefficients": [0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0]
			}
		}
	}`)
}

func TestLoadMissingArtifactDegradesToUnavailable(t *testing.T) {
	gateway := Load(filepath.Join(t.TempDir(), "missing.json"))
	if gateway.Available() {
		t.Fatal("gateway must be unavailable when the artifact is missing")
	}

	vector := make([]float64, len(features.Names))
	if _, err := gateway.Score(vector); err != ErrUnavailable {
		t.Fatalf("Score error = %v, want ErrUnavailable", err)
	}
	if _, err := gateway.Classify(vector); err != ErrUnavailable {
		t.Fatalf("Classify error = %v, want ErrUnavailable", err)
	}
}

func TestLoadRejectsReorderedFeatureNames(t *testing.T) {
	// genero and edad swapped: same names, wrong order. Scoring this
	// artifact would succeed numerically and corrupt every prediction.
	path := writeArtifact(t, `{
		"model": {
			"feature_names": ["genero","edad","alergias_flag","lead_time_days","dow","hour","is_weekend","categoria_servicio","precio_servicio","duration_min","paid_flag","tratamiento_pendiente","total_citas","total_no_shows","pct_no_show_historico","dias_desde_ultima_cita"],
			"weights": {"bias": 0, "coefficients": [0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0]}
		}
	}`)
	if Load(path).Available() {
		t.Fatal("artifact with reordered feature names must be refused")
	}
}

func TestLoadRejectsCoefficientMismatch(t *testing.T) {
	path := writeArtifact(t, `{
		"model": {
			"feature_names": ["edad","genero"],
			"weights": {"bias": 0, "coefficients": [0.1]}
		}
	}`)
	if Load(path).Available() {
		t.Fatal("artifact with mismatched coefficients must be refused")
	}
}

func TestScoreZeroWeightsIsHalf(t *testing.T) {
	gateway := Load(validArtifact(t))
	if !gateway.Available() {
		t.Fatal("expected artifact to load")
	}
	if gateway.Version() != "2024.01" {
		t.Fatalf("version = %q", gateway.Version())
	}

	vector := make([]float64, len(features.Names))
	probability, err := gateway.Score(vector)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if probability != 0.5 {
		t.Fatalf("sigmoid(0) = %v, want 0.5", probability)
	}

	label, err := gateway.Classify(vector)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if label != 1 {
		t.Fatalf("label = %d, want 1 at probability 0.5", label)
	}
}

func TestScoreWrongVectorLengthIsPredictionFailure(t *testing.T) {
	gateway := Load(validArtifact(t))
	_, err := gateway.Score([]float64{1, 2, 3})
	if !errors.Is(err, ErrPredictionFailed) {
		t.Fatalf("error = %v, want ErrPredictionFailed", err)
	}
	if errors.Is(err, ErrUnavailable) {
		t.Fatal("shape mismatch must not report unavailability")
	}
}
