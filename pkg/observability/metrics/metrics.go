package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	predictionsServed      atomic.Int64
	predictionsFailed      atomic.Int64
	predictionsUnavailable atomic.Int64
	predictionsHighRisk    atomic.Int64
)

func ObservePrediction(riskLevel string) {
	predictionsServed.Add(1)
	if riskLevel == "alto" {
		predictionsHighRisk.Add(1)
	}
}

func ObserveFailure(unavailable bool) {
	predictionsFailed.Add(1)
	if unavailable {
		predictionsUnavailable.Add(1)
	}
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP noshow_predictions_served_total Number of predictions served since process start.\n")
	fmt.Fprintf(w, "# TYPE noshow_predictions_served_total counter\n")
	fmt.Fprintf(w, "noshow_predictions_served_total %d\n", predictionsServed.Load())

	fmt.Fprintf(w, "# HELP noshow_predictions_failed_total Number of prediction requests that returned an error contract.\n")
	fmt.Fprintf(w, "# TYPE noshow_predictions_failed_total counter\n")
	fmt.Fprintf(w, "noshow_predictions_failed_total %d\n", predictionsFailed.Load())

	fmt.Fprintf(w, "# HELP noshow_predictions_unavailable_total Number of requests rejected because the model artifact never loaded.\n")
	fmt.Fprintf(w, "# TYPE noshow_predictions_unavailable_total counter\n")
	fmt.Fprintf(w, "noshow_predictions_unavailable_total %d\n", predictionsUnavailable.Load())

	fmt.Fprintf(w, "# HELP noshow_predictions_high_risk_total Number of predictions classified alto.\n")
	fmt.Fprintf(w, "# TYPE noshow_predictions_high_risk_total counter\n")
	fmt.Fprintf(w, "noshow_predictions_high_risk_total %d\n", predictionsHighRisk.Load())
}
