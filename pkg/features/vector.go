package features

import "fmt"

// Names is the trained feature order. The persisted model artifact indexes
// its coefficients by position, so reordering or renaming entries silently
// corrupts every prediction; the model gateway cross-checks this list
// against the artifact's own feature_names at load.
var Names = []string{
	"edad",
	"genero",
	"alergias_flag",
	"lead_time_days",
	"dow",
	"hour",
	"is_weekend",
	"categoria_servicio",
	"precio_servicio",
	"duration_min",
	"paid_flag",
	"tratamiento_pendiente",
	"total_citas",
	"total_no_shows",
	"pct_no_show_historico",
	"dias_desde_ultima_cita",
}

// Set is one extracted record: the named feature values plus the context
// the calibration and explanation stages need alongside the raw vector.
type Set struct {
	Values     map[string]float64
	PatientID  string
	Registered bool
}

// Vector returns the values in trained order.
func (s Set) Vector() ([]float64, error) {
	vector := make([]float64, len(Names))
	for i, name := range Names {
		value, ok := s.Values[name]
		if !ok {
			return nil, fmt.Errorf("feature %s missing from extracted set", name)
		}
		vector[i] = value
	}
	return vector, nil
}
