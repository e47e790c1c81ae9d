package models

import "time"

// AppointmentRecord is the raw payload sent by the scheduling application.
// Field names are the upstream (Spanish) wire names. Every field is
// optional and may arrive as the wrong JSON type — values are therefore
// held untyped and coerced at the extractor boundary, never here.
type AppointmentRecord struct {
	PacienteID           interface{} `json:"paciente_id,omitempty"`
	FechaNacimiento      interface{} `json:"paciente_fecha_nacimiento,omitempty"`
	Genero               interface{} `json:"paciente_genero,omitempty"`
	Alergias             interface{} `json:"paciente_alergias,omitempty"`
	FechaSolicitud       interface{} `json:"fecha_solicitud,omitempty"`
	FechaConsulta        interface{} `json:"fecha_consulta,omitempty"`
	CategoriaServicio    interface{} `json:"categoria_servicio,omitempty"`
	PrecioServicio       interface{} `json:"precio_servicio,omitempty"`
	Duracion             interface{} `json:"duracion,omitempty"`
	EstadoPago           interface{} `json:"estado_pago,omitempty"`
	TratamientoPendiente interface{} `json:"tratamiento_pendiente,omitempty"`
	TotalCitas           interface{} `json:"total_citas_historicas,omitempty"`
	TotalNoShows         interface{} `json:"total_no_shows_historicas,omitempty"`
	PctNoShowHistorico   interface{} `json:"pct_no_show_historico,omitempty"`
	DiasDesdeUltimaCita  interface{} `json:"dias_desde_ultima_cita,omitempty"`
}

// RiskFactor is one human-readable contributor to the predicted risk.
type RiskFactor struct {
	Factor string `json:"factor"`
	Impact string `json:"impact"`
	Value  string `json:"value"`
}

type Prediction struct {
	WillNoShow     bool         `json:"will_no_show"`
	Probability    float64      `json:"probability"`
	RawProbability float64      `json:"raw_probability"`
	RiskLevel      string       `json:"risk_level"`
	RiskFactors    []RiskFactor `json:"risk_factors"`
	ThresholdUsed  float64      `json:"threshold_used"`
}

// PredictionResponse is the single success contract written to the caller.
type PredictionResponse struct {
	Success    bool        `json:"success"`
	Prediction *Prediction `json:"prediction"`
	PatientID  string      `json:"patient_id,omitempty"`
}

// ErrorResponse is the single converged failure contract. Model
// unavailability, scoring faults and payload parse errors all use it.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	PatientID string `json:"patient_id,omitempty"`
}

// FeaturesResponse is the debug contract: the extracted feature mapping
// instead of a prediction, for integration testing against the trainer.
type FeaturesResponse struct {
	Success  bool               `json:"success"`
	Features map[string]float64 `json:"features"`
}

// PatientHistory holds the per-patient aggregates computed from the
// appointment ledger for registered patients.
type PatientHistory struct {
	PatientID           string  `json:"patient_id"`
	TotalCitas          int     `json:"total_citas"`
	TotalNoShows        int     `json:"total_no_shows"`
	PctNoShowHistorico  float64 `json:"pct_no_show_historico"`
	DiasDesdeUltimaCita int     `json:"dias_desde_ultima_cita"`
}

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // prediction.completed, prediction.high_risk
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}
