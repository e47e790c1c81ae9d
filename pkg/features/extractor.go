package features

import (
	"time"

	"github.com/noshow-ai/platform/pkg/catalog"
	"github.com/noshow-ai/platform/pkg/common/config"
	"github.com/noshow-ai/platform/pkg/common/models"
)

// PaidStatus is the only estado_pago value that sets paid_flag. The match
// is exact after trimming; "pagado" and "PAGADO" are distinct upstream
// states and stay unpaid.
const PaidStatus = "Pagado"

// Defaults are the substitution values for absent or malformed fields.
type Defaults struct {
	Age                int
	LeadTimeDays       int
	Price              float64
	DurationMin        int
	CleanTotalVisits   int
	CleanNoShows       int
	CleanNoShowRate    float64
	CleanDaysSinceLast int
}

func DefaultsFromConfig(cfg *config.Config) Defaults {
	return Defaults{
		Age:                cfg.DefaultAge,
		LeadTimeDays:       cfg.DefaultLeadTime,
		Price:              cfg.DefaultPrice,
		DurationMin:        cfg.DefaultDuration,
		CleanTotalVisits:   cfg.CleanTotalVisits,
		CleanNoShows:       cfg.CleanNoShows,
		CleanNoShowRate:    cfg.CleanNoShowRate,
		CleanDaysSinceLast: cfg.CleanDaysSinceLast,
	}
}

// Extractor turns a raw appointment record into the fixed-order feature
// set. It is pure: no I/O, deterministic for a given record, defaults and
// clock.
type Extractor struct {
	catalog  catalog.Catalog
	defaults Defaults
	now      func() time.Time
}

func NewExtractor(cat catalog.Catalog, defaults Defaults) *Extractor {
	return &Extractor{catalog: cat, defaults: defaults, now: time.Now}
}

// WithClock pins the extractor's clock, for reproducing trainer output.
func (e *Extractor) WithClock(now func() time.Time) *Extractor {
	e.now = now
	return e
}

// Extract never fails: malformed and missing fields are defaulted, by
// design. Unregistered patients (no paciente_id) get clean-profile
// history defaults instead of raw zeros so the model does not read "no
// history" as "always absent".
func (e *Extractor) Extract(record *models.AppointmentRecord) Set {
	now := e.now()

	consult, ok := ParseTimestamp(record.FechaConsulta)
	if !ok {
		consult = now
	}

	patientID := idString(record.PacienteID)
	registered := patientID != ""
	dow := LegacyDayOfWeek(consult)

	values := map[string]float64{
		"edad":                  float64(Age(record.FechaNacimiento, now, e.defaults.Age)),
		"genero":                float64(e.catalog.EncodeGender(asString(record.Genero))),
		"alergias_flag":         flag(Truthy(record.Alergias)),
		"lead_time_days":        float64(LeadTime(record.FechaSolicitud, record.FechaConsulta, e.defaults.LeadTimeDays)),
		"dow":                   float64(dow),
		"hour":                  float64(consult.Hour()),
		"is_weekend":            flag(IsWeekend(dow)),
		"categoria_servicio":    float64(e.catalog.EncodeServiceCategory(asString(record.CategoriaServicio))),
		"precio_servicio":       SafeFloat(record.PrecioServicio, e.defaults.Price),
		"duration_min":          float64(SafeInt(record.Duracion, e.defaults.DurationMin)),
		"paid_flag":             flag(asString(record.EstadoPago) == PaidStatus),
		"tratamiento_pendiente": flag(Truthy(record.TratamientoPendiente)),
	}

	if registered {
		values["total_citas"] = float64(SafeInt(record.TotalCitas, 0))
		values["total_no_shows"] = float64(SafeInt(record.TotalNoShows, 0))
		values["pct_no_show_historico"] = SafeFloat(record.PctNoShowHistorico, 0)
		values["dias_desde_ultima_cita"] = float64(SafeInt(record.DiasDesdeUltimaCita, 0))
	} else {
		values["total_citas"] = float64(e.defaults.CleanTotalVisits)
		values["total_no_shows"] = float64(e.defaults.CleanNoShows)
		values["pct_no_show_historico"] = e.defaults.CleanNoShowRate
		values["dias_desde_ultima_cita"] = float64(e.defaults.CleanDaysSinceLast)
	}

	return Set{Values: values, PatientID: patientID, Registered: registered}
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
