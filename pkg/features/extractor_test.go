package features

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/noshow-ai/platform/pkg/catalog"
	"github.com/noshow-ai/platform/pkg/common/models"
)

func testDefaults() Defaults {
	return Defaults{
		Age:              30,
		LeadTimeDays:     1,
		Price:            600,
		DurationMin:      30,
		CleanTotalVisits: 1,
	}
}

func testExtractor() *Extractor {
	clock := func() time.Time {
		return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	}
	return NewExtractor(catalog.DefaultCatalog(), testDefaults()).WithClock(clock)
}

func TestExtractUnregisteredCleanProfile(t *testing.T) {
	record := &models.AppointmentRecord{
		FechaConsulta: "2024-01-06T10:00:00Z",
	}

	set := testExtractor().Extract(record)
	if set.Registered {
		t.Fatal("record without paciente_id must be unregistered")
	}
	if set.PatientID != "" {
		t.Fatalf("unexpected patient id %q", set.PatientID)
	}
	if got := set.Values["precio_servicio"]; got != 600 {
		t.Fatalf("precio_servicio = %v, want fallback 600", got)
	}
	if got := set.Values["total_no_shows"]; got != 0 {
		t.Fatalf("total_no_shows = %v, want clean-profile 0", got)
	}
	if got := set.Values["pct_no_show_historico"]; got != 0 {
		t.Fatalf("pct_no_show_historico = %v, want clean-profile 0", got)
	}
	if got := set.Values["total_citas"]; got != 1 {
		t.Fatalf("total_citas = %v, want clean-profile 1", got)
	}
}

func TestExtractSaturdayIsLegacyWeekend(t *testing.T) {
	record := &models.AppointmentRecord{
		FechaConsulta: "2024-01-06T10:00:00Z", // Saturday
	}

	set := testExtractor().Extract(record)
	if got := set.Values["dow"]; got != 7 {
		t.Fatalf("dow = %v, want legacy 7", got)
	}
	if got := set.Values["is_weekend"]; got != 1 {
		t.Fatalf("is_weekend = %v, want 1", got)
	}
	if got := set.Values["hour"]; got != 10 {
		t.Fatalf("hour = %v, want 10", got)
	}
}

func TestExtractRegisteredUsesRecordAggregates(t *testing.T) {
	record := &models.AppointmentRecord{
		PacienteID:          float64(42),
		TotalCitas:          "10",
		TotalNoShows:        float64(4),
		PctNoShowHistorico:  "0.4",
		DiasDesdeUltimaCita: 15,
	}

	set := testExtractor().Extract(record)
	if !set.Registered {
		t.Fatal("record with paciente_id must be registered")
	}
	if set.PatientID != "42" {
		t.Fatalf("patient id = %q, want \"42\"", set.PatientID)
	}
	if got := set.Values["total_citas"]; got != 10 {
		t.Fatalf("total_citas = %v, want 10", got)
	}
	if got := set.Values["total_no_shows"]; got != 4 {
		t.Fatalf("total_no_shows = %v, want 4", got)
	}
	if got := set.Values["pct_no_show_historico"]; got != 0.4 {
		t.Fatalf("pct_no_show_historico = %v, want 0.4", got)
	}
}

func TestExtractPaidFlagExactMatch(t *testing.T) {
	cases := []struct {
		estado interface{}
		want   float64
	}{
		{"Pagado", 1},
		{"  Pagado  ", 1},
		{"pagado", 0},
		{"PAGADO", 0},
		{"Pendiente", 0},
		{nil, 0},
		{42, 0},
	}
	for _, tc := range cases {
		set := testExtractor().Extract(&models.AppointmentRecord{EstadoPago: tc.estado})
		if got := set.Values["paid_flag"]; got != tc.want {
			t.Errorf("paid_flag for %v = %v, want %v", tc.estado, got, tc.want)
		}
	}
}

func TestExtractNeverFailsOnMalformedInput(t *testing.T) {
	payload := `{
		"paciente_id": {"unexpected": "object"},
		"paciente_fecha_nacimiento": 12345,
		"paciente_genero": 7,
		"fecha_solicitud": "garbage",
		"fecha_consulta": "",
		"categoria_servicio": null,
		"precio_servicio": "not-a-price",
		"duracion": [],
		"estado_pago": false,
		"total_citas_historicas": "many"
	}`
	var record models.AppointmentRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	set := testExtractor().Extract(&record)
	if got := set.Values["edad"]; got != 30 {
		t.Fatalf("edad = %v, want default 30", got)
	}
	if got := set.Values["lead_time_days"]; got != 1 {
		t.Fatalf("lead_time_days = %v, want default 1", got)
	}
	if got := set.Values["precio_servicio"]; got != 600 {
		t.Fatalf("precio_servicio = %v, want default 600", got)
	}
	if got := set.Values["duration_min"]; got != 30 {
		t.Fatalf("duration_min = %v, want default 30", got)
	}
}

func TestVectorOrderIsFixed(t *testing.T) {
	set := testExtractor().Extract(&models.AppointmentRecord{
		FechaConsulta: "2024-01-06T10:00:00Z",
	})
	vector, err := set.Vector()
	if err != nil {
		t.Fatalf("vector: %v", err)
	}
	if len(vector) != len(Names) {
		t.Fatalf("vector length %d, want %d", len(vector), len(Names))
	}
	if Names[0] != "edad" || Names[4] != "dow" || Names[15] != "dias_desde_ultima_cita" {
		t.Fatalf("trained feature order changed: %v", Names)
	}
	if vector[4] != set.Values["dow"] {
		t.Fatalf("vector[4] = %v, want dow %v", vector[4], set.Values["dow"])
	}
}
