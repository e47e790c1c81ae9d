package history

import (
	"context"
	"testing"

	"github.com/noshow-ai/platform/pkg/common/models"
)

func TestEnrichKeepsCallerAggregates(t *testing.T) {
	store := NewStore(nil, nil, 0)
	record := &models.AppointmentRecord{
		PacienteID: "7",
		TotalCitas: 12,
	}

	// A record that already carries any aggregate is left untouched; the
	// caller's numbers win over the ledger.
	store.Enrich(context.Background(), record, "7")

	if record.TotalCitas != 12 {
		t.Fatalf("total_citas = %v, want untouched 12", record.TotalCitas)
	}
	if record.TotalNoShows != nil {
		t.Fatalf("total_no_shows = %v, want nil", record.TotalNoShows)
	}
}

func TestEnrichSkipsUnregisteredPatients(t *testing.T) {
	store := NewStore(nil, nil, 0)
	record := &models.AppointmentRecord{}

	store.Enrich(context.Background(), record, "")

	if record.TotalCitas != nil {
		t.Fatalf("unregistered record must stay empty, got %v", record.TotalCitas)
	}
}

func TestCacheKey(t *testing.T) {
	if got := cacheKey("42"); got != "history:42" {
		t.Fatalf("cacheKey = %q", got)
	}
}
