package catalog

import "testing"

func TestEncodeGenderDefaultsToFemale(t *testing.T) {
	cat := DefaultCatalog()
	if got := cat.EncodeGender("Masculino"); got != 1 {
		t.Fatalf("Masculino = %d, want 1", got)
	}
	if got := cat.EncodeGender("  FEMENINO "); got != 0 {
		t.Fatalf("FEMENINO = %d, want 0", got)
	}
	// Unknown and absent values take the female code: a documented bias
	// of the trained table, not an accident.
	if got := cat.EncodeGender(""); got != 0 {
		t.Fatalf("empty = %d, want 0", got)
	}
	if got := cat.EncodeGender("otro"); got != 0 {
		t.Fatalf("unknown = %d, want 0", got)
	}
}

func TestEncodeServiceCategoryAccentInsensitive(t *testing.T) {
	cat := DefaultCatalog()
	if got := cat.EncodeServiceCategory("Cirugía"); got != 0 {
		t.Fatalf("Cirugía = %d, want 0", got)
	}
	if got := cat.EncodeServiceCategory("cirugia"); got != 0 {
		t.Fatalf("cirugia = %d, want 0", got)
	}
	if got := cat.EncodeServiceCategory("ORTODONCIA"); got != 6 {
		t.Fatalf("ORTODONCIA = %d, want 6", got)
	}
	if got := cat.EncodeServiceCategory("Implantología"); got != 5 {
		t.Fatalf("Implantología = %d, want 5", got)
	}
	// Unmapped categories fall back to the general-consultation code.
	if got := cat.EncodeServiceCategory("algo raro"); got != 3 {
		t.Fatalf("unmapped = %d, want general 3", got)
	}
	if got := cat.EncodeServiceCategory(""); got != 3 {
		t.Fatalf("empty = %d, want general 3", got)
	}
}

func TestNormalizeStripsDiacritics(t *testing.T) {
	if got := Normalize("  Implantología "); got != "implantologia" {
		t.Fatalf("Normalize = %q, want implantologia", got)
	}
}
