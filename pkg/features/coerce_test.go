package features

import "testing"

func TestSafeFloatNeverFails(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
		def   float64
		want  float64
	}{
		{"nil", nil, 600, 600},
		{"float", 12.5, 0, 12.5},
		{"int", 42, 0, 42},
		{"numeric string", " 99.5 ", 0, 99.5},
		{"blank string", "   ", 600, 600},
		{"garbage string", "abc", 600, 600},
		{"bool", true, 600, 600},
		{"object", map[string]interface{}{"a": 1}, 600, 600},
	}
	for _, tc := range cases {
		if got := SafeFloat(tc.value, tc.def); got != tc.want {
			t.Errorf("%s: SafeFloat(%v, %v) = %v, want %v", tc.name, tc.value, tc.def, got, tc.want)
		}
	}
}

func TestSafeIntTruncatesViaFloat(t *testing.T) {
	if got := SafeInt("3.9", 0); got != 3 {
		t.Fatalf("SafeInt(\"3.9\") = %d, want 3", got)
	}
	if got := SafeInt(7.99, 0); got != 7 {
		t.Fatalf("SafeInt(7.99) = %d, want 7", got)
	}
	if got := SafeInt(nil, 30); got != 30 {
		t.Fatalf("SafeInt(nil) = %d, want default 30", got)
	}
	if got := SafeInt("not a number", 30); got != 30 {
		t.Fatalf("SafeInt(garbage) = %d, want default 30", got)
	}
}

func TestTruthy(t *testing.T) {
	truthy := []interface{}{true, "penicilina", 1, 2.5, "0"}
	for _, v := range truthy {
		if !Truthy(v) {
			t.Errorf("Truthy(%v) = false, want true", v)
		}
	}
	falsy := []interface{}{nil, false, "", "   ", 0, 0.0}
	for _, v := range falsy {
		if Truthy(v) {
			t.Errorf("Truthy(%v) = true, want false", v)
		}
	}
}

func TestIDString(t *testing.T) {
	if got := idString(float64(42)); got != "42" {
		t.Fatalf("idString(42.0) = %q, want \"42\"", got)
	}
	if got := idString(" P-77 "); got != "P-77" {
		t.Fatalf("idString string = %q, want trimmed", got)
	}
	if got := idString(nil); got != "" {
		t.Fatalf("idString(nil) = %q, want empty", got)
	}
}
