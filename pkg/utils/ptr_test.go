package utils

import "testing"

func TestPtrAndDeref(t *testing.T) {
	p := Ptr("recordings")
	if p == nil || *p != "recordings" {
		t.Fatalf("expected pointer to value, got %v", p)
	}
	if got := Deref(p); got != "recordings" {
		t.Errorf("expected recordings, got %s", got)
	}

	var nilStr *string
	if got := Deref(nilStr); got != "" {
		t.Errorf("expected empty string for nil pointer, got %q", got)
	}
	var nilInt *int64
	if got := Deref(nilInt); got != 0 {
		t.Errorf("expected 0 for nil pointer, got %d", got)
	}
}
