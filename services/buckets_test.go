package services

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBucketIndexHalfOpen(t *testing.T) {
	scheme := DefaultSchemes().Spending

	tests := []struct {
		value float64
		want  int
	}{
		{0, 0},
		{24.99, 0},
		{25.00, 1}, // boundary values fall right
		{49.99, 1},
		{50.00, 2},
		{99.99, 3},
		{100.00, 4},
		{12345.67, 4}, // final band is open-ended
		{-5, -1},
	}

	for _, tt := range tests {
		if got := scheme.Index(tt.value); got != tt.want {
			t.Errorf("Index(%.2f) = %d; want %d", tt.value, got, tt.want)
		}
	}
}

func TestDefaultSchemesShape(t *testing.T) {
	schemes := DefaultSchemes()
	if len(schemes.Spending.Buckets) != 5 {
		t.Errorf("spending bands: got %d, want 5", len(schemes.Spending.Buckets))
	}
	if len(schemes.Age.Buckets) != 7 {
		t.Errorf("age bands: got %d, want 7", len(schemes.Age.Buckets))
	}
	if got := schemes.Spending.Buckets[4].Label; got != "Oltre € 100,00" {
		t.Errorf("last spending label: got %q", got)
	}
}

func TestLoadSchemesEmptyPathReturnsDefaults(t *testing.T) {
	schemes, err := LoadSchemes("")
	if err != nil {
		t.Fatalf("LoadSchemes(\"\") returned error: %v", err)
	}
	if len(schemes.Spending.Buckets) != 5 || len(schemes.Age.Buckets) != 7 {
		t.Error("empty path should return the built-in schemes")
	}
}

func TestLoadSchemesOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buckets.yaml")
	yaml := `schemes:
  - name: spending
    buckets:
      - lower: 0
        label: "Fino a € 49,99"
      - lower: 50
        label: "Oltre € 50,00"
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	schemes, err := LoadSchemes(path)
	if err != nil {
		t.Fatalf("LoadSchemes returned error: %v", err)
	}
	if len(schemes.Spending.Buckets) != 2 {
		t.Fatalf("override ignored: got %d bands", len(schemes.Spending.Buckets))
	}
	if len(schemes.Age.Buckets) != 7 {
		t.Error("age scheme should keep its default")
	}
	if got := schemes.Spending.Index(75); got != 1 {
		t.Errorf("Index(75) with override = %d; want 1", got)
	}
}

func TestLoadSchemesRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown scheme", "schemes:\n  - name: provinces\n    buckets:\n      - lower: 0\n        label: x\n"},
		{"no bands", "schemes:\n  - name: spending\n    buckets: []\n"},
		{"non-ascending", "schemes:\n  - name: age\n    buckets:\n      - lower: 10\n        label: a\n      - lower: 5\n        label: b\n"},
	}

	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), "buckets.yaml")
		if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadSchemes(path); err == nil {
			t.Errorf("%s: expected error, got none", tt.name)
		}
	}
}
