package predictor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bobmcallan/aurum/internal/common"
)

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func TestLoadArtifact(t *testing.T) {
	path := writeArtifact(t, `{
		"feature_names": ["Open", "Prev_Price", "Price_Change", "7_day_avg"],
		"weights": [0.5, 0.3, 0.1, 0.1],
		"intercept": 100.0
	}`)

	m, err := LoadArtifact(path)
	if err != nil {
		t.Fatalf("LoadArtifact failed: %v", err)
	}

	// 100 + 0.5*1800 + 0.3*1795 + 0.1*5 + 0.1*1798
	features := Derive(1800, 1795, 1798)
	got, err := m.Predict(context.Background(), features)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	want := 100.0 + 0.5*1800 + 0.3*1795 + 0.1*5 + 0.1*1798
	if got != want {
		t.Errorf("Predict = %v, want %v", got, want)
	}
}

func TestLoadArtifactErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", `{not json`},
		{"wrong column order", `{
			"feature_names": ["Prev_Price", "Open", "Price_Change", "7_day_avg"],
			"weights": [0.5, 0.3, 0.1, 0.1],
			"intercept": 0
		}`},
		{"missing column", `{
			"feature_names": ["Open", "Prev_Price", "Price_Change"],
			"weights": [0.5, 0.3, 0.1],
			"intercept": 0
		}`},
		{"weight count mismatch", `{
			"feature_names": ["Open", "Prev_Price", "Price_Change", "7_day_avg"],
			"weights": [0.5, 0.3],
			"intercept": 0
		}`},
		{"renamed column", `{
			"feature_names": ["Open", "Prev_Price", "Price_Change", "avg_7_day"],
			"weights": [0.5, 0.3, 0.1, 0.1],
			"intercept": 0
		}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeArtifact(t, tt.content)
			_, err := LoadArtifact(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, common.ErrModelInvocation) {
				t.Errorf("error = %v, want ErrModelInvocation", err)
			}
		})
	}
}

func TestLoadArtifactMissingFile(t *testing.T) {
	_, err := LoadArtifact(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, common.ErrModelInvocation) {
		t.Errorf("error = %v, want ErrModelInvocation", err)
	}
}
