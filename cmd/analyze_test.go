package cmd

import (
	"strings"
	"testing"
)

func TestFormatWeakTopics(t *testing.T) {
	lines := formatWeakTopics(map[string]float64{
		"algebra":      45.0,
		"geometry":     25.0,
		"trigonometry": 55.0,
	})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %v", len(lines), lines)
	}

	// Worst first, each line carrying its severity band.
	wants := []struct{ topic, severity string }{
		{"geometry", "critical"},
		{"algebra", "high"},
		{"trigonometry", "medium"},
	}
	for i, w := range wants {
		if !strings.HasPrefix(lines[i], w.topic) {
			t.Errorf("lines[%d] = %q, want topic %q first", i, lines[i], w.topic)
		}
		if !strings.Contains(lines[i], "("+w.severity+")") {
			t.Errorf("lines[%d] = %q, want severity %q", i, lines[i], w.severity)
		}
	}
}

func TestFormatWeakTopics_TiesAlphabetical(t *testing.T) {
	lines := formatWeakTopics(map[string]float64{
		"geometry": 40.0,
		"algebra":  40.0,
	})
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "algebra") || !strings.HasPrefix(lines[1], "geometry") {
		t.Errorf("tie should break alphabetically, got %v", lines)
	}
}
