package ggfx

import "testing"

func TestGate(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		ratios    []float64
		changes   []bool
		active    bool
	}{
		{"zero threshold any intersection", 0, []float64{0, 0.01, 1, 0}, []bool{false, true, false, true}, false},
		{"half threshold", 0.5, []float64{0.5, 0.51, 0.2}, []bool{false, true, true}, false},
		{"stays visible", 0, []float64{0.3, 0.6, 1}, []bool{true, false, false}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Gate{Threshold: tt.threshold}
			for i, r := range tt.ratios {
				if got := g.Update(r); got != tt.changes[i] {
					t.Errorf("Update(%v) changed = %v, want %v", r, got, tt.changes[i])
				}
			}
			if g.Active() != tt.active {
				t.Errorf("Active() = %v, want %v", g.Active(), tt.active)
			}
		})
	}
}
