package main

import (
	"errors"
	"strconv"
	"testing"
)

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		x, y    float64
		wantErr bool
	}{
		{"0.5,0.25", 0.5, 0.25, false},
		{" 10 , -3 ", 10, -3, false},
		{"0,0", 0, 0, false},
		{"1e2,2", 100, 2, false},
		{"", 0, 0, true},
		{"0.5", 0, 0, true},
		{"a,1", 0, 0, true},
		{"1,b", 0, 0, true},
		{"1,2,3", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			x, y, err := parsePoint(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePoint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if x != tt.x || y != tt.y {
				t.Errorf("parsePoint(%q) = %v, %v, want %v, %v", tt.in, x, y, tt.x, tt.y)
			}
		})
	}
}

func TestParsePointWrapsNumberError(t *testing.T) {
	_, _, err := parsePoint("x,1")
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Errorf("parsePoint error = %v, want %v", err, strconv.ErrSyntax)
	}
}
