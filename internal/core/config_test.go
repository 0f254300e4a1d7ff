package core

import (
	"testing"
	"time"
)

func TestRuntimeConfigNormalized(t *testing.T) {
	tests := []struct {
		name     string
		in       RuntimeConfig
		expected RuntimeConfig
	}{
		{"defaults untouched", DefaultConfig(), DefaultConfig()},
		{"zero rate", RuntimeConfig{ScreenW: 10, ScreenH: 5}, RuntimeConfig{ScreenW: 10, ScreenH: 5, TickRate: DefaultTickRate}},
		{"negative size", RuntimeConfig{ScreenW: -1, ScreenH: -3, TickRate: 30}, RuntimeConfig{TickRate: 30}},
		{"seed kept", RuntimeConfig{TickRate: -5, Seed: 42}, RuntimeConfig{TickRate: DefaultTickRate, Seed: 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalized(); got != tt.expected {
				t.Errorf("Normalized() = %+v, expected %+v", got, tt.expected)
			}
		})
	}
}

func TestRuntimeConfigTickInterval(t *testing.T) {
	tests := []struct {
		rate     int
		expected time.Duration
	}{
		{60, time.Second / 60},
		{30, time.Second / 30},
		{0, time.Second / DefaultTickRate},
	}

	for _, tt := range tests {
		cfg := RuntimeConfig{TickRate: tt.rate}
		if got := cfg.TickInterval(); got != tt.expected {
			t.Errorf("TickInterval() at %d = %v, expected %v", tt.rate, got, tt.expected)
		}
	}
}
