package risk

import (
	"math"
	"testing"

	"reversa-be/pkg/lifecycle"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name           string
		amount         float64
		hasAttachments bool
		hasItems       bool
		want           int
	}{
		{name: "small amount bare", amount: 30, want: 10},
		{name: "band boundary 50", amount: 50, want: 10},
		{name: "band boundary 100", amount: 100, want: 20},
		{name: "band boundary 250", amount: 250, want: 35},
		{name: "band boundary 500", amount: 500, want: 50},
		{name: "band boundary 1000", amount: 1000, want: 65},
		{name: "band boundary 2500", amount: 2500, want: 80},
		{name: "above all bands", amount: 10000, want: 95},
		{name: "attachments deduct 15", amount: 500, hasAttachments: true, want: 35},
		{name: "items deduct 10", amount: 500, hasItems: true, want: 40},
		{name: "both deductions", amount: 500, hasAttachments: true, hasItems: true, want: 25},
		{name: "clamped at zero", amount: 10, hasAttachments: true, hasItems: true, want: 0},
		{name: "nan lands in top band", amount: math.NaN(), want: 95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.amount, tt.hasAttachments, tt.hasItems)
			if got != tt.want {
				t.Fatalf("Score(%v, %v, %v) = %d, want %d", tt.amount, tt.hasAttachments, tt.hasItems, got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Fatalf("score %d out of [0,100]", got)
			}
		})
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	first := Score(499.90, true, false)
	for i := 0; i < 50; i++ {
		if got := Score(499.90, true, false); got != first {
			t.Fatalf("same input produced %d then %d", first, got)
		}
	}
}

func TestEvaluate(t *testing.T) {
	ceiling := 300.0
	tests := []struct {
		name           string
		amount         float64
		hasAttachments bool
		hasItems       bool
		ceiling        *float64
		wantStatus     lifecycle.Status
		wantAuto       bool
	}{
		{
			name:           "low risk under ceiling auto approves",
			amount:         80,
			hasAttachments: true,
			ceiling:        &ceiling,
			wantStatus:     lifecycle.StatusApproved,
			wantAuto:       true,
		},
		{
			name:           "low risk over ceiling goes to manual",
			amount:         400,
			hasItems:       true,
			hasAttachments: true,
			ceiling:        &ceiling,
			wantStatus:     lifecycle.StatusNew,
		},
		{
			name:       "high score never auto approves",
			amount:     5000,
			ceiling:    &ceiling,
			wantStatus: lifecycle.StatusNew,
		},
		{
			name:           "nil ceiling uses default",
			amount:         90,
			hasAttachments: true,
			wantStatus:     lifecycle.StatusApproved,
			wantAuto:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.amount, tt.hasAttachments, tt.hasItems, tt.ceiling)
			if got.InitialStatus != tt.wantStatus {
				t.Fatalf("InitialStatus = %s, want %s (score %d)", got.InitialStatus, tt.wantStatus, got.Score)
			}
			if got.AutoApproved != tt.wantAuto {
				t.Fatalf("AutoApproved = %v, want %v", got.AutoApproved, tt.wantAuto)
			}
		})
	}
}
