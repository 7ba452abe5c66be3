package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractiveTiers(t *testing.T) {
	mapper := InteractiveTiers()

	tests := []struct {
		name        string
		probability float64
		wantLabel   string
		wantColor   string
	}{
		{"zero", 0.0, "Low", "#28a745"},
		{"just below moderate", 0.2999, "Low", "#28a745"},
		{"moderate boundary", 0.3, "Moderate", "#ffc107"},
		{"just below high", 0.6999, "Moderate", "#ffc107"},
		{"high boundary", 0.7, "High", "#dc3545"},
		{"certainty", 1.0, "High", "#dc3545"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := mapper.Map(tt.probability)
			assert.Equal(t, tt.wantLabel, tier.Label)
			assert.Equal(t, tt.wantColor, tier.Color)
			assert.Empty(t, tier.Emblem)
		})
	}
}

func TestMonitoringTiers(t *testing.T) {
	mapper := MonitoringTiers()

	tests := []struct {
		name        string
		probability float64
		wantLabel   string
		wantEmblem  string
	}{
		{"zero", 0.0, "Very Low", "🟢"},
		{"just below first boundary", 0.1999, "Very Low", "🟢"},
		{"boundary resolves to higher tier", 0.2, "Low", "🟢"},
		{"low band", 0.39, "Low", "🟢"},
		{"moderate boundary", 0.4, "Moderate", "🟡"},
		{"high boundary", 0.6, "High", "🟠"},
		{"very high boundary", 0.8, "Very High", "🔴"},
		{"certainty", 1.0, "Very High", "🔴"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := mapper.Map(tt.probability)
			assert.Equal(t, tt.wantLabel, tier.Label)
			assert.Equal(t, tt.wantEmblem, tier.Emblem)
		})
	}

	t.Run("partitions the unit interval", func(t *testing.T) {
		labels := map[string]bool{}
		for p := 0.0; p <= 1.0; p += 0.001 {
			tier := mapper.Map(p)
			require.NotEmpty(t, tier.Label)
			require.NotEmpty(t, tier.Color)
			labels[tier.Label] = true
		}
		assert.Len(t, labels, 5)
	})
}

func TestRiskFactors(t *testing.T) {
	t.Run("all rules firing, fixed order", func(t *testing.T) {
		e := RawEvent{
			Magnitude: 9.1,
			DepthKM:   29.0,
			Latitude:  38.322,
			Longitude: 142.369,
			MMI:       8.1,
		}

		factors := RiskFactors(e)

		require.Len(t, factors, 4)
		assert.Contains(t, factors[0], "very high magnitude")
		assert.Contains(t, factors[1], "shallow epicenter")
		assert.Contains(t, factors[2], "oceanic risk basin")
		assert.Contains(t, factors[3], "high perceived intensity")
	})

	t.Run("no rule firing", func(t *testing.T) {
		e := RawEvent{
			Magnitude: 4.0,
			DepthKM:   400,
			Latitude:  48.0,
			Longitude: 10.0,
			MMI:       3.0,
		}

		assert.Empty(t, RiskFactors(e))
	})

	t.Run("rule thresholds", func(t *testing.T) {
		e := RawEvent{
			Magnitude: 7.5,
			DepthKM:   70,
			Latitude:  48.0,
			Longitude: 10.0,
			MMI:       6.0,
		}

		factors := RiskFactors(e)

		require.Len(t, factors, 2)
		assert.Contains(t, factors[0], "very high magnitude")
		assert.Contains(t, factors[1], "high perceived intensity")
	})
}
