package domain

import "fmt"

// Tier is a discrete risk category derived from a probability. Color is a
// hex display token; Emblem is only set by the monitoring policy.
type Tier struct {
	Label  string `json:"label"`
	Color  string `json:"color"`
	Emblem string `json:"emblem,omitempty"`
}

// TierMapper maps a probability in [0,1] to a Tier. Implementations are pure
// functions of the probability.
type TierMapper interface {
	Map(probability float64) Tier
}

// InteractiveTiers returns the 3-tier policy used by single-shot
// predictions: ≥0.7 High, ≥0.3 Moderate, else Low.
func InteractiveTiers() TierMapper { return threeTierMapper{} }

// MonitoringTiers returns the 5-tier policy used by the live monitoring
// feed. Boundaries use `< bound` semantics, so a probability exactly on a
// boundary resolves to the higher tier.
func MonitoringTiers() TierMapper { return fiveTierMapper{} }

type threeTierMapper struct{}

func (threeTierMapper) Map(p float64) Tier {
	switch {
	case p >= 0.7:
		return Tier{Label: "High", Color: "#dc3545"}
	case p >= 0.3:
		return Tier{Label: "Moderate", Color: "#ffc107"}
	default:
		return Tier{Label: "Low", Color: "#28a745"}
	}
}

type fiveTierMapper struct{}

func (fiveTierMapper) Map(p float64) Tier {
	switch {
	case p < 0.2:
		return Tier{Label: "Very Low", Color: "#10b981", Emblem: "🟢"}
	case p < 0.4:
		return Tier{Label: "Low", Color: "#84cc16", Emblem: "🟢"}
	case p < 0.6:
		return Tier{Label: "Moderate", Color: "#f59e0b", Emblem: "🟡"}
	case p < 0.8:
		return Tier{Label: "High", Color: "#f97316", Emblem: "🟠"}
	default:
		return Tier{Label: "Very High", Color: "#ef4444", Emblem: "🔴"}
	}
}

// RiskFactors returns ordered human-readable descriptions of the qualitative
// rules an event triggers. The list is empty when no rule fires.
func RiskFactors(e RawEvent) []string {
	var factors []string
	if e.Magnitude >= 7.5 {
		factors = append(factors, fmt.Sprintf("very high magnitude (%.1f >= 7.5)", e.Magnitude))
	}
	if e.DepthKM < 70 {
		factors = append(factors, fmt.Sprintf("shallow epicenter (%.1f km < 70 km)", e.DepthKM))
	}
	if OceanProximity(e.Latitude, e.Longitude) {
		factors = append(factors, "epicenter inside an oceanic risk basin")
	}
	if e.MMI >= 6 {
		factors = append(factors, fmt.Sprintf("high perceived intensity (MMI %.1f >= 6)", e.MMI))
	}
	return factors
}
