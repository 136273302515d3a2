// Package risk derives the composite regulatory risk score and its
// Baixo/Médio/Alto band for every record of the fact table.
package risk

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/seres-labs/regdash/internal/config"
)

// Band labels, in ascending severity.
const (
	BandLow    = "Baixo"
	BandMedium = "Médio"
	BandHigh   = "Alto"
)

// Bands lists the labels in ascending severity, for filter population.
var Bands = []string{BandLow, BandMedium, BandHigh}

// DefaultConfig returns the stock scoring configuration.
func DefaultConfig() config.RiskConfig {
	return config.RiskConfig{
		// Time-in-process thresholds (days).
		WarnDays:     365,
		CriticalDays: 730,

		// Points per time bucket; applied independently to both the
		// tramitation-time and the open-time signals.
		TimeShortPoints:    10,
		TimeMediumPoints:   25,
		TimeCriticalPoints: 40,

		// Divergence flags.
		AddressDivergencePoints: 12,
		SeatDivergencePoints:    12,
		RemoteSeatPoints:        6,

		// Criticality substrings matched against the uppercased
		// act/category/phase text. Every match contributes.
		KeywordPoints: map[string]float64{
			"CREDENCI": 10,
			"AUTORIZ":  10,
			"PORTARIA": 8,
			"GABINETE": 8,
			"MINISTRO": 6,
		},

		// Band edges: score <= LowMax is Baixo, <= MediumMax is Médio.
		LowMax:    33,
		MediumMax: 66,
	}
}

// ValidateConfig checks that a RiskConfig is internally consistent.
func ValidateConfig(c config.RiskConfig) error {
	var errs []string

	points := map[string]float64{
		"time_short_points":         c.TimeShortPoints,
		"time_medium_points":        c.TimeMediumPoints,
		"time_critical_points":      c.TimeCriticalPoints,
		"address_divergence_points": c.AddressDivergencePoints,
		"seat_divergence_points":    c.SeatDivergencePoints,
		"remote_seat_points":        c.RemoteSeatPoints,
	}
	for name, p := range points {
		if p < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}
	for kw, p := range c.KeywordPoints {
		if p < 0 {
			errs = append(errs, fmt.Sprintf("keyword_points[%s] must be >= 0", kw))
		}
	}

	if c.WarnDays < 0 {
		errs = append(errs, "warn_days must be >= 0")
	}
	if c.CriticalDays <= c.WarnDays {
		errs = append(errs, "critical_days must be > warn_days")
	}

	if c.LowMax < 0 || c.LowMax > 100 {
		errs = append(errs, "low_max must be between 0 and 100")
	}
	if c.MediumMax <= c.LowMax || c.MediumMax > 100 {
		errs = append(errs, "medium_max must be > low_max and <= 100")
	}

	if len(errs) > 0 {
		return eris.Errorf("risk: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
